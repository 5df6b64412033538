package router

import (
	"salon/internal/handlers/catalog"
	"salon/internal/handlers/client"
	"salon/internal/handlers/reservation"
	"salon/internal/handlers/room"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Catalog     catalog.Handler
	Room        room.Handler
	Reservation reservation.Handler
	Client      client.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Catalog.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Client.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
