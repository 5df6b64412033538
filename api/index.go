// Package handler is the serverless entry point: the platform calls Handler per request.
package handler

import (
	"net/http"
	"salon/config"
	"salon/di"
	"salon/shared/logger"
	"sync"
)

// service is wired on the first request and reused while the instance stays warm.
var service = sync.OnceValue(func() http.Handler {
	cfg := config.Get()

	logger.InitLogger(cfg)
	logger.SetLogLevel(cfg)

	return di.InitializeService()
})

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	service().ServeHTTP(w, r)
}
