package dto

import (
	"salon/internal/domains/catalog/model"
	roomDto "salon/internal/domains/room/model/dto"
	"salon/shared"
	gModel "salon/shared/model"
	"time"
)

type ServiceResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Duration    string  `json:"duration"`
}

func (r *ServiceResponse) FromModel(model model.Service) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Price = model.Price
	r.Duration = gModel.TimeOfDay(time.Duration(model.DurationMinutes) * time.Minute).String()
}

type ProviderUser struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ProviderResponse is a provider with the rooms and services it is linked to.
type ProviderResponse struct {
	ID       string                 `json:"id"`
	User     ProviderUser           `json:"user"`
	Phone    string                 `json:"phone_number"`
	Position string                 `json:"position"`
	Rooms    []roomDto.RoomResponse `json:"halls"`
	Services []ServiceResponse      `json:"services"`
}

func (r *ProviderResponse) FromModel(model model.Provider) {
	r.ID = model.ID
	r.User = ProviderUser{
		Username:  model.Username,
		Email:     model.Email,
		FirstName: model.FirstName,
		LastName:  model.LastName,
	}
	r.Phone = model.Phone
	r.Position = model.Position
	r.Rooms = []roomDto.RoomResponse{}
	r.Services = []ServiceResponse{}
}

type GetServicesResponse struct {
	Services  []ServiceResponse `json:"services"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetServicesResponse) FromModels(models []model.Service, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Services = make([]ServiceResponse, len(models))
	for i, mod := range models {
		r.Services[i].FromModel(mod)
	}
}

type GetProvidersResponse struct {
	Providers []ProviderResponse `json:"providers"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}
