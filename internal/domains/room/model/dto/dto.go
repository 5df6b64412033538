package dto

import (
	"salon/internal/domains/room/model"
	"salon/shared"
	gDto "salon/shared/dto"
)

type RoomResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity"`
	Location    string `json:"location"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Capacity = model.Capacity
	r.Location = model.Location
	r.StartTime = model.StartTime.String()
	r.EndTime = model.EndTime.String()
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
