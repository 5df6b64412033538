package model

import (
	"salon/internal/domains/reservation/slot"
	"salon/shared/model"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldLocation    = "location"
	FieldCapacity    = "capacity"
	FieldStartTime   = "start_time"
	FieldEndTime     = "end_time"
)

// Room is a shared space with a fixed number of seats and daily operating hours.
type Room struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Location    string          `db:"location"`
	Capacity    int             `db:"capacity"`
	StartTime   model.TimeOfDay `db:"start_time"`
	EndTime     model.TimeOfDay `db:"end_time"`
	model.Metadata
}

// Window returns the operating hours as slot offsets.
func (r Room) Window() slot.Window {
	return slot.Window{Start: r.StartTime.Duration(), End: r.EndTime.Duration()}
}
