package model

import (
	"salon/shared/model"
	"time"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID         = "id"
	FieldProviderID = "provider_id"
	FieldServiceID  = "service_id"
	FieldRoomID     = "room_id"
	FieldDate       = "reservation_date"
	FieldStartTime  = "start_time"
	FieldClientID   = "client_id"
	FieldStatus     = "status"
)

// Status values. A reservation only ever moves from scheduled to completed.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
)

type Reservation struct {
	ID         string          `db:"id"`
	ProviderID string          `db:"provider_id"`
	ServiceID  string          `db:"service_id"`
	RoomID     string          `db:"room_id"`
	Date       time.Time       `db:"reservation_date"`
	StartTime  model.TimeOfDay `db:"start_time"`
	ClientID   *string         `db:"client_id"`
	Status     string          `db:"status"`
	model.Metadata
}

// Scheduled reports whether the reservation has not elapsed yet.
func (r Reservation) Scheduled() bool {
	return r.Status == StatusScheduled
}

// Visit is a reservation joined with the provider and service it refers to.
type Visit struct {
	ID                string          `db:"id"`
	ClientID          *string         `db:"client_id"`
	Date              time.Time       `db:"reservation_date"`
	StartTime         model.TimeOfDay `db:"start_time"`
	Status            string          `db:"status"`
	ProviderFirstName string          `column:"first_name"   db:"provider_first_name" table:"users"`
	ProviderLastName  string          `column:"last_name"    db:"provider_last_name"  table:"users"`
	ProviderPhone     string          `column:"phone_number" db:"provider_phone"      table:"providers"`
	ServiceName       string          `column:"name"         db:"service_name"        table:"services"`
	ServicePrice      float64         `column:"price"        db:"service_price"       table:"services"`
}

func (Visit) GetJoinQuery() string {
	return "JOIN providers ON providers.id = reservations.provider_id " +
		"JOIN users ON users.id = providers.user_id " +
		"JOIN services ON services.id = reservations.service_id"
}
