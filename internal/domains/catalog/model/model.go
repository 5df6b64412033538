package model

import (
	"salon/shared/model"
	"strings"
	"time"
)

const (
	ProviderTableName  = "providers"
	ProviderEntityName = "provider"

	ServiceTableName  = "services"
	ServiceEntityName = "service"

	LinkTableName  = "provider_room_services"
	LinkEntityName = "provider_room_service"

	FieldID         = "id"
	FieldUserID     = "user_id"
	FieldProviderID = "provider_id"
	FieldServiceID  = "service_id"
	FieldRoomID     = "room_id"
	FieldName       = "name"
)

// Provider is a staff member performing services. Identity columns come from users.
type Provider struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	Phone     string `db:"phone_number"`
	Position  string `db:"position"`
	Username  string `db:"username"   table:"users"`
	Email     string `db:"email"      table:"users"`
	FirstName string `db:"first_name" table:"users"`
	LastName  string `db:"last_name"  table:"users"`
	model.Metadata
}

func (Provider) GetJoinQuery() string {
	return "JOIN users ON users.id = providers.user_id"
}

func (p Provider) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Service is a bookable treatment with a fixed length.
type Service struct {
	ID              string  `db:"id"`
	Name            string  `db:"name"`
	Description     string  `db:"description"`
	Price           float64 `db:"price"`
	DurationMinutes int     `db:"duration_minutes"`
	model.Metadata
}

func (s Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// ProviderRoomService binds a (provider, service) pair to the one room where it is performed.
type ProviderRoomService struct {
	ID         string `db:"id"`
	ProviderID string `db:"provider_id"`
	ServiceID  string `db:"service_id"`
	RoomID     string `db:"room_id"`
}
