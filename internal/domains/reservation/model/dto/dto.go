package dto

import (
	"salon/internal/domains/reservation/model"
	"salon/shared"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	gModel "salon/shared/model"
	"time"
)

// Actor is the caller on whose behalf a reservation is read or changed.
type Actor struct {
	UserID   string
	Role     string
	ClientID string
}

// IsClient reports whether the actor may only touch its own reservations.
func (a Actor) IsClient() bool {
	return a.Role == constant.RoleClient
}

// Owns reports whether the reservation belongs to the actor's client profile.
func (a Actor) Owns(reservation model.Reservation) bool {
	return reservation.ClientID != nil && a.ClientID != "" && *reservation.ClientID == a.ClientID
}

type CommitRequest struct {
	ProviderID string  `json:"provider_id" validate:"required,uuid"`
	ServiceID  string  `json:"service_id"  validate:"required,uuid"`
	Date       string  `json:"date"        validate:"required,datetime=2006-01-02"`
	StartTime  string  `json:"start_time"  validate:"required,timeofday"`
	ClientID   *string `json:"client_id"   validate:"omitempty,uuid"`
}

// UpdateReservationRequest is the typed patch for a reservation. The room is never set
// directly; it follows from the provider and service.
type UpdateReservationRequest struct {
	ProviderID *string `json:"provider_id" validate:"omitempty,uuid"`
	ServiceID  *string `json:"service_id"  validate:"omitempty,uuid"`
	Date       *string `json:"date"        validate:"omitempty,datetime=2006-01-02"`
	StartTime  *string `json:"start_time"  validate:"omitempty,timeofday"`
}

func (r UpdateReservationRequest) Empty() bool {
	return r.ProviderID == nil && r.ServiceID == nil && r.Date == nil && r.StartTime == nil
}

// Target is the slot a reservation should occupy after a patch is applied.
type Target struct {
	ProviderID string
	ServiceID  string
	Date       time.Time
	StartTime  gModel.TimeOfDay
}

type ReservationResponse struct {
	ID         string  `json:"id"`
	ProviderID string  `json:"provider_id"`
	ServiceID  string  `json:"service_id"`
	RoomID     string  `json:"room_id"`
	Date       string  `json:"date"`
	StartTime  string  `json:"start_time"`
	ClientID   *string `json:"client_id"`
	Status     string  `json:"status"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.ProviderID = model.ProviderID
	r.ServiceID = model.ServiceID
	r.RoomID = model.RoomID
	r.Date = model.Date.Format(constant.DayFormat)
	r.StartTime = model.StartTime.String()
	r.ClientID = model.ClientID
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

// VisitResponse is the history row shown to clients.
type VisitResponse struct {
	ID            string  `json:"id"`
	ProviderName  string  `json:"employee_name"`
	ProviderPhone string  `json:"employee_phone"`
	ServiceName   string  `json:"service_name"`
	ServicePrice  float64 `json:"service_price"`
	DateTime      string  `json:"date_time"`
	Status        string  `json:"status"`
}

func (r *VisitResponse) FromModel(visit model.Visit) {
	r.ID = visit.ID
	r.ProviderName = joinName(visit.ProviderFirstName, visit.ProviderLastName)
	r.ProviderPhone = visit.ProviderPhone
	r.ServiceName = visit.ServiceName
	r.ServicePrice = visit.ServicePrice
	r.DateTime = visit.Date.Format(constant.DayFormat) + " " + visit.StartTime.String()
	r.Status = visit.Status
}

type GetVisitsResponse struct {
	Visits    []VisitResponse `json:"visits"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetVisitsResponse) FromModels(models []model.Visit, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Visits = make([]VisitResponse, len(models))
	for i, mod := range models {
		r.Visits[i].FromModel(mod)
	}
}

// AvailabilityResponse lists the open start times of a day.
type AvailabilityResponse struct {
	ProviderID string   `json:"provider_id"`
	ServiceID  string   `json:"service_id"`
	RoomID     string   `json:"room_id"`
	Date       string   `json:"date"`
	Slots      []string `json:"slots"`
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
