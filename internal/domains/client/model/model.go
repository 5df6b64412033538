package model

import (
	"salon/shared/model"
	"time"
)

const (
	TableName  = "clients"
	EntityName = "client"

	FieldID          = "id"
	FieldUserID      = "user_id"
	FieldPhone       = "phone_number"
	FieldDateOfBirth = "date_of_birth"
	FieldGender      = "gender"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Client is the booking profile layered over a user.
type Client struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	Phone       string     `db:"phone_number"`
	DateOfBirth *time.Time `db:"date_of_birth"`
	Gender      *string    `db:"gender"`
	model.Metadata
}
