package model

import (
	"salon/shared/model"
	"strings"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldUsername  = "username"
	FieldEmail     = "email"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldPassword  = "password"
	FieldRole      = "role"
)

// User is the base identity both clients and providers hang off.
type User struct {
	ID        string `db:"id"`
	Username  string `db:"username"`
	Email     string `db:"email"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Password  string `db:"password"`
	Role      string `db:"role"`
	model.Metadata
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
