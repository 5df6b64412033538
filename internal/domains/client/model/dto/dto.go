package dto

import (
	"salon/internal/domains/client/model"
	userModel "salon/internal/domains/user/model"
	userDto "salon/internal/domains/user/model/dto"
	"salon/shared/constant"
	"salon/shared/failure"
	gModel "salon/shared/model"
	"salon/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type RegisterUserRequest struct {
	Username  string `json:"username"   validate:"required,min=3,max=150"`
	Email     string `json:"email"      validate:"required,email,max=254"`
	FirstName string `json:"first_name" validate:"omitempty,max=150"`
	LastName  string `json:"last_name"  validate:"omitempty,max=150"`
	Password  string `json:"password"   validate:"required,min=8,max=72"`
	Password2 string `json:"password2"  validate:"required,eqfield=Password"`
}

// RegisterClientRequest creates the identity and the client profile together.
type RegisterClientRequest struct {
	User        RegisterUserRequest `json:"user"          validate:"required"`
	PhoneNumber string              `json:"phone_number"  validate:"required,max=20"`
	DateOfBirth *string             `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      *string             `json:"gender"        validate:"omitempty,oneof=male female"`
}

func (r RegisterClientRequest) ToUserModel(hashedPassword string, at time.Time) userModel.User {
	return userModel.User{
		ID:        uuid.NewString(),
		Username:  r.User.Username,
		Email:     r.User.Email,
		FirstName: r.User.FirstName,
		LastName:  r.User.LastName,
		Password:  hashedPassword,
		Role:      constant.RoleClient,
		Metadata:  gModel.NewMetadata(constant.ContextGuest, at),
	}
}

func (r RegisterClientRequest) ToModel(userID string, at time.Time) (model.Client, error) {
	client := model.Client{
		ID:       uuid.NewString(),
		UserID:   userID,
		Phone:    r.PhoneNumber,
		Gender:   r.Gender,
		Metadata: gModel.NewMetadata(userID, at),
	}

	if r.DateOfBirth != nil {
		dob, err := parseDateOfBirth(*r.DateOfBirth)
		if err != nil {
			return client, err
		}

		client.DateOfBirth = &dob
	}

	return client, nil
}

type ClientResponse struct {
	ID          string               `json:"id"`
	User        userDto.UserResponse `json:"user"`
	PhoneNumber string               `json:"phone_number"`
	DateOfBirth *string              `json:"date_of_birth"`
	Gender      *string              `json:"gender"`
}

func (r *ClientResponse) FromModel(client model.Client, user userModel.User) {
	r.ID = client.ID
	r.User.FromModel(user)
	r.PhoneNumber = client.Phone
	r.Gender = client.Gender
	r.DateOfBirth = nil

	if client.DateOfBirth != nil {
		dob := client.DateOfBirth.Format(constant.DayFormat)
		r.DateOfBirth = &dob
	}
}

// UpdateClientRequest is the typed profile patch. Nil fields are left untouched.
type UpdateClientRequest struct {
	User        *userDto.UpdateUserRequest `json:"user"          validate:"omitempty"`
	PhoneNumber *string                    `json:"phone_number"  validate:"omitempty,max=20"`
	DateOfBirth *string                    `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      *string                    `json:"gender"        validate:"omitempty,oneof=male female"`
}

func (r UpdateClientRequest) Empty() bool {
	return (r.User == nil || r.User.Empty()) && r.PhoneNumber == nil && r.DateOfBirth == nil && r.Gender == nil
}

// Changes maps the client fields of the patch onto their columns.
func (r UpdateClientRequest) Changes() (map[string]any, error) {
	changes := map[string]any{}

	if r.PhoneNumber != nil {
		changes[model.FieldPhone] = *r.PhoneNumber
	}

	if r.DateOfBirth != nil {
		dob, err := parseDateOfBirth(*r.DateOfBirth)
		if err != nil {
			return nil, err
		}

		changes[model.FieldDateOfBirth] = dob.Format(constant.DayFormat)
	}

	if r.Gender != nil {
		changes[model.FieldGender] = *r.Gender
	}

	return changes, nil
}

func parseDateOfBirth(value string) (time.Time, error) {
	dob, err := timezone.Parse(constant.DayFormat, value)
	if err != nil {
		return time.Time{}, failure.BadRequestFromString("date_of_birth must be YYYY-MM-DD") // nolint:wrapcheck
	}

	return dob, nil
}
