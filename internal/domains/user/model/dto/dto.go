package dto

import (
	"salon/internal/domains/user/model"
)

type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r *UserResponse) FromModel(user model.User) {
	r.ID = user.ID
	r.Username = user.Username
	r.Email = user.Email
	r.FirstName = user.FirstName
	r.LastName = user.LastName
}

// UpdateUserRequest lists the identity fields a profile owner may change.
type UpdateUserRequest struct {
	Username  *string `json:"username"   validate:"omitempty,min=3,max=150"`
	Email     *string `json:"email"      validate:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=150"`
}

func (r UpdateUserRequest) Empty() bool {
	return r.Username == nil && r.Email == nil && r.FirstName == nil && r.LastName == nil
}

// Changes maps the set fields onto their columns.
func (r UpdateUserRequest) Changes() map[string]any {
	changes := map[string]any{}

	if r.Username != nil {
		changes[model.FieldUsername] = *r.Username
	}

	if r.Email != nil {
		changes[model.FieldEmail] = *r.Email
	}

	if r.FirstName != nil {
		changes[model.FieldFirstName] = *r.FirstName
	}

	if r.LastName != nil {
		changes[model.FieldLastName] = *r.LastName
	}

	return changes
}
