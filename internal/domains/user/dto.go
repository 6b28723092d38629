package user

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	MaxInterests      = 20
	MinPasswordLength = 6
)

type SignupRequest struct {
	FullName  string   `json:"full_name"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Role      Role     `json:"role"`
	Interests []string `json:"interests"`
}

func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName,
			validation.Required.Error("full name is required"),
			validation.Length(2, 100),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email format"),
			validation.Length(5, 255),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(MinPasswordLength, 128),
		),
		validation.Field(&r.Role,
			validation.Required.Error("role is required"),
			validation.In(RoleFounder, RoleAdopter).Error("role must be founder or adopter"),
		),
		validation.Field(&r.Interests, validation.Length(0, MaxInterests)),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("email is required")),
		validation.Field(&r.Password, validation.Required.Error("password is required")),
	)
}

type GoogleLoginRequest struct {
	Credential string `json:"credential"`
}

type UpdateInterestsRequest struct {
	Interests []string `json:"interests"`
}

func (r UpdateInterestsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Interests, validation.Length(0, MaxInterests)),
	)
}

// AuthResult is returned by every successful sign-in flow. The handler puts
// Token in the session cookie and never in the body.
type AuthResult struct {
	Token string
	User  UserDTO
}
