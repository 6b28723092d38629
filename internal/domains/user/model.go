package user

import (
	"time"

	"github.com/google/uuid"
)

// User maps 1:1 to the users table.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Interests    []string  `json:"interests"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Role string

const (
	RoleFounder Role = "founder"
	RoleAdopter Role = "adopter"
)

func (r Role) IsValid() bool {
	return r == RoleFounder || r == RoleAdopter
}

func (r Role) String() string {
	return string(r)
}

// Permission is a capability granted through user_permissions.
type Permission string

const PermissionAdmin Permission = "admin"

// UserDTO is the public user representation; it never carries the hash.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	Interests []string  `json:"interests"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToDTO() UserDTO {
	interests := u.Interests
	if interests == nil {
		interests = []string{}
	}
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		Interests: interests,
		CreatedAt: u.CreatedAt,
	}
}
