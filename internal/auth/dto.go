package auth

import "github.com/storefrontlabs/martlet-backend/internal/users"

// RegisterInput carries the sign-up form fields.
type RegisterInput struct {
	Username  string `json:"username" validate:"required,min=3,max=64"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"max=120"`
	LastName  string `json:"last_name" validate:"max=120"`
	Email     string `json:"email" validate:"omitempty,email"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionDTO is returned after a successful register or login.
type SessionDTO struct {
	AccessToken string        `json:"access_token"`
	User        users.UserDTO `json:"user"`
}
