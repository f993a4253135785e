package auth

import (
	"github.com/maisonessence/parfumerie-backend/internal/users"
)

// RegisterPayload creates a new customer account.
type RegisterPayload struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginPayload exchanges credentials for an access token.
type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionDTO is the response to a successful login or registration.
type SessionDTO struct {
	AccessToken string        `json:"access_token"`
	User        users.UserDTO `json:"user"`
}
