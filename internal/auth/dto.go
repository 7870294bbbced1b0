package auth

import (
	"github.com/angelmondragon/threadcart-backend/internal/users"
)

// RegisterRequest captures the payload required to create a customer account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the expired access token and the refresh token to rotate.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenPair is the access/refresh pair minted on login, register, and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse contains the tokens and user produced by a successful login.
type LoginResponse struct {
	TokenPair
	User *users.UserDTO `json:"user"`
}

// RegisterResponse mirrors LoginResponse for the register flow.
type RegisterResponse struct {
	TokenPair
	User *users.UserDTO `json:"user"`
}
