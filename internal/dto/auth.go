package dto

import "github.com/cineboard/cineboard-api/internal/models"

// LoginRequest carries dashboard credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued access token.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	User        models.User `json:"user"`
}
