package models

import "github.com/golang-jwt/jwt/v5"

// User is a dashboard account. The roster is static configuration; user
// management is out of scope for this service.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
	Active       bool   `json:"active"`
}

// Claims are the JWT claims issued for an authenticated user.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
