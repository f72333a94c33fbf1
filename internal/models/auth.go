package models

import "github.com/golang-jwt/jwt/v5"

// AuthRequest represents the request body for /auth/token
type AuthRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Username string `json:"username" binding:"required"`
	Role     string `json:"role"`
}

// AuthResponse represents the response for /auth/token
type AuthResponse struct {
	Token string `json:"token"`
}

// Claims represents JWT claims
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
