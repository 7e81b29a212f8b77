package models

import "github.com/golang-jwt/jwt/v4"

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims.
// UserID carries the same identifier Firebase would supply as the UID, so the
// two auth drivers are interchangeable downstream.
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
