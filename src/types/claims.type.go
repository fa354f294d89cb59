package types

import "github.com/golang-jwt/jwt/v4"

type Claims struct {
	Email string `json:"email,omitempty"`
	UID   string `json:"uid,omitempty"`
	jwt.RegisteredClaims
}
