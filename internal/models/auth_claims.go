package models

import "github.com/golang-jwt/jwt/v5"

type JwtCustomClaims struct {
	PartyID   int64  `json:"partyID"`
	Email     string `json:"email"`
	IsManager bool   `json:"isManager"`
	jwt.RegisteredClaims
}
