package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims, the payload of an access token issued by the mqvi platform.
//
// The add-on never issues tokens itself. It shares the platform's signing secret
// and only verifies the signature, so the actor of every interaction is whoever
// the platform says it is.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
