package utils

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/lerhino/rhino-be/types"
)

// TokenClaims are the identity claims carried by the auth provider's bearer
// token. Only the fields forwarded to the webhook payload are decoded.
type TokenClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// IdentityFromToken decodes claims without verifying the signature. Token
// verification belongs to the provider that issued it; this service only
// forwards identity downstream.
func IdentityFromToken(tokenString string) (types.Identity, error) {
	claims := TokenClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(tokenString, &claims); err != nil {
		return types.Identity{}, err
	}
	return types.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
	}, nil
}
