package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/minhngdev/foodcourt-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	AccountID uint
	Role      enums.Role
	StoreID   *uint
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	AccountID uint       `json:"account_id"`
	Role      enums.Role `json:"role"`
	StoreID   *uint      `json:"store_id,omitempty"`
	jwt.RegisteredClaims
}
