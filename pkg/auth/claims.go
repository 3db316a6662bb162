package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bloombay/store-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID        uuid.UUID
	Role          enums.ActorRole
	ActiveStoreID *uuid.UUID
}

// AccessTokenClaims represents the typed JWT issued by the platform's auth
// service and consumed here. ActiveStoreID is only present for store owners.
type AccessTokenClaims struct {
	UserID        uuid.UUID       `json:"user_id"`
	Role          enums.ActorRole `json:"role"`
	ActiveStoreID *uuid.UUID      `json:"active_store_id,omitempty"`
	jwt.RegisteredClaims
}
