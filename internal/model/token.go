package model

import "github.com/google/uuid"

// TokenManager generates and validates API access tokens.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID, email string) (string, error)
	ParseAccessToken(token string) (Identity, error)
}
