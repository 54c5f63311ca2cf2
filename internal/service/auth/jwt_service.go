// Package auth provides credential verification and token issuance.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/domain"
)

// Claims holds the verified contents of a token after validation.
type Claims struct {
	UserID    uuid.UUID
	Role      domain.Role
	TokenType string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// JWTService defines the interface for issuing and verifying tokens.
//
// Access tokens embed the user's ID and role and authorize API calls for a
// short window. Refresh tokens embed only the user's ID, live longer, and
// are used solely to mint new access tokens. The two kinds are signed with
// distinct secrets so one can never stand in for the other.
type JWTService interface {
	// GenerateAccessToken creates a signed access token for the user.
	GenerateAccessToken(ctx context.Context, userID uuid.UUID, role domain.Role) (string, error)

	// ValidateAccessToken verifies signature, expiry and token type.
	// Returns ErrExpiredToken, ErrInvalidToken or ErrWrongTokenType.
	ValidateAccessToken(ctx context.Context, token string) (*Claims, error)

	// GenerateRefreshToken creates a signed refresh token for the user.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateRefreshToken verifies signature, expiry and token type.
	// Returns ErrExpiredRefreshToken, ErrInvalidRefreshToken or ErrWrongTokenType.
	ValidateRefreshToken(ctx context.Context, token string) (*Claims, error)
}
