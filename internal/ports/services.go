package ports

import (
	"context"
	"time"
)

// CodeAllocator mints human-readable entity codes, unique within a
// category. Allocation failure is fatal to the enclosing create: the
// caller must not insert a partial entity.
type CodeAllocator interface {
	// Allocate returns the next code for a category, e.g. "PRD-000042"
	Allocate(ctx context.Context, categoryCode string) (string, error)
}

// SessionContext announces the acting user to the backing store's session
// so that server-side triggers can attribute row changes. A non-nil error
// means the trigger-assisted audit path is unavailable for this call.
type SessionContext interface {
	Announce(ctx context.Context, actorID, actorName string) error
}

// TokenClaims carries the identity extracted from an access token
type TokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// TokenService issues and validates access tokens
type TokenService interface {
	GenerateAccessToken(claims TokenClaims, ttl time.Duration) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}

// PasswordService hashes and verifies passwords
type PasswordService interface {
	Hash(password string) (string, error)
	Compare(hashedPassword, password string) error
}
