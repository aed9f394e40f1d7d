package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is the identity state of one page.
// Ready turns true after the first identity notification and never reverts.
type Session struct {
	Identity *Identity
	Ready    bool
}

// SignedIn reports whether the session carries an identity.
func (s Session) SignedIn() bool {
	return s.Identity != nil
}

// PageBinding links a page session to a signed-in user.
type PageBinding struct {
	UserID    uuid.UUID
	Email     string
	CreatedAt time.Time
}

// SessionStore persists which user is signed in on which page.
type SessionStore interface {
	Bind(ctx context.Context, pageID string, binding PageBinding, ttl time.Duration) error
	Lookup(ctx context.Context, pageID string) (PageBinding, error)
	Unbind(ctx context.Context, pageID string) error
}
