package context

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"

	"github.com/dtroode/aitoolmap-server/internal/model"
)

// Metadata keys carrying the authenticated identity inside a gRPC context.
const (
	userIDKey string = "x-user-id"
	emailKey  string = "x-user-email"
)

// Manager stores the identity of a gRPC call in its incoming metadata.
type Manager struct{}

var _ model.ContextManager = (*Manager)(nil)

// NewManager creates a new gRPC context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetIdentityToContext returns a context whose incoming metadata carries identity.
// Existing metadata is kept; identity keys are overwritten.
func (m *Manager) SetIdentityToContext(ctx context.Context, identity model.Identity) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		md = md.Copy()
	} else {
		md = metadata.MD{}
	}
	md.Set(userIDKey, identity.UserID.String())
	md.Set(emailKey, identity.Email)

	return metadata.NewIncomingContext(ctx, md)
}

// GetIdentityFromContext reads the identity set by SetIdentityToContext.
func (m *Manager) GetIdentityFromContext(ctx context.Context) (model.Identity, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return model.Identity{}, false
	}

	userIDs := md.Get(userIDKey)
	if len(userIDs) == 0 {
		return model.Identity{}, false
	}
	userID, err := uuid.Parse(userIDs[0])
	if err != nil || userID == uuid.Nil {
		return model.Identity{}, false
	}

	identity := model.Identity{UserID: userID}
	if emails := md.Get(emailKey); len(emails) > 0 {
		identity.Email = emails[0]
	}
	return identity, true
}
