package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/aitoolmap-server/internal/model"
)

// SessionStore is a mock of model.SessionStore.
type SessionStore struct {
	mock.Mock
}

var _ model.SessionStore = (*SessionStore)(nil)

func (m *SessionStore) Bind(ctx context.Context, pageID string, binding model.PageBinding, ttl time.Duration) error {
	args := m.Called(ctx, pageID, binding, ttl)
	return args.Error(0)
}

func (m *SessionStore) Lookup(ctx context.Context, pageID string) (model.PageBinding, error) {
	args := m.Called(ctx, pageID)
	return args.Get(0).(model.PageBinding), args.Error(1)
}

func (m *SessionStore) Unbind(ctx context.Context, pageID string) error {
	args := m.Called(ctx, pageID)
	return args.Error(0)
}

// NewSessionStore creates a SessionStore mock that asserts its expectations on cleanup.
func NewSessionStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *SessionStore {
	m := &SessionStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
