package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/aitoolmap-server/internal/model"
)

// ToolStore is a mock of model.ToolStore.
type ToolStore struct {
	mock.Mock
}

var _ model.ToolStore = (*ToolStore)(nil)

func (m *ToolStore) List(ctx context.Context, userID uuid.UUID) ([]model.ToolDocument, error) {
	args := m.Called(ctx, userID)
	var docs []model.ToolDocument
	if v := args.Get(0); v != nil {
		docs = v.([]model.ToolDocument)
	}
	return docs, args.Error(1)
}

func (m *ToolStore) Add(ctx context.Context, userID uuid.UUID, doc model.ToolDocument) (string, error) {
	args := m.Called(ctx, userID, doc)
	return args.String(0), args.Error(1)
}

func (m *ToolStore) Delete(ctx context.Context, userID uuid.UUID, remoteID string) error {
	args := m.Called(ctx, userID, remoteID)
	return args.Error(0)
}

func (m *ToolStore) Batch(ctx context.Context, userID uuid.UUID, ops []model.BatchOp) error {
	args := m.Called(ctx, userID, ops)
	return args.Error(0)
}

// NewToolStore creates a ToolStore mock that asserts its expectations on cleanup.
func NewToolStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *ToolStore {
	m := &ToolStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
