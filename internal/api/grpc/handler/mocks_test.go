package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/aitoolmap-server/internal/model"
)

type authServiceMock struct {
	mock.Mock
}

func (m *authServiceMock) Register(ctx context.Context, email, password string) (model.Identity, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.Identity), args.Error(1)
}

func (m *authServiceMock) Authenticate(ctx context.Context, email, password string) (model.Identity, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.Identity), args.Error(1)
}

func (m *authServiceMock) IssueToken(identity model.Identity) (string, error) {
	args := m.Called(identity)
	return args.String(0), args.Error(1)
}

type libraryMock struct {
	mock.Mock
}

func (m *libraryMock) Load(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	args := m.Called(ctx, userID)
	var out []model.Category
	if v := args.Get(0); v != nil {
		out = v.([]model.Category)
	}
	return out, args.Error(1)
}

func (m *libraryMock) Categories(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	args := m.Called(ctx, userID)
	var out []model.Category
	if v := args.Get(0); v != nil {
		out = v.([]model.Category)
	}
	return out, args.Error(1)
}

func (m *libraryMock) AddTool(ctx context.Context, userID uuid.UUID, category string, in model.ToolInput) (model.Tool, error) {
	args := m.Called(ctx, userID, category, in)
	return args.Get(0).(model.Tool), args.Error(1)
}

func (m *libraryMock) DeleteTool(ctx context.Context, userID uuid.UUID, remoteID string) error {
	return m.Called(ctx, userID, remoteID).Error(0)
}

func (m *libraryMock) DeleteCategory(ctx context.Context, userID uuid.UUID, category model.Category) error {
	return m.Called(ctx, userID, category).Error(0)
}

type exporterMock struct {
	mock.Mock
}

func (m *exporterMock) Export(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}
