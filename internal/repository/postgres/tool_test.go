package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/aitoolmap-server/internal/model"
)

func TestNewToolRepository(t *testing.T) {
	db := &Connection{}
	repo := NewToolRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestToolRepository_DeleteInvalidRemoteID(t *testing.T) {
	repo := NewToolRepository(&Connection{})

	err := repo.Delete(context.Background(), uuid.New(), "not-a-uuid")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestToolRepository_BatchValidation(t *testing.T) {
	repo := NewToolRepository(&Connection{})
	ctx := context.Background()

	require.NoError(t, repo.Batch(ctx, uuid.New(), nil), "empty batch is a no-op")

	err := repo.Batch(ctx, uuid.New(), []model.BatchOp{
		{Kind: model.BatchDelete, Document: model.ToolDocument{RemoteID: "bad"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid remote id")

	err = repo.Batch(ctx, uuid.New(), []model.BatchOp{{Kind: model.BatchOpKind(42)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown batch operation")
}
