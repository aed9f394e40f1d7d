package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/aitoolmap-server/internal/logger"
	"github.com/dtroode/aitoolmap-server/internal/model"
)

// CategoryLister lists the grouped collection of a user without side effects.
type CategoryLister interface {
	Categories(ctx context.Context, userID uuid.UUID) ([]model.Category, error)
}

// Export writes snapshots of a user's map to object storage.
type Export struct {
	lister  CategoryLister
	storage model.Storage
	logger  *logger.Logger
	now     func() time.Time
}

// NewExport creates an Export. A nil storage disables exports.
func NewExport(lister CategoryLister, storage model.Storage, logger *logger.Logger) *Export {
	return &Export{
		lister:  lister,
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// Enabled reports whether object storage is configured.
func (e *Export) Enabled() bool {
	return e.storage != nil
}

// Export uploads the map of userID as JSON and returns the object key.
func (e *Export) Export(ctx context.Context, userID uuid.UUID) (string, error) {
	if e.storage == nil {
		return "", model.ErrExportDisabled
	}

	categories, err := e.lister.Categories(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to list categories: %w", err)
	}

	body, err := json.MarshalIndent(categories, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal categories: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%d.json", userID, e.now().Unix())
	if err := e.storage.Upload(ctx, key, bytes.NewReader(body), int64(len(body)), "application/json"); err != nil {
		e.logger.Error("Export service: failed to upload export",
			"user_id", userID,
			"key", key,
			"error", err.Error())
		return "", fmt.Errorf("failed to upload export: %w", err)
	}

	e.logger.Info("Export service: map exported",
		"user_id", userID,
		"key", key,
		"categories", len(categories))
	return key, nil
}
