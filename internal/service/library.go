package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/aitoolmap-server/internal/defaults"
	"github.com/dtroode/aitoolmap-server/internal/logger"
	"github.com/dtroode/aitoolmap-server/internal/mindmap"
	"github.com/dtroode/aitoolmap-server/internal/model"
)

// Library runs category and tool operations against a user's collection.
type Library struct {
	tools    model.ToolStore
	defaults *defaults.Dataset
	logger   *logger.Logger
}

// NewLibrary creates a Library seeding new collections from dataset.
func NewLibrary(tools model.ToolStore, dataset *defaults.Dataset, logger *logger.Logger) *Library {
	return &Library{
		tools:    tools,
		defaults: dataset,
		logger:   logger,
	}
}

// Defaults returns a copy of the dataset shown to anonymous visitors.
func (l *Library) Defaults() []model.Category {
	return l.defaults.Categories()
}

// Categories lists the collection of userID grouped by category.
func (l *Library) Categories(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	docs, err := l.tools.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	return Group(docs), nil
}

// Load lists the collection of userID. An empty collection is first seeded
// with the default dataset in one batch and listed again.
func (l *Library) Load(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	docs, err := l.tools.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	if len(docs) == 0 {
		l.logger.Info("Library service: seeding empty collection", "user_id", userID)

		seed := l.defaults.Documents()
		ops := make([]model.BatchOp, 0, len(seed))
		for _, doc := range seed {
			ops = append(ops, model.BatchOp{Kind: model.BatchAdd, Document: doc})
		}
		if err := l.tools.Batch(ctx, userID, ops); err != nil {
			return nil, fmt.Errorf("failed to seed collection: %w", err)
		}

		docs, err = l.tools.List(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list seeded tools: %w", err)
		}
	}

	return Group(docs), nil
}

// AddTool stores a new tool under category and returns it with its remote id.
func (l *Library) AddTool(ctx context.Context, userID uuid.UUID, category string, in model.ToolInput) (model.Tool, error) {
	name := strings.TrimSpace(in.Name)
	url := strings.TrimSpace(in.URL)
	if name == "" || url == "" {
		return model.Tool{}, model.ErrToolFieldsRequired
	}

	doc := model.ToolDocument{
		Slug:        mindmap.Slug(name),
		Name:        name,
		URL:         url,
		Description: in.Description,
		Category:    category,
	}

	remoteID, err := l.tools.Add(ctx, userID, doc)
	if err != nil {
		l.logger.Error("Library service: failed to add tool",
			"user_id", userID,
			"category", category,
			"error", err.Error())
		return model.Tool{}, fmt.Errorf("failed to add tool: %w", err)
	}
	doc.RemoteID = remoteID

	l.logger.Debug("Library service: tool added",
		"user_id", userID,
		"remote_id", remoteID)
	return doc.Tool(), nil
}

// DeleteTool removes one document from the collection. A document that is
// already gone counts as removed.
func (l *Library) DeleteTool(ctx context.Context, userID uuid.UUID, remoteID string) error {
	err := l.tools.Delete(ctx, userID, remoteID)
	if errors.Is(err, model.ErrNotFound) {
		l.logger.Debug("Library service: tool already deleted",
			"user_id", userID,
			"remote_id", remoteID)
		return nil
	}
	if err != nil {
		l.logger.Error("Library service: failed to delete tool",
			"user_id", userID,
			"remote_id", remoteID,
			"error", err.Error())
		return fmt.Errorf("failed to delete tool: %w", err)
	}
	return nil
}

// DeleteCategory removes every stored tool of category in one batch.
// Tools without a remote id are skipped.
func (l *Library) DeleteCategory(ctx context.Context, userID uuid.UUID, category model.Category) error {
	ops := make([]model.BatchOp, 0, len(category.Tools))
	for _, tool := range category.Tools {
		if tool.RemoteID == "" {
			continue
		}
		ops = append(ops, model.BatchOp{
			Kind:     model.BatchDelete,
			Document: model.ToolDocument{RemoteID: tool.RemoteID},
		})
	}
	if len(ops) == 0 {
		return nil
	}

	if err := l.tools.Batch(ctx, userID, ops); err != nil {
		l.logger.Error("Library service: failed to delete category",
			"user_id", userID,
			"category", category.Name,
			"error", err.Error())
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// Group arranges documents into categories in first-seen order, keeping the
// fetch order of tools inside each category.
func Group(docs []model.ToolDocument) []model.Category {
	categories := make([]model.Category, 0)
	index := make(map[string]int)
	for _, doc := range docs {
		i, ok := index[doc.Category]
		if !ok {
			i = len(categories)
			index[doc.Category] = i
			categories = append(categories, model.Category{Name: doc.Category, Tools: []model.Tool{}})
		}
		categories[i].Tools = append(categories[i].Tools, doc.Tool())
	}
	return categories
}
