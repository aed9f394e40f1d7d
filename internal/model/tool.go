package model

import (
	"context"

	"github.com/google/uuid"
)

// MaxCategories is the maximum number of categories a user may keep.
const MaxCategories = 6

// Tool is a named external link shown under a category.
type Tool struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	RemoteID    string `json:"remoteId,omitempty"`
}

// Category is a named, ordered group of tools.
type Category struct {
	Name  string `json:"category"`
	Tools []Tool `json:"tools"`
}

// ToolInput carries the fields of the add-tool form.
type ToolInput struct {
	Name        string
	URL         string
	Description string
}

// ToolDocument is one tool as stored in a user's remote collection.
type ToolDocument struct {
	RemoteID    string
	Slug        string
	Name        string
	URL         string
	Description string
	Category    string
}

// Tool converts the document to its in-memory form.
func (d ToolDocument) Tool() Tool {
	return Tool{
		ID:          d.Slug,
		Name:        d.Name,
		URL:         d.URL,
		Description: d.Description,
		RemoteID:    d.RemoteID,
	}
}

// BatchOpKind enumerates atomic batch operations.
type BatchOpKind int

const (
	BatchAdd BatchOpKind = iota
	BatchDelete
)

// BatchOp is one operation of an all-or-nothing batch write.
// Delete operations only use Document.RemoteID.
type BatchOp struct {
	Kind     BatchOpKind
	Document ToolDocument
}

// ToolStore is the per-user document collection of tools.
type ToolStore interface {
	List(ctx context.Context, userID uuid.UUID) ([]ToolDocument, error)
	Add(ctx context.Context, userID uuid.UUID, doc ToolDocument) (string, error)
	Delete(ctx context.Context, userID uuid.UUID, remoteID string) error
	Batch(ctx context.Context, userID uuid.UUID, ops []BatchOp) error
}
