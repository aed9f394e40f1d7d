package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/aitoolmap-server/internal/model"
)

var _ model.ToolStore = (*ToolRepository)(nil)

const (
	insertToolQuery = `INSERT INTO tools (id, owner_id, slug, name, url, description, category)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	deleteToolQuery = `DELETE FROM tools WHERE id = $1 AND owner_id = $2`
)

// ToolRepository is the per-user tool collection.
type ToolRepository struct {
	db *Connection
}

func NewToolRepository(db *Connection) *ToolRepository {
	return &ToolRepository{
		db: db,
	}
}

// List returns every document of the user in insertion order.
func (r *ToolRepository) List(ctx context.Context, userID uuid.UUID) ([]model.ToolDocument, error) {
	query := `SELECT id, slug, name, url, description, category
			  FROM tools WHERE owner_id = $1
			  ORDER BY seq`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	defer rows.Close()

	docs := []model.ToolDocument{}
	for rows.Next() {
		var (
			doc model.ToolDocument
			id  uuid.UUID
		)
		if err := rows.Scan(&id, &doc.Slug, &doc.Name, &doc.URL, &doc.Description, &doc.Category); err != nil {
			return nil, fmt.Errorf("failed to scan tool: %w", err)
		}
		doc.RemoteID = id.String()
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tools: %w", err)
	}

	return docs, nil
}

// Add stores one document and returns its generated remote id.
func (r *ToolRepository) Add(ctx context.Context, userID uuid.UUID, doc model.ToolDocument) (string, error) {
	id := uuid.New()
	_, err := r.db.Exec(ctx, insertToolQuery,
		id, userID, doc.Slug, doc.Name, doc.URL, doc.Description, doc.Category,
	)
	if err != nil {
		return "", fmt.Errorf("failed to add tool: %w", err)
	}

	return id.String(), nil
}

// Delete removes one document of the user.
func (r *ToolRepository) Delete(ctx context.Context, userID uuid.UUID, remoteID string) error {
	id, err := uuid.Parse(remoteID)
	if err != nil {
		return model.ErrNotFound
	}

	cmd, err := r.db.Exec(ctx, deleteToolQuery, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete tool: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// Batch applies ops in one transaction; either all of them succeed or none.
// Deleting a document that is already gone is not an error.
func (r *ToolRepository) Batch(ctx context.Context, userID uuid.UUID, ops []model.BatchOp) error {
	if len(ops) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, op := range ops {
		switch op.Kind {
		case model.BatchAdd:
			d := op.Document
			batch.Queue(insertToolQuery, uuid.New(), userID, d.Slug, d.Name, d.URL, d.Description, d.Category)
		case model.BatchDelete:
			id, err := uuid.Parse(op.Document.RemoteID)
			if err != nil {
				return fmt.Errorf("invalid remote id %q: %w", op.Document.RemoteID, err)
			}
			batch.Queue(deleteToolQuery, id, userID)
		default:
			return fmt.Errorf("unknown batch operation %d", op.Kind)
		}
	}

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		results := tx.SendBatch(ctx, batch)
		for range ops {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return err
			}
		}
		return results.Close()
	})
	if err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}

	return nil
}
