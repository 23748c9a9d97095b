package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/codeloom-ai/codeloom-engine/pkg/apperrors"
	"github.com/codeloom-ai/codeloom-engine/pkg/database"
	"github.com/codeloom-ai/codeloom-engine/pkg/models"
)

// DocumentRepository defines persistence for uploaded documents.
type DocumentRepository interface {
	// Create stores the document, assigning a fresh id and creation
	// time.
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	// ListByUser returns the user's documents in insertion order.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Document, error)
}

// --- in-memory ---

type memoryDocumentRepository struct {
	records *memoryCollection[models.Document]
}

func newMemoryDocumentRepository() DocumentRepository {
	return &memoryDocumentRepository{records: newMemoryCollection[models.Document]()}
}

var _ DocumentRepository = (*memoryDocumentRepository)(nil)

func (r *memoryDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	doc.ID = uuid.New()
	doc.CreatedAt = time.Now()
	r.records.insert(doc.ID, *doc)
	return nil
}

func (r *memoryDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	doc, ok := r.records.get(id)
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, apperrors.ErrNotFound)
	}
	return &doc, nil
}

func (r *memoryDocumentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Document, error) {
	matches := r.records.list(ownedBy(userID, func(d models.Document) *uuid.UUID { return d.UserID }))
	docs := make([]*models.Document, len(matches))
	for i := range matches {
		docs[i] = &matches[i]
	}
	return docs, nil
}

// --- postgres ---

type postgresDocumentRepository struct {
	db *database.DB
}

func newPostgresDocumentRepository(db *database.DB) DocumentRepository {
	return &postgresDocumentRepository{db: db}
}

var _ DocumentRepository = (*postgresDocumentRepository)(nil)

func (r *postgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	doc.ID = uuid.New()
	doc.CreatedAt = time.Now()

	query := `
		INSERT INTO documents (id, user_id, filename, extracted_text, page_count, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		doc.ID,
		doc.UserID,
		doc.Filename,
		doc.ExtractedText,
		doc.PageCount,
		doc.SizeBytes,
		doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

func (r *postgresDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	query := `
		SELECT id, user_id, filename, extracted_text, page_count, size_bytes, created_at
		FROM documents
		WHERE id = $1`

	var doc models.Document
	err := r.db.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Filename,
		&doc.ExtractedText,
		&doc.PageCount,
		&doc.SizeBytes,
		&doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("document %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return &doc, nil
}

func (r *postgresDocumentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Document, error) {
	query := `
		SELECT id, user_id, filename, extracted_text, page_count, size_bytes, created_at
		FROM documents
		WHERE user_id = $1
		ORDER BY seq`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]*models.Document, 0)
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(
			&doc.ID,
			&doc.UserID,
			&doc.Filename,
			&doc.ExtractedText,
			&doc.PageCount,
			&doc.SizeBytes,
			&doc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, &doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	return docs, nil
}
