package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/codeloom-ai/codeloom-engine/pkg/apperrors"
	"github.com/codeloom-ai/codeloom-engine/pkg/database"
	"github.com/codeloom-ai/codeloom-engine/pkg/models"
)

// DocumentationRepository defines persistence for generated code
// documentation.
type DocumentationRepository interface {
	Create(ctx context.Context, doc *models.Documentation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Documentation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Documentation, error)
}

// normalizeDocumentation replaces nil collections with empty ones so a
// stored record round-trips identically from both backends.
func normalizeDocumentation(doc *models.Documentation) {
	if doc.Features == nil {
		doc.Features = []string{}
	}
	if doc.Methods == nil {
		doc.Methods = []models.MethodDoc{}
	}
}

// --- in-memory ---

type memoryDocumentationRepository struct {
	records *memoryCollection[models.Documentation]
}

func newMemoryDocumentationRepository() DocumentationRepository {
	return &memoryDocumentationRepository{records: newMemoryCollection[models.Documentation]()}
}

var _ DocumentationRepository = (*memoryDocumentationRepository)(nil)

func (r *memoryDocumentationRepository) Create(ctx context.Context, doc *models.Documentation) error {
	doc.ID = uuid.New()
	doc.CreatedAt = time.Now()
	normalizeDocumentation(doc)
	r.records.insert(doc.ID, *doc)
	return nil
}

func (r *memoryDocumentationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Documentation, error) {
	doc, ok := r.records.get(id)
	if !ok {
		return nil, fmt.Errorf("documentation %s: %w", id, apperrors.ErrNotFound)
	}
	return &doc, nil
}

func (r *memoryDocumentationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Documentation, error) {
	matches := r.records.list(ownedBy(userID, func(d models.Documentation) *uuid.UUID { return d.UserID }))
	docs := make([]*models.Documentation, len(matches))
	for i := range matches {
		docs[i] = &matches[i]
	}
	return docs, nil
}

// --- postgres ---

type postgresDocumentationRepository struct {
	db *database.DB
}

func newPostgresDocumentationRepository(db *database.DB) DocumentationRepository {
	return &postgresDocumentationRepository{db: db}
}

var _ DocumentationRepository = (*postgresDocumentationRepository)(nil)

func (r *postgresDocumentationRepository) Create(ctx context.Context, doc *models.Documentation) error {
	doc.ID = uuid.New()
	doc.CreatedAt = time.Now()
	normalizeDocumentation(doc)

	featuresJSON, err := json.Marshal(doc.Features)
	if err != nil {
		return fmt.Errorf("failed to marshal features: %w", err)
	}
	methodsJSON, err := json.Marshal(doc.Methods)
	if err != nil {
		return fmt.Errorf("failed to marshal methods: %w", err)
	}

	query := `
		INSERT INTO documentations (id, user_id, snippet_id, style, overview, features, methods, usage_example, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.Exec(ctx, query,
		doc.ID,
		doc.UserID,
		doc.SnippetID,
		doc.Style,
		doc.Overview,
		featuresJSON,
		methodsJSON,
		doc.UsageExample,
		doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create documentation: %w", err)
	}

	return nil
}

func (r *postgresDocumentationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Documentation, error) {
	query := `
		SELECT id, user_id, snippet_id, style, overview, features, methods, usage_example, created_at
		FROM documentations
		WHERE id = $1`

	doc, err := scanDocumentationRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("documentation %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get documentation: %w", err)
	}

	return doc, nil
}

func (r *postgresDocumentationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Documentation, error) {
	query := `
		SELECT id, user_id, snippet_id, style, overview, features, methods, usage_example, created_at
		FROM documentations
		WHERE user_id = $1
		ORDER BY seq`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documentations: %w", err)
	}
	defer rows.Close()

	docs := make([]*models.Documentation, 0)
	for rows.Next() {
		doc, err := scanDocumentationRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan documentation: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documentations: %w", err)
	}

	return docs, nil
}

// scanDocumentationRow scans one documentation record, decoding the
// JSONB feature and method columns.
func scanDocumentationRow(row pgx.Row) (*models.Documentation, error) {
	var (
		doc          models.Documentation
		featuresJSON []byte
		methodsJSON  []byte
	)
	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.SnippetID,
		&doc.Style,
		&doc.Overview,
		&featuresJSON,
		&methodsJSON,
		&doc.UsageExample,
		&doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(featuresJSON, &doc.Features); err != nil {
		return nil, fmt.Errorf("failed to unmarshal features: %w", err)
	}
	if err := json.Unmarshal(methodsJSON, &doc.Methods); err != nil {
		return nil, fmt.Errorf("failed to unmarshal methods: %w", err)
	}

	return &doc, nil
}
