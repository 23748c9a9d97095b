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

// SnippetUpdate carries the fields an Update call may change. Nil
// fields keep their stored value.
type SnippetUpdate struct {
	Description   *string
	GeneratedCode *string
	FixedCode     *string
	Kind          *models.SnippetKind
}

// SnippetRepository defines persistence for code snippets, the only
// record kind with an in-place update.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *models.CodeSnippet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CodeSnippet, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.CodeSnippet, error)
	// Update merges the given fields into the stored snippet and
	// returns the result. When the id is unknown it returns
	// apperrors.ErrNotFound and the store is left unchanged.
	Update(ctx context.Context, id uuid.UUID, update SnippetUpdate) (*models.CodeSnippet, error)
}

// --- in-memory ---

type memorySnippetRepository struct {
	records *memoryCollection[models.CodeSnippet]
}

func newMemorySnippetRepository() SnippetRepository {
	return &memorySnippetRepository{records: newMemoryCollection[models.CodeSnippet]()}
}

var _ SnippetRepository = (*memorySnippetRepository)(nil)

func (r *memorySnippetRepository) Create(ctx context.Context, snippet *models.CodeSnippet) error {
	snippet.ID = uuid.New()
	snippet.CreatedAt = time.Now()
	snippet.UpdatedAt = snippet.CreatedAt
	r.records.insert(snippet.ID, *snippet)
	return nil
}

func (r *memorySnippetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CodeSnippet, error) {
	snippet, ok := r.records.get(id)
	if !ok {
		return nil, fmt.Errorf("code snippet %s: %w", id, apperrors.ErrNotFound)
	}
	return &snippet, nil
}

func (r *memorySnippetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.CodeSnippet, error) {
	matches := r.records.list(ownedBy(userID, func(s models.CodeSnippet) *uuid.UUID { return s.UserID }))
	snippets := make([]*models.CodeSnippet, len(matches))
	for i := range matches {
		snippets[i] = &matches[i]
	}
	return snippets, nil
}

func (r *memorySnippetRepository) Update(ctx context.Context, id uuid.UUID, update SnippetUpdate) (*models.CodeSnippet, error) {
	snippet, ok := r.records.update(id, func(s *models.CodeSnippet) {
		if update.Description != nil {
			s.Description = *update.Description
		}
		if update.GeneratedCode != nil {
			s.GeneratedCode = *update.GeneratedCode
		}
		if update.FixedCode != nil {
			s.FixedCode = *update.FixedCode
		}
		if update.Kind != nil {
			s.Kind = *update.Kind
		}
		s.UpdatedAt = time.Now()
	})
	if !ok {
		return nil, fmt.Errorf("code snippet %s: %w", id, apperrors.ErrNotFound)
	}
	return &snippet, nil
}

// --- postgres ---

type postgresSnippetRepository struct {
	db *database.DB
}

func newPostgresSnippetRepository(db *database.DB) SnippetRepository {
	return &postgresSnippetRepository{db: db}
}

var _ SnippetRepository = (*postgresSnippetRepository)(nil)

func (r *postgresSnippetRepository) Create(ctx context.Context, snippet *models.CodeSnippet) error {
	snippet.ID = uuid.New()
	snippet.CreatedAt = time.Now()
	snippet.UpdatedAt = snippet.CreatedAt

	query := `
		INSERT INTO code_snippets (id, user_id, title, description, language, original_code, generated_code, fixed_code, kind, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		snippet.ID,
		snippet.UserID,
		snippet.Title,
		snippet.Description,
		snippet.Language,
		snippet.OriginalCode,
		snippet.GeneratedCode,
		snippet.FixedCode,
		snippet.Kind,
		snippet.CreatedAt,
		snippet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create code snippet: %w", err)
	}

	return nil
}

func (r *postgresSnippetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CodeSnippet, error) {
	query := `
		SELECT id, user_id, title, description, language, original_code, generated_code, fixed_code, kind, created_at, updated_at
		FROM code_snippets
		WHERE id = $1`

	snippet, err := scanSnippetRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("code snippet %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get code snippet: %w", err)
	}

	return snippet, nil
}

func (r *postgresSnippetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.CodeSnippet, error) {
	query := `
		SELECT id, user_id, title, description, language, original_code, generated_code, fixed_code, kind, created_at, updated_at
		FROM code_snippets
		WHERE user_id = $1
		ORDER BY seq`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list code snippets: %w", err)
	}
	defer rows.Close()

	snippets := make([]*models.CodeSnippet, 0)
	for rows.Next() {
		snippet, err := scanSnippetRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan code snippet: %w", err)
		}
		snippets = append(snippets, snippet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating code snippets: %w", err)
	}

	return snippets, nil
}

// Update merges in one statement so concurrent updates cannot
// interleave between read and write.
func (r *postgresSnippetRepository) Update(ctx context.Context, id uuid.UUID, update SnippetUpdate) (*models.CodeSnippet, error) {
	query := `
		UPDATE code_snippets
		SET description = COALESCE($2, description),
		    generated_code = COALESCE($3, generated_code),
		    fixed_code = COALESCE($4, fixed_code),
		    kind = COALESCE($5, kind),
		    updated_at = $6
		WHERE id = $1
		RETURNING id, user_id, title, description, language, original_code, generated_code, fixed_code, kind, created_at, updated_at`

	var kind *string
	if update.Kind != nil {
		k := string(*update.Kind)
		kind = &k
	}

	snippet, err := scanSnippetRow(r.db.QueryRow(ctx, query,
		id,
		update.Description,
		update.GeneratedCode,
		update.FixedCode,
		kind,
		time.Now(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("code snippet %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update code snippet: %w", err)
	}

	return snippet, nil
}

// scanSnippetRow scans one snippet from a row or rows cursor.
func scanSnippetRow(row pgx.Row) (*models.CodeSnippet, error) {
	var snippet models.CodeSnippet
	err := row.Scan(
		&snippet.ID,
		&snippet.UserID,
		&snippet.Title,
		&snippet.Description,
		&snippet.Language,
		&snippet.OriginalCode,
		&snippet.GeneratedCode,
		&snippet.FixedCode,
		&snippet.Kind,
		&snippet.CreatedAt,
		&snippet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &snippet, nil
}
