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

// TestCaseRepository defines persistence for generated test cases.
type TestCaseRepository interface {
	Create(ctx context.Context, tc *models.TestCase) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TestCase, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.TestCase, error)
}

// --- in-memory ---

type memoryTestCaseRepository struct {
	records *memoryCollection[models.TestCase]
}

func newMemoryTestCaseRepository() TestCaseRepository {
	return &memoryTestCaseRepository{records: newMemoryCollection[models.TestCase]()}
}

var _ TestCaseRepository = (*memoryTestCaseRepository)(nil)

func (r *memoryTestCaseRepository) Create(ctx context.Context, tc *models.TestCase) error {
	tc.ID = uuid.New()
	tc.CreatedAt = time.Now()
	r.records.insert(tc.ID, *tc)
	return nil
}

func (r *memoryTestCaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TestCase, error) {
	tc, ok := r.records.get(id)
	if !ok {
		return nil, fmt.Errorf("test case %s: %w", id, apperrors.ErrNotFound)
	}
	return &tc, nil
}

func (r *memoryTestCaseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.TestCase, error) {
	matches := r.records.list(ownedBy(userID, func(tc models.TestCase) *uuid.UUID { return tc.UserID }))
	cases := make([]*models.TestCase, len(matches))
	for i := range matches {
		cases[i] = &matches[i]
	}
	return cases, nil
}

// --- postgres ---

type postgresTestCaseRepository struct {
	db *database.DB
}

func newPostgresTestCaseRepository(db *database.DB) TestCaseRepository {
	return &postgresTestCaseRepository{db: db}
}

var _ TestCaseRepository = (*postgresTestCaseRepository)(nil)

func (r *postgresTestCaseRepository) Create(ctx context.Context, tc *models.TestCase) error {
	tc.ID = uuid.New()
	tc.CreatedAt = time.Now()

	query := `
		INSERT INTO test_cases (id, user_id, snippet_id, framework, input_type, code, coverage, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		tc.ID,
		tc.UserID,
		tc.SnippetID,
		tc.Framework,
		tc.InputType,
		tc.Code,
		tc.Coverage,
		tc.Total,
		tc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create test case: %w", err)
	}

	return nil
}

func (r *postgresTestCaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TestCase, error) {
	query := `
		SELECT id, user_id, snippet_id, framework, input_type, code, coverage, total, created_at
		FROM test_cases
		WHERE id = $1`

	var tc models.TestCase
	err := r.db.QueryRow(ctx, query, id).Scan(
		&tc.ID,
		&tc.UserID,
		&tc.SnippetID,
		&tc.Framework,
		&tc.InputType,
		&tc.Code,
		&tc.Coverage,
		&tc.Total,
		&tc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("test case %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get test case: %w", err)
	}

	return &tc, nil
}

func (r *postgresTestCaseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.TestCase, error) {
	query := `
		SELECT id, user_id, snippet_id, framework, input_type, code, coverage, total, created_at
		FROM test_cases
		WHERE user_id = $1
		ORDER BY seq`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list test cases: %w", err)
	}
	defer rows.Close()

	cases := make([]*models.TestCase, 0)
	for rows.Next() {
		var tc models.TestCase
		if err := rows.Scan(
			&tc.ID,
			&tc.UserID,
			&tc.SnippetID,
			&tc.Framework,
			&tc.InputType,
			&tc.Code,
			&tc.Coverage,
			&tc.Total,
			&tc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan test case: %w", err)
		}
		cases = append(cases, &tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating test cases: %w", err)
	}

	return cases, nil
}
