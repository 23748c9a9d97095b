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

// RequirementRepository defines persistence for classified
// requirements. A document's requirements are created one by one;
// there is no cross-record transaction with the parent document.
type RequirementRepository interface {
	Create(ctx context.Context, req *models.Requirement) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Requirement, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Requirement, error)
	// ListByDocument returns a document's requirements in insertion
	// order.
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*models.Requirement, error)
}

// --- in-memory ---

type memoryRequirementRepository struct {
	records *memoryCollection[models.Requirement]
}

func newMemoryRequirementRepository() RequirementRepository {
	return &memoryRequirementRepository{records: newMemoryCollection[models.Requirement]()}
}

var _ RequirementRepository = (*memoryRequirementRepository)(nil)

func (r *memoryRequirementRepository) Create(ctx context.Context, req *models.Requirement) error {
	req.ID = uuid.New()
	req.CreatedAt = time.Now()
	r.records.insert(req.ID, *req)
	return nil
}

func (r *memoryRequirementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Requirement, error) {
	req, ok := r.records.get(id)
	if !ok {
		return nil, fmt.Errorf("requirement %s: %w", id, apperrors.ErrNotFound)
	}
	return &req, nil
}

func (r *memoryRequirementRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Requirement, error) {
	matches := r.records.list(ownedBy(userID, func(q models.Requirement) *uuid.UUID { return q.UserID }))
	reqs := make([]*models.Requirement, len(matches))
	for i := range matches {
		reqs[i] = &matches[i]
	}
	return reqs, nil
}

func (r *memoryRequirementRepository) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*models.Requirement, error) {
	matches := r.records.list(func(q models.Requirement) bool { return q.DocumentID == documentID })
	reqs := make([]*models.Requirement, len(matches))
	for i := range matches {
		reqs[i] = &matches[i]
	}
	return reqs, nil
}

// --- postgres ---

type postgresRequirementRepository struct {
	db *database.DB
}

func newPostgresRequirementRepository(db *database.DB) RequirementRepository {
	return &postgresRequirementRepository{db: db}
}

var _ RequirementRepository = (*postgresRequirementRepository)(nil)

func (r *postgresRequirementRepository) Create(ctx context.Context, req *models.Requirement) error {
	req.ID = uuid.New()
	req.CreatedAt = time.Now()

	query := `
		INSERT INTO requirements (id, document_id, user_id, text, phase, confidence, user_story, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		req.ID,
		req.DocumentID,
		req.UserID,
		req.Text,
		req.Phase,
		req.Confidence,
		req.UserStory,
		req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create requirement: %w", err)
	}

	return nil
}

func (r *postgresRequirementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Requirement, error) {
	query := `
		SELECT id, document_id, user_id, text, phase, confidence, user_story, created_at
		FROM requirements
		WHERE id = $1`

	var req models.Requirement
	err := r.db.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.DocumentID,
		&req.UserID,
		&req.Text,
		&req.Phase,
		&req.Confidence,
		&req.UserStory,
		&req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("requirement %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get requirement: %w", err)
	}

	return &req, nil
}

func (r *postgresRequirementRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Requirement, error) {
	query := `
		SELECT id, document_id, user_id, text, phase, confidence, user_story, created_at
		FROM requirements
		WHERE user_id = $1
		ORDER BY seq`

	return r.queryRequirements(ctx, query, userID)
}

func (r *postgresRequirementRepository) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*models.Requirement, error) {
	query := `
		SELECT id, document_id, user_id, text, phase, confidence, user_story, created_at
		FROM requirements
		WHERE document_id = $1
		ORDER BY seq`

	return r.queryRequirements(ctx, query, documentID)
}

func (r *postgresRequirementRepository) queryRequirements(ctx context.Context, query string, arg any) ([]*models.Requirement, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}
	defer rows.Close()

	reqs := make([]*models.Requirement, 0)
	for rows.Next() {
		var req models.Requirement
		if err := rows.Scan(
			&req.ID,
			&req.DocumentID,
			&req.UserID,
			&req.Text,
			&req.Phase,
			&req.Confidence,
			&req.UserStory,
			&req.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan requirement: %w", err)
		}
		reqs = append(reqs, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating requirements: %w", err)
	}

	return reqs, nil
}
