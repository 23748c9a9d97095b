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

// ChatMessageRepository defines persistence for chat exchanges.
type ChatMessageRepository interface {
	Create(ctx context.Context, msg *models.ChatMessage) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ChatMessage, error)
	// ListByUser returns the user's chat history, oldest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.ChatMessage, error)
}

// --- in-memory ---

type memoryChatMessageRepository struct {
	records *memoryCollection[models.ChatMessage]
}

func newMemoryChatMessageRepository() ChatMessageRepository {
	return &memoryChatMessageRepository{records: newMemoryCollection[models.ChatMessage]()}
}

var _ ChatMessageRepository = (*memoryChatMessageRepository)(nil)

func (r *memoryChatMessageRepository) Create(ctx context.Context, msg *models.ChatMessage) error {
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now()
	r.records.insert(msg.ID, *msg)
	return nil
}

func (r *memoryChatMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ChatMessage, error) {
	msg, ok := r.records.get(id)
	if !ok {
		return nil, fmt.Errorf("chat message %s: %w", id, apperrors.ErrNotFound)
	}
	return &msg, nil
}

func (r *memoryChatMessageRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.ChatMessage, error) {
	matches := r.records.list(ownedBy(userID, func(m models.ChatMessage) *uuid.UUID { return m.UserID }))
	msgs := make([]*models.ChatMessage, len(matches))
	for i := range matches {
		msgs[i] = &matches[i]
	}
	return msgs, nil
}

// --- postgres ---

type postgresChatMessageRepository struct {
	db *database.DB
}

func newPostgresChatMessageRepository(db *database.DB) ChatMessageRepository {
	return &postgresChatMessageRepository{db: db}
}

var _ ChatMessageRepository = (*postgresChatMessageRepository)(nil)

func (r *postgresChatMessageRepository) Create(ctx context.Context, msg *models.ChatMessage) error {
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now()

	query := `
		INSERT INTO chat_messages (id, user_id, message, response, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		msg.ID,
		msg.UserID,
		msg.Message,
		msg.Response,
		msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}

	return nil
}

func (r *postgresChatMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ChatMessage, error) {
	query := `
		SELECT id, user_id, message, response, created_at
		FROM chat_messages
		WHERE id = $1`

	var msg models.ChatMessage
	err := r.db.QueryRow(ctx, query, id).Scan(
		&msg.ID,
		&msg.UserID,
		&msg.Message,
		&msg.Response,
		&msg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("chat message %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get chat message: %w", err)
	}

	return &msg, nil
}

func (r *postgresChatMessageRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.ChatMessage, error) {
	query := `
		SELECT id, user_id, message, response, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY seq`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	msgs := make([]*models.ChatMessage, 0)
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.UserID,
			&msg.Message,
			&msg.Response,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		msgs = append(msgs, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat messages: %w", err)
	}

	return msgs, nil
}
