package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeloom-ai/codeloom-engine/pkg/apperrors"
	"github.com/codeloom-ai/codeloom-engine/pkg/models"
)

func TestMemoryStore_CreateThenGetReturnsEqualRecord(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	userID := uuid.New()

	doc := &models.Document{
		UserID:        &userID,
		Filename:      "requirements.pdf",
		ExtractedText: "The system shall start.",
		PageCount:     3,
		SizeBytes:     2048,
	}
	require.NoError(t, store.Documents.Create(ctx, doc))
	require.NotEqual(t, uuid.Nil, doc.ID)
	require.False(t, doc.CreatedAt.IsZero())

	got, err := store.Documents.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestMemoryStore_GetByIDUnknownReturnsNotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Documents.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryStore_ListByUserKeepsInsertionOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	userID := uuid.New()
	otherID := uuid.New()

	for i := 0; i < 5; i++ {
		owner := &userID
		if i == 2 {
			owner = &otherID
		}
		snippet := &models.CodeSnippet{
			UserID:   owner,
			Title:    fmt.Sprintf("snippet %d", i),
			Language: "go",
			Kind:     models.SnippetGenerated,
		}
		require.NoError(t, store.Snippets.Create(ctx, snippet))
	}

	snippets, err := store.Snippets.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, snippets, 4)

	assert.Equal(t, "snippet 0", snippets[0].Title)
	assert.Equal(t, "snippet 1", snippets[1].Title)
	assert.Equal(t, "snippet 3", snippets[2].Title)
	assert.Equal(t, "snippet 4", snippets[3].Title)
}

func TestMemoryStore_ListByUserSkipsUnownedRecords(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	// A record with no owner is never listed for anyone.
	require.NoError(t, store.ChatMessages.Create(ctx, &models.ChatMessage{Message: "orphan"}))

	msgs, err := store.ChatMessages.ListByUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestMemoryStore_SnippetUpdateMergesFields(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	userID := uuid.New()

	snippet := &models.CodeSnippet{
		UserID:       &userID,
		Title:        "buggy sort",
		Language:     "python",
		OriginalCode: "def sort(xs): return xs",
		Kind:         models.SnippetOriginal,
	}
	require.NoError(t, store.Snippets.Create(ctx, snippet))

	fixed := "def sort(xs): return sorted(xs)"
	kind := models.SnippetFixed
	updated, err := store.Snippets.Update(ctx, snippet.ID, SnippetUpdate{
		FixedCode: &fixed,
		Kind:      &kind,
	})
	require.NoError(t, err)

	// Untouched fields survive the merge.
	assert.Equal(t, "buggy sort", updated.Title)
	assert.Equal(t, "def sort(xs): return xs", updated.OriginalCode)
	assert.Equal(t, fixed, updated.FixedCode)
	assert.Equal(t, models.SnippetFixed, updated.Kind)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	got, err := store.Snippets.GetByID(ctx, snippet.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestMemoryStore_SnippetUpdateUnknownIDIsNoOp(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	userID := uuid.New()

	snippet := &models.CodeSnippet{UserID: &userID, Title: "keep me", Kind: models.SnippetGenerated}
	require.NoError(t, store.Snippets.Create(ctx, snippet))

	code := "changed"
	_, err := store.Snippets.Update(ctx, uuid.New(), SnippetUpdate{GeneratedCode: &code})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// The existing record is untouched.
	got, err := store.Snippets.GetByID(ctx, snippet.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Title)
	assert.Empty(t, got.GeneratedCode)
}

func TestMemoryStore_RequirementsListByDocument(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	userID := uuid.New()
	docA := uuid.New()
	docB := uuid.New()

	for i, docID := range []uuid.UUID{docA, docB, docA} {
		req := &models.Requirement{
			DocumentID: docID,
			UserID:     &userID,
			Text:       fmt.Sprintf("requirement %d", i),
			Phase:      models.PhaseRequirements,
			Confidence: 90,
		}
		require.NoError(t, store.Requirements.Create(ctx, req))
	}

	reqs, err := store.Requirements.ListByDocument(ctx, docA)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "requirement 0", reqs[0].Text)
	assert.Equal(t, "requirement 2", reqs[1].Text)
}

func TestMemoryStore_StoredRecordsDoNotAliasCallerValues(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	userID := uuid.New()

	doc := &models.Documentation{
		UserID:   &userID,
		Style:    models.StyleTechnical,
		Overview: "original overview",
		Features: []string{"feature"},
	}
	require.NoError(t, store.Documentations.Create(ctx, doc))

	// Mutating the caller's copy must not leak into the store.
	doc.Overview = "mutated"

	got, err := store.Documentations.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "original overview", got.Overview)
}

func TestMemoryStore_DocumentationCreateDefaultsCollections(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	userID := uuid.New()

	doc := &models.Documentation{UserID: &userID, Style: models.StyleAPI}
	require.NoError(t, store.Documentations.Create(ctx, doc))

	got, err := store.Documentations.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Features)
	assert.NotNil(t, got.Methods)
	assert.Empty(t, got.Features)
	assert.Empty(t, got.Methods)
}

func TestMemoryStore_UserGetByUsername(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	user := &models.User{Username: "demo", Password: "demo", Email: "demo@example.com"}
	require.NoError(t, store.Users.Create(ctx, user))

	got, err := store.Users.GetByUsername(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = store.Users.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryStore_ConcurrentCreatesDoNotCollide(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	userID := uuid.New()

	const n = 50
	done := make(chan uuid.UUID, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			msg := &models.ChatMessage{UserID: &userID, Message: fmt.Sprintf("m%d", i)}
			if err := store.ChatMessages.Create(ctx, msg); err != nil {
				done <- uuid.Nil
				return
			}
			done <- msg.ID
		}(i)
	}

	seen := make(map[uuid.UUID]bool, n)
	for i := 0; i < n; i++ {
		id := <-done
		require.NotEqual(t, uuid.Nil, id)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}

	msgs, err := store.ChatMessages.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, msgs, n)
}
