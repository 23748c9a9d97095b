// Package repositories provides persistence for the seven record
// kinds. Every repository interface has two implementations: an
// in-memory one that keeps records for the lifetime of the process,
// and a PostgreSQL one backed by a connection pool. Records are
// append-only; code snippets are the single kind with an in-place
// update.
package repositories

import (
	"github.com/codeloom-ai/codeloom-engine/pkg/database"
)

// Store bundles one repository per record kind so the composition
// root hands handlers the whole persistence surface at once.
type Store struct {
	Users          UserRepository
	Documents      DocumentRepository
	Requirements   RequirementRepository
	Snippets       SnippetRepository
	TestCases      TestCaseRepository
	Documentations DocumentationRepository
	ChatMessages   ChatMessageRepository
}

// NewMemoryStore creates a store keeping all records in process
// memory. Suited to local runs and tests; records do not survive a
// restart.
func NewMemoryStore() *Store {
	return &Store{
		Users:          newMemoryUserRepository(),
		Documents:      newMemoryDocumentRepository(),
		Requirements:   newMemoryRequirementRepository(),
		Snippets:       newMemorySnippetRepository(),
		TestCases:      newMemoryTestCaseRepository(),
		Documentations: newMemoryDocumentationRepository(),
		ChatMessages:   newMemoryChatMessageRepository(),
	}
}

// NewPostgresStore creates a store backed by the given connection
// pool. The schema must already be migrated.
func NewPostgresStore(db *database.DB) *Store {
	return &Store{
		Users:          newPostgresUserRepository(db),
		Documents:      newPostgresDocumentRepository(db),
		Requirements:   newPostgresRequirementRepository(db),
		Snippets:       newPostgresSnippetRepository(db),
		TestCases:      newPostgresTestCaseRepository(db),
		Documentations: newPostgresDocumentationRepository(db),
		ChatMessages:   newPostgresChatMessageRepository(db),
	}
}
