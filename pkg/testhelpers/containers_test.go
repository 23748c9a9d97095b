//go:build integration

package testhelpers

import (
	"context"
	"testing"
)

func TestGetTestDB_Connection(t *testing.T) {
	testDB := GetTestDB(t)

	ctx := context.Background()

	var one int
	if err := testDB.DB.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		t.Fatalf("failed to query test database: %v", err)
	}
	if one != 1 {
		t.Errorf("expected 1, got %d", one)
	}
}

func TestGetTestDB_MigratedSchema(t *testing.T) {
	testDB := GetTestDB(t)

	ctx := context.Background()

	tables := []string{
		"users",
		"documents",
		"requirements",
		"code_snippets",
		"test_cases",
		"documentations",
		"chat_messages",
	}
	for _, table := range tables {
		var exists bool
		err := testDB.DB.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)",
			table).Scan(&exists)
		if err != nil {
			t.Fatalf("failed to check table %s: %v", table, err)
		}
		if !exists {
			t.Errorf("expected table %s to exist after migrations", table)
		}
	}
}

func TestGetTestDB_SharedAcrossCalls(t *testing.T) {
	first := GetTestDB(t)
	second := GetTestDB(t)

	if first != second {
		t.Error("expected GetTestDB to return the shared instance")
	}
}
