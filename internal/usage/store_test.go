package usage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/normanking/thalamus/internal/intent"
	"github.com/normanking/thalamus/internal/selector"
)

// The tally must satisfy the selection engine's recorder contract.
var _ selector.Recorder = (*Tally)(nil)

// testStore creates a store over an in-memory SQLite database.
func testStore(t *testing.T) *Store {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1) // each pooled conn would get its own :memory: database
	t.Cleanup(func() { db.Close() })

	store, err := NewStore(db)
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	return store
}

// TestRecord verifies counter increments.
func TestRecord(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	total, err := store.Record(ctx, intent.ToolPlayMusic)
	if err != nil {
		t.Fatalf("first Record failed: %v", err)
	}
	if total != 1 {
		t.Errorf("expected total 1 after first record, got %d", total)
	}

	total, err = store.Record(ctx, intent.ToolPlayMusic)
	if err != nil {
		t.Fatalf("second Record failed: %v", err)
	}
	if total != 2 {
		t.Errorf("expected total 2 after second record, got %d", total)
	}

	// A different tool gets its own counter
	total, err = store.Record(ctx, intent.ToolControlLights)
	if err != nil {
		t.Fatalf("Record for second tool failed: %v", err)
	}
	if total != 1 {
		t.Errorf("expected independent counter at 1, got %d", total)
	}
}

// TestRecord_EmptyTool verifies input validation.
func TestRecord_EmptyTool(t *testing.T) {
	store := testStore(t)

	if _, err := store.Record(context.Background(), ""); err == nil {
		t.Error("Record should reject an empty tool name")
	}
}

// TestRecord_Timestamps verifies first/last used bookkeeping.
func TestRecord_Timestamps(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	store.Record(ctx, intent.ToolPlayMusic)
	store.Record(ctx, intent.ToolPlayMusic)

	rows, err := store.Top(ctx, 1)
	if err != nil {
		t.Fatalf("Top failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row.FirstUsed.IsZero() {
		t.Error("FirstUsed should be set")
	}
	if row.LastUsed.Before(row.FirstUsed) {
		t.Errorf("LastUsed %v precedes FirstUsed %v", row.LastUsed, row.FirstUsed)
	}
}

// TestCount verifies single-tool lookup and the not-found sentinel.
func TestCount(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	store.Record(ctx, intent.ToolReadGmail)
	store.Record(ctx, intent.ToolReadGmail)
	store.Record(ctx, intent.ToolReadGmail)

	total, err := store.Count(ctx, intent.ToolReadGmail)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if total != 3 {
		t.Errorf("expected count 3, got %d", total)
	}

	_, err = store.Count(ctx, intent.ToolWebSearch)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unrecorded tool, got %v", err)
	}
}

// TestCounts verifies the full counter map.
func TestCounts(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	store.Record(ctx, intent.ToolPlayMusic)
	store.Record(ctx, intent.ToolPlayMusic)
	store.Record(ctx, intent.ToolControlLights)

	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}

	if len(counts) != 2 {
		t.Errorf("expected 2 entries, got %d", len(counts))
	}
	if counts[intent.ToolPlayMusic] != 2 {
		t.Errorf("expected play_music at 2, got %d", counts[intent.ToolPlayMusic])
	}
	if counts[intent.ToolControlLights] != 1 {
		t.Errorf("expected control_lights at 1, got %d", counts[intent.ToolControlLights])
	}
}

// TestTop verifies ordering, tie-breaks, and the limit.
func TestTop(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		store.Record(ctx, intent.ToolPlayMusic)
	}
	for i := 0; i < 2; i++ {
		store.Record(ctx, intent.ToolReadGmail)
	}
	// Two tools tied at 1, alphabetical order decides
	store.Record(ctx, intent.ToolWebSearch)
	store.Record(ctx, intent.ToolControlLights)

	rows, err := store.Top(ctx, 10)
	if err != nil {
		t.Fatalf("Top failed: %v", err)
	}

	want := []intent.Tool{
		intent.ToolPlayMusic,
		intent.ToolReadGmail,
		intent.ToolControlLights,
		intent.ToolWebSearch,
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i, w := range want {
		if rows[i].Tool != w {
			t.Errorf("row %d: expected %s, got %s", i, w, rows[i].Tool)
		}
	}

	t.Run("limit caps rows", func(t *testing.T) {
		rows, err := store.Top(ctx, 2)
		if err != nil {
			t.Fatalf("Top with limit failed: %v", err)
		}
		if len(rows) != 2 {
			t.Errorf("expected 2 rows, got %d", len(rows))
		}
	})

	t.Run("non-positive n returns everything", func(t *testing.T) {
		rows, err := store.Top(ctx, 0)
		if err != nil {
			t.Fatalf("Top without limit failed: %v", err)
		}
		if len(rows) != 4 {
			t.Errorf("expected 4 rows, got %d", len(rows))
		}
	})
}

// TestReset verifies counters are cleared.
func TestReset(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	store.Record(ctx, intent.ToolPlayMusic)
	store.Record(ctx, intent.ToolReadGmail)

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts after reset failed: %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("expected empty counters after reset, got %v", counts)
	}

	if _, err := store.Count(ctx, intent.ToolPlayMusic); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after reset, got %v", err)
	}
}

// TestTally verifies the context-free recorder adapter.
func TestTally(t *testing.T) {
	store := testStore(t)
	tally := NewTally(nil, store)

	total, err := tally.Record(intent.ToolPlayMusic)
	if err != nil {
		t.Fatalf("Tally.Record failed: %v", err)
	}
	if total != 1 {
		t.Errorf("expected total 1, got %d", total)
	}

	total, err = tally.Record(intent.ToolPlayMusic)
	if err != nil {
		t.Fatalf("second Tally.Record failed: %v", err)
	}
	if total != 2 {
		t.Errorf("expected total 2, got %d", total)
	}

	if tally.Store() != store {
		t.Error("Store() should return the wrapped store")
	}
}

// TestTally_DetachedFromCancelledBase verifies a dying base context does
// not abort the write.
func TestTally_DetachedFromCancelledBase(t *testing.T) {
	store := testStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	tally := NewTally(ctx, store)
	cancel()

	total, err := tally.Record(intent.ToolReadGmail)
	if err != nil {
		t.Fatalf("Record after base cancellation failed: %v", err)
	}
	if total != 1 {
		t.Errorf("expected total 1, got %d", total)
	}
}
