package usage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/normanking/thalamus/internal/intent"
)

// ErrNotFound is returned when a tool has no recorded selections.
var ErrNotFound = errors.New("tool not recorded")

// ToolCount is one row of the counter table.
type ToolCount struct {
	Tool      intent.Tool `json:"tool"`
	Count     int64       `json:"count"`
	FirstUsed time.Time   `json:"first_used"`
	LastUsed  time.Time   `json:"last_used"`
}

// Record increments the counter for tool and returns the new total.
func (s *Store) Record(ctx context.Context, tool intent.Tool) (int64, error) {
	if tool == "" {
		return 0, fmt.Errorf("tool cannot be empty")
	}

	now := time.Now().UTC()
	var total int64

	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		upsert := `
			INSERT INTO tool_usage (tool, count, first_used_at, last_used_at)
			VALUES (?, 1, ?, ?)
			ON CONFLICT(tool) DO UPDATE SET
				count = count + 1,
				last_used_at = excluded.last_used_at
		`
		s.trace.SQL(upsert, tool)
		if _, err := tx.ExecContext(ctx, upsert, string(tool), now, now); err != nil {
			return fmt.Errorf("upsert counter: %w", err)
		}

		row := tx.QueryRowContext(ctx, "SELECT count FROM tool_usage WHERE tool = ?", string(tool))
		if err := row.Scan(&total); err != nil {
			return fmt.Errorf("read counter: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Debug().Str("tool", string(tool)).Int64("count", total).Msg("usage recorded")
	return total, nil
}

// Count returns the recorded total for a single tool.
// Returns ErrNotFound if the tool has never been selected.
func (s *Store) Count(ctx context.Context, tool intent.Tool) (int64, error) {
	query := "SELECT count FROM tool_usage WHERE tool = ?"
	s.trace.SQL(query, tool)

	var total int64
	err := s.db.QueryRowContext(ctx, query, string(tool)).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%s: %w", tool, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("query counter: %w", err)
	}

	return total, nil
}

// Counts returns every tool's recorded total.
func (s *Store) Counts(ctx context.Context) (map[intent.Tool]int64, error) {
	query := "SELECT tool, count FROM tool_usage"
	s.trace.SQL(query)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query counters: %w", err)
	}
	defer rows.Close()

	counts := make(map[intent.Tool]int64)
	for rows.Next() {
		var tool string
		var total int64
		if err := rows.Scan(&tool, &total); err != nil {
			return nil, fmt.Errorf("scan counter: %w", err)
		}
		counts[intent.Tool(tool)] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counters: %w", err)
	}

	return counts, nil
}

// Top returns the n most-selected tools, most used first. Ties break on
// wire name so the order is stable. n <= 0 returns every row.
func (s *Store) Top(ctx context.Context, n int) ([]ToolCount, error) {
	query := `
		SELECT tool, count, first_used_at, last_used_at
		FROM tool_usage
		ORDER BY count DESC, tool ASC
	`
	var args []interface{}
	if n > 0 {
		query += " LIMIT ?"
		args = append(args, n)
	}
	s.trace.SQL(query, args...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query top tools: %w", err)
	}
	defer rows.Close()

	var out []ToolCount
	for rows.Next() {
		var tc ToolCount
		var tool string
		if err := rows.Scan(&tool, &tc.Count, &tc.FirstUsed, &tc.LastUsed); err != nil {
			return nil, fmt.Errorf("scan usage row: %w", err)
		}
		tc.Tool = intent.Tool(tool)
		out = append(out, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage rows: %w", err)
	}

	return out, nil
}

// Reset clears every counter.
func (s *Store) Reset(ctx context.Context) error {
	query := "DELETE FROM tool_usage"
	s.trace.SQL(query)

	result, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("reset counters: %w", err)
	}

	cleared, _ := result.RowsAffected()
	log.Info().Int64("cleared", cleared).Msg("usage counters reset")
	return nil
}
