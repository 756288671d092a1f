package usage

import (
	"context"
	"time"

	"github.com/normanking/thalamus/internal/intent"
	"github.com/normanking/thalamus/internal/logging"
)

// recordTimeout caps how long a post-hoc counter write may run.
const recordTimeout = 5 * time.Second

// Tally adapts a Store to the context-free Recorder shape the selection
// engine consumes. Each write detaches from base and gets its own
// deadline, so a tally triggered by a dying request still lands.
type Tally struct {
	store *Store
	base  context.Context
}

// NewTally wraps store for use as a selection recorder. Values on base
// carry through to each write; nil means context.Background().
func NewTally(base context.Context, store *Store) *Tally {
	if base == nil {
		base = context.Background()
	}
	return &Tally{store: store, base: base}
}

// Record increments the counter for tool and returns the new total.
func (t *Tally) Record(tool intent.Tool) (int64, error) {
	ctx, cancel := logging.DetachContextWithTimeout(t.base, recordTimeout)
	defer cancel()
	return t.store.Record(ctx, tool)
}

// Store returns the wrapped store, for read-side queries.
func (t *Tally) Store() *Store {
	return t.store
}
