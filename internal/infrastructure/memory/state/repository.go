package state

import (
	"context"
	"sort"
	"sync"
	"time"

	eventv1 "github.com/muhammadchandra19/token-exchange/internal/domain/event/v1"
	statev1 "github.com/muhammadchandra19/token-exchange/internal/domain/state/v1"
	"github.com/muhammadchandra19/token-exchange/pkg/errors"
)

// Repository keeps state in process memory. It backs tests and the memory
// store driver, where durability comes from the Redis checkpoint only.
type Repository struct {
	mu      sync.Mutex
	tables  *statev1.State
	events  []eventv1.Event
	pending map[uint64]struct{}
}

var _ statev1.Repository = (*Repository)(nil)

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{
		tables:  statev1.NewState(),
		pending: make(map[uint64]struct{}),
	}
}

// NewRepositoryFromSnapshot starts from a checkpoint. Events up to the
// checkpoint are considered published.
func NewRepositoryFromSnapshot(snap *statev1.Snapshot) (*Repository, error) {
	tables, err := statev1.FromSnapshot(snap)
	if err != nil {
		return nil, errors.NewTracer("memory_state_restore").Wrap(err)
	}
	return &Repository{
		tables:  tables,
		pending: make(map[uint64]struct{}),
	}, nil
}

// Load returns a deep copy of the tables.
func (r *Repository) Load(_ context.Context) (*statev1.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tables.Snapshot(time.Time{}), nil
}

// Persist applies the changeset.
func (r *Repository) Persist(ctx context.Context, cs *statev1.Changeset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cs == nil || cs.Empty() {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tables.Apply(cs)
	for _, e := range cs.Events {
		r.events = append(r.events, e)
		r.pending[e.Seq] = struct{}{}
	}
	return nil
}

// PendingEvents returns unpublished events in sequence order.
func (r *Repository) PendingEvents(_ context.Context, limit int) ([]eventv1.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seqs := make([]uint64, 0, len(r.pending))
	for seq := range r.pending {
		seqs = append(seqs, seq)
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })
	if len(seqs) > limit {
		seqs = seqs[:limit]
	}
	if len(seqs) == 0 {
		return nil, nil
	}

	// events are appended in seq order starting after the restored head
	first := r.events[0].Seq
	out := make([]eventv1.Event, 0, len(seqs))
	for _, seq := range seqs {
		out = append(out, r.events[seq-first])
	}
	return out, nil
}

// MarkPublished drops the pending flag.
func (r *Repository) MarkPublished(_ context.Context, seqs []uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, seq := range seqs {
		delete(r.pending, seq)
	}
	return nil
}

// Events returns every persisted event, published or not.
func (r *Repository) Events() []eventv1.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]eventv1.Event(nil), r.events...)
}
