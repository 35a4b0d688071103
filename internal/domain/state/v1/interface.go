package statev1

import (
	"context"

	eventv1 "github.com/muhammadchandra19/token-exchange/internal/domain/event/v1"
)

// Repository is the durable copy of the tables plus the event outbox.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=statev1_mock
type Repository interface {
	// Load returns the full persisted state. An empty store yields an empty snapshot.
	Load(ctx context.Context) (*Snapshot, error)
	// Persist writes one changeset atomically, events included.
	Persist(ctx context.Context, cs *Changeset) error
	// PendingEvents returns up to limit unpublished events in sequence order.
	PendingEvents(ctx context.Context, limit int) ([]eventv1.Event, error)
	// MarkPublished flags events as delivered.
	MarkPublished(ctx context.Context, seqs []uint64) error
}
