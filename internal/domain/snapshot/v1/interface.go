package snapshotv1

import (
	"context"

	statev1 "github.com/muhammadchandra19/token-exchange/internal/domain/state/v1"
)

// Store keeps the latest verified checkpoint of the engine state.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=snapshotv1_mock
type Store interface {
	Store(ctx context.Context, snapshot *statev1.Snapshot) error
	// Load returns nil, nil when no checkpoint exists.
	Load(ctx context.Context) (*statev1.Snapshot, error)
}
