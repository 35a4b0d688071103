package snapshot

import (
	"context"
	"encoding/json"

	snapshotv1 "github.com/muhammadchandra19/token-exchange/internal/domain/snapshot/v1"
	statev1 "github.com/muhammadchandra19/token-exchange/internal/domain/state/v1"
	"github.com/muhammadchandra19/token-exchange/pkg/errors"
	"github.com/muhammadchandra19/token-exchange/pkg/logger"
	"github.com/muhammadchandra19/token-exchange/pkg/redis"
)

// Store keeps the latest checkpoint as one JSON document in Redis.
type Store struct {
	key         string
	logger      logger.Interface
	redisclient redis.Client
}

var _ snapshotv1.Store = (*Store)(nil)

// NewSnapshotStore creates a Store writing under the given key, prefixed by
// the client's PrefixKey.
func NewSnapshotStore(redisclient redis.Client, key string, log logger.Interface) *Store {
	return &Store{
		key:         redisclient.Key(key),
		redisclient: redisclient,
		logger:      log,
	}
}

// Store overwrites the checkpoint.
func (s *Store) Store(ctx context.Context, snapshot *statev1.Snapshot) error {
	buf, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.ErrorContext(ctx, err,
			logger.Field{Key: "key", Value: s.key},
			logger.Field{Key: "action", Value: "marshal snapshot"},
		)
		return errors.NewTracer("snapshot_marshal_error").Wrap(err)
	}

	if err := s.redisclient.Set(ctx, s.key, buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err,
			logger.Field{Key: "key", Value: s.key},
			logger.Field{Key: "action", Value: "store snapshot"},
		)
		return errors.NewTracer("snapshot_store_error").Wrap(err)
	}

	s.logger.InfoContext(ctx, "snapshot stored",
		logger.Field{Key: "key", Value: s.key},
		logger.Field{Key: "seq", Value: snapshot.Seq},
		logger.Field{Key: "orders", Value: len(snapshot.Orders)},
	)
	return nil
}

// Load returns the stored checkpoint, or nil when there is none.
func (s *Store) Load(ctx context.Context) (*statev1.Snapshot, error) {
	data, err := s.redisclient.Get(ctx, s.key)
	if err != nil {
		s.logger.ErrorContext(ctx, err,
			logger.Field{Key: "key", Value: s.key},
			logger.Field{Key: "action", Value: "load snapshot"},
		)
		return nil, errors.NewTracer("snapshot_load_error").Wrap(err)
	}

	if data == "" {
		s.logger.WarnContext(ctx, "no snapshot found",
			logger.Field{Key: "key", Value: s.key},
		)
		return nil, nil
	}

	var snapshot statev1.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		s.logger.ErrorContext(ctx, err,
			logger.Field{Key: "key", Value: s.key},
			logger.Field{Key: "action", Value: "unmarshal snapshot"},
		)
		return nil, errors.NewTracer("snapshot_unmarshal_error").Wrap(err)
	}

	return &snapshot, nil
}
