package state

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	assetv1 "github.com/muhammadchandra19/token-exchange/internal/domain/asset/v1"
	eventv1 "github.com/muhammadchandra19/token-exchange/internal/domain/event/v1"
	exchangev1 "github.com/muhammadchandra19/token-exchange/internal/domain/exchange/v1"
	statev1 "github.com/muhammadchandra19/token-exchange/internal/domain/state/v1"
	"github.com/muhammadchandra19/token-exchange/pkg/errors"
	"github.com/muhammadchandra19/token-exchange/pkg/logger"
	"go.uber.org/zap"
)

// Key prefixes. Composite keys separate their parts with a zero byte, which
// never appears in ids or addresses.
const (
	prefixAsset     = "asset/"
	prefixBalance   = "balance/"
	prefixAllowance = "allowance/"
	prefixCustody   = "custody/"
	prefixOrder     = "order/"
	prefixEvent     = "event/"
	prefixPending   = "pending/"
	keyHead         = "meta/head"
)

type head struct {
	Seq           uint64    `json:"seq"`
	LastTimestamp time.Time `json:"last_timestamp"`
}

// Repository persists engine state in an embedded pebble store. Each
// changeset is one synced batch; unpublished events carry a pending/ marker.
type Repository struct {
	db     *pebble.DB
	logger logger.Interface

	mu   sync.Mutex
	head head
}

var _ statev1.Repository = (*Repository)(nil)

// Open opens or creates the store under dir.
func Open(dir string, log logger.Interface) (*Repository, error) {
	db, err := pebble.Open(dir, &pebble.Options{Logger: newPebbleLogger(log)})
	if err != nil {
		return nil, errors.NewTracer("pebble_open").Wrap(err)
	}

	r := &Repository{db: db, logger: log}
	if err := r.readJSON([]byte(keyHead), &r.head); err != nil && err != pebble.ErrNotFound {
		db.Close()
		return nil, errors.NewTracer("pebble_read_head").Wrap(err)
	}
	return r, nil
}

// pebbleLogger sends the store's own messages to the service logger.
type pebbleLogger struct {
	sugar *zap.SugaredLogger
}

var _ pebble.Logger = pebbleLogger{}

func newPebbleLogger(log logger.Interface) pebbleLogger {
	return pebbleLogger{sugar: log.GetZap().Sugar().With("component", "pebble")}
}

func (l pebbleLogger) Infof(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l pebbleLogger) Fatalf(format string, args ...interface{}) {
	l.sugar.Fatalf(format, args...)
}

// Close closes the store.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Load scans every prefix.
func (r *Repository) Load(ctx context.Context) (*statev1.Snapshot, error) {
	r.mu.Lock()
	h := r.head
	r.mu.Unlock()

	snap := &statev1.Snapshot{Seq: h.Seq, LastTimestamp: h.LastTimestamp}

	err := r.scan(prefixAsset, func(_, value []byte) error {
		var a assetv1.Asset
		if err := json.Unmarshal(value, &a); err != nil {
			return err
		}
		snap.Assets = append(snap.Assets, &a)
		return nil
	})
	if err != nil {
		return nil, r.fail(ctx, "load_assets", err)
	}

	if snap.Balances, err = r.scanBalances(prefixBalance); err != nil {
		return nil, r.fail(ctx, "load_balances", err)
	}
	if snap.Custody, err = r.scanBalances(prefixCustody); err != nil {
		return nil, r.fail(ctx, "load_custody", err)
	}

	err = r.scan(prefixAllowance, func(_, value []byte) error {
		var e statev1.AllowanceEntry
		if err := json.Unmarshal(value, &e); err != nil {
			return err
		}
		snap.Allowances = append(snap.Allowances, e)
		return nil
	})
	if err != nil {
		return nil, r.fail(ctx, "load_allowances", err)
	}

	// order keys are zero padded, so iteration order is id order
	err = r.scan(prefixOrder, func(_, value []byte) error {
		var o exchangev1.Order
		if err := json.Unmarshal(value, &o); err != nil {
			return err
		}
		snap.Orders = append(snap.Orders, &o)
		return nil
	})
	if err != nil {
		return nil, r.fail(ctx, "load_orders", err)
	}

	r.logger.InfoContext(ctx, "state loaded from pebble",
		logger.Field{Key: "seq", Value: snap.Seq},
		logger.Field{Key: "assets", Value: len(snap.Assets)},
		logger.Field{Key: "orders", Value: len(snap.Orders)},
	)
	return snap, nil
}

// Persist writes the changeset as one synced batch.
func (r *Repository) Persist(ctx context.Context, cs *statev1.Changeset) error {
	if cs == nil || cs.Empty() {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.head
	if seq := cs.LastSeq(); seq > next.Seq {
		next.Seq = seq
	}
	if cs.Timestamp.After(next.LastTimestamp) {
		next.LastTimestamp = cs.Timestamp
	}

	batch := r.db.NewBatch()
	defer batch.Close()

	put := func(key []byte, v any) error {
		value, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return batch.Set(key, value, nil)
	}

	err := func() error {
		for _, a := range cs.Assets {
			if err := put(assetKey(a.ID), a); err != nil {
				return err
			}
		}
		for _, b := range cs.Balances {
			if err := put(balanceKey(prefixBalance, b.Asset, b.Holder), b); err != nil {
				return err
			}
		}
		for _, a := range cs.Allowances {
			if err := put(allowanceKey(a.Asset, a.Owner, a.Spender), a); err != nil {
				return err
			}
		}
		for _, c := range cs.Custody {
			if err := put(balanceKey(prefixCustody, c.Asset, c.Holder), c); err != nil {
				return err
			}
		}
		for _, o := range cs.NewOrders {
			if err := put(seqKey(prefixOrder, o.ID), o); err != nil {
				return err
			}
		}
		for _, o := range cs.UpdatedOrders {
			if err := put(seqKey(prefixOrder, o.ID), o); err != nil {
				return err
			}
		}
		for _, e := range cs.Events {
			if err := put(seqKey(prefixEvent, e.Seq), e); err != nil {
				return err
			}
			if err := batch.Set(seqKey(prefixPending, e.Seq), nil, nil); err != nil {
				return err
			}
		}
		return put([]byte(keyHead), next)
	}()
	if err != nil {
		return r.fail(ctx, "persist_build", err)
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		return r.fail(ctx, "persist", err)
	}
	r.head = next
	return nil
}

// PendingEvents walks the pending markers in sequence order.
func (r *Repository) PendingEvents(ctx context.Context, limit int) ([]eventv1.Event, error) {
	var events []eventv1.Event
	err := r.scan(prefixPending, func(key, _ []byte) error {
		if len(events) >= limit {
			return errStop
		}
		seq := bytes.TrimPrefix(key, []byte(prefixPending))

		var e eventv1.Event
		if err := r.readJSON(append([]byte(prefixEvent), seq...), &e); err != nil {
			return fmt.Errorf("event %s: %w", seq, err)
		}
		events = append(events, e)
		return nil
	})
	if err != nil && err != errStop {
		return nil, r.fail(ctx, "pending_events", err)
	}
	return events, nil
}

// MarkPublished removes the pending markers. Event bodies are kept.
func (r *Repository) MarkPublished(ctx context.Context, seqs []uint64) error {
	if len(seqs) == 0 {
		return nil
	}

	batch := r.db.NewBatch()
	defer batch.Close()

	for _, seq := range seqs {
		if err := batch.Delete(seqKey(prefixPending, seq), nil); err != nil {
			return r.fail(ctx, "mark_published", err)
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return r.fail(ctx, "mark_published", err)
	}
	return nil
}

var errStop = fmt.Errorf("stop iteration")

func (r *Repository) scan(prefix string, fn func(key, value []byte) error) error {
	iter, err := r.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: upperBound(prefix),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (r *Repository) scanBalances(prefix string) ([]statev1.BalanceEntry, error) {
	var entries []statev1.BalanceEntry
	err := r.scan(prefix, func(_, value []byte) error {
		var e statev1.BalanceEntry
		if err := json.Unmarshal(value, &e); err != nil {
			return err
		}
		entries = append(entries, e)
		return nil
	})
	return entries, err
}

func (r *Repository) readJSON(key []byte, v any) error {
	value, closer, err := r.db.Get(key)
	if err != nil {
		return err
	}
	defer closer.Close()
	return json.Unmarshal(value, v)
}

func (r *Repository) fail(ctx context.Context, op string, err error) error {
	r.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: op})
	return errors.NewTracer(fmt.Sprintf("pebble_state_%s", op)).Wrap(err)
}

func assetKey(id assetv1.ID) []byte {
	return []byte(prefixAsset + string(id))
}

func balanceKey(prefix string, asset assetv1.ID, holder assetv1.Address) []byte {
	return []byte(prefix + string(asset) + "\x00" + string(holder))
}

func allowanceKey(asset assetv1.ID, owner, spender assetv1.Address) []byte {
	return []byte(prefixAllowance + string(asset) + "\x00" + string(owner) + "\x00" + string(spender))
}

func seqKey(prefix string, n uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", prefix, n))
}

// upperBound is the first key after every key with the given prefix.
func upperBound(prefix string) []byte {
	end := []byte(prefix)
	end[len(end)-1]++
	return end
}
