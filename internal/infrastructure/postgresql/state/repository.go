package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/holiman/uint256"
	"github.com/jackc/pgx/v5"
	assetv1 "github.com/muhammadchandra19/token-exchange/internal/domain/asset/v1"
	eventv1 "github.com/muhammadchandra19/token-exchange/internal/domain/event/v1"
	exchangev1 "github.com/muhammadchandra19/token-exchange/internal/domain/exchange/v1"
	statev1 "github.com/muhammadchandra19/token-exchange/internal/domain/state/v1"
	"github.com/muhammadchandra19/token-exchange/pkg/errors"
	"github.com/muhammadchandra19/token-exchange/pkg/logger"
	"github.com/muhammadchandra19/token-exchange/pkg/postgresql"
)

const (
	selectAssetsQuery     = `SELECT id, name, symbol, decimals, total_supply::text, issuer, issued_at FROM assets ORDER BY id`
	selectBalancesQuery   = `SELECT asset_id, holder, amount::text FROM balances ORDER BY asset_id, holder`
	selectAllowancesQuery = `SELECT asset_id, owner, spender, amount::text FROM allowances ORDER BY asset_id, owner, spender`
	selectCustodyQuery    = `SELECT asset_id, holder, amount::text FROM custody_balances ORDER BY asset_id, holder`
	selectOrdersQuery     = `SELECT id, owner, asset_get, amount_get::text, asset_give, amount_give::text, created_at, status FROM orders ORDER BY id`
	selectHeadQuery       = `SELECT COALESCE(MAX(seq), 0), MAX(created_at) FROM events`
	selectPendingQuery    = `SELECT seq, type, payload, created_at FROM events WHERE published_at IS NULL ORDER BY seq LIMIT $1`
	markPublishedQuery    = `UPDATE events SET published_at = now() WHERE seq = ANY($1) AND published_at IS NULL`

	insertAssetQuery = `INSERT INTO assets (id, name, symbol, decimals, total_supply, issuer, issued_at)
			  VALUES ($1, $2, $3, $4, $5::numeric, $6, $7)`
	upsertBalanceQuery = `INSERT INTO balances (asset_id, holder, amount) VALUES ($1, $2, $3::numeric)
			  ON CONFLICT (asset_id, holder) DO UPDATE SET amount = EXCLUDED.amount`
	upsertAllowanceQuery = `INSERT INTO allowances (asset_id, owner, spender, amount) VALUES ($1, $2, $3, $4::numeric)
			  ON CONFLICT (asset_id, owner, spender) DO UPDATE SET amount = EXCLUDED.amount`
	upsertCustodyQuery = `INSERT INTO custody_balances (asset_id, holder, amount) VALUES ($1, $2, $3::numeric)
			  ON CONFLICT (asset_id, holder) DO UPDATE SET amount = EXCLUDED.amount`
	insertOrderQuery = `INSERT INTO orders (id, owner, asset_get, amount_get, asset_give, amount_give, created_at, status)
			  VALUES ($1, $2, $3, $4::numeric, $5, $6::numeric, $7, $8)`
	updateOrderQuery = `UPDATE orders SET status = $2 WHERE id = $1`
	insertEventQuery = `INSERT INTO events (seq, type, payload, created_at) VALUES ($1, $2, $3, $4)`
)

// Repository persists engine state in PostgreSQL. Every changeset is written
// in one transaction, events included, so the outbox never disagrees with the tables.
type Repository struct {
	client postgresql.PostgreSQLClient
	logger logger.Interface
}

var _ statev1.Repository = (*Repository)(nil)

// NewRepository creates a new repository.
func NewRepository(client postgresql.PostgreSQLClient, log logger.Interface) *Repository {
	return &Repository{
		client: client,
		logger: log,
	}
}

// Load reads every table.
func (r *Repository) Load(ctx context.Context) (*statev1.Snapshot, error) {
	snap := &statev1.Snapshot{}

	err := r.queryAll(ctx, selectAssetsQuery, func(rows postgresql.RowsInterface) error {
		var (
			a        assetv1.Asset
			decimals int16
			supply   string
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Symbol, &decimals, &supply, &a.Issuer, &a.IssuedAt); err != nil {
			return err
		}
		amount, err := parseAmount(supply)
		if err != nil {
			return err
		}
		a.Decimals = uint8(decimals)
		a.TotalSupply = amount
		a.IssuedAt = a.IssuedAt.UTC()
		snap.Assets = append(snap.Assets, &a)
		return nil
	})
	if err != nil {
		return nil, r.fail(ctx, "load_assets", err)
	}

	if snap.Balances, err = r.loadBalances(ctx, selectBalancesQuery); err != nil {
		return nil, r.fail(ctx, "load_balances", err)
	}
	if snap.Custody, err = r.loadBalances(ctx, selectCustodyQuery); err != nil {
		return nil, r.fail(ctx, "load_custody", err)
	}

	err = r.queryAll(ctx, selectAllowancesQuery, func(rows postgresql.RowsInterface) error {
		var (
			e      statev1.AllowanceEntry
			amount string
		)
		if err := rows.Scan(&e.Asset, &e.Owner, &e.Spender, &amount); err != nil {
			return err
		}
		v, err := parseAmount(amount)
		if err != nil {
			return err
		}
		e.Amount = v
		snap.Allowances = append(snap.Allowances, e)
		return nil
	})
	if err != nil {
		return nil, r.fail(ctx, "load_allowances", err)
	}

	err = r.queryAll(ctx, selectOrdersQuery, func(rows postgresql.RowsInterface) error {
		var (
			o                     exchangev1.Order
			id                    int64
			amountGet, amountGive string
		)
		if err := rows.Scan(&id, &o.Owner, &o.AssetGet, &amountGet, &o.AssetGive, &amountGive, &o.Timestamp, &o.Status); err != nil {
			return err
		}
		var err error
		if o.AmountGet, err = parseAmount(amountGet); err != nil {
			return err
		}
		if o.AmountGive, err = parseAmount(amountGive); err != nil {
			return err
		}
		o.ID = uint64(id)
		o.Timestamp = o.Timestamp.UTC()
		snap.Orders = append(snap.Orders, &o)
		return nil
	})
	if err != nil {
		return nil, r.fail(ctx, "load_orders", err)
	}

	var (
		seq  int64
		last *time.Time
	)
	if err := r.client.QueryRow(ctx, selectHeadQuery).Scan(&seq, &last); err != nil {
		return nil, r.fail(ctx, "load_event_head", err)
	}
	snap.Seq = uint64(seq)
	if last != nil {
		snap.LastTimestamp = last.UTC()
	}

	r.logger.InfoContext(ctx, "state loaded from postgres",
		logger.Field{Key: "seq", Value: snap.Seq},
		logger.Field{Key: "assets", Value: len(snap.Assets)},
		logger.Field{Key: "orders", Value: len(snap.Orders)},
	)
	return snap, nil
}

// Persist writes the changeset in a single transaction.
func (r *Repository) Persist(ctx context.Context, cs *statev1.Changeset) error {
	if cs == nil || cs.Empty() {
		return nil
	}

	batch, err := buildBatch(cs)
	if err != nil {
		return r.fail(ctx, "persist_build", err)
	}

	err = postgresql.WithTx(ctx, r.client, func(txCtx context.Context) error {
		results := r.client.SendBatch(txCtx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("statement %d: %w", i, err)
			}
		}
		return results.Close()
	})
	if err != nil {
		return r.fail(ctx, "persist", err)
	}
	return nil
}

// PendingEvents returns unpublished events in sequence order.
func (r *Repository) PendingEvents(ctx context.Context, limit int) ([]eventv1.Event, error) {
	var events []eventv1.Event
	err := r.queryAll(ctx, selectPendingQuery, func(rows postgresql.RowsInterface) error {
		var (
			seq       int64
			eventType string
			payload   []byte
			createdAt time.Time
		)
		if err := rows.Scan(&seq, &eventType, &payload, &createdAt); err != nil {
			return err
		}
		p, err := eventv1.DecodePayload(eventv1.Type(eventType), payload)
		if err != nil {
			return err
		}
		events = append(events, eventv1.Event{
			Seq:       uint64(seq),
			Type:      eventv1.Type(eventType),
			Timestamp: createdAt.UTC(),
			Payload:   p,
		})
		return nil
	}, limit)
	if err != nil {
		return nil, r.fail(ctx, "pending_events", err)
	}
	return events, nil
}

// MarkPublished sets published_at on the given events.
func (r *Repository) MarkPublished(ctx context.Context, seqs []uint64) error {
	if len(seqs) == 0 {
		return nil
	}

	ids := make([]int64, len(seqs))
	for i, s := range seqs {
		ids[i] = int64(s)
	}

	if _, err := r.client.Exec(ctx, markPublishedQuery, ids); err != nil {
		return r.fail(ctx, "mark_published", err)
	}
	return nil
}

func (r *Repository) loadBalances(ctx context.Context, query string) ([]statev1.BalanceEntry, error) {
	var entries []statev1.BalanceEntry
	err := r.queryAll(ctx, query, func(rows postgresql.RowsInterface) error {
		var (
			e      statev1.BalanceEntry
			amount string
		)
		if err := rows.Scan(&e.Asset, &e.Holder, &amount); err != nil {
			return err
		}
		v, err := parseAmount(amount)
		if err != nil {
			return err
		}
		e.Amount = v
		entries = append(entries, e)
		return nil
	})
	return entries, err
}

func (r *Repository) queryAll(ctx context.Context, query string, scan func(rows postgresql.RowsInterface) error, args ...any) error {
	rows, err := r.client.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *Repository) fail(ctx context.Context, op string, err error) error {
	r.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: op})
	return errors.NewTracer(fmt.Sprintf("postgres_state_%s", op)).Wrap(err)
}

func buildBatch(cs *statev1.Changeset) (*pgx.Batch, error) {
	batch := &pgx.Batch{}

	for _, a := range cs.Assets {
		batch.Queue(insertAssetQuery, a.ID, a.Name, a.Symbol, int16(a.Decimals), a.TotalSupply.Dec(), a.Issuer, a.IssuedAt)
	}
	for _, b := range cs.Balances {
		batch.Queue(upsertBalanceQuery, b.Asset, b.Holder, b.Amount.Dec())
	}
	for _, a := range cs.Allowances {
		batch.Queue(upsertAllowanceQuery, a.Asset, a.Owner, a.Spender, a.Amount.Dec())
	}
	for _, c := range cs.Custody {
		batch.Queue(upsertCustodyQuery, c.Asset, c.Holder, c.Amount.Dec())
	}
	for _, o := range cs.NewOrders {
		batch.Queue(insertOrderQuery, int64(o.ID), o.Owner, o.AssetGet, o.AmountGet.Dec(), o.AssetGive, o.AmountGive.Dec(), o.Timestamp, string(o.Status))
	}
	for _, o := range cs.UpdatedOrders {
		batch.Queue(updateOrderQuery, int64(o.ID), string(o.Status))
	}
	for _, e := range cs.Events {
		payload, err := json.Marshal(e.Payload)
		if err != nil {
			return nil, err
		}
		batch.Queue(insertEventQuery, int64(e.Seq), string(e.Type), payload, e.Timestamp)
	}

	return batch, nil
}

func parseAmount(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}
