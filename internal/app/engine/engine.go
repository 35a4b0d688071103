package engine

import (
	"context"
	"sync"
	"time"

	"github.com/holiman/uint256"
	assetv1 "github.com/muhammadchandra19/token-exchange/internal/domain/asset/v1"
	eventv1 "github.com/muhammadchandra19/token-exchange/internal/domain/event/v1"
	exchangev1 "github.com/muhammadchandra19/token-exchange/internal/domain/exchange/v1"
	ledgerv1 "github.com/muhammadchandra19/token-exchange/internal/domain/ledger/v1"
	snapshotv1 "github.com/muhammadchandra19/token-exchange/internal/domain/snapshot/v1"
	statev1 "github.com/muhammadchandra19/token-exchange/internal/domain/state/v1"
	"github.com/muhammadchandra19/token-exchange/pkg/errors"
	"github.com/muhammadchandra19/token-exchange/pkg/logger"
	"github.com/muhammadchandra19/token-exchange/pkg/util"
)

// ErrNotStarted is returned by commands issued before Start or after Stop.
var ErrNotStarted = errors.NewErrorDetails("engine is not running", errors.EngineNotStarted.String(), "")

// ErrAlreadyStarted is returned by Start on a running engine.
var ErrAlreadyStarted = errors.NewErrorDetails("engine is already running", errors.EngineAlreadyStarted.String(), "")

// Engine owns the tables and serializes every command behind one writer lock.
// A command runs against a Tx overlay, is persisted, and only then applied to
// memory, so a failed command or a failed write leaves nothing behind.
type Engine struct {
	// Core components
	ledger        ledgerv1.Usecase
	custody       exchangev1.Custody
	orderbook     exchangev1.OrderBook
	repo          statev1.Repository
	snapshotStore snapshotv1.Store
	publisher     eventv1.Publisher
	logger        logger.Interface
	config        exchangev1.Config
	options       *Options

	// lifecycleMu serializes Start and Stop.
	lifecycleMu sync.Mutex

	mu      sync.RWMutex
	state   *statev1.State
	running bool

	// checkpointMu serializes checkpoints; lastCheckpointSeq is guarded by it.
	checkpointMu      sync.Mutex
	lastCheckpointSeq uint64
	checkpointed      bool

	relayMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEngine creates a new engine with default options. snapshotStore and
// publisher may be nil, which disables checkpoints and the relay.
func NewEngine(
	ledger ledgerv1.Usecase,
	custody exchangev1.Custody,
	orderbook exchangev1.OrderBook,
	repo statev1.Repository,
	snapshotStore snapshotv1.Store,
	publisher eventv1.Publisher,
	log logger.Interface,
	config exchangev1.Config,
) (*Engine, error) {
	return NewEngineWithOptions(ledger, custody, orderbook, repo, snapshotStore, publisher, log, config, DefaultEngineOptions())
}

// NewEngineWithOptions creates a new engine with custom options.
func NewEngineWithOptions(
	ledger ledgerv1.Usecase,
	custody exchangev1.Custody,
	orderbook exchangev1.OrderBook,
	repo statev1.Repository,
	snapshotStore snapshotv1.Store,
	publisher eventv1.Publisher,
	log logger.Interface,
	config exchangev1.Config,
	options *Options,
) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if options == nil {
		options = DefaultEngineOptions()
	}
	if options.Clock == nil {
		options.Clock = time.Now
	}

	return &Engine{
		ledger:        ledger,
		custody:       custody,
		orderbook:     orderbook,
		repo:          repo,
		snapshotStore: snapshotStore,
		publisher:     publisher,
		logger:        log,
		config:        config,
		options:       options,
		state:         statev1.NewState(),
	}, nil
}

// Start loads the persisted state, verifies it and starts the background loops.
// A state that fails verification aborts startup. Starting a running engine
// returns ErrAlreadyStarted.
func (e *Engine) Start(ctx context.Context) error {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()

	e.mu.RLock()
	running := e.running
	e.mu.RUnlock()
	if running {
		return ErrAlreadyStarted
	}

	snap, err := e.repo.Load(ctx)
	if err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "load_state"})
		return err
	}

	st, err := statev1.FromSnapshot(snap)
	if err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "restore_state"})
		return err
	}
	if err := st.Verify(e.config.Address); err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "verify_state"})
		return err
	}

	e.mu.Lock()
	e.state = st
	e.running = true
	e.mu.Unlock()

	e.checkpointMu.Lock()
	e.lastCheckpointSeq = st.Seq()
	e.checkpointMu.Unlock()

	e.ctx, e.cancel = context.WithCancel(ctx)

	if e.snapshotStore != nil && e.options.CheckpointInterval > 0 {
		e.wg.Add(1)
		go e.runCheckpointManager()
	}
	if e.publisher != nil && e.options.RelayInterval > 0 {
		e.wg.Add(1)
		go e.runRelay()
	}

	e.logger.InfoContext(ctx, "Engine started",
		logger.Field{Key: "seq", Value: st.Seq()},
		logger.Field{Key: "assets", Value: len(st.Assets())},
		logger.Field{Key: "orders", Value: st.OrderCount()},
	)
	return nil
}

// Stop rejects new commands, waits for the background loops, then drains the
// outbox and writes a final checkpoint.
func (e *Engine) Stop(ctx context.Context) error {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()

	e.mu.Lock()
	wasRunning := e.running
	e.running = false
	e.mu.Unlock()

	if !wasRunning {
		return nil
	}
	e.cancel()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		e.logger.Warn("Engine stop timeout exceeded")
		return ctx.Err()
	}

	if e.publisher != nil {
		if err := e.drain(ctx); err != nil {
			e.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "final_relay"})
		}
	}
	if e.snapshotStore != nil {
		if err := e.Checkpoint(ctx); err != nil {
			e.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "final_checkpoint"})
			return err
		}
	}

	e.logger.Info("Engine stopped gracefully")
	return nil
}

// Issue creates an asset and mints its whole supply to the issuer.
func (e *Engine) Issue(ctx context.Context, metadata assetv1.Metadata, issuer assetv1.Address, wholeTokens *uint256.Int) (*assetv1.Asset, error) {
	var asset *assetv1.Asset
	err := e.run(ctx, "issue", func(tx *statev1.Tx) error {
		var err error
		asset, err = e.ledger.Issue(tx, metadata, issuer, wholeTokens)
		return err
	}, logger.Field{Key: "holder", Value: issuer}, logger.Field{Key: "symbol", Value: metadata.Symbol})
	if err != nil {
		return nil, err
	}
	return asset.Clone(), nil
}

// Transfer moves amount of asset from one holder to another.
func (e *Engine) Transfer(ctx context.Context, asset assetv1.ID, from, to assetv1.Address, amount *uint256.Int) error {
	return e.run(ctx, "transfer", func(tx *statev1.Tx) error {
		return e.ledger.Transfer(tx, asset, from, to, amount)
	}, logger.Field{Key: "asset", Value: asset}, logger.Field{Key: "holder", Value: from})
}

// Approve overwrites the allowance of spender over owner's balance.
func (e *Engine) Approve(ctx context.Context, asset assetv1.ID, owner, spender assetv1.Address, amount *uint256.Int) error {
	return e.run(ctx, "approve", func(tx *statev1.Tx) error {
		return e.ledger.Approve(tx, asset, owner, spender, amount)
	}, logger.Field{Key: "asset", Value: asset}, logger.Field{Key: "holder", Value: owner})
}

// DelegatedTransfer moves funds from one holder to another on behalf of spender.
func (e *Engine) DelegatedTransfer(ctx context.Context, asset assetv1.ID, spender, from, to assetv1.Address, amount *uint256.Int) error {
	return e.run(ctx, "delegated_transfer", func(tx *statev1.Tx) error {
		return e.ledger.DelegatedTransfer(tx, asset, spender, from, to, amount)
	}, logger.Field{Key: "asset", Value: asset}, logger.Field{Key: "holder", Value: from})
}

// Deposit pulls amount from holder into custody and returns the new custody balance.
func (e *Engine) Deposit(ctx context.Context, asset assetv1.ID, holder assetv1.Address, amount *uint256.Int) (*uint256.Int, error) {
	var balance *uint256.Int
	err := e.run(ctx, "deposit", func(tx *statev1.Tx) error {
		var err error
		balance, err = e.custody.Deposit(tx, asset, holder, amount)
		return err
	}, logger.Field{Key: "asset", Value: asset}, logger.Field{Key: "holder", Value: holder})
	return balance, err
}

// Withdraw pays amount out of custody to holder and returns the new custody balance.
func (e *Engine) Withdraw(ctx context.Context, asset assetv1.ID, holder assetv1.Address, amount *uint256.Int) (*uint256.Int, error) {
	var balance *uint256.Int
	err := e.run(ctx, "withdraw", func(tx *statev1.Tx) error {
		var err error
		balance, err = e.custody.Withdraw(tx, asset, holder, amount)
		return err
	}, logger.Field{Key: "asset", Value: asset}, logger.Field{Key: "holder", Value: holder})
	return balance, err
}

// CreateOrder records a limit order backed by owner's custody balance of assetGive.
func (e *Engine) CreateOrder(
	ctx context.Context,
	owner assetv1.Address,
	assetGet assetv1.ID, amountGet *uint256.Int,
	assetGive assetv1.ID, amountGive *uint256.Int,
) (*exchangev1.Order, error) {
	var order *exchangev1.Order
	err := e.run(ctx, "create_order", func(tx *statev1.Tx) error {
		var err error
		order, err = e.orderbook.Create(tx, owner, assetGet, amountGet, assetGive, amountGive)
		return err
	}, logger.Field{Key: "asset", Value: assetGive}, logger.Field{Key: "holder", Value: owner})
	if err != nil {
		return nil, err
	}
	return order.Clone(), nil
}

// CancelOrder flips an order to cancelled. Only the owner may cancel.
func (e *Engine) CancelOrder(ctx context.Context, id uint64, caller assetv1.Address) (*exchangev1.Order, error) {
	var order *exchangev1.Order
	err := e.run(ctx, "cancel_order", func(tx *statev1.Tx) error {
		var err error
		order, err = e.orderbook.Cancel(tx, id, caller)
		return err
	}, logger.Field{Key: "order_id", Value: id}, logger.Field{Key: "holder", Value: caller})
	if err != nil {
		return nil, err
	}
	return order.Clone(), nil
}

// run executes one command: overlay, persist, apply. The writer lock is held
// throughout, so memory never runs ahead of the repository.
func (e *Engine) run(ctx context.Context, action string, fn func(tx *statev1.Tx) error, fields ...logger.Field) error {
	ctx = util.WithCommand(util.EnsureRequestID(ctx), action)

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return ErrNotStarted
	}

	tx := e.state.Begin(e.now())
	if err := fn(tx); err != nil {
		e.logger.WarnContext(ctx, "Command rejected", append(fields,
			logger.Field{Key: "code", Value: errors.CodeOf(err)},
			logger.Field{Key: "reason", Value: err.Error()},
		)...)
		return err
	}

	cs := tx.Changeset()
	if err := e.repo.Persist(ctx, cs); err != nil {
		e.logger.ErrorContext(ctx, err, fields...)
		return err
	}
	e.state.Apply(cs)

	e.logger.DebugContext(ctx, "Command committed", append(fields,
		logger.Field{Key: "seq", Value: e.state.Seq()},
		logger.Field{Key: "events", Value: len(cs.Events)},
	)...)
	return nil
}

// now is the command timestamp: microsecond precision, never before the last commit.
func (e *Engine) now() time.Time {
	t := e.options.Clock().UTC().Truncate(time.Microsecond)
	if last := e.state.LastTimestamp(); t.Before(last) {
		return last
	}
	return t
}
