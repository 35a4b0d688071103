package engine

import (
	"context"

	"github.com/holiman/uint256"
	assetv1 "github.com/muhammadchandra19/token-exchange/internal/domain/asset/v1"
	exchangev1 "github.com/muhammadchandra19/token-exchange/internal/domain/exchange/v1"
)

// Queries run under the read lock and return copies.

// Asset returns the metadata of an issued asset.
func (e *Engine) Asset(id assetv1.ID) (*assetv1.Asset, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	a, ok := e.state.Asset(id)
	return a.Clone(), ok
}

// Assets lists every issued asset ordered by id.
func (e *Engine) Assets() []*assetv1.Asset {
	e.mu.RLock()
	defer e.mu.RUnlock()

	assets := e.state.Assets()
	out := make([]*assetv1.Asset, len(assets))
	for i, a := range assets {
		out[i] = a.Clone()
	}
	return out
}

func (e *Engine) BalanceOf(asset assetv1.ID, holder assetv1.Address) *uint256.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ledger.BalanceOf(e.state, asset, holder)
}

func (e *Engine) AllowanceOf(asset assetv1.ID, owner, spender assetv1.Address) *uint256.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ledger.AllowanceOf(e.state, asset, owner, spender)
}

func (e *Engine) CustodyBalanceOf(asset assetv1.ID, holder assetv1.Address) *uint256.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.custody.CustodyBalanceOf(e.state, asset, holder)
}

// OrderCount is the number of orders ever created, cancelled ones included.
func (e *Engine) OrderCount() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.orderbook.OrderCount(e.state)
}

func (e *Engine) OrderCancelled(id uint64) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.orderbook.OrderCancelled(e.state, id)
}

// GetOrder returns the order, or a zero Order when id was never allocated.
func (e *Engine) GetOrder(id uint64) exchangev1.Order {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.orderbook.GetOrder(e.state, id)
}

func (e *Engine) FeeAccount() assetv1.Address {
	return e.config.FeeAccount
}

func (e *Engine) FeePercent() uint32 {
	return e.config.FeePercent
}

// Address is the exchange's holder identity on the ledger.
func (e *Engine) Address() assetv1.Address {
	return e.config.Address
}

// Seq is the sequence number of the last committed event.
func (e *Engine) Seq() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Seq()
}

// Verify checks conservation and custody consistency on the committed state.
func (e *Engine) Verify() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Verify(e.config.Address)
}

// Ready reports ErrNotStarted until Start succeeds and again after Stop.
func (e *Engine) Ready(_ context.Context) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.running {
		return ErrNotStarted
	}
	return nil
}
