package orderbook

import (
	"fmt"

	"github.com/holiman/uint256"
	assetv1 "github.com/muhammadchandra19/token-exchange/internal/domain/asset/v1"
	eventv1 "github.com/muhammadchandra19/token-exchange/internal/domain/event/v1"
	exchangev1 "github.com/muhammadchandra19/token-exchange/internal/domain/exchange/v1"
	"github.com/muhammadchandra19/token-exchange/pkg/safemath"
)

// OrderBook implements exchangev1.OrderBook. Orders live in the arena behind
// the Tx; creating one checks custody but locks nothing.
type OrderBook struct{}

var _ exchangev1.OrderBook = (*OrderBook)(nil)

// NewOrderBook creates an OrderBook.
func NewOrderBook() *OrderBook {
	return &OrderBook{}
}

// Create records an order offering amountGive of assetGive for amountGet of
// assetGet. The owner's custody of assetGive must cover amountGive.
func (ob *OrderBook) Create(
	tx exchangev1.Tx,
	owner assetv1.Address,
	assetGet assetv1.ID,
	amountGet *uint256.Int,
	assetGive assetv1.ID,
	amountGive *uint256.Int,
) (*exchangev1.Order, error) {
	if owner.IsNull() {
		return nil, exchangev1.ErrInvalidHolder.WithMessage("order owner must not be the null address")
	}
	amountGet = safemath.OrZero(amountGet)
	amountGive = safemath.OrZero(amountGive)

	if held := tx.Custody(assetGive, owner); held.Lt(amountGive) {
		return nil, exchangev1.ErrInsufficientCustody.WithMessage(
			fmt.Sprintf("custody of %s in %s is %s, order gives %s", owner, assetGive, held.Dec(), amountGive.Dec()))
	}

	order := &exchangev1.Order{
		ID:         tx.NextOrderID(),
		Owner:      owner,
		AssetGet:   assetGet,
		AmountGet:  amountGet.Clone(),
		AssetGive:  assetGive,
		AmountGive: amountGive.Clone(),
		Timestamp:  tx.Now(),
		Status:     exchangev1.OrderStatusOpen,
	}

	tx.AppendOrder(order)
	tx.Emit(eventv1.Order(order.Record()))
	return order.Clone(), nil
}

// Cancel tombstones an open order. Only its owner may cancel it, once.
func (ob *OrderBook) Cancel(tx exchangev1.Tx, id uint64, caller assetv1.Address) (*exchangev1.Order, error) {
	current, ok := tx.Order(id)
	if !ok {
		return nil, exchangev1.ErrOrderNotFound.WithMessage(fmt.Sprintf("order %d not found", id))
	}
	if current.Owner != caller {
		return nil, exchangev1.ErrUnauthorized.WithMessage(fmt.Sprintf("%s does not own order %d", caller, id))
	}
	if current.Cancelled() {
		return nil, exchangev1.ErrAlreadyCancelled.WithMessage(fmt.Sprintf("order %d already cancelled", id))
	}

	order := current.Clone()
	order.Status = exchangev1.OrderStatusCancelled

	tx.UpdateOrder(order)
	tx.Emit(eventv1.Cancel(order.Record()))
	return order, nil
}

// OrderCount returns how many orders were ever created.
func (ob *OrderBook) OrderCount(r exchangev1.OrderReader) uint64 {
	return r.OrderCount()
}

// OrderCancelled is false for open and for missing orders.
func (ob *OrderBook) OrderCancelled(r exchangev1.OrderReader, id uint64) bool {
	o, ok := r.Order(id)
	return ok && o.Cancelled()
}

// GetOrder returns a copy of the order, or the zero Order when id is unknown.
func (ob *OrderBook) GetOrder(r exchangev1.OrderReader, id uint64) exchangev1.Order {
	o, ok := r.Order(id)
	if !ok {
		return exchangev1.Order{}
	}
	return *o.Clone()
}
