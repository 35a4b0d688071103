package exchangev1

import (
	"time"

	"github.com/holiman/uint256"
	assetv1 "github.com/muhammadchandra19/token-exchange/internal/domain/asset/v1"
	eventv1 "github.com/muhammadchandra19/token-exchange/internal/domain/event/v1"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	// OrderStatusOpen is the initial state.
	OrderStatusOpen OrderStatus = "open"
	// OrderStatusCancelled is terminal. The order stays in the book as a tombstone.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a limit order collateralized on the give side at creation time.
type Order struct {
	ID         uint64          `json:"id"`
	Owner      assetv1.Address `json:"owner"`
	AssetGet   assetv1.ID      `json:"asset_get"`
	AmountGet  *uint256.Int    `json:"amount_get"`
	AssetGive  assetv1.ID      `json:"asset_give"`
	AmountGive *uint256.Int    `json:"amount_give"`
	Timestamp  time.Time       `json:"timestamp"`
	Status     OrderStatus     `json:"status"`
}

// Cancelled reports whether the order reached the cancelled tombstone.
func (o *Order) Cancelled() bool {
	return o != nil && o.Status == OrderStatusCancelled
}

// Clone returns a deep copy safe to hand to readers.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	if o.AmountGet != nil {
		c.AmountGet = o.AmountGet.Clone()
	}
	if o.AmountGive != nil {
		c.AmountGive = o.AmountGive.Clone()
	}
	return &c
}

// Record returns the fields shared by the Order and Cancel events.
func (o *Order) Record() eventv1.OrderRecord {
	return eventv1.OrderRecord{
		ID:         o.ID,
		Owner:      o.Owner,
		AssetGet:   o.AssetGet,
		AmountGet:  o.AmountGet.Clone(),
		AssetGive:  o.AssetGive,
		AmountGive: o.AmountGive.Clone(),
		Timestamp:  o.Timestamp,
	}
}
