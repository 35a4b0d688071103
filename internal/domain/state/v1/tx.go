package statev1

import (
	"time"

	"github.com/holiman/uint256"
	assetv1 "github.com/muhammadchandra19/token-exchange/internal/domain/asset/v1"
	eventv1 "github.com/muhammadchandra19/token-exchange/internal/domain/event/v1"
	exchangev1 "github.com/muhammadchandra19/token-exchange/internal/domain/exchange/v1"
	"github.com/muhammadchandra19/token-exchange/pkg/safemath"
)

// Tx is a write overlay on State. Reads fall through to the committed tables;
// writes stay in the overlay until the engine persists Changeset and calls
// State.Apply. Every write is journaled so RollbackTo can undo a suffix of the
// transaction.
type Tx struct {
	base *State
	now  time.Time

	assets     map[assetv1.ID]*assetv1.Asset
	balances   map[BalanceKey]*uint256.Int
	allowances map[AllowanceKey]*uint256.Int
	custody    map[BalanceKey]*uint256.Int
	orders     map[uint64]*exchangev1.Order
	nextID     uint64
	events     []eventv1.Event

	journal []func()
}

var _ exchangev1.Tx = (*Tx)(nil)

func newTx(base *State, now time.Time) *Tx {
	return &Tx{
		base:       base,
		now:        now,
		assets:     make(map[assetv1.ID]*assetv1.Asset),
		balances:   make(map[BalanceKey]*uint256.Int),
		allowances: make(map[AllowanceKey]*uint256.Int),
		custody:    make(map[BalanceKey]*uint256.Int),
		orders:     make(map[uint64]*exchangev1.Order),
		nextID:     base.OrderCount() + 1,
	}
}

func set[K comparable, V any](tx *Tx, m map[K]V, k K, v V) {
	prev, had := m[k]
	m[k] = v
	tx.journal = append(tx.journal, func() {
		if had {
			m[k] = prev
		} else {
			delete(m, k)
		}
	})
}

// Now returns the timestamp of this transaction.
func (tx *Tx) Now() time.Time {
	return tx.now
}

// Asset implements ledgerv1.Reader.
func (tx *Tx) Asset(id assetv1.ID) (*assetv1.Asset, bool) {
	if a, ok := tx.assets[id]; ok {
		return a, true
	}
	return tx.base.Asset(id)
}

// Balance implements ledgerv1.Reader.
func (tx *Tx) Balance(asset assetv1.ID, holder assetv1.Address) *uint256.Int {
	if v, ok := tx.balances[BalanceKey{asset, holder}]; ok {
		return v
	}
	return tx.base.Balance(asset, holder)
}

// Allowance implements ledgerv1.Reader.
func (tx *Tx) Allowance(asset assetv1.ID, owner, spender assetv1.Address) *uint256.Int {
	if v, ok := tx.allowances[AllowanceKey{asset, owner, spender}]; ok {
		return v
	}
	return tx.base.Allowance(asset, owner, spender)
}

// Custody implements exchangev1.CustodyReader.
func (tx *Tx) Custody(asset assetv1.ID, holder assetv1.Address) *uint256.Int {
	if v, ok := tx.custody[BalanceKey{asset, holder}]; ok {
		return v
	}
	return tx.base.Custody(asset, holder)
}

// Order implements exchangev1.OrderReader.
func (tx *Tx) Order(id uint64) (*exchangev1.Order, bool) {
	if o, ok := tx.orders[id]; ok {
		return o, true
	}
	return tx.base.Order(id)
}

// OrderCount implements exchangev1.OrderReader.
func (tx *Tx) OrderCount() uint64 {
	return tx.nextID - 1
}

// PutAsset implements ledgerv1.Tx.
func (tx *Tx) PutAsset(asset *assetv1.Asset) {
	set(tx, tx.assets, asset.ID, asset.Clone())
}

// SetBalance implements ledgerv1.Tx.
func (tx *Tx) SetBalance(asset assetv1.ID, holder assetv1.Address, amount *uint256.Int) {
	set(tx, tx.balances, BalanceKey{asset, holder}, safemath.OrZero(amount).Clone())
}

// SetAllowance implements ledgerv1.Tx.
func (tx *Tx) SetAllowance(asset assetv1.ID, owner, spender assetv1.Address, amount *uint256.Int) {
	set(tx, tx.allowances, AllowanceKey{asset, owner, spender}, safemath.OrZero(amount).Clone())
}

// SetCustody implements exchangev1.Tx.
func (tx *Tx) SetCustody(asset assetv1.ID, holder assetv1.Address, amount *uint256.Int) {
	set(tx, tx.custody, BalanceKey{asset, holder}, safemath.OrZero(amount).Clone())
}

// NextOrderID implements exchangev1.Tx.
func (tx *Tx) NextOrderID() uint64 {
	return tx.nextID
}

// AppendOrder implements exchangev1.Tx. The order must carry NextOrderID.
func (tx *Tx) AppendOrder(order *exchangev1.Order) {
	if order.ID != tx.nextID {
		panic("statev1: appended order does not carry the next order id")
	}
	set(tx, tx.orders, order.ID, order.Clone())
	tx.nextID++
	tx.journal = append(tx.journal, func() { tx.nextID-- })
}

// UpdateOrder implements exchangev1.Tx.
func (tx *Tx) UpdateOrder(order *exchangev1.Order) {
	set(tx, tx.orders, order.ID, order.Clone())
}

// Emit implements ledgerv1.Tx. Events get consecutive sequence numbers
// following the last committed one.
func (tx *Tx) Emit(payload eventv1.Payload) {
	e := eventv1.New(payload)
	e.Seq = tx.base.Seq() + uint64(len(tx.events)) + 1
	e.Timestamp = tx.now

	n := len(tx.events)
	tx.events = append(tx.events, e)
	tx.journal = append(tx.journal, func() { tx.events = tx.events[:n] })
}

// Events returns the events emitted so far.
func (tx *Tx) Events() []eventv1.Event {
	return tx.events
}

// Savepoint implements exchangev1.Tx.
func (tx *Tx) Savepoint() exchangev1.Savepoint {
	return exchangev1.Savepoint(len(tx.journal))
}

// RollbackTo implements exchangev1.Tx. It undoes every write made after sp.
func (tx *Tx) RollbackTo(sp exchangev1.Savepoint) {
	for i := len(tx.journal) - 1; i >= int(sp); i-- {
		tx.journal[i]()
	}
	tx.journal = tx.journal[:sp]
}

// Changeset collects the overlay in a deterministic order.
func (tx *Tx) Changeset() *Changeset {
	cs := &Changeset{Timestamp: tx.now}

	for _, a := range tx.assets {
		cs.Assets = append(cs.Assets, a)
	}
	for k, v := range tx.balances {
		cs.Balances = append(cs.Balances, BalanceEntry{Asset: k.Asset, Holder: k.Holder, Amount: v})
	}
	for k, v := range tx.allowances {
		cs.Allowances = append(cs.Allowances, AllowanceEntry{Asset: k.Asset, Owner: k.Owner, Spender: k.Spender, Amount: v})
	}
	for k, v := range tx.custody {
		cs.Custody = append(cs.Custody, BalanceEntry{Asset: k.Asset, Holder: k.Holder, Amount: v})
	}

	committed := tx.base.OrderCount()
	for id, o := range tx.orders {
		if id > committed {
			cs.NewOrders = append(cs.NewOrders, o)
		} else {
			cs.UpdatedOrders = append(cs.UpdatedOrders, o)
		}
	}

	cs.Events = append(cs.Events, tx.events...)

	sortAssets(cs.Assets)
	sortBalances(cs.Balances)
	sortAllowances(cs.Allowances)
	sortBalances(cs.Custody)
	sortOrders(cs.NewOrders)
	sortOrders(cs.UpdatedOrders)
	return cs
}
