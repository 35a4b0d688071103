package statev1

import (
	"fmt"
	"time"

	"github.com/holiman/uint256"
	assetv1 "github.com/muhammadchandra19/token-exchange/internal/domain/asset/v1"
	exchangev1 "github.com/muhammadchandra19/token-exchange/internal/domain/exchange/v1"
	"github.com/muhammadchandra19/token-exchange/pkg/safemath"
)

// State holds the committed tables in memory. It is not safe for concurrent
// use; the engine guards it with a single RWMutex. Stored amounts are never
// mutated in place, so values returned by readers stay valid after later commits.
type State struct {
	assets     map[assetv1.ID]*assetv1.Asset
	balances   map[BalanceKey]*uint256.Int
	allowances map[AllowanceKey]*uint256.Int
	custody    map[BalanceKey]*uint256.Int
	// orders is the arena: orders[i] has id i+1.
	orders []*exchangev1.Order

	seq      uint64
	lastTime time.Time
}

// NewState returns empty tables.
func NewState() *State {
	return &State{
		assets:     make(map[assetv1.ID]*assetv1.Asset),
		balances:   make(map[BalanceKey]*uint256.Int),
		allowances: make(map[AllowanceKey]*uint256.Int),
		custody:    make(map[BalanceKey]*uint256.Int),
	}
}

// FromSnapshot rebuilds State. Order ids must be exactly 1..n.
func FromSnapshot(snap *Snapshot) (*State, error) {
	s := NewState()
	if snap == nil {
		return s, nil
	}

	for _, a := range snap.Assets {
		s.assets[a.ID] = a.Clone()
	}
	for _, b := range snap.Balances {
		s.balances[BalanceKey{b.Asset, b.Holder}] = safemath.OrZero(b.Amount).Clone()
	}
	for _, a := range snap.Allowances {
		s.allowances[AllowanceKey{a.Asset, a.Owner, a.Spender}] = safemath.OrZero(a.Amount).Clone()
	}
	for _, c := range snap.Custody {
		s.custody[BalanceKey{c.Asset, c.Holder}] = safemath.OrZero(c.Amount).Clone()
	}

	orders := make([]*exchangev1.Order, len(snap.Orders))
	copy(orders, snap.Orders)
	sortOrders(orders)
	for i, o := range orders {
		if o.ID != uint64(i+1) {
			return nil, invariantError(fmt.Sprintf("order ids are not contiguous: position %d holds id %d", i+1, o.ID))
		}
		s.orders = append(s.orders, o.Clone())
	}

	s.seq = snap.Seq
	s.lastTime = snap.LastTimestamp
	return s, nil
}

// Seq returns the sequence of the last committed event.
func (s *State) Seq() uint64 {
	return s.seq
}

// LastTimestamp returns the latest timestamp any command committed with.
func (s *State) LastTimestamp() time.Time {
	return s.lastTime
}

// Asset returns the asset with the given id.
func (s *State) Asset(id assetv1.ID) (*assetv1.Asset, bool) {
	a, ok := s.assets[id]
	return a, ok
}

// Assets returns every asset ordered by id.
func (s *State) Assets() []*assetv1.Asset {
	out := make([]*assetv1.Asset, 0, len(s.assets))
	for _, a := range s.assets {
		out = append(out, a)
	}
	sortAssets(out)
	return out
}

// Balance returns the ledger balance, zero when absent.
func (s *State) Balance(asset assetv1.ID, holder assetv1.Address) *uint256.Int {
	return safemath.OrZero(s.balances[BalanceKey{asset, holder}])
}

// Allowance returns the allowance, zero when absent.
func (s *State) Allowance(asset assetv1.ID, owner, spender assetv1.Address) *uint256.Int {
	return safemath.OrZero(s.allowances[AllowanceKey{asset, owner, spender}])
}

// Custody returns the custody balance, zero when absent.
func (s *State) Custody(asset assetv1.ID, holder assetv1.Address) *uint256.Int {
	return safemath.OrZero(s.custody[BalanceKey{asset, holder}])
}

// Order returns the order with the given id.
func (s *State) Order(id uint64) (*exchangev1.Order, bool) {
	if id == 0 || id > uint64(len(s.orders)) {
		return nil, false
	}
	return s.orders[id-1], true
}

// OrderCount returns the number of orders ever created.
func (s *State) OrderCount() uint64 {
	return uint64(len(s.orders))
}

// Begin opens a transaction on top of the committed tables. now is stamped
// on every event and order the transaction produces.
func (s *State) Begin(now time.Time) *Tx {
	return newTx(s, now)
}

// Apply folds a persisted changeset into memory.
func (s *State) Apply(cs *Changeset) {
	for _, a := range cs.Assets {
		s.assets[a.ID] = a
	}
	for _, b := range cs.Balances {
		s.balances[BalanceKey{b.Asset, b.Holder}] = b.Amount
	}
	for _, a := range cs.Allowances {
		s.allowances[AllowanceKey{a.Asset, a.Owner, a.Spender}] = a.Amount
	}
	for _, c := range cs.Custody {
		s.custody[BalanceKey{c.Asset, c.Holder}] = c.Amount
	}
	for _, o := range cs.UpdatedOrders {
		s.orders[o.ID-1] = o
	}
	s.orders = append(s.orders, cs.NewOrders...)

	if seq := cs.LastSeq(); seq > s.seq {
		s.seq = seq
	}
	if cs.Timestamp.After(s.lastTime) {
		s.lastTime = cs.Timestamp
	}
}

// Snapshot deep-copies every table in a deterministic order.
func (s *State) Snapshot(takenAt time.Time) *Snapshot {
	snap := &Snapshot{
		Seq:           s.seq,
		Assets:        make([]*assetv1.Asset, 0, len(s.assets)),
		Balances:      make([]BalanceEntry, 0, len(s.balances)),
		Allowances:    make([]AllowanceEntry, 0, len(s.allowances)),
		Custody:       make([]BalanceEntry, 0, len(s.custody)),
		Orders:        make([]*exchangev1.Order, 0, len(s.orders)),
		LastTimestamp: s.lastTime,
		TakenAt:       takenAt,
	}

	for _, a := range s.assets {
		snap.Assets = append(snap.Assets, a.Clone())
	}
	for k, v := range s.balances {
		snap.Balances = append(snap.Balances, BalanceEntry{Asset: k.Asset, Holder: k.Holder, Amount: v.Clone()})
	}
	for k, v := range s.allowances {
		snap.Allowances = append(snap.Allowances, AllowanceEntry{Asset: k.Asset, Owner: k.Owner, Spender: k.Spender, Amount: v.Clone()})
	}
	for k, v := range s.custody {
		snap.Custody = append(snap.Custody, BalanceEntry{Asset: k.Asset, Holder: k.Holder, Amount: v.Clone()})
	}
	for _, o := range s.orders {
		snap.Orders = append(snap.Orders, o.Clone())
	}

	sortAssets(snap.Assets)
	sortBalances(snap.Balances)
	sortAllowances(snap.Allowances)
	sortBalances(snap.Custody)
	return snap
}

// Verify checks the accounting invariants:
//   - per asset, ledger balances sum to the total supply;
//   - per asset, the exchange's ledger balance covers the sum of custody balances.
//
// Direct ledger transfers to the exchange address are legal and leave an
// unattributed surplus, so the custody check is >= rather than ==.
func (s *State) Verify(exchange assetv1.Address) error {
	supply := make(map[assetv1.ID]*uint256.Int, len(s.assets))
	for key, amount := range s.balances {
		if _, ok := s.assets[key.Asset]; !ok {
			return invariantError(fmt.Sprintf("balance row for unknown asset %s", key.Asset))
		}
		sum, err := safemath.Add(safemath.OrZero(supply[key.Asset]), amount)
		if err != nil {
			return invariantError(fmt.Sprintf("balances of %s overflow", key.Asset))
		}
		supply[key.Asset] = sum
	}

	for id, asset := range s.assets {
		if got := safemath.OrZero(supply[id]); !got.Eq(asset.TotalSupply) {
			return invariantError(fmt.Sprintf("asset %s: balances sum to %s, total supply is %s", id, got.Dec(), asset.TotalSupply.Dec()))
		}
	}

	custody := make(map[assetv1.ID]*uint256.Int)
	for key, amount := range s.custody {
		sum, err := safemath.Add(safemath.OrZero(custody[key.Asset]), amount)
		if err != nil {
			return invariantError(fmt.Sprintf("custody of %s overflows", key.Asset))
		}
		custody[key.Asset] = sum
	}

	for id, held := range custody {
		if onLedger := s.Balance(id, exchange); onLedger.Lt(held) {
			return invariantError(fmt.Sprintf("asset %s: exchange holds %s on the ledger but owes %s in custody", id, onLedger.Dec(), held.Dec()))
		}
	}

	return nil
}
