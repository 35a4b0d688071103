package statev1

import (
	"sort"
	"time"

	"github.com/holiman/uint256"
	assetv1 "github.com/muhammadchandra19/token-exchange/internal/domain/asset/v1"
	eventv1 "github.com/muhammadchandra19/token-exchange/internal/domain/event/v1"
	exchangev1 "github.com/muhammadchandra19/token-exchange/internal/domain/exchange/v1"
)

// BalanceKey addresses a ledger or custody balance row.
type BalanceKey struct {
	Asset  assetv1.ID
	Holder assetv1.Address
}

// AllowanceKey addresses an allowance row.
type AllowanceKey struct {
	Asset   assetv1.ID
	Owner   assetv1.Address
	Spender assetv1.Address
}

// BalanceEntry is one balance row, used for both ledger and custody tables.
type BalanceEntry struct {
	Asset  assetv1.ID      `json:"asset"`
	Holder assetv1.Address `json:"holder"`
	Amount *uint256.Int    `json:"amount"`
}

// AllowanceEntry is one allowance row.
type AllowanceEntry struct {
	Asset   assetv1.ID      `json:"asset"`
	Owner   assetv1.Address `json:"owner"`
	Spender assetv1.Address `json:"spender"`
	Amount  *uint256.Int    `json:"amount"`
}

// Changeset is everything one committed command wrote. Repositories persist it
// atomically; State.Apply folds it into memory afterwards.
type Changeset struct {
	Assets        []*assetv1.Asset    `json:"assets,omitempty"`
	Balances      []BalanceEntry      `json:"balances,omitempty"`
	Allowances    []AllowanceEntry    `json:"allowances,omitempty"`
	Custody       []BalanceEntry      `json:"custody,omitempty"`
	NewOrders     []*exchangev1.Order `json:"new_orders,omitempty"`
	UpdatedOrders []*exchangev1.Order `json:"updated_orders,omitempty"`
	Events        []eventv1.Event     `json:"events,omitempty"`
	Timestamp     time.Time           `json:"timestamp"`
}

// Empty reports whether the command changed nothing.
func (c *Changeset) Empty() bool {
	return len(c.Assets) == 0 && len(c.Balances) == 0 && len(c.Allowances) == 0 &&
		len(c.Custody) == 0 && len(c.NewOrders) == 0 && len(c.UpdatedOrders) == 0 && len(c.Events) == 0
}

// LastSeq returns the sequence of the last event, or 0.
func (c *Changeset) LastSeq() uint64 {
	if len(c.Events) == 0 {
		return 0
	}
	return c.Events[len(c.Events)-1].Seq
}

// Snapshot is a full, self-consistent copy of every table at sequence Seq.
type Snapshot struct {
	Seq        uint64              `json:"seq"`
	Assets     []*assetv1.Asset    `json:"assets"`
	Balances   []BalanceEntry      `json:"balances"`
	Allowances []AllowanceEntry    `json:"allowances"`
	Custody    []BalanceEntry      `json:"custody"`
	Orders     []*exchangev1.Order `json:"orders"`

	// LastTimestamp keeps order timestamps monotonic across restarts.
	LastTimestamp time.Time `json:"last_timestamp"`
	TakenAt       time.Time `json:"taken_at"`
}

func sortBalances(entries []BalanceEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Asset != entries[j].Asset {
			return entries[i].Asset < entries[j].Asset
		}
		return entries[i].Holder < entries[j].Holder
	})
}

func sortAllowances(entries []AllowanceEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Asset != b.Asset {
			return a.Asset < b.Asset
		}
		if a.Owner != b.Owner {
			return a.Owner < b.Owner
		}
		return a.Spender < b.Spender
	})
}

func sortOrders(orders []*exchangev1.Order) {
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
}

func sortAssets(assets []*assetv1.Asset) {
	sort.Slice(assets, func(i, j int) bool { return assets[i].ID < assets[j].ID })
}
