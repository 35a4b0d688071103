package exchangev1

import (
	"github.com/holiman/uint256"
	assetv1 "github.com/muhammadchandra19/token-exchange/internal/domain/asset/v1"
	ledgerv1 "github.com/muhammadchandra19/token-exchange/internal/domain/ledger/v1"
)

// CustodyReader reads custody balances. Missing rows read as zero.
type CustodyReader interface {
	Custody(asset assetv1.ID, holder assetv1.Address) *uint256.Int
}

// OrderReader reads the order arena.
type OrderReader interface {
	Order(id uint64) (*Order, bool)
	OrderCount() uint64
}

// Reader is everything the exchange reads, including the ledger.
type Reader interface {
	ledgerv1.Reader
	CustodyReader
	OrderReader
}

// Savepoint marks a position in a Tx that can be rolled back to.
type Savepoint int

// Tx is the write view for custody and order book operations. It embeds the
// ledger Tx so custody can move funds within the same command.
type Tx interface {
	ledgerv1.Tx
	CustodyReader
	OrderReader

	SetCustody(asset assetv1.ID, holder assetv1.Address, amount *uint256.Int)
	// NextOrderID returns the id the next appended order will get.
	NextOrderID() uint64
	AppendOrder(order *Order)
	UpdateOrder(order *Order)

	Savepoint() Savepoint
	RollbackTo(sp Savepoint)
}

// Custody moves funds between a holder's ledger balance and the exchange.
type Custody interface {
	Deposit(tx Tx, asset assetv1.ID, holder assetv1.Address, amount *uint256.Int) (*uint256.Int, error)
	Withdraw(tx Tx, asset assetv1.ID, holder assetv1.Address, amount *uint256.Int) (*uint256.Int, error)
	CustodyBalanceOf(r CustodyReader, asset assetv1.ID, holder assetv1.Address) *uint256.Int
}

// OrderBook records and cancels orders.
type OrderBook interface {
	Create(tx Tx, owner assetv1.Address, assetGet assetv1.ID, amountGet *uint256.Int, assetGive assetv1.ID, amountGive *uint256.Int) (*Order, error)
	Cancel(tx Tx, id uint64, caller assetv1.Address) (*Order, error)

	OrderCount(r OrderReader) uint64
	OrderCancelled(r OrderReader, id uint64) bool
	GetOrder(r OrderReader, id uint64) Order
}
