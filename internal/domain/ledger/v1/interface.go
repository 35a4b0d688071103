package ledgerv1

import (
	"time"

	"github.com/holiman/uint256"
	assetv1 "github.com/muhammadchandra19/token-exchange/internal/domain/asset/v1"
	eventv1 "github.com/muhammadchandra19/token-exchange/internal/domain/event/v1"
)

// Reader is the read side of the ledger tables. Missing rows read as zero / nil.
type Reader interface {
	Asset(id assetv1.ID) (*assetv1.Asset, bool)
	Balance(asset assetv1.ID, holder assetv1.Address) *uint256.Int
	Allowance(asset assetv1.ID, owner, spender assetv1.Address) *uint256.Int
}

// Tx is the write view a ledger operation runs against. Writes become visible
// to the rest of the engine only when the surrounding command commits.
type Tx interface {
	Reader
	// Now is the command timestamp.
	Now() time.Time
	PutAsset(asset *assetv1.Asset)
	SetBalance(asset assetv1.ID, holder assetv1.Address, amount *uint256.Int)
	SetAllowance(asset assetv1.ID, owner, spender assetv1.Address, amount *uint256.Int)
	Emit(payload eventv1.Payload)
}

// Usecase holds the token rules: issue, transfer, approve and delegated transfer.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=ledgerv1_mock
type Usecase interface {
	Issue(tx Tx, metadata assetv1.Metadata, issuer assetv1.Address, wholeTokens *uint256.Int) (*assetv1.Asset, error)
	Transfer(tx Tx, asset assetv1.ID, from, to assetv1.Address, amount *uint256.Int) error
	Approve(tx Tx, asset assetv1.ID, owner, spender assetv1.Address, amount *uint256.Int) error
	DelegatedTransfer(tx Tx, asset assetv1.ID, spender, from, to assetv1.Address, amount *uint256.Int) error

	BalanceOf(r Reader, asset assetv1.ID, holder assetv1.Address) *uint256.Int
	AllowanceOf(r Reader, asset assetv1.ID, owner, spender assetv1.Address) *uint256.Int
}
