package ledger

import (
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/holiman/uint256"
	assetv1 "github.com/muhammadchandra19/token-exchange/internal/domain/asset/v1"
	eventv1 "github.com/muhammadchandra19/token-exchange/internal/domain/event/v1"
	ledgerv1 "github.com/muhammadchandra19/token-exchange/internal/domain/ledger/v1"
	"github.com/muhammadchandra19/token-exchange/pkg/errors"
	"github.com/muhammadchandra19/token-exchange/pkg/safemath"
	"github.com/oklog/ulid/v2"
)

// IDGenerator returns a fresh asset id for an asset issued at t.
type IDGenerator func(t time.Time) (assetv1.ID, error)

// Ledger implements ledgerv1.Usecase. It keeps no state of its own; every
// table lives behind the Tx it is handed.
type Ledger struct {
	newID IDGenerator
}

var _ ledgerv1.Usecase = (*Ledger)(nil)

// Option configures a Ledger.
type Option func(*Ledger)

// WithIDGenerator replaces the ULID generator, mostly for tests.
func WithIDGenerator(gen IDGenerator) Option {
	return func(l *Ledger) {
		l.newID = gen
	}
}

// NewLedger creates a Ledger that names assets with monotonic ULIDs.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{newID: ULIDGenerator(rand.Reader)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ULIDGenerator draws ULIDs from entropy. Ids minted in the same millisecond
// still sort in issue order. The result is not safe for concurrent use.
func ULIDGenerator(entropy io.Reader) IDGenerator {
	mono := ulid.Monotonic(entropy, 0)
	return func(t time.Time) (assetv1.ID, error) {
		id, err := ulid.New(ulid.Timestamp(t), mono)
		if err != nil {
			return "", errors.NewTracer("ulid_generate").Wrap(err)
		}
		return assetv1.ID(id.String()), nil
	}
}

// Issue creates an asset and mints wholeTokens * 10^18 base units to issuer.
func (l *Ledger) Issue(tx ledgerv1.Tx, metadata assetv1.Metadata, issuer assetv1.Address, wholeTokens *uint256.Int) (*assetv1.Asset, error) {
	if !metadata.Valid() {
		return nil, ledgerv1.ErrInvalidMetadata
	}
	if issuer.IsNull() {
		return nil, ledgerv1.ErrInvalidRecipient.WithMessage("issuer must not be the null address")
	}
	if wholeTokens == nil || wholeTokens.IsZero() {
		return nil, ledgerv1.ErrInvalidSupply
	}

	supply, err := assetv1.ToBaseUnits(wholeTokens, assetv1.Decimals)
	if err != nil {
		return nil, ledgerv1.ErrArithmeticOverflow.WithMessage(fmt.Sprintf("supply of %s tokens does not fit 256 bits", wholeTokens.Dec()))
	}

	id, err := l.newID(tx.Now())
	if err != nil {
		return nil, err
	}
	if _, exists := tx.Asset(id); exists {
		return nil, errors.NewTracer("asset_issue").Wrap(fmt.Errorf("asset id %s already issued", id))
	}

	asset := &assetv1.Asset{
		ID:          id,
		Name:        metadata.Name,
		Symbol:      metadata.Symbol,
		Decimals:    assetv1.Decimals,
		TotalSupply: supply,
		Issuer:      issuer,
		IssuedAt:    tx.Now(),
	}

	tx.PutAsset(asset)
	tx.SetBalance(id, issuer, supply)
	tx.Emit(eventv1.AssetIssued{
		Asset:       id,
		Name:        asset.Name,
		Symbol:      asset.Symbol,
		Decimals:    asset.Decimals,
		TotalSupply: supply.Clone(),
		Issuer:      issuer,
	})
	tx.Emit(eventv1.Transfer{Asset: id, From: assetv1.ZeroAddress, To: issuer, Amount: supply.Clone()})

	return asset.Clone(), nil
}

// Transfer moves amount from from to to. Zero amounts succeed and are still recorded.
func (l *Ledger) Transfer(tx ledgerv1.Tx, asset assetv1.ID, from, to assetv1.Address, amount *uint256.Int) error {
	if err := l.checkParties(tx, asset, from, to); err != nil {
		return err
	}
	amount = safemath.OrZero(amount)

	m, err := l.prepareMove(tx, asset, from, to, amount)
	if err != nil {
		return err
	}
	m.apply(tx)
	return nil
}

// Approve overwrites the allowance of spender over owner's balance. Changing a
// non-zero allowance to another non-zero value lets a spender who observes the
// change use both; callers should reset to zero first.
func (l *Ledger) Approve(tx ledgerv1.Tx, asset assetv1.ID, owner, spender assetv1.Address, amount *uint256.Int) error {
	if _, ok := tx.Asset(asset); !ok {
		return unknownAsset(asset)
	}
	if owner.IsNull() {
		return ledgerv1.ErrInvalidSender.WithMessage("owner must not be the null address")
	}
	if spender.IsNull() {
		return ledgerv1.ErrInvalidSpender
	}

	amount = safemath.OrZero(amount)
	tx.SetAllowance(asset, owner, spender, amount)
	tx.Emit(eventv1.Approval{Asset: asset, Owner: owner, Spender: spender, Amount: amount.Clone()})
	return nil
}

// DelegatedTransfer moves amount from from to to on behalf of spender and
// spends exactly amount of the allowance.
func (l *Ledger) DelegatedTransfer(tx ledgerv1.Tx, asset assetv1.ID, spender, from, to assetv1.Address, amount *uint256.Int) error {
	if err := l.checkParties(tx, asset, from, to); err != nil {
		return err
	}
	if spender.IsNull() {
		return ledgerv1.ErrInvalidSpender
	}

	amount = safemath.OrZero(amount)
	allowance := tx.Allowance(asset, from, spender)
	if allowance.Lt(amount) {
		return ledgerv1.ErrInsufficientAllowance.WithMessage(
			fmt.Sprintf("allowance of %s for %s is %s, need %s", spender, from, allowance.Dec(), amount.Dec()))
	}
	remaining, err := safemath.Sub(allowance, amount)
	if err != nil {
		return err
	}

	m, err := l.prepareMove(tx, asset, from, to, amount)
	if err != nil {
		return err
	}

	// the allowance update is recorded ahead of the transfer it pays for
	tx.SetAllowance(asset, from, spender, remaining)
	tx.Emit(eventv1.Approval{Asset: asset, Owner: from, Spender: spender, Amount: remaining.Clone()})
	m.apply(tx)
	return nil
}

// BalanceOf never fails; unknown assets and holders read as zero.
func (l *Ledger) BalanceOf(r ledgerv1.Reader, asset assetv1.ID, holder assetv1.Address) *uint256.Int {
	return r.Balance(asset, holder).Clone()
}

// AllowanceOf never fails; missing allowances read as zero.
func (l *Ledger) AllowanceOf(r ledgerv1.Reader, asset assetv1.ID, owner, spender assetv1.Address) *uint256.Int {
	return r.Allowance(asset, owner, spender).Clone()
}

func (l *Ledger) checkParties(tx ledgerv1.Reader, asset assetv1.ID, from, to assetv1.Address) error {
	if _, ok := tx.Asset(asset); !ok {
		return unknownAsset(asset)
	}
	if from.IsNull() {
		return ledgerv1.ErrInvalidSender
	}
	if to.IsNull() {
		return ledgerv1.ErrInvalidRecipient
	}
	return nil
}

// move is a validated balance change. Nothing is written until apply, so a
// failed prepareMove leaves tx untouched.
type move struct {
	asset    assetv1.ID
	from, to assetv1.Address
	amount   *uint256.Int
	newFrom  *uint256.Int
	newTo    *uint256.Int
}

func (l *Ledger) prepareMove(tx ledgerv1.Reader, asset assetv1.ID, from, to assetv1.Address, amount *uint256.Int) (*move, error) {
	fromBalance := tx.Balance(asset, from)
	if fromBalance.Lt(amount) {
		return nil, ledgerv1.ErrInsufficientBalance.WithMessage(
			fmt.Sprintf("balance of %s is %s, need %s", from, fromBalance.Dec(), amount.Dec()))
	}

	m := &move{asset: asset, from: from, to: to, amount: amount}
	if from != to {
		newFrom, err := safemath.Sub(fromBalance, amount)
		if err != nil {
			return nil, err
		}
		newTo, err := safemath.Add(tx.Balance(asset, to), amount)
		if err != nil {
			return nil, err
		}
		m.newFrom, m.newTo = newFrom, newTo
	}
	return m, nil
}

// apply writes both balances and records the Transfer. Self transfers only record.
func (m *move) apply(tx ledgerv1.Tx) {
	if m.from != m.to {
		tx.SetBalance(m.asset, m.from, m.newFrom)
		tx.SetBalance(m.asset, m.to, m.newTo)
	}
	tx.Emit(eventv1.Transfer{Asset: m.asset, From: m.from, To: m.to, Amount: m.amount.Clone()})
}

func unknownAsset(asset assetv1.ID) error {
	return ledgerv1.ErrInvalidAsset.WithMessage(fmt.Sprintf("unknown asset %q", asset))
}
