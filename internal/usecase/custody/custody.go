package custody

import (
	"fmt"

	"github.com/holiman/uint256"
	assetv1 "github.com/muhammadchandra19/token-exchange/internal/domain/asset/v1"
	eventv1 "github.com/muhammadchandra19/token-exchange/internal/domain/event/v1"
	exchangev1 "github.com/muhammadchandra19/token-exchange/internal/domain/exchange/v1"
	ledgerv1 "github.com/muhammadchandra19/token-exchange/internal/domain/ledger/v1"
	"github.com/muhammadchandra19/token-exchange/pkg/safemath"
)

// Custody implements exchangev1.Custody on top of the ledger. Funds in custody
// sit on the ledger under the exchange address; the custody table attributes
// them to holders.
type Custody struct {
	ledger   ledgerv1.Usecase
	exchange assetv1.Address
}

var _ exchangev1.Custody = (*Custody)(nil)

// NewCustody creates a Custody acting as exchange on the ledger.
func NewCustody(ledger ledgerv1.Usecase, exchange assetv1.Address) *Custody {
	return &Custody{
		ledger:   ledger,
		exchange: exchange,
	}
}

// Deposit pulls amount from holder into custody using the allowance holder
// granted the exchange. It returns the new custody balance.
func (c *Custody) Deposit(tx exchangev1.Tx, asset assetv1.ID, holder assetv1.Address, amount *uint256.Int) (*uint256.Int, error) {
	if err := c.checkHolder(holder); err != nil {
		return nil, err
	}
	amount = safemath.OrZero(amount)

	sp := tx.Savepoint()
	if err := c.ledger.DelegatedTransfer(tx, asset, c.exchange, holder, c.exchange, amount); err != nil {
		tx.RollbackTo(sp)
		return nil, err
	}

	balance, err := safemath.Add(tx.Custody(asset, holder), amount)
	if err != nil {
		tx.RollbackTo(sp)
		return nil, err
	}

	tx.SetCustody(asset, holder, balance)
	tx.Emit(eventv1.Deposit{Asset: asset, Holder: holder, Amount: amount.Clone(), Balance: balance.Clone()})
	return balance.Clone(), nil
}

// Withdraw pays amount out of custody back to holder's ledger balance. If the
// ledger transfer fails the custody decrement is undone.
func (c *Custody) Withdraw(tx exchangev1.Tx, asset assetv1.ID, holder assetv1.Address, amount *uint256.Int) (*uint256.Int, error) {
	if err := c.checkHolder(holder); err != nil {
		return nil, err
	}
	amount = safemath.OrZero(amount)

	held := tx.Custody(asset, holder)
	if held.Lt(amount) {
		return nil, exchangev1.ErrInsufficientCustody.WithMessage(
			fmt.Sprintf("custody of %s is %s, need %s", holder, held.Dec(), amount.Dec()))
	}
	balance, err := safemath.Sub(held, amount)
	if err != nil {
		return nil, err
	}

	sp := tx.Savepoint()
	tx.SetCustody(asset, holder, balance)
	if err := c.ledger.Transfer(tx, asset, c.exchange, holder, amount); err != nil {
		tx.RollbackTo(sp)
		return nil, err
	}

	tx.Emit(eventv1.Withdraw{Asset: asset, Holder: holder, Amount: amount.Clone(), Balance: balance.Clone()})
	return balance.Clone(), nil
}

// CustodyBalanceOf never fails; missing rows read as zero.
func (c *Custody) CustodyBalanceOf(r exchangev1.CustodyReader, asset assetv1.ID, holder assetv1.Address) *uint256.Int {
	return r.Custody(asset, holder).Clone()
}

func (c *Custody) checkHolder(holder assetv1.Address) error {
	if holder.IsNull() {
		return exchangev1.ErrInvalidHolder
	}
	if holder == c.exchange {
		return exchangev1.ErrInvalidHolder.WithMessage("the exchange cannot hold custody with itself")
	}
	return nil
}
