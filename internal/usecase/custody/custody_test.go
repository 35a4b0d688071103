package custody

import (
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/holiman/uint256"
	assetv1 "github.com/muhammadchandra19/token-exchange/internal/domain/asset/v1"
	eventv1 "github.com/muhammadchandra19/token-exchange/internal/domain/event/v1"
	exchangev1 "github.com/muhammadchandra19/token-exchange/internal/domain/exchange/v1"
	ledgerv1 "github.com/muhammadchandra19/token-exchange/internal/domain/ledger/v1"
	ledgerv1_mock "github.com/muhammadchandra19/token-exchange/internal/domain/ledger/v1/mock"
	statev1 "github.com/muhammadchandra19/token-exchange/internal/domain/state/v1"
	"github.com/muhammadchandra19/token-exchange/internal/usecase/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const (
	issuer   assetv1.Address = "0xISSUER"
	user1    assetv1.Address = "0xUSER1"
	user2    assetv1.Address = "0xUSER2"
	exchange assetv1.Address = "0xEXCHANGE"
)

var now = time.Unix(1700000000, 0).UTC()

type fixture struct {
	ledger  *ledger.Ledger
	custody *Custody
	state   *statev1.State
	asset   assetv1.ID
}

// newFixture issues 1,000,000 tokens, gives user1 100 of them and lets the
// exchange pull 30.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	n := 0
	l := ledger.NewLedger(ledger.WithIDGenerator(func(time.Time) (assetv1.ID, error) {
		n++
		return assetv1.ID(fmt.Sprintf("ASSET%02d", n)), nil
	}))
	s := statev1.NewState()

	tx := s.Begin(now)
	a, err := l.Issue(tx, assetv1.Metadata{Name: "Token", Symbol: "TKN"}, issuer, uint256.NewInt(1_000_000))
	require.NoError(t, err)
	require.NoError(t, l.Transfer(tx, a.ID, issuer, user1, assetv1.Tokens(100)))
	require.NoError(t, l.Approve(tx, a.ID, user1, exchange, assetv1.Tokens(30)))
	s.Apply(tx.Changeset())

	return &fixture{ledger: l, custody: NewCustody(l, exchange), state: s, asset: a.ID}
}

func (f *fixture) commit(t *testing.T, fn func(tx *statev1.Tx) error) error {
	t.Helper()
	tx := f.state.Begin(now)
	if err := fn(tx); err != nil {
		assert.True(t, tx.Changeset().Empty(), "failed command must leave no writes")
		return err
	}
	f.state.Apply(tx.Changeset())
	return nil
}

func TestCustody_DepositWithdrawScenario(t *testing.T) {
	f := newFixture(t)

	err := f.commit(t, func(tx *statev1.Tx) error {
		balance, err := f.custody.Deposit(tx, f.asset, user1, assetv1.Tokens(30))
		if err == nil {
			assert.Equal(t, assetv1.Tokens(30), balance)
		}
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, assetv1.Tokens(30), f.custody.CustodyBalanceOf(f.state, f.asset, user1))
	assert.Equal(t, assetv1.Tokens(30), f.ledger.BalanceOf(f.state, f.asset, exchange))
	assert.Equal(t, assetv1.Tokens(70), f.ledger.BalanceOf(f.state, f.asset, user1))
	assert.True(t, f.ledger.AllowanceOf(f.state, f.asset, user1, exchange).IsZero())

	err = f.commit(t, func(tx *statev1.Tx) error {
		_, err := f.custody.Withdraw(tx, f.asset, user1, assetv1.Tokens(10))
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, assetv1.Tokens(20), f.custody.CustodyBalanceOf(f.state, f.asset, user1))
	assert.Equal(t, assetv1.Tokens(20), f.ledger.BalanceOf(f.state, f.asset, exchange))
	assert.Equal(t, assetv1.Tokens(80), f.ledger.BalanceOf(f.state, f.asset, user1))
	assert.NoError(t, f.state.Verify(exchange))
}

func TestCustody_EventOrder(t *testing.T) {
	f := newFixture(t)
	tx := f.state.Begin(now)

	_, err := f.custody.Deposit(tx, f.asset, user1, assetv1.Tokens(30))
	require.NoError(t, err)
	_, err = f.custody.Withdraw(tx, f.asset, user1, assetv1.Tokens(5))
	require.NoError(t, err)

	var types []eventv1.Type
	for _, e := range tx.Events() {
		types = append(types, e.Type)
	}
	assert.Equal(t, []eventv1.Type{
		eventv1.TypeApproval, eventv1.TypeTransfer, eventv1.TypeDeposit,
		eventv1.TypeTransfer, eventv1.TypeWithdraw,
	}, types)
	assert.Equal(t, eventv1.Approval{Asset: f.asset, Owner: user1, Spender: exchange, Amount: assetv1.Tokens(0)}, tx.Events()[0].Payload)
	assert.Equal(t, eventv1.Withdraw{Asset: f.asset, Holder: user1, Amount: assetv1.Tokens(5), Balance: assetv1.Tokens(25)}, tx.Events()[4].Payload)
}

func TestCustody_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		run     func(f *fixture, tx *statev1.Tx) error
		wantErr error
	}{
		{
			name: "deposit above allowance",
			run: func(f *fixture, tx *statev1.Tx) error {
				_, err := f.custody.Deposit(tx, f.asset, user1, assetv1.Tokens(31))
				return err
			},
			wantErr: ledgerv1.ErrInsufficientAllowance,
		},
		{
			name: "deposit without approval",
			run: func(f *fixture, tx *statev1.Tx) error {
				_, err := f.custody.Deposit(tx, f.asset, user2, uint256.NewInt(1))
				return err
			},
			wantErr: ledgerv1.ErrInsufficientAllowance,
		},
		{
			name: "deposit of unknown asset",
			run: func(f *fixture, tx *statev1.Tx) error {
				_, err := f.custody.Deposit(tx, "NOPE", user1, uint256.NewInt(1))
				return err
			},
			wantErr: ledgerv1.ErrInvalidAsset,
		},
		{
			name: "withdraw above custody",
			run: func(f *fixture, tx *statev1.Tx) error {
				_, err := f.custody.Withdraw(tx, f.asset, user1, uint256.NewInt(1))
				return err
			},
			wantErr: exchangev1.ErrInsufficientCustody,
		},
		{
			name: "null holder",
			run: func(f *fixture, tx *statev1.Tx) error {
				_, err := f.custody.Deposit(tx, f.asset, assetv1.ZeroAddress, uint256.NewInt(1))
				return err
			},
			wantErr: exchangev1.ErrInvalidHolder,
		},
		{
			name: "exchange as holder",
			run: func(f *fixture, tx *statev1.Tx) error {
				_, err := f.custody.Withdraw(tx, f.asset, exchange, uint256.NewInt(0))
				return err
			},
			wantErr: exchangev1.ErrInvalidHolder,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			err := f.commit(t, func(tx *statev1.Tx) error { return tc.run(f, tx) })
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCustody_WithdrawRollsBackWhenTransferFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledgerMock := ledgerv1_mock.NewMockUsecase(ctrl)
	c := NewCustody(ledgerMock, exchange)

	s := statev1.NewState()
	tx := s.Begin(now)
	tx.SetCustody("ASSET01", user1, uint256.NewInt(30))
	s.Apply(tx.Changeset())

	ledgerMock.EXPECT().
		Transfer(gomock.Any(), assetv1.ID("ASSET01"), exchange, user1, uint256.NewInt(10)).
		Return(ledgerv1.ErrInsufficientBalance)

	tx = s.Begin(now)
	_, err := c.Withdraw(tx, "ASSET01", user1, uint256.NewInt(10))

	assert.ErrorIs(t, err, ledgerv1.ErrInsufficientBalance)
	assert.Equal(t, uint64(30), tx.Custody("ASSET01", user1).Uint64())
	assert.True(t, tx.Changeset().Empty())
}

// Custody consistency: the exchange's ledger balance always equals the sum of
// custody balances under any sequence of deposits and withdrawals.
func TestCustody_ConsistencyProperty(t *testing.T) {
	holders := []assetv1.Address{user1, user2}

	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture(t)

		tx := f.state.Begin(now)
		require.NoError(rt, f.ledger.Transfer(tx, f.asset, issuer, user2, assetv1.Tokens(100)))
		require.NoError(rt, f.ledger.Approve(tx, f.asset, user1, exchange, assetv1.Tokens(1_000)))
		require.NoError(rt, f.ledger.Approve(tx, f.asset, user2, exchange, assetv1.Tokens(1_000)))
		f.state.Apply(tx.Changeset())

		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			holder := rapid.SampledFrom(holders).Draw(rt, "holder")
			amount := assetv1.Tokens(rapid.Uint64Range(0, 150).Draw(rt, "amount"))

			tx := f.state.Begin(now)
			var err error
			if rapid.Bool().Draw(rt, "deposit") {
				_, err = f.custody.Deposit(tx, f.asset, holder, amount)
			} else {
				_, err = f.custody.Withdraw(tx, f.asset, holder, amount)
			}
			if err == nil {
				f.state.Apply(tx.Changeset())
			}

			total := new(uint256.Int)
			for _, h := range holders {
				total.Add(total, f.state.Custody(f.asset, h))
			}
			if !total.Eq(f.state.Balance(f.asset, exchange)) {
				rt.Fatalf("step %d: custody sums to %s, exchange holds %s", i, total.Dec(), f.state.Balance(f.asset, exchange).Dec())
			}
		}
	})
}
