package ledger

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/holiman/uint256"
	assetv1 "github.com/muhammadchandra19/token-exchange/internal/domain/asset/v1"
	eventv1 "github.com/muhammadchandra19/token-exchange/internal/domain/event/v1"
	ledgerv1 "github.com/muhammadchandra19/token-exchange/internal/domain/ledger/v1"
	statev1 "github.com/muhammadchandra19/token-exchange/internal/domain/state/v1"
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

func sequentialIDs() IDGenerator {
	n := 0
	return func(time.Time) (assetv1.ID, error) {
		n++
		return assetv1.ID(fmt.Sprintf("ASSET%02d", n)), nil
	}
}

// setup issues one asset of 1,000,000 tokens to issuer and commits it.
func setup(t *testing.T) (*Ledger, *statev1.State, assetv1.ID) {
	t.Helper()

	l := NewLedger(WithIDGenerator(sequentialIDs()))
	s := statev1.NewState()

	tx := s.Begin(now)
	a, err := l.Issue(tx, assetv1.Metadata{Name: "Token", Symbol: "TKN"}, issuer, uint256.NewInt(1_000_000))
	require.NoError(t, err)
	s.Apply(tx.Changeset())

	return l, s, a.ID
}

func TestLedger_Issue(t *testing.T) {
	l, s, id := setup(t)

	a, ok := s.Asset(id)
	require.True(t, ok)
	assert.Equal(t, "Token", a.Name)
	assert.Equal(t, "TKN", a.Symbol)
	assert.Equal(t, assetv1.Decimals, a.Decimals)
	assert.Equal(t, assetv1.Tokens(1_000_000), a.TotalSupply)
	assert.Equal(t, assetv1.Tokens(1_000_000), l.BalanceOf(s, id, issuer))
	assert.Equal(t, uint64(2), s.Seq(), "AssetIssued and the mint Transfer")
	assert.NoError(t, s.Verify(exchange))
}

func TestLedger_IssueEvents(t *testing.T) {
	l := NewLedger(WithIDGenerator(sequentialIDs()))
	tx := statev1.NewState().Begin(now)

	a, err := l.Issue(tx, assetv1.Metadata{Name: "Token", Symbol: "TKN"}, issuer, uint256.NewInt(1))
	require.NoError(t, err)

	events := tx.Events()
	require.Len(t, events, 2)
	assert.Equal(t, eventv1.TypeAssetIssued, events[0].Type)
	assert.Equal(t, eventv1.Transfer{Asset: a.ID, From: assetv1.ZeroAddress, To: issuer, Amount: assetv1.Tokens(1)}, events[1].Payload)
}

func TestLedger_IssueErrors(t *testing.T) {
	testCases := []struct {
		name     string
		metadata assetv1.Metadata
		issuer   assetv1.Address
		supply   *uint256.Int
		wantErr  error
	}{
		{
			name:     "blank symbol",
			metadata: assetv1.Metadata{Name: "Token", Symbol: " "},
			issuer:   issuer,
			supply:   uint256.NewInt(1),
			wantErr:  ledgerv1.ErrInvalidMetadata,
		},
		{
			name:     "null issuer",
			metadata: assetv1.Metadata{Name: "Token", Symbol: "TKN"},
			issuer:   assetv1.ZeroAddress,
			supply:   uint256.NewInt(1),
			wantErr:  ledgerv1.ErrInvalidRecipient,
		},
		{
			name:     "zero supply",
			metadata: assetv1.Metadata{Name: "Token", Symbol: "TKN"},
			issuer:   issuer,
			supply:   uint256.NewInt(0),
			wantErr:  ledgerv1.ErrInvalidSupply,
		},
		{
			name:     "supply overflows after scaling",
			metadata: assetv1.Metadata{Name: "Token", Symbol: "TKN"},
			issuer:   issuer,
			supply:   new(uint256.Int).SetAllOne(),
			wantErr:  ledgerv1.ErrArithmeticOverflow,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLedger(WithIDGenerator(sequentialIDs()))
			tx := statev1.NewState().Begin(now)

			_, err := l.Issue(tx, tc.metadata, tc.issuer, tc.supply)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.True(t, tx.Changeset().Empty())
		})
	}
}

func TestLedger_Transfer(t *testing.T) {
	l, s, id := setup(t)

	tx := s.Begin(now)
	require.NoError(t, l.Transfer(tx, id, issuer, user1, assetv1.Tokens(100)))
	s.Apply(tx.Changeset())

	assert.Equal(t, assetv1.Tokens(100), l.BalanceOf(s, id, user1))
	assert.Equal(t, assetv1.Tokens(999_900), l.BalanceOf(s, id, issuer))
	assert.NoError(t, s.Verify(exchange))
}

func TestLedger_TransferErrors(t *testing.T) {
	testCases := []struct {
		name    string
		asset   assetv1.ID
		from    assetv1.Address
		to      assetv1.Address
		amount  *uint256.Int
		wantErr error
	}{
		{
			name:    "insufficient balance",
			from:    user1,
			to:      user2,
			amount:  uint256.NewInt(1),
			wantErr: ledgerv1.ErrInsufficientBalance,
		},
		{
			name:    "null recipient",
			from:    issuer,
			to:      assetv1.ZeroAddress,
			amount:  uint256.NewInt(1),
			wantErr: ledgerv1.ErrInvalidRecipient,
		},
		{
			name:    "empty recipient",
			from:    issuer,
			to:      "",
			amount:  uint256.NewInt(1),
			wantErr: ledgerv1.ErrInvalidRecipient,
		},
		{
			name:    "null sender",
			from:    assetv1.ZeroAddress,
			to:      user1,
			amount:  uint256.NewInt(1),
			wantErr: ledgerv1.ErrInvalidSender,
		},
		{
			name:    "unknown asset",
			asset:   "NOPE",
			from:    issuer,
			to:      user1,
			amount:  uint256.NewInt(1),
			wantErr: ledgerv1.ErrInvalidAsset,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l, s, id := setup(t)
			if tc.asset != "" {
				id = tc.asset
			}

			tx := s.Begin(now)
			err := l.Transfer(tx, id, tc.from, tc.to, tc.amount)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.True(t, tx.Changeset().Empty())
		})
	}
}

func TestLedger_TransferZeroAndSelf(t *testing.T) {
	l, s, id := setup(t)

	tx := s.Begin(now)
	require.NoError(t, l.Transfer(tx, id, user1, user2, uint256.NewInt(0)))
	require.NoError(t, l.Transfer(tx, id, issuer, issuer, assetv1.Tokens(5)))
	assert.Len(t, tx.Events(), 2)

	s.Apply(tx.Changeset())
	assert.Equal(t, assetv1.Tokens(1_000_000), l.BalanceOf(s, id, issuer))
	assert.True(t, l.BalanceOf(s, id, user2).IsZero())
}

func TestLedger_ApproveAndDelegatedTransfer(t *testing.T) {
	l, s, id := setup(t)

	tx := s.Begin(now)
	require.NoError(t, l.Transfer(tx, id, issuer, user1, assetv1.Tokens(100)))
	require.NoError(t, l.Approve(tx, id, user1, exchange, assetv1.Tokens(30)))
	s.Apply(tx.Changeset())
	assert.Equal(t, assetv1.Tokens(30), l.AllowanceOf(s, id, user1, exchange))

	tx = s.Begin(now)
	require.NoError(t, l.DelegatedTransfer(tx, id, exchange, user1, exchange, assetv1.Tokens(20)))
	events := tx.Events()
	require.Len(t, events, 2)
	assert.Equal(t, eventv1.Approval{Asset: id, Owner: user1, Spender: exchange, Amount: assetv1.Tokens(10)}, events[0].Payload)
	assert.Equal(t, eventv1.Transfer{Asset: id, From: user1, To: exchange, Amount: assetv1.Tokens(20)}, events[1].Payload)
	assert.Equal(t, events[0].Seq+1, events[1].Seq)
	s.Apply(tx.Changeset())

	assert.Equal(t, assetv1.Tokens(10), l.AllowanceOf(s, id, user1, exchange))
	assert.Equal(t, assetv1.Tokens(80), l.BalanceOf(s, id, user1))
	assert.Equal(t, assetv1.Tokens(20), l.BalanceOf(s, id, exchange))

	// approve overwrites rather than adds
	tx = s.Begin(now)
	require.NoError(t, l.Approve(tx, id, user1, exchange, assetv1.Tokens(3)))
	s.Apply(tx.Changeset())
	assert.Equal(t, assetv1.Tokens(3), l.AllowanceOf(s, id, user1, exchange))
}

func TestLedger_DelegatedTransferErrors(t *testing.T) {
	testCases := []struct {
		name      string
		allowance *uint256.Int
		balance   *uint256.Int
		spender   assetv1.Address
		wantErr   error
	}{
		{
			name:      "allowance too small",
			allowance: uint256.NewInt(5),
			balance:   uint256.NewInt(100),
			spender:   exchange,
			wantErr:   ledgerv1.ErrInsufficientAllowance,
		},
		{
			name:      "allowance is checked before balance",
			allowance: uint256.NewInt(5),
			balance:   uint256.NewInt(1),
			spender:   exchange,
			wantErr:   ledgerv1.ErrInsufficientAllowance,
		},
		{
			name:      "balance too small",
			allowance: uint256.NewInt(100),
			balance:   uint256.NewInt(5),
			spender:   exchange,
			wantErr:   ledgerv1.ErrInsufficientBalance,
		},
		{
			name:      "null spender",
			allowance: uint256.NewInt(100),
			balance:   uint256.NewInt(100),
			spender:   assetv1.ZeroAddress,
			wantErr:   ledgerv1.ErrInvalidSpender,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l, s, id := setup(t)

			tx := s.Begin(now)
			require.NoError(t, l.Transfer(tx, id, issuer, user1, tc.balance))
			if !tc.spender.IsNull() {
				require.NoError(t, l.Approve(tx, id, user1, tc.spender, tc.allowance))
			}
			s.Apply(tx.Changeset())

			tx = s.Begin(now)
			err := l.DelegatedTransfer(tx, id, tc.spender, user1, user2, uint256.NewInt(10))
			assert.ErrorIs(t, err, tc.wantErr)
			assert.True(t, tx.Changeset().Empty())
		})
	}
}

func TestLedger_ApproveErrors(t *testing.T) {
	l, s, id := setup(t)
	tx := s.Begin(now)

	assert.ErrorIs(t, l.Approve(tx, id, user1, assetv1.ZeroAddress, uint256.NewInt(1)), ledgerv1.ErrInvalidSpender)
	assert.ErrorIs(t, l.Approve(tx, id, "", exchange, uint256.NewInt(1)), ledgerv1.ErrInvalidSender)
	assert.ErrorIs(t, l.Approve(tx, "NOPE", user1, exchange, uint256.NewInt(1)), ledgerv1.ErrInvalidAsset)
	assert.True(t, tx.Changeset().Empty())
}

func TestLedger_UnknownReadsAreZero(t *testing.T) {
	l, s, _ := setup(t)

	assert.True(t, l.BalanceOf(s, "NOPE", user1).IsZero())
	assert.True(t, l.AllowanceOf(s, "NOPE", user1, exchange).IsZero())
}

func TestULIDGenerator_Monotonic(t *testing.T) {
	gen := ULIDGenerator(rand.New(rand.NewSource(1)))

	a, err := gen(now)
	require.NoError(t, err)
	b, err := gen(now)
	require.NoError(t, err)

	assert.Len(t, string(a), 26)
	assert.Less(t, string(a), string(b))
}

// Conservation: whatever sequence of transfers, approvals and delegated
// transfers runs, balances always sum to the total supply.
func TestLedger_ConservationProperty(t *testing.T) {
	holders := []assetv1.Address{issuer, user1, user2, exchange}

	rapid.Check(t, func(t *rapid.T) {
		l := NewLedger(WithIDGenerator(sequentialIDs()))
		s := statev1.NewState()

		tx := s.Begin(now)
		a, err := l.Issue(tx, assetv1.Metadata{Name: "Token", Symbol: "TKN"}, issuer, uint256.NewInt(rapid.Uint64Range(1, 1_000_000).Draw(t, "supply")))
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		s.Apply(tx.Changeset())

		steps := rapid.IntRange(1, 50).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			from := rapid.SampledFrom(holders).Draw(t, "from")
			to := rapid.SampledFrom(holders).Draw(t, "to")
			amount := assetv1.Tokens(rapid.Uint64Range(0, 2_000_000).Draw(t, "amount"))

			tx := s.Begin(now)
			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				err = l.Transfer(tx, a.ID, from, to, amount)
			case 1:
				err = l.Approve(tx, a.ID, from, to, amount)
			default:
				err = l.DelegatedTransfer(tx, a.ID, to, from, to, amount)
			}
			if err == nil {
				s.Apply(tx.Changeset())
			}

			if verr := s.Verify(exchange); verr != nil {
				t.Fatalf("step %d: %v", i, verr)
			}
		}
	})
}
