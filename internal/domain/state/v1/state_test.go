package statev1

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	assetv1 "github.com/muhammadchandra19/token-exchange/internal/domain/asset/v1"
	eventv1 "github.com/muhammadchandra19/token-exchange/internal/domain/event/v1"
	exchangev1 "github.com/muhammadchandra19/token-exchange/internal/domain/exchange/v1"
	"github.com/muhammadchandra19/token-exchange/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tkn      assetv1.ID      = "01TKN"
	issuer   assetv1.Address = "0xISSUER"
	user1    assetv1.Address = "0xUSER1"
	exchange assetv1.Address = "0xEXCHANGE"
)

var now = time.Unix(1700000000, 0).UTC()

func seeded(t *testing.T) *State {
	t.Helper()

	s := NewState()
	tx := s.Begin(now)
	tx.PutAsset(&assetv1.Asset{ID: tkn, Name: "Token", Symbol: "TKN", Decimals: assetv1.Decimals, TotalSupply: uint256.NewInt(1000), Issuer: issuer})
	tx.SetBalance(tkn, issuer, uint256.NewInt(1000))
	tx.Emit(eventv1.Transfer{Asset: tkn, From: assetv1.ZeroAddress, To: issuer, Amount: uint256.NewInt(1000)})
	s.Apply(tx.Changeset())
	require.NoError(t, s.Verify(exchange))
	return s
}

func newOrder(id uint64) *exchangev1.Order {
	return &exchangev1.Order{
		ID: id, Owner: user1, AssetGet: "01OTHER", AmountGet: uint256.NewInt(1),
		AssetGive: tkn, AmountGive: uint256.NewInt(1), Timestamp: now, Status: exchangev1.OrderStatusOpen,
	}
}

func TestTx_ReadsFallThroughAndWritesStayInOverlay(t *testing.T) {
	s := seeded(t)
	tx := s.Begin(now)

	assert.Equal(t, uint64(1000), tx.Balance(tkn, issuer).Uint64())
	assert.True(t, tx.Balance(tkn, user1).IsZero())

	tx.SetBalance(tkn, issuer, uint256.NewInt(900))
	tx.SetBalance(tkn, user1, uint256.NewInt(100))

	assert.Equal(t, uint64(900), tx.Balance(tkn, issuer).Uint64())
	assert.Equal(t, uint64(1000), s.Balance(tkn, issuer).Uint64(), "base must not change before Apply")
}

func TestTx_RollbackTo(t *testing.T) {
	s := seeded(t)
	tx := s.Begin(now)

	tx.SetCustody(tkn, user1, uint256.NewInt(30))
	sp := tx.Savepoint()

	tx.SetCustody(tkn, user1, uint256.NewInt(10))
	tx.SetBalance(tkn, user1, uint256.NewInt(20))
	tx.AppendOrder(newOrder(tx.NextOrderID()))
	tx.Emit(eventv1.Withdraw{Asset: tkn, Holder: user1, Amount: uint256.NewInt(20), Balance: uint256.NewInt(10)})

	tx.RollbackTo(sp)

	assert.Equal(t, uint64(30), tx.Custody(tkn, user1).Uint64())
	assert.True(t, tx.Balance(tkn, user1).IsZero())
	assert.Equal(t, uint64(0), tx.OrderCount())
	assert.Equal(t, uint64(1), tx.NextOrderID())
	assert.Empty(t, tx.Events())

	cs := tx.Changeset()
	assert.Len(t, cs.Custody, 1)
	assert.Empty(t, cs.Balances)
	assert.Empty(t, cs.NewOrders)
}

func TestTx_EmitAssignsConsecutiveSeq(t *testing.T) {
	s := seeded(t)
	require.Equal(t, uint64(1), s.Seq())

	tx := s.Begin(now.Add(time.Second))
	tx.Emit(eventv1.Transfer{Asset: tkn, From: issuer, To: user1, Amount: uint256.NewInt(1)})
	tx.Emit(eventv1.Approval{Asset: tkn, Owner: user1, Spender: exchange, Amount: uint256.NewInt(1)})

	events := tx.Events()
	require.Len(t, events, 2)
	assert.Equal(t, uint64(2), events[0].Seq)
	assert.Equal(t, uint64(3), events[1].Seq)
	assert.Equal(t, eventv1.TypeApproval, events[1].Type)
	assert.Equal(t, now.Add(time.Second), events[1].Timestamp)

	s.Apply(tx.Changeset())
	assert.Equal(t, uint64(3), s.Seq())
	assert.Equal(t, now.Add(time.Second), s.LastTimestamp())
}

func TestTx_ChangesetSplitsNewAndUpdatedOrders(t *testing.T) {
	s := seeded(t)

	tx := s.Begin(now)
	tx.AppendOrder(newOrder(1))
	s.Apply(tx.Changeset())
	require.Equal(t, uint64(1), s.OrderCount())

	tx = s.Begin(now)
	cancelled := newOrder(1)
	cancelled.Status = exchangev1.OrderStatusCancelled
	tx.UpdateOrder(cancelled)
	tx.AppendOrder(newOrder(2))

	cs := tx.Changeset()
	require.Len(t, cs.UpdatedOrders, 1)
	require.Len(t, cs.NewOrders, 1)
	assert.Equal(t, uint64(1), cs.UpdatedOrders[0].ID)
	assert.Equal(t, uint64(2), cs.NewOrders[0].ID)

	s.Apply(cs)
	o, ok := s.Order(1)
	require.True(t, ok)
	assert.True(t, o.Cancelled())
	assert.Equal(t, uint64(2), s.OrderCount())

	_, ok = s.Order(3)
	assert.False(t, ok)
	_, ok = s.Order(0)
	assert.False(t, ok)
}

func TestTx_AppendOrderPanicsOnWrongID(t *testing.T) {
	s := NewState()
	tx := s.Begin(now)
	assert.Panics(t, func() { tx.AppendOrder(newOrder(5)) })
}

func TestState_SnapshotRoundTrip(t *testing.T) {
	s := seeded(t)
	tx := s.Begin(now)
	tx.SetBalance(tkn, issuer, uint256.NewInt(970))
	tx.SetBalance(tkn, exchange, uint256.NewInt(30))
	tx.SetCustody(tkn, user1, uint256.NewInt(30))
	tx.SetAllowance(tkn, user1, exchange, uint256.NewInt(5))
	tx.AppendOrder(newOrder(1))
	s.Apply(tx.Changeset())

	snap := s.Snapshot(now)
	restored, err := FromSnapshot(snap)
	require.NoError(t, err)

	assert.Equal(t, snap, restored.Snapshot(now))
	assert.NoError(t, restored.Verify(exchange))
}

func TestFromSnapshot_RejectsGappedOrderIDs(t *testing.T) {
	_, err := FromSnapshot(&Snapshot{Orders: []*exchangev1.Order{newOrder(1), newOrder(3)}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestState_Verify(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(tx *Tx)
		wantErr bool
	}{
		{
			name:   "consistent",
			mutate: func(tx *Tx) {},
		},
		{
			name: "supply mismatch",
			mutate: func(tx *Tx) {
				tx.SetBalance(tkn, user1, uint256.NewInt(1))
			},
			wantErr: true,
		},
		{
			name: "custody not backed by exchange balance",
			mutate: func(tx *Tx) {
				tx.SetCustody(tkn, user1, uint256.NewInt(1))
			},
			wantErr: true,
		},
		{
			name: "exchange surplus is allowed",
			mutate: func(tx *Tx) {
				tx.SetBalance(tkn, issuer, uint256.NewInt(950))
				tx.SetBalance(tkn, exchange, uint256.NewInt(50))
				tx.SetCustody(tkn, user1, uint256.NewInt(30))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := seeded(t)
			tx := s.Begin(now)
			tc.mutate(tx)
			s.Apply(tx.Changeset())

			err := s.Verify(exchange)
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.InvariantViolation.String(), errors.CodeOf(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}
