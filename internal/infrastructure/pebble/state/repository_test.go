package state

import (
	"context"
	"testing"
	"time"

	"github.com/holiman/uint256"
	assetv1 "github.com/muhammadchandra19/token-exchange/internal/domain/asset/v1"
	eventv1 "github.com/muhammadchandra19/token-exchange/internal/domain/event/v1"
	exchangev1 "github.com/muhammadchandra19/token-exchange/internal/domain/exchange/v1"
	statev1 "github.com/muhammadchandra19/token-exchange/internal/domain/state/v1"
	"github.com/muhammadchandra19/token-exchange/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var t0 = time.Unix(1700000000, 0).UTC()

func commit(t *testing.T, repo *Repository, st *statev1.State, now time.Time, fn func(tx *statev1.Tx)) {
	t.Helper()
	tx := st.Begin(now)
	fn(tx)
	cs := tx.Changeset()
	require.NoError(t, repo.Persist(context.Background(), cs))
	st.Apply(cs)
}

func seed(t *testing.T, repo *Repository, st *statev1.State) {
	t.Helper()
	commit(t, repo, st, t0, func(tx *statev1.Tx) {
		tx.PutAsset(&assetv1.Asset{
			ID: "ASSET01", Name: "Token", Symbol: "TKN", Decimals: assetv1.Decimals,
			TotalSupply: assetv1.Tokens(100), Issuer: "0xISSUER", IssuedAt: t0,
		})
		tx.SetBalance("ASSET01", "0xISSUER", assetv1.Tokens(70))
		tx.SetBalance("ASSET01", "0xEX", assetv1.Tokens(30))
		tx.SetAllowance("ASSET01", "0xISSUER", "0xEX", assetv1.Tokens(5))
		tx.SetCustody("ASSET01", "0xISSUER", assetv1.Tokens(30))
		tx.Emit(eventv1.Transfer{Asset: "ASSET01", From: assetv1.ZeroAddress, To: "0xISSUER", Amount: assetv1.Tokens(100)})
	})
	for i := 0; i < 11; i++ {
		now := t0.Add(time.Duration(i+1) * time.Second)
		commit(t, repo, st, now, func(tx *statev1.Tx) {
			order := &exchangev1.Order{
				ID: tx.NextOrderID(), Owner: "0xISSUER",
				AssetGet: "ASSET02", AmountGet: uint256.NewInt(1),
				AssetGive: "ASSET01", AmountGive: assetv1.Tokens(1),
				Timestamp: now, Status: exchangev1.OrderStatusOpen,
			}
			tx.AppendOrder(order)
			tx.Emit(eventv1.Order(order.Record()))
		})
	}
}

func TestRepository_StoreLogsThroughServiceLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := logger.NewFromZap(zap.New(core))

	repo, err := Open(t.TempDir(), log)
	require.NoError(t, err)
	defer repo.Close()

	newPebbleLogger(log).Infof("flushed %d tables", 3)

	entries := logs.FilterMessage("flushed 3 tables").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "pebble", entries[0].ContextMap()["component"])
}

func TestRepository_LoadEmpty(t *testing.T) {
	repo, err := Open(t.TempDir(), logger.NewNop())
	require.NoError(t, err)
	defer repo.Close()

	snap, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), snap.Seq)
	assert.Empty(t, snap.Assets)
	assert.Empty(t, snap.Orders)
}

func TestRepository_PersistSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	repo, err := Open(dir, logger.NewNop())
	require.NoError(t, err)

	st := statev1.NewState()
	seed(t, repo, st)

	commit(t, repo, st, t0.Add(time.Minute), func(tx *statev1.Tx) {
		order, ok := tx.Order(10)
		require.True(t, ok)
		cancelled := order.Clone()
		cancelled.Status = exchangev1.OrderStatusCancelled
		tx.UpdateOrder(cancelled)
		tx.Emit(eventv1.Cancel(cancelled.Record()))
	})
	require.NoError(t, repo.Close())

	repo, err = Open(dir, logger.NewNop())
	require.NoError(t, err)
	defer repo.Close()

	snap, err := repo.Load(context.Background())
	require.NoError(t, err)

	want := st.Snapshot(time.Time{})
	assert.Equal(t, uint64(13), snap.Seq)
	assert.Equal(t, t0.Add(time.Minute), snap.LastTimestamp)
	assert.Equal(t, want.Assets, snap.Assets)
	assert.Equal(t, want.Balances, snap.Balances)
	assert.Equal(t, want.Allowances, snap.Allowances)
	assert.Equal(t, want.Custody, snap.Custody)
	require.Len(t, snap.Orders, 11)
	for i, o := range snap.Orders {
		assert.Equal(t, uint64(i+1), o.ID)
	}
	assert.True(t, snap.Orders[9].Cancelled())

	restored, err := statev1.FromSnapshot(snap)
	require.NoError(t, err)
	assert.NoError(t, restored.Verify("0xEX"))
}

func TestRepository_Outbox(t *testing.T) {
	repo, err := Open(t.TempDir(), logger.NewNop())
	require.NoError(t, err)
	defer repo.Close()

	seed(t, repo, statev1.NewState())
	ctx := context.Background()

	pending, err := repo.PendingEvents(ctx, 5)
	require.NoError(t, err)
	require.Len(t, pending, 5)
	for i, e := range pending {
		assert.Equal(t, uint64(i+1), e.Seq)
	}
	assert.Equal(t, eventv1.TypeTransfer, pending[0].Type)
	assert.Equal(t, eventv1.TypeOrder, pending[1].Type)

	require.NoError(t, repo.MarkPublished(ctx, []uint64{1, 2, 3, 4, 5}))

	pending, err = repo.PendingEvents(ctx, 100)
	require.NoError(t, err)
	require.Len(t, pending, 7)
	assert.Equal(t, uint64(6), pending[0].Seq)
	assert.Equal(t, uint64(12), pending[6].Seq)
}

func TestRepository_PersistEmptyIsNoop(t *testing.T) {
	repo, err := Open(t.TempDir(), logger.NewNop())
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.Persist(context.Background(), &statev1.Changeset{Timestamp: t0}))

	snap, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.LastTimestamp.IsZero())
}

func TestUpperBound(t *testing.T) {
	assert.Equal(t, []byte("order0"), upperBound(prefixOrder))
	assert.Less(t, string(seqKey(prefixOrder, 1<<63)), string(upperBound(prefixOrder)))
}
