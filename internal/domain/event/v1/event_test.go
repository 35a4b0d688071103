package eventv1

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventJSONRoundTrip(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	testCases := []struct {
		name    string
		payload Payload
		key     string
	}{
		{
			name:    "transfer",
			payload: Transfer{Asset: "A", From: "0x1", To: "0x2", Amount: uint256.NewInt(7)},
			key:     "A",
		},
		{
			name:    "deposit",
			payload: Deposit{Asset: "B", Holder: "0x1", Amount: uint256.NewInt(30), Balance: uint256.NewInt(30)},
			key:     "B",
		},
		{
			name: "cancel",
			payload: Cancel{
				ID: 1, Owner: "0x1", AssetGet: "A", AmountGet: uint256.NewInt(1),
				AssetGive: "B", AmountGive: uint256.NewInt(1), Timestamp: ts,
			},
			key: "B",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := New(tc.payload)
			e.Seq = 42
			e.Timestamp = ts

			buf, err := json.Marshal(e)
			require.NoError(t, err)

			var decoded Event
			require.NoError(t, json.Unmarshal(buf, &decoded))

			assert.Equal(t, e, decoded)
			assert.Equal(t, tc.key, decoded.Key())
		})
	}
}

func TestAmountsEncodeAsDecimalStrings(t *testing.T) {
	big, err := uint256.FromDecimal("1000000000000000000000000")
	require.NoError(t, err)

	buf, err := json.Marshal(New(Transfer{Asset: "A", Amount: big}))
	require.NoError(t, err)
	assert.Contains(t, string(buf), `"amount":"1000000000000000000000000"`)
}

func TestDecodePayloadUnknownType(t *testing.T) {
	_, err := DecodePayload("fill", []byte(`{}`))
	assert.Error(t, err)
}
