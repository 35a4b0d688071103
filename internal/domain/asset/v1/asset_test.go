package assetv1

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressIsNull(t *testing.T) {
	assert.True(t, Address("").IsNull())
	assert.True(t, ZeroAddress.IsNull())
	assert.True(t, Address("0X0000000000000000000000000000000000000000").IsNull())
	assert.False(t, Address("0xabc").IsNull())
}

func TestMetadataValid(t *testing.T) {
	assert.True(t, Metadata{Name: "DEX O", Symbol: "DEXO"}.Valid())
	assert.False(t, Metadata{Name: " ", Symbol: "DEXO"}.Valid())
	assert.False(t, Metadata{Name: "DEX O"}.Valid())
}

func TestTokens(t *testing.T) {
	assert.Equal(t, "1000000000000000000000000", Tokens(1_000_000).Dec())
	assert.Equal(t, "30000000000000000000", Tokens(30).Dec())
	assert.True(t, Tokens(0).IsZero())
}

func TestToBaseUnits(t *testing.T) {
	v, err := ToBaseUnits(uint256.NewInt(1_000_000), Decimals)
	require.NoError(t, err)
	assert.True(t, v.Eq(Tokens(1_000_000)))

	_, err = ToBaseUnits(new(uint256.Int).SetAllOne(), Decimals)
	assert.Error(t, err)
}

func TestParseUnits(t *testing.T) {
	testCases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "1", want: "1000000000000000000"},
		{in: "12.5", want: "12500000000000000000"},
		{in: "0.000000000000000001", want: "1"},
		{in: "0.0000000000000000001", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseUnits(tc.in, Decimals)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Dec())
		})
	}
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "80", FormatUnits(Tokens(80), Decimals))
	assert.Equal(t, "1.5", FormatUnits(uint256.NewInt(1_500_000_000_000_000_000), Decimals))
	assert.Equal(t, "0", FormatUnits(nil, Decimals))
}

func TestAssetClone(t *testing.T) {
	a := &Asset{ID: "a", TotalSupply: uint256.NewInt(5)}
	c := a.Clone()
	c.TotalSupply.SetUint64(9)
	assert.Equal(t, uint64(5), a.TotalSupply.Uint64())
	assert.Nil(t, (*Asset)(nil).Clone())
}
