package assetv1

import (
	"strings"
	"time"

	"github.com/holiman/uint256"
)

// Decimals is the display precision of every issued asset.
const Decimals uint8 = 18

// ZeroAddress is the canonical null/burn address.
const ZeroAddress Address = "0x0000000000000000000000000000000000000000"

// Address identifies a holder: an account, a spender, or the exchange itself.
type Address string

// IsNull reports whether a is empty or the zero address.
func (a Address) IsNull() bool {
	return a == "" || strings.EqualFold(string(a), string(ZeroAddress))
}

// String returns the address text.
func (a Address) String() string {
	return string(a)
}

// ID identifies one fungible asset.
type ID string

// String returns the id text.
func (id ID) String() string {
	return string(id)
}

// Metadata is the caller supplied description of an asset.
type Metadata struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Valid reports whether both name and symbol are non-blank.
func (m Metadata) Valid() bool {
	return strings.TrimSpace(m.Name) != "" && strings.TrimSpace(m.Symbol) != ""
}

// Asset is an issued fungible token. It never changes after issue.
type Asset struct {
	ID          ID           `json:"id"`
	Name        string       `json:"name"`
	Symbol      string       `json:"symbol"`
	Decimals    uint8        `json:"decimals"`
	TotalSupply *uint256.Int `json:"total_supply"`
	Issuer      Address      `json:"issuer"`
	IssuedAt    time.Time    `json:"issued_at"`
}

// Clone returns a deep copy safe to hand to readers.
func (a *Asset) Clone() *Asset {
	if a == nil {
		return nil
	}
	c := *a
	if a.TotalSupply != nil {
		c.TotalSupply = a.TotalSupply.Clone()
	}
	return &c
}
