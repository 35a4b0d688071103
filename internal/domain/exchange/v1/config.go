package exchangev1

import (
	assetv1 "github.com/muhammadchandra19/token-exchange/internal/domain/asset/v1"
	"github.com/muhammadchandra19/token-exchange/pkg/errors"
)

// DefaultFeePercent is the fee configured when none is given.
const DefaultFeePercent uint32 = 10

// Config is fixed when the exchange is created. Fees are stored for a future
// fill operation and exposed read-only.
type Config struct {
	// Address is the exchange's own holder identity on the ledger.
	Address    assetv1.Address
	FeeAccount assetv1.Address
	// FeePercent is a whole percent in [0, 100].
	FeePercent uint32
}

// Validate rejects null addresses and out of range fees.
func (c Config) Validate() error {
	be := errors.NewBaseError()
	if c.Address.IsNull() {
		be.AddErrorDetails(errors.NewErrorDetails("exchange address must not be null", errors.ConfigValidationError.String(), "address"))
	}
	if c.FeeAccount.IsNull() {
		be.AddErrorDetails(errors.NewErrorDetails("fee account must not be null", errors.ConfigValidationError.String(), "fee_account"))
	}
	if c.FeePercent > 100 {
		be.AddErrorDetails(errors.NewErrorDetails("fee percent must be at most 100", errors.ConfigValidationError.String(), "fee_percent"))
	}
	if be.HasDetails() {
		return be
	}
	return nil
}
