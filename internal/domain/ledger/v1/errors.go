package ledgerv1

import "github.com/muhammadchandra19/token-exchange/pkg/errors"

// Sentinels for errors.Is. Operations return fresh ErrorDetails with the same code
// and a message naming the values involved.
var (
	ErrInsufficientBalance   = errors.NewErrorDetails("insufficient balance", errors.InsufficientBalance.String(), "amount")
	ErrInsufficientAllowance = errors.NewErrorDetails("insufficient allowance", errors.InsufficientAllowance.String(), "amount")
	ErrInvalidRecipient      = errors.NewErrorDetails("invalid recipient", errors.InvalidRecipient.String(), "to")
	ErrInvalidSpender        = errors.NewErrorDetails("invalid spender", errors.InvalidSpender.String(), "spender")
	ErrInvalidSender         = errors.NewErrorDetails("invalid sender", errors.InvalidSender.String(), "from")
	ErrInvalidAsset          = errors.NewErrorDetails("unknown asset", errors.InvalidAsset.String(), "asset")
	ErrInvalidMetadata       = errors.NewErrorDetails("asset name and symbol are required", errors.InvalidAssetMetadata.String(), "metadata")
	ErrInvalidSupply         = errors.NewErrorDetails("total supply must be positive", errors.InvalidSupply.String(), "total_supply")
	ErrArithmeticOverflow    = errors.NewErrorDetails("arithmetic overflow", errors.ArithmeticOverflow.String(), "amount")
)
