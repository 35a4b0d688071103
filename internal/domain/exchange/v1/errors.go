package exchangev1

import "github.com/muhammadchandra19/token-exchange/pkg/errors"

var (
	// ErrInsufficientCustody is returned by withdraw and create when the custody
	// balance cannot cover the amount. It shares its code with the ledger's
	// insufficient balance error.
	ErrInsufficientCustody = errors.NewErrorDetails("insufficient custody balance", errors.InsufficientBalance.String(), "amount")
	ErrInvalidHolder       = errors.NewErrorDetails("invalid holder", errors.InvalidSender.String(), "holder")
	ErrUnauthorized        = errors.NewErrorDetails("caller does not own the order", errors.Unauthorized.String(), "caller")
	ErrOrderNotFound       = errors.NewErrorDetails("order not found", errors.OrderNotFound.String(), "order_id")
	ErrAlreadyCancelled    = errors.NewErrorDetails("order already cancelled", errors.AlreadyCancelled.String(), "order_id")
)
