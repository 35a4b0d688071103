package statev1

import "github.com/muhammadchandra19/token-exchange/pkg/errors"

// ErrInvariantViolation is returned by Verify and FromSnapshot.
var ErrInvariantViolation = errors.NewErrorDetails("state invariant violated", errors.InvariantViolation.String(), "")

func invariantError(message string) error {
	return errors.NewErrorDetails(message, errors.InvariantViolation.String(), "")
}
