package errors

import (
	"bytes"
	"fmt"
	"strings"
)

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralRepositoryError represents a generic repository error.
	GeneralRepositoryError ErrorCode = "general_repository_error"
	// ConfigValidationError represents an invalid configuration value.
	ConfigValidationError ErrorCode = "config_validation_error"

	// InsufficientBalance is returned when a ledger or custody balance cannot cover an amount.
	InsufficientBalance ErrorCode = "insufficient_balance"
	// InsufficientAllowance is returned when a spender's allowance cannot cover an amount.
	InsufficientAllowance ErrorCode = "insufficient_allowance"
	// InvalidRecipient is returned when funds are sent to the null address.
	InvalidRecipient ErrorCode = "invalid_recipient"
	// InvalidSpender is returned when an allowance is granted to the null address.
	InvalidSpender ErrorCode = "invalid_spender"
	// InvalidSender is returned when the null address acts as sender, owner or caller.
	InvalidSender ErrorCode = "invalid_sender"
	// InvalidAsset is returned when a mutating call names an asset that was never issued.
	InvalidAsset ErrorCode = "invalid_asset"
	// InvalidAssetMetadata is returned when an asset is issued without a name or symbol.
	InvalidAssetMetadata ErrorCode = "invalid_asset_metadata"
	// InvalidSupply is returned when an asset is issued with a zero supply.
	InvalidSupply ErrorCode = "invalid_supply"
	// Unauthorized is returned when a caller acts on an order it does not own.
	Unauthorized ErrorCode = "unauthorized"
	// OrderNotFound is returned when an order id was never allocated.
	OrderNotFound ErrorCode = "order_not_found"
	// AlreadyCancelled is returned when an order is cancelled twice.
	AlreadyCancelled ErrorCode = "already_cancelled"
	// ArithmeticOverflow is returned when an amount would wrap.
	ArithmeticOverflow ErrorCode = "arithmetic_overflow"
	// InvariantViolation is returned when a state check finds broken accounting.
	InvariantViolation ErrorCode = "invariant_violation"
	// EngineNotStarted is returned when a command reaches an engine before Start or after Stop.
	EngineNotStarted ErrorCode = "engine_not_started"
	// EngineAlreadyStarted is returned when Start is called on a running engine.
	EngineAlreadyStarted ErrorCode = "engine_already_started"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisDelError represents an error when deleting a value from Redis.
	RedisDelError ErrorCode = "redis_del_error"
)

// String returns the code as a plain string.
func (c ErrorCode) String() string {
	return string(c)
}

// BaseError is an `error` type containing an array of ErrorDetails.
type BaseError struct {
	details []*ErrorDetails
}

// NewBaseError create BaseError with ErrorDetails
func NewBaseError(details ...*ErrorDetails) *BaseError {
	return &BaseError{details: details}
}

// AddErrorDetails add more ErrorDetails to BaseError
func (b *BaseError) AddErrorDetails(errors ...*ErrorDetails) {
	b.details = append(b.details, errors...)
}

// GetDetails get array ErrorDetails on BaseError
func (b *BaseError) GetDetails() []*ErrorDetails {
	return b.details
}

// HasDetails reports whether any ErrorDetails were collected.
func (b *BaseError) HasDetails() bool {
	return len(b.details) > 0
}

// Error implement error interface
func (b *BaseError) Error() string {
	buff := bytes.NewBufferString("")

	buff.WriteString("Error on\n")
	for _, err := range b.details {
		buff.WriteString("code: ")
		buff.WriteString(err.Code)
		buff.WriteString("; error: ")
		buff.WriteString(err.Error())
		buff.WriteString("; field: ")
		buff.WriteString(err.Field)
		buff.WriteString("\n")
	}

	return strings.TrimSpace(buff.String())
}

// PrependFields prepend all field on ErrorDetails with given prefix. Will skip ErrorDetail without field
func (b *BaseError) PrependFields(prefix string) {
	for _, d := range b.GetDetails() {
		if d.Field == "" {
			continue
		}
		d.Field = fmt.Sprintf("%s%s", prefix, d.Field)
	}
}

// IsAnyCodeEqual check if any ErrorDetails code is equal with given code
func (b *BaseError) IsAnyCodeEqual(code string) bool {
	for _, d := range b.GetDetails() {
		if d.Code == code {
			return true
		}
	}
	return false
}
