package errors

import (
	"bytes"
	"strings"
)

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralRepositoryError represents a generic repository error.
	GeneralRepositoryError ErrorCode = "general_repository_error"
	// ConfigValidationError represents a configuration value that failed validation.
	ConfigValidationError ErrorCode = "config_validation_error"

	// MalformedTradeError represents a trade whose numeric fields cannot be parsed.
	MalformedTradeError ErrorCode = "malformed_trade"
	// UnknownSymbolError represents a trade for a symbol outside the configured set.
	UnknownSymbolError ErrorCode = "unknown_symbol"
	// QueueClosedError represents a push after producers have finished.
	QueueClosedError ErrorCode = "queue_closed"
	// QueueInitError represents a queue that could not be allocated.
	QueueInitError ErrorCode = "queue_init_error"

	// SinkWriteError represents a row that a sink failed to persist.
	SinkWriteError ErrorCode = "sink_write_error"
	// SinkCloseError represents a sink that failed to release its resources.
	SinkCloseError ErrorCode = "sink_close_error"

	// SourceConnectionError represents an ingestion source that cannot reach its feed.
	SourceConnectionError ErrorCode = "source_connection_error"
	// SourceDecodeError represents a feed message that could not be decoded.
	SourceDecodeError ErrorCode = "source_decode_error"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisHSetError represents an error when setting fields in a hash in Redis.
	RedisHSetError ErrorCode = "redis_hset_error"
	// RedisPublishError represents an error when publishing messages to channels in Redis.
	RedisPublishError ErrorCode = "redis_publish_error"
	// RedisXAddError represents an error when adding entries to a stream in Redis.
	RedisXAddError ErrorCode = "redis_xadd_error"
)

// Category represents the category of an error.
type Category string

const (
	// CategoryDatabase indicates an error related to database operations.
	CategoryDatabase Category = "database"
	// CategoryNetwork indicates an error related to network operations.
	CategoryNetwork Category = "network"
	// CategoryValidation indicates an error related to validation of input data.
	CategoryValidation Category = "validation"
	// CategoryBusinessLogic indicates an error related to business logic processing.
	CategoryBusinessLogic Category = "business_logic"
	// CategoryUnknown indicates an unknown error category.
	CategoryUnknown Category = "unknown"
)

// CategoryOf maps an error code to its category.
func CategoryOf(code ErrorCode) Category {
	switch code {
	case MalformedTradeError, UnknownSymbolError, ConfigValidationError, SourceDecodeError:
		return CategoryValidation
	case QueueClosedError, QueueInitError:
		return CategoryBusinessLogic
	case GeneralRepositoryError, SinkWriteError, SinkCloseError:
		return CategoryDatabase
	case SourceConnectionError, RedisConnectionError, RedisDisconnectionError, RedisPingError,
		RedisHSetError, RedisPublishError, RedisXAddError, RedisConfigError:
		return CategoryNetwork
	default:
		return CategoryUnknown
	}
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

// IsAnyCodeEqual check if any ErrorDetails code is equal with given code
func (b *BaseError) IsAnyCodeEqual(code string) bool {
	for _, d := range b.GetDetails() {
		if d.Code == code {
			return true
		}
	}
	return false
}
