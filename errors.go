package salesledger

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// Validation errors — surfaced before anything is written.
	ErrUnknownClient = errors.New("salesledger: unknown client")
	ErrNoValidLines  = errors.New("salesledger: no valid order lines")
	ErrInvalidAmount = errors.New("salesledger: payment amount must be positive")
	ErrInvalidKind   = errors.New("salesledger: unknown record kind")

	// Store errors
	ErrStoreUnavailable = errors.New("salesledger: store unavailable")
	ErrStoreClosed      = errors.New("salesledger: store is closed")
)

// PaymentFailedError reports the single documented partial-failure outcome:
// the composite order-plus-payment operation persisted the order but the
// subsequent payment creation failed. The order rows are not rolled back;
// the caller can retry the payment against OrderID or hide the order.
type PaymentFailedError struct {
	OrderID string
	Err     error
}

func (e *PaymentFailedError) Error() string {
	return fmt.Sprintf("salesledger: payment failed after order %s was created: %v", e.OrderID, e.Err)
}

func (e *PaymentFailedError) Unwrap() error { return e.Err }

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("salesledger: validation failed for %s: %s", e.Field, e.Message)
}

// IsValidation returns true if the error is a pre-write validation failure.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.Is(err, ErrUnknownClient) ||
		errors.Is(err, ErrNoValidLines) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidKind) ||
		errors.As(err, &ve)
}

// IsStoreUnavailable returns true if the error came from the storage layer.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrStoreClosed)
}

// IsPaymentFailed returns true (and the already-created order id) if the
// error is the composite operation's partial-failure outcome.
func IsPaymentFailed(err error) (string, bool) {
	var pf *PaymentFailedError
	if errors.As(err, &pf) {
		return pf.OrderID, true
	}
	return "", false
}
