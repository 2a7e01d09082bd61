package audithook

// Action constants for audit events.
const (
	// Order actions
	ActionOrderCreated  = "order.created"
	ActionOrderPaid     = "order.paid"
	ActionOrderHidden   = "order.hidden"
	ActionOrderRestored = "order.restored"
	ActionOrderDeleted  = "order.deleted"

	// Payment actions
	ActionPaymentCreated  = "payment.created"
	ActionPaymentHidden   = "payment.hidden"
	ActionPaymentRestored = "payment.restored"
	ActionPaymentDeleted  = "payment.deleted"
)

// Resource constants for audit events.
const (
	ResourceOrder   = "order"
	ResourcePayment = "payment"
)

// Category constants for audit events.
const (
	CategorySales   = "sales"
	CategoryPayment = "payment"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
