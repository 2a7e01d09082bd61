// Package audithook bridges ledger lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not depend on any
// particular audit system. Callers inject a RecorderFunc adapter that bridges
// to their backend at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/partsdesk/salesledger/order"
	"github.com/partsdesk/salesledger/payment"
	"github.com/partsdesk/salesledger/plugin"
	"github.com/partsdesk/salesledger/types"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin              = (*Extension)(nil)
	_ plugin.OnOrderCreated      = (*Extension)(nil)
	_ plugin.OnPaymentCreated    = (*Extension)(nil)
	_ plugin.OnOrderPaid         = (*Extension)(nil)
	_ plugin.OnVisibilityChanged = (*Extension)(nil)
	_ plugin.OnRecordDeleted     = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges ledger lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Record lifecycle hooks
// ──────────────────────────────────────────────────

// OnOrderCreated implements plugin.OnOrderCreated.
func (e *Extension) OnOrderCreated(ctx context.Context, lines []*order.Line) error {
	orderID := ""
	customer := ""
	if len(lines) > 0 {
		orderID = lines[0].OrderID
		customer = lines[0].Customer
	}
	return e.record(ctx, ActionOrderCreated, SeverityInfo, OutcomeSuccess,
		ResourceOrder, orderID, CategorySales, nil,
		"customer", customer,
		"line_count", len(lines),
		"total", order.Total(currencyOf(lines), lines).FormatMajor(),
	)
}

// OnPaymentCreated implements plugin.OnPaymentCreated.
func (e *Extension) OnPaymentCreated(ctx context.Context, p *payment.Payment) error {
	return e.record(ctx, ActionPaymentCreated, SeverityInfo, OutcomeSuccess,
		ResourcePayment, p.PaymentID, CategoryPayment, nil,
		"customer", p.Customer,
		"order_ref", p.OrderRef,
		"amount", p.Amount.FormatMajor(),
	)
}

// OnOrderPaid implements plugin.OnOrderPaid.
func (e *Extension) OnOrderPaid(ctx context.Context, orderID string) error {
	return e.record(ctx, ActionOrderPaid, SeverityInfo, OutcomeSuccess,
		ResourceOrder, orderID, CategoryPayment, nil,
		"order_id", orderID,
	)
}

// OnVisibilityChanged implements plugin.OnVisibilityChanged.
func (e *Extension) OnVisibilityChanged(ctx context.Context, kind types.Kind, id string, v types.Visibility) error {
	action := visibilityAction(kind, v)
	return e.record(ctx, action, SeverityWarning, OutcomeSuccess,
		resourceOf(kind), id, categoryOf(kind), nil,
		"visibility", string(v),
	)
}

// OnRecordDeleted implements plugin.OnRecordDeleted.
func (e *Extension) OnRecordDeleted(ctx context.Context, kind types.Kind, id string) error {
	action := ActionOrderDeleted
	if kind == types.KindPayment {
		action = ActionPaymentDeleted
	}
	return e.record(ctx, action, SeverityWarning, OutcomeSuccess,
		resourceOf(kind), id, categoryOf(kind), nil,
		"kind", string(kind),
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

func visibilityAction(kind types.Kind, v types.Visibility) string {
	switch {
	case kind == types.KindPayment && v == types.Hidden:
		return ActionPaymentHidden
	case kind == types.KindPayment:
		return ActionPaymentRestored
	case v == types.Hidden:
		return ActionOrderHidden
	default:
		return ActionOrderRestored
	}
}

func resourceOf(kind types.Kind) string {
	if kind == types.KindPayment {
		return ResourcePayment
	}
	return ResourceOrder
}

func categoryOf(kind types.Kind) string {
	if kind == types.KindPayment {
		return CategoryPayment
	}
	return CategorySales
}

func currencyOf(lines []*order.Line) string {
	if len(lines) > 0 {
		return lines[0].LineTotal.Currency
	}
	return "ars"
}

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audithook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
