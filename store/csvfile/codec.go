package csvfile

import (
	"fmt"
	"strconv"
	"time"

	"github.com/partsdesk/salesledger/id"
	"github.com/partsdesk/salesledger/order"
	"github.com/partsdesk/salesledger/payment"
	"github.com/partsdesk/salesledger/types"
)

// timeLayout matches the human-readable timestamps the ledger files have
// always carried. Stored and parsed as UTC.
const timeLayout = "2006-01-02 15:04:05"

var orderHeader = []string{
	"row_id", "timestamp", "order_id", "customer",
	"product_code", "product_name", "unit_price", "quantity",
	"line_total", "status", "comment", "visibility",
}

var paymentHeader = []string{
	"row_id", "timestamp", "payment_id", "customer",
	"order_ref", "product_ref", "amount", "comment", "visibility",
}

func encodeOrderLine(ln *order.Line) []string {
	return []string{
		ln.RowID.String(),
		ln.Timestamp.UTC().Format(timeLayout),
		ln.OrderID,
		ln.Customer,
		ln.ProductCode,
		ln.ProductName,
		ln.UnitPrice.FormatMajor(),
		strconv.FormatInt(ln.Quantity, 10),
		ln.LineTotal.FormatMajor(),
		string(ln.Status),
		ln.Comment,
		string(ln.Visibility),
	}
}

func decodeOrderLine(currency string, rec []string) (*order.Line, error) {
	if len(rec) < len(orderHeader) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(orderHeader), len(rec))
	}

	rowID, err := id.ParseRowID(rec[0])
	if err != nil {
		return nil, fmt.Errorf("row_id: %w", err)
	}
	ts, err := parseTime(rec[1])
	if err != nil {
		return nil, fmt.Errorf("timestamp: %w", err)
	}
	unitPrice, err := types.ParseMajor(currency, rec[6])
	if err != nil {
		return nil, fmt.Errorf("unit_price: %w", err)
	}
	quantity, err := strconv.ParseInt(rec[7], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("quantity: %w", err)
	}
	lineTotal, err := types.ParseMajor(currency, rec[8])
	if err != nil {
		return nil, fmt.Errorf("line_total: %w", err)
	}

	return &order.Line{
		RowID:       rowID,
		Timestamp:   ts,
		OrderID:     rec[2],
		Customer:    rec[3],
		ProductCode: rec[4],
		ProductName: rec[5],
		UnitPrice:   unitPrice,
		Quantity:    quantity,
		LineTotal:   lineTotal,
		Status:      order.Status(rec[9]),
		Comment:     rec[10],
		Visibility:  types.Visibility(rec[11]),
	}, nil
}

func encodePayment(p *payment.Payment) []string {
	return []string{
		p.RowID.String(),
		p.Timestamp.UTC().Format(timeLayout),
		p.PaymentID,
		p.Customer,
		p.OrderRef,
		p.ProductRef,
		p.Amount.FormatMajor(),
		p.Comment,
		string(p.Visibility),
	}
}

func decodePayment(currency string, rec []string) (*payment.Payment, error) {
	if len(rec) < len(paymentHeader) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(paymentHeader), len(rec))
	}

	rowID, err := id.ParseRowID(rec[0])
	if err != nil {
		return nil, fmt.Errorf("row_id: %w", err)
	}
	ts, err := parseTime(rec[1])
	if err != nil {
		return nil, fmt.Errorf("timestamp: %w", err)
	}
	amount, err := types.ParseMajor(currency, rec[6])
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}

	return &payment.Payment{
		RowID:      rowID,
		Timestamp:  ts,
		PaymentID:  rec[2],
		Customer:   rec[3],
		OrderRef:   rec[4],
		ProductRef: rec[5],
		Amount:     amount,
		Comment:    rec[7],
		Visibility: types.Visibility(rec[8]),
	}, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(timeLayout, s, time.UTC)
}
