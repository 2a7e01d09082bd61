package mongo

import (
	"fmt"
	"time"

	"github.com/partsdesk/salesledger/id"
	"github.com/partsdesk/salesledger/order"
	"github.com/partsdesk/salesledger/payment"
	"github.com/partsdesk/salesledger/types"
)

// ==================== Order line model ====================

type orderLineModel struct {
	RowID       string    `bson:"_id"`
	Timestamp   time.Time `bson:"timestamp"`
	OrderID     string    `bson:"order_id"`
	Customer    string    `bson:"customer"`
	ProductCode string    `bson:"product_code"`
	ProductName string    `bson:"product_name"`
	UnitPrice   int64     `bson:"unit_price"`
	Quantity    int64     `bson:"quantity"`
	LineTotal   int64     `bson:"line_total"`
	Currency    string    `bson:"currency"`
	Status      string    `bson:"status"`
	Comment     string    `bson:"comment"`
	Visibility  string    `bson:"visibility"`
}

func toOrderLineModel(ln *order.Line) *orderLineModel {
	return &orderLineModel{
		RowID:       ln.RowID.String(),
		Timestamp:   ln.Timestamp.UTC(),
		OrderID:     ln.OrderID,
		Customer:    ln.Customer,
		ProductCode: ln.ProductCode,
		ProductName: ln.ProductName,
		UnitPrice:   ln.UnitPrice.Amount,
		Quantity:    ln.Quantity,
		LineTotal:   ln.LineTotal.Amount,
		Currency:    ln.UnitPrice.Currency,
		Status:      string(ln.Status),
		Comment:     ln.Comment,
		Visibility:  string(ln.Visibility),
	}
}

func fromOrderLineModel(m *orderLineModel) (*order.Line, error) {
	rowID, err := id.ParseRowID(m.RowID)
	if err != nil {
		return nil, fmt.Errorf("ledger/mongo: row_id %q: %w", m.RowID, err)
	}
	return &order.Line{
		RowID:       rowID,
		Timestamp:   m.Timestamp.UTC(),
		OrderID:     m.OrderID,
		Customer:    m.Customer,
		ProductCode: m.ProductCode,
		ProductName: m.ProductName,
		UnitPrice:   types.Money{Amount: m.UnitPrice, Currency: m.Currency},
		Quantity:    m.Quantity,
		LineTotal:   types.Money{Amount: m.LineTotal, Currency: m.Currency},
		Status:      order.Status(m.Status),
		Comment:     m.Comment,
		Visibility:  types.Visibility(m.Visibility),
	}, nil
}

// ==================== Payment model ====================

type paymentModel struct {
	RowID      string    `bson:"_id"`
	Timestamp  time.Time `bson:"timestamp"`
	PaymentID  string    `bson:"payment_id"`
	Customer   string    `bson:"customer"`
	OrderRef   string    `bson:"order_ref"`
	ProductRef string    `bson:"product_ref"`
	Amount     int64     `bson:"amount"`
	Currency   string    `bson:"currency"`
	Comment    string    `bson:"comment"`
	Visibility string    `bson:"visibility"`
}

func toPaymentModel(p *payment.Payment) *paymentModel {
	return &paymentModel{
		RowID:      p.RowID.String(),
		Timestamp:  p.Timestamp.UTC(),
		PaymentID:  p.PaymentID,
		Customer:   p.Customer,
		OrderRef:   p.OrderRef,
		ProductRef: p.ProductRef,
		Amount:     p.Amount.Amount,
		Currency:   p.Amount.Currency,
		Comment:    p.Comment,
		Visibility: string(p.Visibility),
	}
}

func fromPaymentModel(m *paymentModel) (*payment.Payment, error) {
	rowID, err := id.ParseRowID(m.RowID)
	if err != nil {
		return nil, fmt.Errorf("ledger/mongo: row_id %q: %w", m.RowID, err)
	}
	return &payment.Payment{
		RowID:      rowID,
		Timestamp:  m.Timestamp.UTC(),
		PaymentID:  m.PaymentID,
		Customer:   m.Customer,
		OrderRef:   m.OrderRef,
		ProductRef: m.ProductRef,
		Amount:     types.Money{Amount: m.Amount, Currency: m.Currency},
		Comment:    m.Comment,
		Visibility: types.Visibility(m.Visibility),
	}, nil
}
