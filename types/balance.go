package types

// Balance is the reconciled position of one customer: orders minus
// payments over visible records. Positive Net means the customer owes
// money; negative means the customer holds credit; zero means settled.
type Balance struct {
	TotalOrders   Money `json:"total_orders"`
	TotalPayments Money `json:"total_payments"`
	Net           Money `json:"balance"`
}

// Settled reports whether the customer owes nothing and holds no credit.
func (b Balance) Settled() bool { return b.Net.IsZero() }
