package types

import (
	"encoding/json"
	"testing"
)

func TestMoneyConstructors(t *testing.T) {
	tests := []struct {
		name     string
		money    Money
		amount   int64
		currency string
		display  string
	}{
		{"ARS", ARS(150000), 150000, "ars", "$1500.00"},
		{"USD", USD(4900), 4900, "usd", "US$49.00"},
		{"EUR", EUR(19900), 19900, "eur", "€199.00"},
		{"Zero ARS", Zero("ARS"), 0, "ars", "$0.00"},
		{"Zero USD", Zero("USD"), 0, "usd", "US$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.money.Amount != tt.amount {
				t.Errorf("Amount: got %d, want %d", tt.money.Amount, tt.amount)
			}
			if tt.money.Currency != tt.currency {
				t.Errorf("Currency: got %s, want %s", tt.money.Currency, tt.currency)
			}
			if tt.money.String() != tt.display {
				t.Errorf("Display: got %s, want %s", tt.money.String(), tt.display)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Money
		expected Money
	}{
		{"Add", func() Money { return ARS(100).Add(ARS(200)) }, ARS(300)},
		{"Subtract", func() Money { return ARS(500).Subtract(ARS(200)) }, ARS(300)},
		{"Multiply", func() Money { return ARS(100).Multiply(3) }, ARS(300)},
		{"Negate", func() Money { return ARS(100).Negate() }, ARS(-100)},
		{"Abs positive", func() Money { return ARS(100).Abs() }, ARS(100)},
		{"Abs negative", func() Money { return ARS(-100).Abs() }, ARS(100)},
		{"Complex", func() Money {
			return ARS(1000).Add(ARS(500)).Multiply(2).Subtract(ARS(1000))
		}, ARS(2000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.op()
			if !result.Equal(tt.expected) {
				t.Errorf("Got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for currency mismatch")
		}
	}()

	// This should panic
	_ = USD(100).Add(EUR(100))
}

func TestMoneyComparison(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Money
		less    bool
		greater bool
		equal   bool
	}{
		{"Equal", ARS(100), ARS(100), false, false, true},
		{"Less", ARS(50), ARS(100), true, false, false},
		{"Greater", ARS(200), ARS(100), false, true, false},
		{"Zero equal", ARS(0), Zero("ars"), false, false, true},
		{"Negative less", ARS(-100), ARS(100), true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.LessThan(tt.b); got != tt.less {
				t.Errorf("LessThan: got %v, want %v", got, tt.less)
			}
			if got := tt.a.GreaterThan(tt.b); got != tt.greater {
				t.Errorf("GreaterThan: got %v, want %v", got, tt.greater)
			}
			if got := tt.a.Equal(tt.b); got != tt.equal {
				t.Errorf("Equal: got %v, want %v", got, tt.equal)
			}
		})
	}
}

func TestMoneyPredicates(t *testing.T) {
	tests := []struct {
		name       string
		money      Money
		isZero     bool
		isPositive bool
		isNegative bool
	}{
		{"Zero", ARS(0), true, false, false},
		{"Positive", ARS(100), false, true, false},
		{"Negative", ARS(-100), false, false, true},
		{"Large positive", ARS(999999999), false, true, false},
		{"Large negative", ARS(-999999999), false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.money.IsZero(); got != tt.isZero {
				t.Errorf("IsZero: got %v, want %v", got, tt.isZero)
			}
			if got := tt.money.IsPositive(); got != tt.isPositive {
				t.Errorf("IsPositive: got %v, want %v", got, tt.isPositive)
			}
			if got := tt.money.IsNegative(); got != tt.isNegative {
				t.Errorf("IsNegative: got %v, want %v", got, tt.isNegative)
			}
		})
	}
}

func TestMoneyFormatMajor(t *testing.T) {
	tests := []struct {
		money    Money
		expected string
	}{
		{ARS(4900), "49.00"},
		{ARS(100), "1.00"},
		{ARS(1), "0.01"},
		{ARS(0), "0.00"},
		{ARS(-4900), "-49.00"},
		{ARS(-1), "-0.01"},
		{ARS(150050), "1500.50"},
		{EUR(9999), "99.99"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.money.FormatMajor(); got != tt.expected {
				t.Errorf("FormatMajor: got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestParseMajor(t *testing.T) {
	tests := []struct {
		input    string
		expected Money
		wantErr  bool
	}{
		{"49.00", ARS(4900), false},
		{"49.5", ARS(4950), false},
		{"49", ARS(4900), false},
		{"0.01", ARS(1), false},
		{"-49.00", ARS(-4900), false},
		{"-0.01", ARS(-1), false},
		{"", ARS(0), false},
		{"  1500.50  ", ARS(150050), false},
		{".5", ARS(50), false},
		{"49.999", ARS(4999), false}, // sub-cent precision truncated
		{"abc", Money{}, true},
		{"49.x", Money{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMajor("ars", tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("ParseMajor: got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseMajorRoundTrip(t *testing.T) {
	values := []Money{ARS(0), ARS(1), ARS(99), ARS(100), ARS(4950), ARS(-4950), ARS(123456789)}
	for _, m := range values {
		got, err := ParseMajor("ars", m.FormatMajor())
		if err != nil {
			t.Fatalf("round trip %v: %v", m, err)
		}
		if !got.Equal(m) {
			t.Errorf("round trip: got %v, want %v", got, m)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	m := ARS(150000)

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	expected := `{"amount":150000,"currency":"ars","display":"$1500.00"}`
	if string(data) != expected {
		t.Errorf("JSON: got %s, want %s", string(data), expected)
	}
}

func TestSum(t *testing.T) {
	tests := []struct {
		name     string
		values   []Money
		expected Money
	}{
		{"Empty", []Money{}, Zero("ars")},
		{"Single", []Money{ARS(100)}, ARS(100)},
		{"Multiple", []Money{ARS(100), ARS(200), ARS(300)}, ARS(600)},
		{"With negatives", []Money{ARS(100), ARS(-50), ARS(200)}, ARS(250)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Sum(tt.values...)
			if !result.Equal(tt.expected) {
				t.Errorf("Sum: got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestCurrencySymbols(t *testing.T) {
	tests := []struct {
		currency string
		symbol   string
	}{
		{"ars", "$"},
		{"usd", "US$"},
		{"eur", "€"},
		{"unknown", "UNKNOWN "},
	}

	for _, tt := range tests {
		t.Run(tt.currency, func(t *testing.T) {
			got := currencySymbol(tt.currency)
			if got != tt.symbol {
				t.Errorf("Symbol for %s: got %s, want %s", tt.currency, got, tt.symbol)
			}
		})
	}
}

func BenchmarkMoneyAdd(b *testing.B) {
	m1 := ARS(100)
	m2 := ARS(200)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m1.Add(m2)
	}
}

func BenchmarkParseMajor(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ParseMajor("ars", "1500.50")
	}
}
