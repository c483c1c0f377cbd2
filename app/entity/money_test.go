package entity

import "testing"

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		amount   int64
		currency string
		want     string
	}{
		{1250, "usd", "12.50 USD"},
		{5, "eur", "0.05 EUR"},
		{0, "usd", "0.00 USD"},
		{500, "JPY", "500 JPY"},
		{-199, "gbp", "-1.99 GBP"},
	}

	for _, tc := range cases {
		if got := FormatAmount(tc.amount, tc.currency); got != tc.want {
			t.Fatalf("FormatAmount(%d, %q) = %q, want %q", tc.amount, tc.currency, got, tc.want)
		}
	}
}

func TestIsZeroDecimalCurrency(t *testing.T) {
	if !IsZeroDecimalCurrency(" krw ") {
		t.Fatal("expected krw to be zero-decimal")
	}
	if IsZeroDecimalCurrency("usd") {
		t.Fatal("expected usd not to be zero-decimal")
	}
}
