package market

import (
	"math"
	"testing"
)

func TestConverter_ToIQD(t *testing.T) {
	c := NewConverter(DefaultExchangeRate, "en")

	tests := []struct {
		usd  float64
		want int64
	}{
		{26.99, 35357},
		{69.99, 91687},
		{22.90, 29999},
		{139.99, 183387},
		{3.50, 4585},
		{0, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}

	for _, tt := range tests {
		if got := c.ToIQD(tt.usd); got != tt.want {
			t.Errorf("ToIQD(%v) = %d, want %d", tt.usd, got, tt.want)
		}
	}
}

func TestConverter_Format(t *testing.T) {
	c := NewConverter(DefaultExchangeRate, "en")

	if got := c.Format(26.99); got != "35,357 IQD" {
		t.Errorf("Format(26.99) = %q, want %q", got, "35,357 IQD")
	}
	if got := c.Format(0.5); got != "655 IQD" {
		t.Errorf("Format(0.5) = %q, want %q", got, "655 IQD")
	}
}

func TestNewConverter_Defaults(t *testing.T) {
	c := NewConverter(0, "not a locale!!")
	if c.Rate() != DefaultExchangeRate {
		t.Errorf("Rate() = %v, want %v", c.Rate(), DefaultExchangeRate)
	}
	if got := c.ToIQD(1); got != 1310 {
		t.Errorf("ToIQD(1) = %d", got)
	}
}

func TestConverter_Listing(t *testing.T) {
	listing := NewConverter(1500, "en").Listing()

	if listing.ExchangeRate != 1500 {
		t.Errorf("ExchangeRate = %v", listing.ExchangeRate)
	}
	if len(listing.Products) != len(Products()) {
		t.Fatalf("got %d products, want %d", len(listing.Products), len(Products()))
	}
	first := listing.Products[0]
	if first.Name != "T-Motor F60 PRO V" || first.PriceIQD != 40485 {
		t.Errorf("first product = %+v", first)
	}
	if last := listing.Products[len(listing.Products)-1]; last.Vendor != "Local Shop (Baghdad)" {
		t.Errorf("last vendor = %q", last.Vendor)
	}
}
