package book

import (
	"errors"
	"testing"
)

func TestParseSymbol(t *testing.T) {
	tests := []struct {
		in      string
		want    Symbol
		wantErr error
	}{
		{"AAPL", "AAPL", nil},
		{"", "", nil},
		{"ABCDEFGH", "ABCDEFGH", nil},
		{"ABCDEFGHI", "", ErrSymbolTooLong},
	}
	for _, tt := range tests {
		got, err := ParseSymbol(tt.in)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseSymbol(%q) err = %v, want %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseSymbol(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		in     string
		want   Side
		wantOK bool
	}{
		{"buy", Buy, true},
		{"BUY", Buy, true},
		{"b", Buy, true},
		{"sell", Sell, true},
		{"S", Sell, true},
		{"hold", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseSide(tt.in)
		if (err == nil) != tt.wantOK {
			t.Errorf("ParseSide(%q) err = %v, wantOK %v", tt.in, err, tt.wantOK)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseSide(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if err != nil && !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseSide(%q) err = %v, want ErrInvalidInput", tt.in, err)
		}
	}
}

func TestParseTimeInForce(t *testing.T) {
	tests := []struct {
		in     string
		want   TimeInForce
		wantOK bool
	}{
		{"gtc", GTC, true},
		{"GTC", GTC, true},
		{"ioc", IOC, true},
		{"fok", FOK, true},
		{"day", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseTimeInForce(tt.in)
		if (err == nil) != tt.wantOK {
			t.Errorf("ParseTimeInForce(%q) err = %v, wantOK %v", tt.in, err, tt.wantOK)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseTimeInForce(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in     string
		want   Price
		wantOK bool
	}{
		{"150.25", 15025, true},
		{"150", 15000, true},
		{"0.01", 1, true},
		{"0", 0, true},
		{"150.2", 15020, true},
		{"150.255", 0, false}, // sub-cent
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := ParsePrice(tt.in)
		if (err == nil) != tt.wantOK {
			t.Errorf("ParsePrice(%q) err = %v, wantOK %v", tt.in, err, tt.wantOK)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParsePrice(%q) = %d, want %d", tt.in, got, tt.want)
		}
		if err != nil && !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParsePrice(%q) err = %v, want ErrInvalidInput", tt.in, err)
		}
	}
}

func TestSideOpposite(t *testing.T) {
	if Buy.Opposite() != Sell || Sell.Opposite() != Buy {
		t.Error("Opposite should flip sides")
	}
}

func TestSideCrosses(t *testing.T) {
	tests := []struct {
		side    Side
		limit   Price
		passive Price
		want    bool
	}{
		{Buy, 10000, 10000, true},
		{Buy, 10000, 9900, true},
		{Buy, 10000, 10100, false},
		{Sell, 10000, 10000, true},
		{Sell, 10000, 10100, true},
		{Sell, 10000, 9900, false},
	}
	for _, tt := range tests {
		if got := tt.side.Crosses(tt.limit, tt.passive); got != tt.want {
			t.Errorf("%v.Crosses(%d, %d) = %v, want %v", tt.side, tt.limit, tt.passive, got, tt.want)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusResting.Terminal() || StatusPartiallyFilled.Terminal() {
		t.Error("live statuses must not be terminal")
	}
	if !StatusFilled.Terminal() || !StatusCancelled.Terminal() {
		t.Error("filled and cancelled must be terminal")
	}
}

func TestPriceFloat(t *testing.T) {
	if got := Price(15025).Float(); got != 150.25 {
		t.Errorf("Float() = %v, want 150.25", got)
	}
}
