package book

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is an integer price in cents (1/100 of a currency unit).
// The matching path never touches floating point.
type Price int64

// Float returns the price as a dollars float, for display only.
func (p Price) Float() float64 { return float64(p) / 100.0 }

// OrderID identifies an order within one Exchange. IDs are assigned
// monotonically at submission and never reused.
type OrderID uint64

// Side is the direction of an order.
type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// Opposite returns the side a given order matches against.
func (s Side) Opposite() Side { return -s }

// TimeInForce is the order qualifier, fixed at submission.
type TimeInForce int8

const (
	GTC TimeInForce = iota // rest until filled or cancelled
	IOC                    // execute what's available now, cancel the rest
	FOK                    // execute entirely now or not at all
)

func (t TimeInForce) String() string {
	switch t {
	case GTC:
		return "gtc"
	case IOC:
		return "ioc"
	case FOK:
		return "fok"
	default:
		return "unknown"
	}
}

// OrderStatus tracks the order lifecycle. Filled and Cancelled are
// terminal: a terminal order is never mutated again.
type OrderStatus int8

const (
	StatusResting OrderStatus = iota
	StatusPartiallyFilled
	StatusFilled
	StatusCancelled
)

func (s OrderStatus) String() string {
	switch s {
	case StatusResting:
		return "resting"
	case StatusPartiallyFilled:
		return "partially_filled"
	case StatusFilled:
		return "filled"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status permits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == StatusFilled || s == StatusCancelled
}

// MaxSymbolLen is the fixed byte capacity of a Symbol.
const MaxSymbolLen = 8

// Symbol is an immutable instrument identifier, at most MaxSymbolLen bytes.
// Equality is exact byte comparison.
type Symbol string

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrSymbolTooLong = errors.New("symbol exceeds 8 bytes")
	ErrInvalidInput  = errors.New("invalid input")
)

// ParseSymbol validates s as a Symbol. Fails with ErrSymbolTooLong if the
// input exceeds the fixed byte capacity.
func ParseSymbol(s string) (Symbol, error) {
	if len(s) > MaxSymbolLen {
		return "", fmt.Errorf("symbol %q: %w", s, ErrSymbolTooLong)
	}
	return Symbol(s), nil
}

// ParseSide parses "buy"/"b" or "sell"/"s", case-insensitive.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(s) {
	case "buy", "b":
		return Buy, nil
	case "sell", "s":
		return Sell, nil
	default:
		return 0, fmt.Errorf("%w: side %q (use \"buy\" or \"sell\")", ErrInvalidInput, s)
	}
}

// ParseTimeInForce parses "gtc", "ioc" or "fok", case-insensitive.
func ParseTimeInForce(s string) (TimeInForce, error) {
	switch strings.ToLower(s) {
	case "gtc":
		return GTC, nil
	case "ioc":
		return IOC, nil
	case "fok":
		return FOK, nil
	default:
		return 0, fmt.Errorf("%w: time_in_force %q (use \"gtc\", \"ioc\" or \"fok\")", ErrInvalidInput, s)
	}
}

// ParsePrice converts a decimal dollar string ("150.25") into integer
// cents. Sub-cent precision is rejected so the matching path stays exact.
func ParsePrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: price %q", ErrInvalidInput, s)
	}
	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, fmt.Errorf("%w: price %q has sub-cent precision", ErrInvalidInput, s)
	}
	return Price(cents.IntPart()), nil
}
