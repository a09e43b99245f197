package exchange

import (
	"testing"

	"nanobook/pkg/book"
)

func TestMultiExchangeIsolation(t *testing.T) {
	m := NewMultiExchange()

	a := m.SubmitLimit("AAPL", book.Buy, 10000, 10, book.GTC)
	g := m.SubmitLimit("GOOG", book.Buy, 20000, 10, book.GTC)

	// Id spaces are per symbol.
	if a.OrderID != 1 || g.OrderID != 1 {
		t.Errorf("order ids = %d/%d, want 1/1", a.OrderID, g.OrderID)
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}

	// Matching never crosses symbols.
	res := m.SubmitLimit("GOOG", book.Sell, 10000, 10, book.GTC)
	if len(res.Trades) != 1 {
		t.Fatalf("GOOG sell should match the GOOG bid: %+v", res)
	}
	if bid, ok := m.GetOrCreate("AAPL").BestBid(); !ok || bid != 10000 {
		t.Errorf("AAPL book should be untouched, bid = %d, %v", bid, ok)
	}
}

func TestMultiExchangeGetOrCreate(t *testing.T) {
	m := NewMultiExchange()
	e1 := m.GetOrCreate("AAPL")
	e2 := m.GetOrCreate("AAPL")
	if e1 != e2 {
		t.Error("GetOrCreate must return the same exchange per symbol")
	}
}

func TestMultiExchangeCancelModify(t *testing.T) {
	m := NewMultiExchange()
	res := m.SubmitLimit("AAPL", book.Buy, 10000, 10, book.GTC)

	mod := m.Modify("AAPL", res.OrderID, 9900, 5)
	if !mod.Success {
		t.Fatalf("modify = %+v", mod)
	}
	c := m.Cancel("AAPL", mod.NewOrderID)
	if !c.Success || c.CancelledQuantity != 5 {
		t.Errorf("cancel = %+v, want 5 cancelled", c)
	}

	// The same id on another symbol does not exist.
	if c := m.Cancel("GOOG", res.OrderID); c.Success {
		t.Error("ids must not leak across symbols")
	}
}

func TestBestPrices(t *testing.T) {
	m := NewMultiExchange()
	m.SubmitLimit("AAPL", book.Buy, 10000, 10, book.GTC)
	m.SubmitLimit("AAPL", book.Sell, 10100, 10, book.GTC)
	m.GetOrCreate("EMPTY")

	quotes := m.BestPrices()
	if len(quotes) != 2 {
		t.Fatalf("quotes = %d, want 2", len(quotes))
	}
	bysym := make(map[book.Symbol]SymbolQuote)
	for _, q := range quotes {
		bysym[q.Symbol] = q
	}

	aapl := bysym["AAPL"]
	if aapl.Bid == nil || *aapl.Bid != 10000 || aapl.Ask == nil || *aapl.Ask != 10100 {
		t.Errorf("AAPL quote = %+v", aapl)
	}
	empty := bysym["EMPTY"]
	if empty.Bid != nil || empty.Ask != nil {
		t.Errorf("EMPTY quote = %+v, want nil sides", empty)
	}
}

func TestMultiExchangeStops(t *testing.T) {
	m := NewMultiExchange()
	m.SubmitStopMarket("AAPL", book.Sell, 9500, 5)
	m.SubmitStopLimit("AAPL", book.Buy, 10500, 10600, 5)

	if n := m.GetOrCreate("AAPL").PendingStopCount(); n != 2 {
		t.Errorf("pending stops = %d, want 2", n)
	}
	if n := m.GetOrCreate("GOOG").PendingStopCount(); n != 0 {
		t.Errorf("GOOG pending stops = %d, want 0", n)
	}
}
