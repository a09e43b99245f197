package exchange

import "nanobook/pkg/book"

// MultiExchange maps symbols to independent Exchanges, creating each on
// first reference. Exchanges never interact: counters are per symbol and
// there is no cross-symbol matching, so independent symbols can be driven
// from separate goroutines. The symbol map itself follows the same
// single-writer rule as everything else here.
type MultiExchange struct {
	exchanges map[book.Symbol]*Exchange
}

func NewMultiExchange() *MultiExchange {
	return &MultiExchange{exchanges: make(map[book.Symbol]*Exchange)}
}

// GetOrCreate returns the Exchange for symbol, creating an empty one if
// absent.
func (m *MultiExchange) GetOrCreate(symbol book.Symbol) *Exchange {
	if e, ok := m.exchanges[symbol]; ok {
		return e
	}
	e := NewExchange()
	m.exchanges[symbol] = e
	return e
}

// Len reports the number of known symbols.
func (m *MultiExchange) Len() int { return len(m.exchanges) }

// Symbols lists every known symbol. Order is not guaranteed.
func (m *MultiExchange) Symbols() []book.Symbol {
	out := make([]book.Symbol, 0, len(m.exchanges))
	for sym := range m.exchanges {
		out = append(out, sym)
	}
	return out
}

// SubmitLimit forwards to the symbol's exchange, creating it if needed.
func (m *MultiExchange) SubmitLimit(symbol book.Symbol, side book.Side, price book.Price, qty uint64, tif book.TimeInForce) SubmitResult {
	return m.GetOrCreate(symbol).SubmitLimit(side, price, qty, tif)
}

// SubmitMarket forwards to the symbol's exchange, creating it if needed.
func (m *MultiExchange) SubmitMarket(symbol book.Symbol, side book.Side, qty uint64) SubmitResult {
	return m.GetOrCreate(symbol).SubmitMarket(side, qty)
}

// SubmitStopMarket forwards to the symbol's exchange, creating it if needed.
func (m *MultiExchange) SubmitStopMarket(symbol book.Symbol, side book.Side, stopPrice book.Price, qty uint64) StopSubmitResult {
	return m.GetOrCreate(symbol).SubmitStopMarket(side, stopPrice, qty)
}

// SubmitStopLimit forwards to the symbol's exchange, creating it if needed.
func (m *MultiExchange) SubmitStopLimit(symbol book.Symbol, side book.Side, stopPrice, limitPrice book.Price, qty uint64) StopSubmitResult {
	return m.GetOrCreate(symbol).SubmitStopLimit(side, stopPrice, limitPrice, qty)
}

// Cancel forwards to the symbol's exchange, creating it if needed.
func (m *MultiExchange) Cancel(symbol book.Symbol, id book.OrderID) CancelResult {
	return m.GetOrCreate(symbol).Cancel(id)
}

// Modify forwards to the symbol's exchange, creating it if needed.
func (m *MultiExchange) Modify(symbol book.Symbol, id book.OrderID, newPrice book.Price, newQty uint64) ModifyResult {
	return m.GetOrCreate(symbol).Modify(id, newPrice, newQty)
}

// SymbolQuote is one symbol's top of book; nil sides are empty.
type SymbolQuote struct {
	Symbol book.Symbol `json:"symbol"`
	Bid    *book.Price `json:"bid"`
	Ask    *book.Price `json:"ask"`
}

// BestPrices reports the current best bid/ask for every known symbol.
func (m *MultiExchange) BestPrices() []SymbolQuote {
	out := make([]SymbolQuote, 0, len(m.exchanges))
	for sym, e := range m.exchanges {
		bid, ask := e.BestBidAsk()
		out = append(out, SymbolQuote{Symbol: sym, Bid: bid, Ask: ask})
	}
	return out
}
