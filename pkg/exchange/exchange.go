package exchange

import (
	"fmt"

	"nanobook/pkg/book"
)

// Exchange owns one order book plus the id, trade-id and logical-clock
// counters for a single symbol, and implements the matching algorithm and
// order lifecycle. All state is in memory; operations run to completion
// and never block.
//
// Determinism contract: a fixed sequence of calls always produces the same
// ids, timestamps, trades and book state. There is no internal locking —
// each Exchange must have exactly one logical writer. Independent
// Exchanges share nothing and can be driven in parallel.
type Exchange struct {
	book        *book.OrderBook
	nextOrderID book.OrderID
	nextTradeID uint64
	clock       uint64

	// orders holds every order ever assigned an id, including terminal
	// ones (removed from the book but still queryable).
	orders map[book.OrderID]*book.Order

	stops   map[book.OrderID]*StopOrder
	pending []*StopOrder // submission order

	trades     []Trade
	stopCursor int // first trade not yet scanned for stop triggers

	events []Event

	lastTrade    book.Price
	hasLastTrade bool
}

func NewExchange() *Exchange {
	return &Exchange{
		book:   book.NewOrderBook(),
		orders: make(map[book.OrderID]*book.Order),
		stops:  make(map[book.OrderID]*StopOrder),
	}
}

// tick advances the logical clock. Every submission consumes exactly one
// tick, which doubles as the FIFO tie-breaker.
func (e *Exchange) tick() uint64 {
	e.clock++
	return e.clock
}

func (e *Exchange) newOrderID() book.OrderID {
	e.nextOrderID++
	return e.nextOrderID
}

// SubmitLimit runs price-time-priority matching for a new limit order and
// applies the time-in-force disposition to any remainder. Quantity must be
// positive; the binding boundary validates input before it reaches here.
func (e *Exchange) SubmitLimit(side book.Side, price book.Price, qty uint64, tif book.TimeInForce) SubmitResult {
	e.record(Event{Kind: EventSubmitLimit, Side: side.String(), Price: price, Quantity: qty, TimeInForce: tif.String()})
	res := e.submitLimit(side, price, qty, tif)
	e.runStops()
	return res
}

// SubmitMarket crosses at any price while opposing liquidity exists.
// Treated as IOC: any remainder after exhausting the book is cancelled,
// never rested.
func (e *Exchange) SubmitMarket(side book.Side, qty uint64) SubmitResult {
	e.record(Event{Kind: EventSubmitMarket, Side: side.String(), Quantity: qty})
	res := e.submitMarket(side, qty)
	e.runStops()
	return res
}

// Cancel removes a resting order's remaining quantity from the book and
// marks it cancelled. Ids that are absent or already terminal fail with
// book.ErrOrderNotFound.
func (e *Exchange) Cancel(id book.OrderID) CancelResult {
	e.record(Event{Kind: EventCancel, OrderID: id})
	o, ok := e.orders[id]
	if !ok || o.Status.Terminal() {
		return CancelResult{Err: fmt.Errorf("cancel order %d: %w", id, book.ErrOrderNotFound)}
	}
	if _, err := e.book.Remove(id); err != nil {
		panic(fmt.Sprintf("exchange: active order %d missing from book: %v", id, err))
	}
	o.Status = book.StatusCancelled
	return CancelResult{Success: true, CancelledQuantity: o.RemainingQuantity}
}

// Modify is cancel-replace: the existing order is cancelled, losing its
// queue position, and a fresh order is submitted at the new price and
// quantity with the same side and time-in-force. The replacement gets a
// new id and timestamp and may trade immediately.
func (e *Exchange) Modify(id book.OrderID, newPrice book.Price, newQty uint64) ModifyResult {
	e.record(Event{Kind: EventModify, OrderID: id, NewPrice: newPrice, NewQuantity: newQty})
	o, ok := e.orders[id]
	if !ok || o.Status.Terminal() {
		return ModifyResult{OldOrderID: id, Err: fmt.Errorf("modify order %d: %w", id, book.ErrOrderNotFound)}
	}
	if _, err := e.book.Remove(id); err != nil {
		panic(fmt.Sprintf("exchange: active order %d missing from book: %v", id, err))
	}
	o.Status = book.StatusCancelled
	displaced := o.RemainingQuantity

	res := e.submitLimit(o.Side, newPrice, newQty, o.TimeInForce)
	e.runStops()
	return ModifyResult{
		Success:           true,
		OldOrderID:        id,
		NewOrderID:        res.OrderID,
		CancelledQuantity: displaced,
		Trades:            res.Trades,
	}
}

func (e *Exchange) submitLimit(side book.Side, price book.Price, qty uint64, tif book.TimeInForce) SubmitResult {
	if qty == 0 {
		panic("exchange: submit with zero quantity")
	}
	o := &book.Order{
		ID:                e.newOrderID(),
		Side:              side,
		Price:             price,
		OriginalQuantity:  qty,
		RemainingQuantity: qty,
		Status:            book.StatusResting,
		TimeInForce:       tif,
		Timestamp:         e.tick(),
	}
	e.orders[o.ID] = o

	// FOK dry run: either the whole quantity is executable right now, or
	// the order dies without touching the book.
	if tif == book.FOK && e.book.AvailableAtOrBetter(side, price, qty) < qty {
		o.Status = book.StatusCancelled
		return SubmitResult{OrderID: o.ID, Status: book.StatusCancelled, CancelledQuantity: qty}
	}

	trades := e.match(o, true, price)

	switch {
	case o.RemainingQuantity == 0:
		return SubmitResult{OrderID: o.ID, Status: book.StatusFilled, FilledQuantity: o.FilledQuantity, Trades: trades}
	case tif == book.GTC:
		e.book.Insert(o)
		return SubmitResult{
			OrderID:         o.ID,
			Status:          o.Status,
			FilledQuantity:  o.FilledQuantity,
			RestingQuantity: o.RemainingQuantity,
			Trades:          trades,
		}
	default: // IOC; FOK cannot reach here with a remainder
		cancelled := o.RemainingQuantity
		o.Status = book.StatusCancelled
		return SubmitResult{
			OrderID:           o.ID,
			Status:            book.StatusCancelled,
			FilledQuantity:    o.FilledQuantity,
			CancelledQuantity: cancelled,
			Trades:            trades,
		}
	}
}

func (e *Exchange) submitMarket(side book.Side, qty uint64) SubmitResult {
	if qty == 0 {
		panic("exchange: submit with zero quantity")
	}
	o := &book.Order{
		ID:                e.newOrderID(),
		Side:              side,
		OriginalQuantity:  qty,
		RemainingQuantity: qty,
		Status:            book.StatusResting,
		TimeInForce:       book.IOC,
		Timestamp:         e.tick(),
	}
	e.orders[o.ID] = o

	trades := e.match(o, false, 0)

	status := book.StatusFilled
	cancelled := o.RemainingQuantity
	if cancelled > 0 {
		status = book.StatusCancelled
		o.Status = book.StatusCancelled
	}
	return SubmitResult{
		OrderID:           o.ID,
		Status:            status,
		FilledQuantity:    o.FilledQuantity,
		CancelledQuantity: cancelled,
		Trades:            trades,
	}
}

// match repeatedly takes the oldest order at the best opposing price while
// the aggressor has quantity left and (for bounded orders) its limit still
// crosses. Filled passive orders leave the book inside PopFill.
func (e *Exchange) match(o *book.Order, bounded bool, limit book.Price) []Trade {
	var trades []Trade
	for o.RemainingQuantity > 0 {
		passive := e.book.PeekBestOpposing(o.Side)
		if passive == nil {
			break
		}
		if bounded && !o.Side.Crosses(limit, passive.Price) {
			break
		}
		tradePrice := passive.Price
		passive, fill := e.book.PopFill(o.Side, o.RemainingQuantity)
		o.Fill(fill)

		e.nextTradeID++
		t := Trade{
			ID:               e.nextTradeID,
			Price:            tradePrice,
			Quantity:         fill,
			AggressorSide:    o.Side,
			AggressorOrderID: o.ID,
			PassiveOrderID:   passive.ID,
			Timestamp:        e.clock,
		}
		trades = append(trades, t)
		e.trades = append(e.trades, t)
		e.lastTrade = tradePrice
		e.hasLastTrade = true
	}
	return trades
}

// ---- Queries -------------------------------------------------------------

// BestBid returns the highest resting bid price, if any.
func (e *Exchange) BestBid() (book.Price, bool) { return e.book.BestBid() }

// BestAsk returns the lowest resting ask price, if any.
func (e *Exchange) BestAsk() (book.Price, bool) { return e.book.BestAsk() }

// BestBidAsk returns both sides of the top of book; nil means that side is
// empty. Never mutates state.
func (e *Exchange) BestBidAsk() (bid, ask *book.Price) {
	if p, ok := e.book.BestBid(); ok {
		bid = &p
	}
	if p, ok := e.book.BestAsk(); ok {
		ask = &p
	}
	return bid, ask
}

// Depth snapshots up to depth levels per side from the best price outward.
func (e *Exchange) Depth(depth int) book.BookSnapshot { return e.book.Snapshot(depth) }

// FullBook snapshots every level on both sides.
func (e *Exchange) FullBook() book.BookSnapshot { return e.book.Snapshot(0) }

// GetOrder returns a copy of the order with the given id, terminal or not.
func (e *Exchange) GetOrder(id book.OrderID) (book.Order, bool) {
	if o, ok := e.orders[id]; ok {
		return *o, true
	}
	return book.Order{}, false
}

// Trades returns a copy of the trade history.
func (e *Exchange) Trades() []Trade {
	out := make([]Trade, len(e.trades))
	copy(out, e.trades)
	return out
}

// ClearTrades drops the retained trade history. Pending stops keep their
// trigger state; only already-scanned trades are ever dropped here.
func (e *Exchange) ClearTrades() {
	e.runStops()
	e.trades = e.trades[:0]
	e.stopCursor = 0
}

// ClearOrderHistory forgets terminal orders and reports how many were
// dropped. Live orders are untouched.
func (e *Exchange) ClearOrderHistory() int {
	n := 0
	for id, o := range e.orders {
		if o.Status.Terminal() {
			delete(e.orders, id)
			n++
		}
	}
	return n
}

// LastTradePrice reports the price of the most recent trade.
func (e *Exchange) LastTradePrice() (book.Price, bool) {
	return e.lastTrade, e.hasLastTrade
}
