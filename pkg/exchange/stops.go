package exchange

import (
	"fmt"
	"strings"

	"nanobook/pkg/book"
)

// StopStatus is the lifecycle of a stop order: it rests outside the
// matching ladder until a trade price crosses its trigger.
type StopStatus int8

const (
	StopPending StopStatus = iota
	StopTriggered
)

func (s StopStatus) String() string {
	if s == StopPending {
		return "pending"
	}
	return "triggered"
}

// TrailMode selects how a trailing stop's trigger follows the market.
type TrailMode int8

const (
	TrailNone       TrailMode = iota
	TrailFixed                // absolute offset in cents
	TrailPercentage           // fraction of the last trade price
)

func (m TrailMode) String() string {
	switch m {
	case TrailFixed:
		return "fixed"
	case TrailPercentage:
		return "percentage"
	default:
		return "none"
	}
}

// ParseTrailMode parses "fixed" or "percentage", case-insensitive.
func ParseTrailMode(s string) (TrailMode, error) {
	switch strings.ToLower(s) {
	case "fixed":
		return TrailFixed, nil
	case "percentage":
		return TrailPercentage, nil
	default:
		return TrailNone, fmt.Errorf("%w: trail mode %q (use \"fixed\" or \"percentage\")", book.ErrInvalidInput, s)
	}
}

// StopOrder is a dormant order with a trigger price. A buy stop fires when
// a trade prints at or above StopPrice, a sell stop at or below. Once
// fired it goes through the normal matching path under its original id.
type StopOrder struct {
	ID         book.OrderID
	Side       book.Side
	StopPrice  book.Price
	LimitPrice book.Price // meaningful only when HasLimit
	HasLimit   bool
	Quantity   uint64
	Status     StopStatus
	Trail      TrailMode
	TrailValue float64 // cents offset for TrailFixed, fraction for TrailPercentage
}

// SubmitStopMarket registers a stop that fires as a market order.
func (e *Exchange) SubmitStopMarket(side book.Side, stopPrice book.Price, qty uint64) StopSubmitResult {
	e.record(Event{Kind: EventSubmitStopMarket, Side: side.String(), StopPrice: stopPrice, Quantity: qty})
	return e.addStop(&StopOrder{Side: side, StopPrice: stopPrice, Quantity: qty})
}

// SubmitStopLimit registers a stop that fires as a GTC limit order at
// limitPrice.
func (e *Exchange) SubmitStopLimit(side book.Side, stopPrice, limitPrice book.Price, qty uint64) StopSubmitResult {
	e.record(Event{Kind: EventSubmitStopLimit, Side: side.String(), StopPrice: stopPrice, LimitPrice: limitPrice, Quantity: qty})
	return e.addStop(&StopOrder{Side: side, StopPrice: stopPrice, LimitPrice: limitPrice, HasLimit: true, Quantity: qty})
}

// SubmitTrailingStopMarket registers a stop whose trigger ratchets toward
// favorable trade prices: a sell stop rises with the market, a buy stop
// falls with it.
func (e *Exchange) SubmitTrailingStopMarket(side book.Side, stopPrice book.Price, qty uint64, mode TrailMode, value float64) StopSubmitResult {
	e.record(Event{Kind: EventSubmitTrailingStopMarket, Side: side.String(), StopPrice: stopPrice, Quantity: qty, TrailMode: mode.String(), TrailValue: value})
	return e.addStop(&StopOrder{Side: side, StopPrice: stopPrice, Quantity: qty, Trail: mode, TrailValue: value})
}

// SubmitTrailingStopLimit is the limit-order variant; the limit price keeps
// its original offset from the stop price as the stop trails.
func (e *Exchange) SubmitTrailingStopLimit(side book.Side, stopPrice, limitPrice book.Price, qty uint64, mode TrailMode, value float64) StopSubmitResult {
	e.record(Event{Kind: EventSubmitTrailingStopLimit, Side: side.String(), StopPrice: stopPrice, LimitPrice: limitPrice, Quantity: qty, TrailMode: mode.String(), TrailValue: value})
	return e.addStop(&StopOrder{Side: side, StopPrice: stopPrice, LimitPrice: limitPrice, HasLimit: true, Quantity: qty, Trail: mode, TrailValue: value})
}

func (e *Exchange) addStop(s *StopOrder) StopSubmitResult {
	if s.Quantity == 0 {
		panic("exchange: submit with zero quantity")
	}
	s.ID = e.newOrderID()
	e.tick()
	s.Status = StopPending
	e.stops[s.ID] = s
	e.pending = append(e.pending, s)
	return StopSubmitResult{OrderID: s.ID, Status: StopPending}
}

// GetStopOrder returns a copy of the stop order with the given id,
// pending or triggered.
func (e *Exchange) GetStopOrder(id book.OrderID) (StopOrder, bool) {
	if s, ok := e.stops[id]; ok {
		return *s, true
	}
	return StopOrder{}, false
}

// PendingStopCount reports how many stops have not yet triggered.
func (e *Exchange) PendingStopCount() int { return len(e.pending) }

// triggered reports whether a trade at price fires the stop.
func (s *StopOrder) triggered(price book.Price) bool {
	if s.Side == book.Buy {
		return price >= s.StopPrice
	}
	return price <= s.StopPrice
}

// trail ratchets the trigger toward a favorable trade price. The stop only
// ever tightens; adverse moves leave it in place.
func (s *StopOrder) trail(price book.Price) {
	var offset book.Price
	switch s.Trail {
	case TrailFixed:
		offset = book.Price(s.TrailValue)
	case TrailPercentage:
		offset = book.Price(float64(price) * s.TrailValue)
	default:
		return
	}
	if s.Side == book.Sell {
		if cand := price - offset; cand > s.StopPrice {
			if s.HasLimit {
				s.LimitPrice += cand - s.StopPrice
			}
			s.StopPrice = cand
		}
	} else {
		if cand := price + offset; cand < s.StopPrice {
			if s.HasLimit {
				s.LimitPrice -= s.StopPrice - cand
			}
			s.StopPrice = cand
		}
	}
}

// runStops scans trades that arrived since the last scan and fires any
// stops they trigger. Fired stops are submitted atomically through the
// normal matching path; their trades extend the log and are scanned in
// turn, so cascades settle before the outer call returns.
func (e *Exchange) runStops() {
	for e.stopCursor < len(e.trades) {
		price := e.trades[e.stopCursor].Price
		e.stopCursor++

		var fired []*StopOrder
		remaining := e.pending[:0]
		for _, s := range e.pending {
			if s.triggered(price) {
				s.Status = StopTriggered
				fired = append(fired, s)
				continue
			}
			s.trail(price)
			remaining = append(remaining, s)
		}
		e.pending = remaining

		for _, s := range fired {
			e.fireStop(s)
		}
	}
}

// fireStop converts a triggered stop into a live order under its original
// id, consuming a fresh clock tick.
func (e *Exchange) fireStop(s *StopOrder) {
	o := &book.Order{
		ID:                s.ID,
		Side:              s.Side,
		OriginalQuantity:  s.Quantity,
		RemainingQuantity: s.Quantity,
		Status:            book.StatusResting,
		TimeInForce:       book.IOC,
		Timestamp:         e.tick(),
	}
	if s.HasLimit {
		o.Price = s.LimitPrice
		o.TimeInForce = book.GTC
	}
	e.orders[o.ID] = o

	e.match(o, s.HasLimit, o.Price)

	if o.RemainingQuantity > 0 {
		if s.HasLimit {
			e.book.Insert(o)
		} else {
			o.Status = book.StatusCancelled
		}
	}
}
