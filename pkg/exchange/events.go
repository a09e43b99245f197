package exchange

import (
	"encoding/json"
	"fmt"

	"nanobook/pkg/book"
)

// EventKind tags one recorded operation.
type EventKind string

const (
	EventSubmitLimit              EventKind = "submit_limit"
	EventSubmitMarket             EventKind = "submit_market"
	EventCancel                   EventKind = "cancel"
	EventModify                   EventKind = "modify"
	EventSubmitStopMarket         EventKind = "submit_stop_market"
	EventSubmitStopLimit          EventKind = "submit_stop_limit"
	EventSubmitTrailingStopMarket EventKind = "submit_trailing_stop_market"
	EventSubmitTrailingStopLimit  EventKind = "submit_trailing_stop_limit"
)

// Event is one entry of the exchange journal. Every mutating call is
// recorded, successful or not, so replaying a journal reproduces the
// source exchange exactly. Unused fields stay zero and are omitted from
// JSON.
type Event struct {
	Kind        EventKind    `json:"kind"`
	Side        string       `json:"side,omitempty"`
	Price       book.Price   `json:"price,omitempty"`
	Quantity    uint64       `json:"quantity,omitempty"`
	TimeInForce string       `json:"time_in_force,omitempty"`
	OrderID     book.OrderID `json:"order_id,omitempty"`
	NewPrice    book.Price   `json:"new_price,omitempty"`
	NewQuantity uint64       `json:"new_quantity,omitempty"`
	StopPrice   book.Price   `json:"stop_price,omitempty"`
	LimitPrice  book.Price   `json:"limit_price,omitempty"`
	TrailMode   string       `json:"trail_mode,omitempty"`
	TrailValue  float64      `json:"trail_value,omitempty"`
}

// String renders the event as its JSON encoding.
func (ev Event) String() string {
	b, err := json.Marshal(ev)
	if err != nil {
		return string(ev.Kind)
	}
	return string(b)
}

func (e *Exchange) record(ev Event) {
	e.events = append(e.events, ev)
}

// Events returns a copy of the journal.
func (e *Exchange) Events() []Event {
	out := make([]Event, len(e.events))
	copy(out, e.events)
	return out
}

// Apply re-executes one recorded event against this exchange. The result
// of the underlying operation is discarded; failed cancels and modifies
// fail again identically, which is what keeps replay faithful.
func (e *Exchange) Apply(ev Event) error {
	// Submissions validate quantity here: the engine proper treats zero
	// quantity as a caller bug, but a journal or capture is external input.
	switch ev.Kind {
	case EventModify:
		if ev.NewQuantity == 0 {
			return fmt.Errorf("%w: %s with zero quantity", book.ErrInvalidInput, ev.Kind)
		}
	case EventSubmitLimit, EventSubmitMarket, EventSubmitStopMarket, EventSubmitStopLimit,
		EventSubmitTrailingStopMarket, EventSubmitTrailingStopLimit:
		if ev.Quantity == 0 {
			return fmt.Errorf("%w: %s with zero quantity", book.ErrInvalidInput, ev.Kind)
		}
	}
	switch ev.Kind {
	case EventSubmitLimit:
		side, tif, err := parseSideTIF(ev.Side, ev.TimeInForce)
		if err != nil {
			return err
		}
		e.SubmitLimit(side, ev.Price, ev.Quantity, tif)
	case EventSubmitMarket:
		side, err := book.ParseSide(ev.Side)
		if err != nil {
			return err
		}
		e.SubmitMarket(side, ev.Quantity)
	case EventCancel:
		e.Cancel(ev.OrderID)
	case EventModify:
		e.Modify(ev.OrderID, ev.NewPrice, ev.NewQuantity)
	case EventSubmitStopMarket:
		side, err := book.ParseSide(ev.Side)
		if err != nil {
			return err
		}
		e.SubmitStopMarket(side, ev.StopPrice, ev.Quantity)
	case EventSubmitStopLimit:
		side, err := book.ParseSide(ev.Side)
		if err != nil {
			return err
		}
		e.SubmitStopLimit(side, ev.StopPrice, ev.LimitPrice, ev.Quantity)
	case EventSubmitTrailingStopMarket:
		side, mode, err := parseSideTrail(ev.Side, ev.TrailMode)
		if err != nil {
			return err
		}
		e.SubmitTrailingStopMarket(side, ev.StopPrice, ev.Quantity, mode, ev.TrailValue)
	case EventSubmitTrailingStopLimit:
		side, mode, err := parseSideTrail(ev.Side, ev.TrailMode)
		if err != nil {
			return err
		}
		e.SubmitTrailingStopLimit(side, ev.StopPrice, ev.LimitPrice, ev.Quantity, mode, ev.TrailValue)
	default:
		return fmt.Errorf("%w: event kind %q", book.ErrInvalidInput, ev.Kind)
	}
	return nil
}

func parseSideTIF(side, tif string) (book.Side, book.TimeInForce, error) {
	s, err := book.ParseSide(side)
	if err != nil {
		return 0, 0, err
	}
	t, err := book.ParseTimeInForce(tif)
	if err != nil {
		return 0, 0, err
	}
	return s, t, nil
}

func parseSideTrail(side, mode string) (book.Side, TrailMode, error) {
	s, err := book.ParseSide(side)
	if err != nil {
		return 0, TrailNone, err
	}
	m, err := ParseTrailMode(mode)
	if err != nil {
		return 0, TrailNone, err
	}
	return s, m, nil
}

// Replay builds a fresh exchange by applying a journal in order. With the
// journal of an existing exchange this reproduces its final state
// bit-for-bit: same ids, same trades, same book.
func Replay(events []Event) (*Exchange, error) {
	e := NewExchange()
	for i, ev := range events {
		if err := e.Apply(ev); err != nil {
			return nil, fmt.Errorf("replay event %d: %w", i, err)
		}
	}
	return e, nil
}
