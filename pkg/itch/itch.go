// Package itch parses NASDAQ ITCH 5.0 message files into exchange events.
//
// The input is the usual length-framed capture format: each message is a
// big-endian uint16 payload length followed by the payload, whose first
// byte is the message type. Only the order-entry subset maps to engine
// events; executions and off-book trades are consumed without emitting
// anything, since the engine's own matching reproduces them.
package itch

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"nanobook/pkg/book"
	"nanobook/pkg/exchange"
)

// TaggedEvent is one engine event with the symbol it applies to.
type TaggedEvent struct {
	Symbol book.Symbol
	Event  exchange.Event
}

// Required payload sizes per message type, including the type byte.
const (
	sizeAddOrder     = 36 // 'A'
	sizeAddOrderMPID = 40 // 'F': Add Order with attribution
	sizeReplace      = 35 // 'U'
	sizeDelete       = 19 // 'D'
	sizeExecuted     = 31 // 'E'
	sizeCancel       = 23 // 'X'
	sizeTrade        = 44 // 'P': off-book trade
)

// ParseFile reads a whole ITCH capture from disk.
func ParseFile(path string) ([]TaggedEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	events, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("itch %s: %w", path, err)
	}
	return events, nil
}

// Parse decodes length-framed ITCH messages until EOF. Unknown message
// types are skipped; framing errors and truncated known messages abort
// the parse.
//
// Replace and delete messages carry only an order reference number, so the
// parser tracks ref -> symbol from the add messages it has seen and stamps
// those events accordingly. Refs never added in this capture produce events
// with an empty symbol.
func Parse(r io.Reader) ([]TaggedEvent, error) {
	br := bufio.NewReader(r)
	refs := make(map[uint64]book.Symbol)
	var events []TaggedEvent
	for n := 0; ; n++ {
		var lenBuf [2]byte
		if _, err := io.ReadFull(br, lenBuf[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return events, nil
			}
			return nil, fmt.Errorf("message %d: reading length: %w", n, err)
		}
		msgLen := binary.BigEndian.Uint16(lenBuf[:])
		if msgLen == 0 {
			return nil, fmt.Errorf("message %d: length is 0", n)
		}
		payload := make([]byte, msgLen)
		if _, err := io.ReadFull(br, payload); err != nil {
			return nil, fmt.Errorf("message %d: reading %d-byte payload: %w", n, msgLen, err)
		}
		ev, emit, err := decode(payload, refs)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", n, err)
		}
		if emit {
			events = append(events, ev)
		}
	}
}

func decode(payload []byte, refs map[uint64]book.Symbol) (TaggedEvent, bool, error) {
	typ := payload[0]
	need, known := requiredSize(typ)
	if !known {
		return TaggedEvent{}, false, nil
	}
	if len(payload) < need {
		return TaggedEvent{}, false, fmt.Errorf("%c message too short: %d bytes, need %d", typ, len(payload), need)
	}

	switch typ {
	case 'A', 'F':
		side, err := parseSide(payload[19])
		if err != nil {
			return TaggedEvent{}, false, err
		}
		sym, err := parseStock(payload[24:32])
		if err != nil {
			return TaggedEvent{}, false, err
		}
		refs[binary.BigEndian.Uint64(payload[11:19])] = sym
		return TaggedEvent{
			Symbol: sym,
			Event: exchange.Event{
				Kind:        exchange.EventSubmitLimit,
				Side:        side.String(),
				Price:       toCents(binary.BigEndian.Uint32(payload[32:36])),
				Quantity:    uint64(binary.BigEndian.Uint32(payload[20:24])),
				TimeInForce: book.GTC.String(),
			},
		}, true, nil

	case 'U':
		oldRef := binary.BigEndian.Uint64(payload[11:19])
		refs[binary.BigEndian.Uint64(payload[19:27])] = refs[oldRef]
		return TaggedEvent{
			Symbol: refs[oldRef],
			Event: exchange.Event{
				Kind:        exchange.EventModify,
				OrderID:     book.OrderID(oldRef),
				NewPrice:    toCents(binary.BigEndian.Uint32(payload[31:35])),
				NewQuantity: uint64(binary.BigEndian.Uint32(payload[27:31])),
			},
		}, true, nil

	case 'D':
		ref := binary.BigEndian.Uint64(payload[11:19])
		return TaggedEvent{
			Symbol: refs[ref],
			Event: exchange.Event{
				Kind:    exchange.EventCancel,
				OrderID: book.OrderID(ref),
			},
		}, true, nil

	default: // 'E', 'X', 'P': no engine event
		return TaggedEvent{}, false, nil
	}
}

func requiredSize(typ byte) (int, bool) {
	switch typ {
	case 'A':
		return sizeAddOrder, true
	case 'F':
		return sizeAddOrderMPID, true
	case 'U':
		return sizeReplace, true
	case 'D':
		return sizeDelete, true
	case 'E':
		return sizeExecuted, true
	case 'X':
		return sizeCancel, true
	case 'P':
		return sizeTrade, true
	default:
		return 0, false
	}
}

// toCents converts an ITCH price (1/10000 dollars) to engine cents.
func toCents(raw uint32) book.Price {
	return book.Price(raw / 100)
}

func parseSide(b byte) (book.Side, error) {
	switch b {
	case 'B':
		return book.Buy, nil
	case 'S':
		return book.Sell, nil
	default:
		return 0, fmt.Errorf("%w: itch side %q", book.ErrInvalidInput, b)
	}
}

// parseStock trims the 8-byte space-padded stock field.
func parseStock(b []byte) (book.Symbol, error) {
	return book.ParseSymbol(strings.TrimRight(string(b), " "))
}

// Apply feeds parsed events into a MultiExchange. Replace and delete
// messages reference the feed's own order numbers, which the engine may
// not know; those show up as failed cancels/modifies inside the exchange
// and are still counted as applied. Events whose symbol could not be
// resolved (ref never added in this capture) are skipped. Returns how many
// events were dispatched.
func Apply(m *exchange.MultiExchange, events []TaggedEvent) (int, error) {
	applied := 0
	for i, te := range events {
		if te.Symbol == "" {
			continue
		}
		if err := m.GetOrCreate(te.Symbol).Apply(te.Event); err != nil {
			return applied, fmt.Errorf("event %d (%s): %w", i, te.Event.Kind, err)
		}
		applied++
	}
	return applied, nil
}
