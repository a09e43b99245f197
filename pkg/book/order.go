package book

import "fmt"

// Order is the mutable record of one resting or terminal order.
// Invariant: FilledQuantity + RemainingQuantity == OriginalQuantity at all
// times, and RemainingQuantity > 0 exactly while the status is non-terminal.
type Order struct {
	ID                OrderID
	Side              Side
	Price             Price
	OriginalQuantity  uint64
	RemainingQuantity uint64
	FilledQuantity    uint64
	Status            OrderStatus
	TimeInForce       TimeInForce
	Timestamp         uint64 // logical sequence number, not wall clock
}

// Fill consumes qty from the order and advances its status. Called only by
// the matching engine; qty beyond the remainder is a matching bug.
func (o *Order) Fill(qty uint64) {
	if qty > o.RemainingQuantity {
		panic(fmt.Sprintf("book: fill %d exceeds remaining %d on order %d", qty, o.RemainingQuantity, o.ID))
	}
	o.RemainingQuantity -= qty
	o.FilledQuantity += qty
	if o.RemainingQuantity == 0 {
		o.Status = StatusFilled
	} else {
		o.Status = StatusPartiallyFilled
	}
}

func (o *Order) String() string {
	return fmt.Sprintf("Order{id=%d side=%s price=%d qty=%d/%d status=%s}",
		o.ID, o.Side, o.Price, o.FilledQuantity, o.OriginalQuantity, o.Status)
}
