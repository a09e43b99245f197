package exchange

import "nanobook/pkg/book"

// Trade records one match. Price is always the passive (resting) order's
// price; Timestamp is the logical clock tick of the aggressor submission.
type Trade struct {
	ID               uint64       `json:"trade_id"`
	Price            book.Price   `json:"price"`
	Quantity         uint64       `json:"quantity"`
	AggressorSide    book.Side    `json:"-"`
	AggressorOrderID book.OrderID `json:"aggressor_order_id"`
	PassiveOrderID   book.OrderID `json:"passive_order_id"`
	Timestamp        uint64       `json:"timestamp"`
}

// SubmitResult reports the outcome of a limit or market submission.
// RestingQuantity is what remains on the book after the call;
// CancelledQuantity is what will never execute.
type SubmitResult struct {
	OrderID           book.OrderID
	Status            book.OrderStatus
	FilledQuantity    uint64
	RestingQuantity   uint64
	CancelledQuantity uint64
	Trades            []Trade
}

// CancelResult reports the outcome of a cancel. On failure Err carries
// book.ErrOrderNotFound; nothing is retried.
type CancelResult struct {
	Success           bool
	CancelledQuantity uint64
	Err               error
}

// ModifyResult reports a cancel-replace. Trades are any matches produced
// by the replacement submission; CancelledQuantity is the displaced
// remainder of the original order.
type ModifyResult struct {
	Success           bool
	OldOrderID        book.OrderID
	NewOrderID        book.OrderID
	CancelledQuantity uint64
	Trades            []Trade
	Err               error
}

// StopSubmitResult reports the state of a stop order at submission time.
type StopSubmitResult struct {
	OrderID book.OrderID
	Status  StopStatus
}
