package api

import "nanobook/pkg/book"

// Request and response bodies for the REST endpoints and WebSocket
// messages. Prices cross this boundary as decimal dollar strings and are
// parsed to integer cents before reaching the engine.

// ==============================
// REST Request Types
// ==============================

// SubmitOrderRequest is the payload for POST /api/v1/orders.
type SubmitOrderRequest struct {
	Symbol      string `json:"symbol"`
	Side        string `json:"side"`                    // "buy" or "sell"
	Type        string `json:"type"`                    // "limit" or "market"
	Price       string `json:"price,omitempty"`         // decimal dollars, limit orders only
	Quantity    uint64 `json:"quantity"`
	TimeInForce string `json:"time_in_force,omitempty"` // "gtc" (default), "ioc", "fok"
}

// CancelOrderRequest is the payload for POST /api/v1/orders/cancel.
type CancelOrderRequest struct {
	Symbol  string `json:"symbol"`
	OrderID uint64 `json:"order_id"`
}

// ModifyOrderRequest is the payload for POST /api/v1/orders/modify.
type ModifyOrderRequest struct {
	Symbol   string `json:"symbol"`
	OrderID  uint64 `json:"order_id"`
	Price    string `json:"price"` // decimal dollars
	Quantity uint64 `json:"quantity"`
}

// ==============================
// REST Response Types
// ==============================

// TradeInfo is one executed trade.
type TradeInfo struct {
	TradeID          uint64 `json:"trade_id"`
	Price            int64  `json:"price"` // cents
	Quantity         uint64 `json:"quantity"`
	AggressorSide    string `json:"aggressor_side"`
	AggressorOrderID uint64 `json:"aggressor_order_id"`
	PassiveOrderID   uint64 `json:"passive_order_id"`
	Timestamp        uint64 `json:"timestamp"` // logical sequence number
}

// SubmitOrderResponse mirrors exchange.SubmitResult.
type SubmitOrderResponse struct {
	OrderID           uint64      `json:"order_id"`
	Status            string      `json:"status"`
	FilledQuantity    uint64      `json:"filled_quantity"`
	RestingQuantity   uint64      `json:"resting_quantity"`
	CancelledQuantity uint64      `json:"cancelled_quantity"`
	Trades            []TradeInfo `json:"trades"`
}

// CancelOrderResponse mirrors exchange.CancelResult.
type CancelOrderResponse struct {
	Success           bool   `json:"success"`
	CancelledQuantity uint64 `json:"cancelled_quantity"`
	Error             string `json:"error,omitempty"`
}

// ModifyOrderResponse mirrors exchange.ModifyResult.
type ModifyOrderResponse struct {
	Success           bool        `json:"success"`
	OldOrderID        uint64      `json:"old_order_id"`
	NewOrderID        uint64      `json:"new_order_id,omitempty"`
	CancelledQuantity uint64      `json:"cancelled_quantity"`
	Trades            []TradeInfo `json:"trades"`
	Error             string      `json:"error,omitempty"`
}

// BookResponse is the order book snapshot for one symbol, with the
// analytics the snapshot supports. Nil analytics mean the book was empty
// or one-sided.
type BookResponse struct {
	Symbol      string               `json:"symbol"`
	Bids        []book.LevelSnapshot `json:"bids"`
	Asks        []book.LevelSnapshot `json:"asks"`
	MidPrice    *float64             `json:"mid_price"`
	Spread      *int64               `json:"spread"`
	Imbalance   *float64             `json:"imbalance"`
	WeightedMid *float64             `json:"weighted_mid"`
	Timestamp   int64                `json:"timestamp"` // unix ms, response time only
}

// QuoteInfo is one symbol's top of book.
type QuoteInfo struct {
	Symbol string `json:"symbol"`
	Bid    *int64 `json:"bid"`
	Ask    *int64 `json:"ask"`
}

// ErrorResponse is returned for all errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ==============================
// WebSocket Message Types
// ==============================

// WSSubscribeRequest is sent by clients to manage channel subscriptions,
// e.g. {"op":"subscribe","channels":["trades:AAPL","book:AAPL"]}.
type WSSubscribeRequest struct {
	Op       string   `json:"op"` // "subscribe" or "unsubscribe"
	Channels []string `json:"channels"`
}

// TradeUpdate is broadcast on the trades:<symbol> channel.
type TradeUpdate struct {
	Type   string    `json:"type"` // "trade"
	Symbol string    `json:"symbol"`
	Trade  TradeInfo `json:"trade"`
}

// BookUpdate is broadcast on the book:<symbol> channel after every
// successful mutation.
type BookUpdate struct {
	Type      string               `json:"type"` // "book"
	Symbol    string               `json:"symbol"`
	Bids      []book.LevelSnapshot `json:"bids"`
	Asks      []book.LevelSnapshot `json:"asks"`
	Timestamp int64                `json:"timestamp"`
}
