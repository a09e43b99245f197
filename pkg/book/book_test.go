package book

import (
	"errors"
	"testing"
)

func newTestOrder(id OrderID, side Side, price Price, qty uint64) *Order {
	return &Order{
		ID:                id,
		Side:              side,
		Price:             price,
		OriginalQuantity:  qty,
		RemainingQuantity: qty,
		Status:            StatusResting,
		Timestamp:         uint64(id),
	}
}

func TestBestBidAskOrdering(t *testing.T) {
	b := NewOrderBook()
	b.Insert(newTestOrder(1, Buy, 9900, 10))
	b.Insert(newTestOrder(2, Buy, 10000, 10))
	b.Insert(newTestOrder(3, Buy, 9800, 10))
	b.Insert(newTestOrder(4, Sell, 10200, 10))
	b.Insert(newTestOrder(5, Sell, 10100, 10))
	b.Insert(newTestOrder(6, Sell, 10300, 10))

	if bid, ok := b.BestBid(); !ok || bid != 10000 {
		t.Errorf("BestBid = %d, %v; want 10000, true", bid, ok)
	}
	if ask, ok := b.BestAsk(); !ok || ask != 10100 {
		t.Errorf("BestAsk = %d, %v; want 10100, true", ask, ok)
	}

	bids := b.Levels(Buy, 0)
	wantBids := []Price{10000, 9900, 9800}
	for i, p := range wantBids {
		if bids[i].Price != p {
			t.Errorf("bid level %d = %d, want %d", i, bids[i].Price, p)
		}
	}
	asks := b.Levels(Sell, 0)
	wantAsks := []Price{10100, 10200, 10300}
	for i, p := range wantAsks {
		if asks[i].Price != p {
			t.Errorf("ask level %d = %d, want %d", i, asks[i].Price, p)
		}
	}
}

func TestEmptyBook(t *testing.T) {
	b := NewOrderBook()
	if _, ok := b.BestBid(); ok {
		t.Error("empty book should report no best bid")
	}
	if _, ok := b.BestAsk(); ok {
		t.Error("empty book should report no best ask")
	}
	if b.PeekBestOpposing(Buy) != nil {
		t.Error("empty book should have no opposing order")
	}
	if _, fill := b.PopFill(Buy, 10); fill != 0 {
		t.Error("PopFill on empty book should consume nothing")
	}
}

func TestFIFOWithinLevel(t *testing.T) {
	b := NewOrderBook()
	b.Insert(newTestOrder(1, Sell, 10000, 5))
	b.Insert(newTestOrder(2, Sell, 10000, 5))
	b.Insert(newTestOrder(3, Sell, 10000, 5))

	head := b.PeekBestOpposing(Buy)
	if head == nil || head.ID != 1 {
		t.Fatalf("head = %v, want order 1", head)
	}

	// Consuming the head exposes the next arrival, never a later one.
	passive, fill := b.PopFill(Buy, 5)
	if passive.ID != 1 || fill != 5 {
		t.Errorf("PopFill = order %d fill %d, want order 1 fill 5", passive.ID, fill)
	}
	if head := b.PeekBestOpposing(Buy); head.ID != 2 {
		t.Errorf("next head = order %d, want order 2", head.ID)
	}
}

func TestRemovePreservesQueueOrder(t *testing.T) {
	b := NewOrderBook()
	b.Insert(newTestOrder(1, Sell, 10000, 5))
	b.Insert(newTestOrder(2, Sell, 10000, 5))
	b.Insert(newTestOrder(3, Sell, 10000, 5))

	if _, err := b.Remove(2); err != nil {
		t.Fatalf("Remove(2) err = %v", err)
	}
	lvl := b.Levels(Sell, 1)[0]
	if lvl.Orders != 2 || lvl.Quantity != 10 {
		t.Errorf("level after remove = %+v, want 2 orders qty 10", lvl)
	}
	if head := b.PeekBestOpposing(Buy); head.ID != 1 {
		t.Errorf("head = order %d, want order 1", head.ID)
	}
	b.PopFill(Buy, 5)
	if head := b.PeekBestOpposing(Buy); head.ID != 3 {
		t.Errorf("head after fill = order %d, want order 3", head.ID)
	}
}

func TestRemoveUnknownOrder(t *testing.T) {
	b := NewOrderBook()
	if _, err := b.Remove(42); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("Remove(42) err = %v, want ErrOrderNotFound", err)
	}
}

func TestRemoveLastOrderDeletesLevel(t *testing.T) {
	b := NewOrderBook()
	b.Insert(newTestOrder(1, Buy, 10000, 5))
	b.Insert(newTestOrder(2, Buy, 9900, 5))

	if _, err := b.Remove(1); err != nil {
		t.Fatal(err)
	}
	if bid, _ := b.BestBid(); bid != 9900 {
		t.Errorf("best bid after level removal = %d, want 9900", bid)
	}
	if got := len(b.Levels(Buy, 0)); got != 1 {
		t.Errorf("bid levels = %d, want 1", got)
	}
}

func TestPopFillPartialLeavesHead(t *testing.T) {
	b := NewOrderBook()
	b.Insert(newTestOrder(1, Sell, 10000, 10))

	passive, fill := b.PopFill(Buy, 4)
	if fill != 4 || passive.RemainingQuantity != 6 {
		t.Fatalf("fill = %d remaining = %d, want 4 and 6", fill, passive.RemainingQuantity)
	}
	if passive.Status != StatusPartiallyFilled {
		t.Errorf("status = %v, want partially_filled", passive.Status)
	}
	if head := b.PeekBestOpposing(Buy); head == nil || head.ID != 1 {
		t.Error("partially filled head should stay in the book")
	}
	if lvl := b.Levels(Sell, 1)[0]; lvl.Quantity != 6 {
		t.Errorf("level qty = %d, want 6", lvl.Quantity)
	}
}

func TestPopFillFullRemovesOrder(t *testing.T) {
	b := NewOrderBook()
	b.Insert(newTestOrder(1, Sell, 10000, 10))

	passive, fill := b.PopFill(Buy, 10)
	if fill != 10 || passive.Status != StatusFilled {
		t.Fatalf("fill = %d status = %v, want 10 and filled", fill, passive.Status)
	}
	if _, ok := b.Get(1); ok {
		t.Error("filled order should leave the index")
	}
	if _, ok := b.BestAsk(); ok {
		t.Error("emptied level should leave the ladder")
	}
}

func TestAvailableAtOrBetter(t *testing.T) {
	b := NewOrderBook()
	b.Insert(newTestOrder(1, Sell, 10000, 10))
	b.Insert(newTestOrder(2, Sell, 10100, 20))
	b.Insert(newTestOrder(3, Sell, 10200, 30))

	tests := []struct {
		limit Price
		need  uint64
		want  uint64
	}{
		{9900, 100, 0},   // nothing crosses
		{10000, 100, 10}, // only best level
		{10100, 100, 30},
		{10200, 100, 60},
		{10200, 25, 30}, // early exit once need is met
	}
	for _, tt := range tests {
		if got := b.AvailableAtOrBetter(Buy, tt.limit, tt.need); got != tt.want {
			t.Errorf("AvailableAtOrBetter(buy, %d, %d) = %d, want %d", tt.limit, tt.need, got, tt.want)
		}
	}

	if got := b.AvailableAtOrBetter(Sell, 10000, 100); got != 0 {
		t.Errorf("sell aggressor against empty bids = %d, want 0", got)
	}
}

func TestLevelsDepthLimit(t *testing.T) {
	b := NewOrderBook()
	for i := 1; i <= 5; i++ {
		b.Insert(newTestOrder(OrderID(i), Buy, Price(10000-i*100), 10))
	}
	if got := len(b.Levels(Buy, 2)); got != 2 {
		t.Errorf("Levels(depth=2) = %d levels, want 2", got)
	}
	if got := len(b.Levels(Buy, 0)); got != 5 {
		t.Errorf("Levels(depth=0) = %d levels, want 5", got)
	}
	if got := len(b.Levels(Buy, 99)); got != 5 {
		t.Errorf("Levels(depth=99) = %d levels, want 5", got)
	}
}

func TestCrossedInsertPanics(t *testing.T) {
	b := NewOrderBook()
	b.Insert(newTestOrder(1, Sell, 10000, 10))

	defer func() {
		if recover() == nil {
			t.Error("inserting a bid at or above the best ask must panic")
		}
	}()
	b.Insert(newTestOrder(2, Buy, 10000, 10))
}
