package book

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func twoSidedBook() *OrderBook {
	b := NewOrderBook()
	b.Insert(newTestOrder(1, Buy, 9900, 30))
	b.Insert(newTestOrder(2, Buy, 9800, 20))
	b.Insert(newTestOrder(3, Sell, 10100, 10))
	b.Insert(newTestOrder(4, Sell, 10200, 40))
	return b
}

func TestSnapshotIsACopy(t *testing.T) {
	b := twoSidedBook()
	snap := b.Snapshot(0)

	b.PopFill(Buy, 10) // consumes the whole 10100 level

	if len(snap.Asks) != 2 || snap.Asks[0].Price != 10100 {
		t.Error("snapshot must not change when the book does")
	}
}

func TestMidPriceAndSpread(t *testing.T) {
	snap := twoSidedBook().Snapshot(0)

	mid, ok := snap.MidPrice()
	if !ok || !almostEqual(mid, 10000) {
		t.Errorf("MidPrice = %v, %v; want 10000, true", mid, ok)
	}
	spread, ok := snap.Spread()
	if !ok || spread != 200 {
		t.Errorf("Spread = %v, %v; want 200, true", spread, ok)
	}
}

func TestAnalyticsOneSided(t *testing.T) {
	b := NewOrderBook()
	b.Insert(newTestOrder(1, Buy, 9900, 30))
	snap := b.Snapshot(0)

	if _, ok := snap.MidPrice(); ok {
		t.Error("MidPrice on one-sided book should not be defined")
	}
	if _, ok := snap.Spread(); ok {
		t.Error("Spread on one-sided book should not be defined")
	}
	if _, ok := snap.WeightedMid(); ok {
		t.Error("WeightedMid on one-sided book should not be defined")
	}
	// Imbalance is still defined: all quantity on the bid side.
	imb, ok := snap.Imbalance()
	if !ok || !almostEqual(imb, 1) {
		t.Errorf("Imbalance = %v, %v; want 1, true", imb, ok)
	}
}

func TestImbalance(t *testing.T) {
	snap := twoSidedBook().Snapshot(0)

	// bids 50, asks 50
	imb, ok := snap.Imbalance()
	if !ok || !almostEqual(imb, 0) {
		t.Errorf("Imbalance = %v, %v; want 0, true", imb, ok)
	}

	empty := NewOrderBook().Snapshot(0)
	if _, ok := empty.Imbalance(); ok {
		t.Error("Imbalance on empty book should not be defined")
	}
}

func TestWeightedMid(t *testing.T) {
	snap := twoSidedBook().Snapshot(0)

	// bid 9900x30, ask 10100x10: (10*9900 + 30*10100) / 40 = 10050
	wm, ok := snap.WeightedMid()
	if !ok || !almostEqual(wm, 10050) {
		t.Errorf("WeightedMid = %v, %v; want 10050, true", wm, ok)
	}
}
