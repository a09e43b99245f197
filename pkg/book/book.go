package book

import (
	"fmt"
	"sort"
)

// ladder is one side of the book: price levels sorted best-first
// (descending for bids, ascending for asks).
type ladder struct {
	side   Side
	levels []*priceLevel
}

// search returns the index where price belongs in best-first order.
func (ld *ladder) search(price Price) int {
	return sort.Search(len(ld.levels), func(i int) bool {
		if ld.side == Buy {
			return ld.levels[i].price <= price
		}
		return ld.levels[i].price >= price
	})
}

// getOrCreate finds the level for price, inserting it in sorted position
// if absent.
func (ld *ladder) getOrCreate(price Price) *priceLevel {
	idx := ld.search(price)
	if idx < len(ld.levels) && ld.levels[idx].price == price {
		return ld.levels[idx]
	}
	lvl := newLevel(price)
	ld.levels = append(ld.levels, nil)
	copy(ld.levels[idx+1:], ld.levels[idx:])
	ld.levels[idx] = lvl
	return lvl
}

// deleteAt removes the level at idx, preserving sort order.
func (ld *ladder) deleteAt(idx int) {
	copy(ld.levels[idx:], ld.levels[idx+1:])
	ld.levels[len(ld.levels)-1] = nil
	ld.levels = ld.levels[:len(ld.levels)-1]
}

// best returns the top level, or nil when the side is empty.
func (ld *ladder) best() *priceLevel {
	if len(ld.levels) == 0 {
		return nil
	}
	return ld.levels[0]
}

// Crosses reports whether an aggressor on side s with the given limit
// price can trade against a passive order resting at passive.
func (s Side) Crosses(limit, passive Price) bool {
	if s == Buy {
		return limit >= passive
	}
	return limit <= passive
}

// OrderBook maintains the price-time priority structure for one symbol.
// It exclusively owns every Order and level it holds; callers mutate it
// only through Exchange operations. Not safe for concurrent use — each
// book has exactly one logical writer.
type OrderBook struct {
	bids  ladder
	asks  ladder
	index map[OrderID]*Order
}

func NewOrderBook() *OrderBook {
	return &OrderBook{
		bids:  ladder{side: Buy},
		asks:  ladder{side: Sell},
		index: make(map[OrderID]*Order),
	}
}

func (b *OrderBook) sideLadder(s Side) *ladder {
	if s == Buy {
		return &b.bids
	}
	return &b.asks
}

// Insert appends the order at the tail of its price level, creating the
// level in sorted position if absent. The book must not end up crossed;
// a crossed insert is a matching bug and panics.
func (b *OrderBook) Insert(o *Order) {
	b.sideLadder(o.Side).getOrCreate(o.Price).enqueue(o)
	b.index[o.ID] = o
	if bid, ask := b.bids.best(), b.asks.best(); bid != nil && ask != nil && bid.price >= ask.price {
		panic(fmt.Sprintf("book: crossed after insert of order %d: bid %d >= ask %d", o.ID, bid.price, ask.price))
	}
}

// Get returns the resting order for id, if present.
func (b *OrderBook) Get(id OrderID) (*Order, bool) {
	o, ok := b.index[id]
	return o, ok
}

// Remove takes the order out of its level, preserving the relative order
// of the remaining queue and deleting the level once empty. Fails with
// ErrOrderNotFound when id is absent (or already terminal, in which case
// it left the book at the moment it became terminal).
func (b *OrderBook) Remove(id OrderID) (*Order, error) {
	o, ok := b.index[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, ErrOrderNotFound)
	}
	ld := b.sideLadder(o.Side)
	idx := ld.search(o.Price)
	if idx >= len(ld.levels) || ld.levels[idx].price != o.Price {
		panic(fmt.Sprintf("book: no level at %d for indexed order %d", o.Price, id))
	}
	lvl := ld.levels[idx]
	if !lvl.remove(id) {
		panic(fmt.Sprintf("book: index points at order %d missing from level %d", id, o.Price))
	}
	if lvl.empty() {
		ld.deleteAt(idx)
	}
	delete(b.index, id)
	return o, nil
}

// BestBid returns the highest bid price, if any bid rests.
func (b *OrderBook) BestBid() (Price, bool) {
	if lvl := b.bids.best(); lvl != nil {
		return lvl.price, true
	}
	return 0, false
}

// BestAsk returns the lowest ask price, if any ask rests.
func (b *OrderBook) BestAsk() (Price, bool) {
	if lvl := b.asks.best(); lvl != nil {
		return lvl.price, true
	}
	return 0, false
}

// PeekBestOpposing returns the oldest order at the best price opposing an
// aggressor on the given side, without disturbing the queue. Nil when the
// opposing side is empty.
func (b *OrderBook) PeekBestOpposing(aggressor Side) *Order {
	lvl := b.sideLadder(aggressor.Opposite()).best()
	if lvl == nil {
		return nil
	}
	return lvl.head()
}

// PopFill consumes up to qty from the oldest order at the best opposing
// price. A fully consumed passive order is marked filled and leaves the
// book immediately, along with its level if now empty. Returns the passive
// order and the quantity actually consumed (0 when the side is empty).
func (b *OrderBook) PopFill(aggressor Side, qty uint64) (*Order, uint64) {
	ld := b.sideLadder(aggressor.Opposite())
	lvl := ld.best()
	if lvl == nil {
		return nil, 0
	}
	passive := lvl.head()
	fill := min(qty, passive.RemainingQuantity)
	passive.Fill(fill)
	lvl.consume(fill)
	if passive.RemainingQuantity == 0 {
		lvl.dropHead()
		delete(b.index, passive.ID)
		if lvl.empty() {
			ld.deleteAt(0)
		}
	}
	return passive, fill
}

// AvailableAtOrBetter sums the opposing quantity an aggressor at limit can
// cross, walking levels best-out. Stops early once the sum reaches need;
// used for the fill-or-kill dry run.
func (b *OrderBook) AvailableAtOrBetter(aggressor Side, limit Price, need uint64) uint64 {
	var available uint64
	for _, lvl := range b.sideLadder(aggressor.Opposite()).levels {
		if !aggressor.Crosses(limit, lvl.price) {
			break
		}
		available += lvl.totalQty
		if available >= need {
			break
		}
	}
	return available
}

// Levels reports up to depth levels on one side from the best price
// outward (all levels when depth <= 0). The result is a copy; it never
// aliases book state.
func (b *OrderBook) Levels(side Side, depth int) []LevelSnapshot {
	levels := b.sideLadder(side).levels
	if depth > 0 && depth < len(levels) {
		levels = levels[:depth]
	}
	out := make([]LevelSnapshot, len(levels))
	for i, lvl := range levels {
		out[i] = LevelSnapshot{Price: lvl.price, Quantity: lvl.totalQty, Orders: len(lvl.orders)}
	}
	return out
}
