package book

// LevelSnapshot is one price level as seen at snapshot time.
type LevelSnapshot struct {
	Price    Price  `json:"price"`
	Quantity uint64 `json:"quantity"`
	Orders   int    `json:"orders"`
}

// BookSnapshot is a point-in-time copy of both sides of a book, best price
// first. Snapshots never alias live book state: mutating the book after
// taking one does not change it.
type BookSnapshot struct {
	Bids []LevelSnapshot `json:"bids"`
	Asks []LevelSnapshot `json:"asks"`
}

// Snapshot copies up to depth levels per side (all levels when depth <= 0).
func (b *OrderBook) Snapshot(depth int) BookSnapshot {
	return BookSnapshot{
		Bids: b.Levels(Buy, depth),
		Asks: b.Levels(Sell, depth),
	}
}

// MidPrice is the arithmetic mid of best bid and best ask, in cents.
// ok is false when either side is empty.
func (s BookSnapshot) MidPrice() (float64, bool) {
	if len(s.Bids) == 0 || len(s.Asks) == 0 {
		return 0, false
	}
	return (float64(s.Bids[0].Price) + float64(s.Asks[0].Price)) / 2, true
}

// Spread is best ask minus best bid. ok is false when either side is empty.
func (s BookSnapshot) Spread() (Price, bool) {
	if len(s.Bids) == 0 || len(s.Asks) == 0 {
		return 0, false
	}
	return s.Asks[0].Price - s.Bids[0].Price, true
}

// Imbalance is (bidQty - askQty) / (bidQty + askQty) over every level in
// the snapshot: +1 for a bid-only book, -1 for ask-only. ok is false when
// the snapshot holds no quantity at all.
func (s BookSnapshot) Imbalance() (float64, bool) {
	var bidQty, askQty uint64
	for _, lvl := range s.Bids {
		bidQty += lvl.Quantity
	}
	for _, lvl := range s.Asks {
		askQty += lvl.Quantity
	}
	total := bidQty + askQty
	if total == 0 {
		return 0, false
	}
	return (float64(bidQty) - float64(askQty)) / float64(total), true
}

// WeightedMid is the microprice: top-of-book prices weighted by the
// opposing quantities, (askQty*bid + bidQty*ask) / (bidQty + askQty).
// ok is false when either side is empty.
func (s BookSnapshot) WeightedMid() (float64, bool) {
	if len(s.Bids) == 0 || len(s.Asks) == 0 {
		return 0, false
	}
	bid, ask := s.Bids[0], s.Asks[0]
	total := float64(bid.Quantity + ask.Quantity)
	if total == 0 {
		return 0, false
	}
	return (float64(ask.Quantity)*float64(bid.Price) + float64(bid.Quantity)*float64(ask.Price)) / total, true
}
