package book

// priceLevel is the FIFO queue of resting orders at one price.
// The slice order is arrival order; the level is deleted from the ladder
// the instant its last order leaves.
type priceLevel struct {
	price    Price
	orders   []*Order
	totalQty uint64
}

func newLevel(price Price) *priceLevel {
	return &priceLevel{price: price, orders: make([]*Order, 0, 4)}
}

// enqueue appends an order at the tail of the queue.
func (l *priceLevel) enqueue(o *Order) {
	l.orders = append(l.orders, o)
	l.totalQty += o.RemainingQuantity
}

// head returns the oldest order at this level.
func (l *priceLevel) head() *Order {
	return l.orders[0]
}

// dropHead removes the oldest order. Its remaining quantity must already
// have been consumed from totalQty via consume.
func (l *priceLevel) dropHead() {
	l.orders[0] = nil
	l.orders = l.orders[1:]
}

// consume reduces the aggregate quantity after a fill against this level.
func (l *priceLevel) consume(qty uint64) {
	l.totalQty -= qty
}

// remove unlinks an arbitrary order, preserving the relative order of the
// rest. Returns false if the order is not queued here.
func (l *priceLevel) remove(id OrderID) bool {
	for i, o := range l.orders {
		if o.ID == id {
			l.totalQty -= o.RemainingQuantity
			l.orders = append(l.orders[:i], l.orders[i+1:]...)
			return true
		}
	}
	return false
}

func (l *priceLevel) empty() bool { return len(l.orders) == 0 }
