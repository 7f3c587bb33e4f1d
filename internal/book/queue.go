// Package book holds the priority queue of resting orders that backs each
// side of an order book.
package book

import (
	"container/heap"

	"matchcore/internal/common"
)

// Queue is a price-time priority queue of resting orders on one side of a
// book. descending=true gives bids (highest price first, then earliest
// arrival); descending=false gives asks (lowest price first, then earliest
// arrival).
type Queue struct {
	orders     []*common.BookOrder
	descending bool
}

// NewQueue returns an empty, heap-initialized queue.
func NewQueue(descending bool) *Queue {
	q := &Queue{descending: descending}
	heap.Init(q)
	return q
}

func (q *Queue) Len() int { return len(q.orders) }

func (q *Queue) Less(i, j int) bool {
	a, b := q.orders[i], q.orders[j]
	if !a.Price.Eq(b.Price) {
		if q.descending {
			return a.Price.Gt(b.Price) // highest buy order first
		}
		return a.Price.Lt(b.Price) // lowest sell order first
	}
	return a.Ts < b.Ts // earliest arrival first
}

func (q *Queue) Swap(i, j int) { q.orders[i], q.orders[j] = q.orders[j], q.orders[i] }

func (q *Queue) Push(x any) { q.orders = append(q.orders, x.(*common.BookOrder)) }

func (q *Queue) Pop() any {
	old := q.orders
	n := len(old)
	o := old[n-1]
	old[n-1] = nil
	q.orders = old[:n-1]
	return o
}

// PushOrder inserts a resting order, O(log n).
func (q *Queue) PushOrder(o *common.BookOrder) { heap.Push(q, o) }

// PopOrder removes and returns the best order, O(log n).
func (q *Queue) PopOrder() *common.BookOrder { return heap.Pop(q).(*common.BookOrder) }

// Peek returns the best order without removing it, O(1). Returns nil if
// the queue is empty.
func (q *Queue) Peek() *common.BookOrder {
	if len(q.orders) == 0 {
		return nil
	}
	return q.orders[0]
}

// Remove drops the order with the given id, if present, O(n) to locate it
// plus O(log n) for the heap fixup. Returns false if no such order rests
// in this queue.
func (q *Queue) Remove(id string) bool {
	for i, o := range q.orders {
		if o.ID == id {
			heap.Remove(q, i)
			return true
		}
	}
	return false
}

// Items returns a copy of the queue's current internal array order. This is
// heap order, not fully sorted order, except for index 0.
func (q *Queue) Items() []*common.BookOrder {
	items := make([]*common.BookOrder, len(q.orders))
	copy(items, q.orders)
	return items
}
