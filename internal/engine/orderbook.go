package engine

import (
	"fmt"

	"matchcore/internal/book"
	"matchcore/internal/common"
	"matchcore/internal/decimal"
	"matchcore/internal/ledger"
)

// OrderBook holds the resting orders for a single trading pair plus the
// trades generated while matching them. The bid/ask priority queues are
// what give O(log n) insert/remove and O(1) peek; idIndex gives O(1)
// id -> resting-order lookup for DELETE.
type OrderBook struct {
	Pair    string
	bids    *book.Queue
	asks    *book.Queue
	idIndex map[string]*common.BookOrder
	trades  *ledger.Ledger
	seq     uint64
}

// NewOrderBook returns an empty book for the given pair.
func NewOrderBook(pair string) *OrderBook {
	return &OrderBook{
		Pair:    pair,
		bids:    book.NewQueue(true),
		asks:    book.NewQueue(false),
		idIndex: make(map[string]*common.BookOrder),
		trades:  ledger.New(),
	}
}

// Process applies one command to this book: CREATE tries to match the
// incoming order and rests whatever quantity remains; DELETE removes a
// resting order by id, silently succeeding if the id is already gone.
func (ob *OrderBook) Process(cmd common.RawCommand) error {
	switch cmd.Op {
	case common.OpDelete:
		ob.delete(cmd.OrderID)
		return nil
	case common.OpCreate:
		return ob.create(cmd)
	default:
		return fmt.Errorf("%w: unknown op %q", ErrMalformedCommand, cmd.Op)
	}
}

func (ob *OrderBook) delete(orderID string) {
	o, ok := ob.idIndex[orderID]
	if !ok {
		return // DELETE of an unknown id is a no-op, not an error.
	}
	delete(ob.idIndex, orderID)
	if o.Side == common.Buy {
		ob.bids.Remove(orderID)
	} else {
		ob.asks.Remove(orderID)
	}
}

func (ob *OrderBook) create(cmd common.RawCommand) error {
	if _, exists := ob.idIndex[cmd.OrderID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateOrderID, cmd.OrderID)
	}
	if (cmd.Side != common.Buy && cmd.Side != common.Sell) || cmd.LimitPrice == "" || cmd.Amount == "" {
		return fmt.Errorf("%w: CREATE %s needs side, limit_price and amount", ErrMalformedCommand, cmd.OrderID)
	}

	price, err := decimal.Parse(cmd.LimitPrice)
	if err != nil {
		return err
	}
	amount, err := decimal.Parse(cmd.Amount)
	if err != nil {
		return err
	}
	if amount.IsZero() || amount.Negative() {
		return nil // a non-positive order amount never rests or matches
	}

	order := &common.BookOrder{
		ID:        cmd.OrderID,
		Account:   cmd.AccountID,
		Pair:      cmd.Pair,
		Side:      cmd.Side,
		Price:     price,
		Remaining: amount,
		Ts:        ob.seq,
	}
	ob.seq++

	ob.match(order)

	if !order.Remaining.IsZero() {
		ob.rest(order)
	}
	return nil
}

func (ob *OrderBook) rest(o *common.BookOrder) {
	ob.idIndex[o.ID] = o
	if o.Side == common.Buy {
		ob.bids.PushOrder(o)
	} else {
		ob.asks.PushOrder(o)
	}
}

// match sweeps the opposite side of the book while the incoming order
// crosses the best resting price, filling against price-time priority.
// The resting order (maker) always sets the trade price — price
// improvement goes to the incoming order (taker).
func (ob *OrderBook) match(incoming *common.BookOrder) {
	opposite := ob.asks
	if incoming.Side == common.Sell {
		opposite = ob.bids
	}

	for !incoming.Remaining.IsZero() {
		best := opposite.Peek()
		if best == nil || !crosses(incoming, best) {
			break
		}

		qty := decimal.Min(incoming.Remaining, best.Remaining)

		buyID, sellID := incoming.ID, best.ID
		if incoming.Side == common.Sell {
			buyID, sellID = best.ID, incoming.ID
		}
		ob.trades.Append(common.Trade{
			Pair:        ob.Pair,
			BuyOrderID:  buyID,
			SellOrderID: sellID,
			Price:       best.Price.String(),
			Amount:      qty.String(),
			Ts:          nowMillis(),
		})

		incoming.Remaining = incoming.Remaining.Sub(qty)
		best.Remaining = best.Remaining.Sub(qty)

		if best.Remaining.IsZero() {
			delete(ob.idIndex, best.ID)
			opposite.PopOrder()
		}
	}
}

func crosses(incoming, best *common.BookOrder) bool {
	if incoming.Side == common.Buy {
		return incoming.Price.Gte(best.Price)
	}
	return incoming.Price.Lte(best.Price)
}

// Trades returns every trade generated against this book, in generation
// order.
func (ob *OrderBook) Trades() []common.Trade { return ob.trades.All() }

// TradesSince returns every trade generated against this book after the
// given emission sequence number, for incremental polling of the tape.
func (ob *OrderBook) TradesSince(seq uint64) []common.Trade { return ob.trades.Since(seq) }

// ProcessReporting behaves like Process but also returns exactly the
// trades generated by this one command, for callers (the TCP/HTTP
// drivers) that report incrementally rather than waiting for Finish.
func (ob *OrderBook) ProcessReporting(cmd common.RawCommand) ([]common.Trade, error) {
	before := ob.trades.Len()
	if err := ob.Process(cmd); err != nil {
		return nil, err
	}
	return ob.trades.All()[before:], nil
}

// Snapshot normalizes the current book state: bids and asks in each
// queue's internal heap array order, with Decimal fields rendered to their
// canonical string form.
func (ob *OrderBook) Snapshot() common.BookSnapshot {
	return common.BookSnapshot{
		Pair: ob.Pair,
		Bids: toEntries(ob.bids.Items()),
		Asks: toEntries(ob.asks.Items()),
	}
}

func toEntries(orders []*common.BookOrder) []common.BookEntry {
	entries := make([]common.BookEntry, len(orders))
	for i, o := range orders {
		entries[i] = common.BookEntry{
			ID:        o.ID,
			Account:   o.Account,
			Price:     o.Price.String(),
			Remaining: o.Remaining.String(),
		}
	}
	return entries
}
