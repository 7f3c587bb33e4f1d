package common

import (
	"fmt"

	"matchcore/internal/decimal"
)

// BookOrder is a resting order tracked inside an OrderBook's priority
// queues. Ts is a monotonic arrival sequence used to break price ties,
// NOT a wall-clock timestamp.
type BookOrder struct {
	ID        string          // caller-supplied order id
	Account   string          // account_id of the order's owner
	Pair      string          // trading pair
	Side      Side            // Buy or Sell
	Price     decimal.Decimal // limit price
	Remaining decimal.Decimal // quantity not yet matched
	Ts        uint64          // arrival sequence, FIFO tie-break
}

func (o BookOrder) String() string {
	return fmt.Sprintf(
		`ID:        %s
Account:   %s
Pair:      %s
Side:      %v
Price:     %s
Remaining: %s
Ts:        %d`,
		o.ID,
		o.Account,
		o.Pair,
		o.Side,
		o.Price.String(),
		o.Remaining.String(),
		o.Ts,
	)
}
