package common

import "fmt"

// Trade accounts for a single maker/taker match. Ts is a wall-clock
// millisecond timestamp of emission — distinct from BookOrder.Ts, which is
// an arrival sequence, not a clock reading.
type Trade struct {
	Pair        string `json:"pair"`
	BuyOrderID  string `json:"buyOrderId"`
	SellOrderID string `json:"sellOrderId"`
	Price       string `json:"price"`  // canonical decimal string, the maker's price
	Amount      string `json:"amount"` // canonical decimal string, the filled quantity
	Ts          int64  `json:"ts"`
}

func (t Trade) String() string {
	return fmt.Sprintf(
		`Pair:        %s
BuyOrderID:  %s
SellOrderID: %s
Price:       %s
Amount:      %s
Ts:          %d`,
		t.Pair,
		t.BuyOrderID,
		t.SellOrderID,
		t.Price,
		t.Amount,
		t.Ts,
	)
}
