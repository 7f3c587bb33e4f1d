package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"matchcore/internal/common"
)

func create(id, side, price, amount string) common.RawCommand {
	return common.RawCommand{
		Op:         common.OpCreate,
		AccountID:  "acct-" + id,
		OrderID:    id,
		Pair:       "BTC/USDC",
		Side:       common.Side(side),
		LimitPrice: price,
		Amount:     amount,
	}
}

func del(id string) common.RawCommand {
	return common.RawCommand{Op: common.OpDelete, Pair: "BTC/USDC", OrderID: id}
}

// --- Setup & Helpers --------------------------------------------------------

// residual reports the remaining amount for every order still resting,
// keyed by id, regardless of heap array position.
func residual(ob *OrderBook) map[string]string {
	out := make(map[string]string)
	for _, o := range ob.bids.Items() {
		out[o.ID] = o.Remaining.String()
	}
	for _, o := range ob.asks.Items() {
		out[o.ID] = o.Remaining.String()
	}
	return out
}

// --- Tests ------------------------------------------------------------------

func TestProcess_RestsWhenNoCross(t *testing.T) {
	ob := NewOrderBook("BTC/USDC")

	assert.NoError(t, ob.Process(create("1", "BUY", "99", "100")))
	assert.NoError(t, ob.Process(create("2", "SELL", "100", "100")))

	assert.Empty(t, ob.Trades())
	assert.Equal(t, map[string]string{"1": "100", "2": "100"}, residual(ob))
}

func TestProcess_FullMatchAtMakerPrice(t *testing.T) {
	ob := NewOrderBook("BTC/USDC")

	assert.NoError(t, ob.Process(create("1", "SELL", "63500", "0.0023")))
	assert.NoError(t, ob.Process(create("2", "BUY", "63500", "0.0023")))

	trades := ob.Trades()
	if assert.Len(t, trades, 1) {
		assert.Equal(t, "63500", trades[0].Price)
		assert.Equal(t, "0.0023", trades[0].Amount)
		assert.Equal(t, "2", trades[0].BuyOrderID)
		assert.Equal(t, "1", trades[0].SellOrderID)
	}
	assert.Empty(t, residual(ob))
}

func TestProcess_PriceImprovementToTaker(t *testing.T) {
	ob := NewOrderBook("BTC/USDC")

	assert.NoError(t, ob.Process(create("1", "SELL", "100", "1")))
	assert.NoError(t, ob.Process(create("2", "BUY", "110", "1")))

	trades := ob.Trades()
	if assert.Len(t, trades, 1) {
		assert.Equal(t, "100", trades[0].Price, "trade price must be the maker's price, not the taker's")
	}
}

func TestProcess_FIFOAtEqualPrice(t *testing.T) {
	ob := NewOrderBook("BTC/USDC")

	assert.NoError(t, ob.Process(create("a", "SELL", "100", "5")))
	assert.NoError(t, ob.Process(create("b", "SELL", "100", "5")))
	assert.NoError(t, ob.Process(create("taker", "BUY", "100", "5")))

	trades := ob.Trades()
	if assert.Len(t, trades, 1) {
		assert.Equal(t, "a", trades[0].SellOrderID, "the earlier resting order at the same price must fill first")
	}
	assert.Equal(t, map[string]string{"b": "5"}, residual(ob))
}

func TestProcess_PartialFillLeavesResidual(t *testing.T) {
	ob := NewOrderBook("BTC/USDC")

	assert.NoError(t, ob.Process(create("maker", "SELL", "100", "10")))
	assert.NoError(t, ob.Process(create("taker", "BUY", "100", "4")))

	assert.Equal(t, map[string]string{"maker": "6"}, residual(ob))
}

func TestProcess_DeleteRemovesRestingOrder(t *testing.T) {
	ob := NewOrderBook("BTC/USDC")

	assert.NoError(t, ob.Process(create("1", "BUY", "99", "100")))
	assert.NoError(t, ob.Process(del("1")))

	assert.Empty(t, residual(ob))
}

func TestProcess_DeleteOfUnknownIDIsNoOp(t *testing.T) {
	ob := NewOrderBook("BTC/USDC")

	assert.NoError(t, ob.Process(create("1", "BUY", "99", "100")))
	before := residual(ob)

	assert.NoError(t, ob.Process(del("does-not-exist")))

	assert.Equal(t, before, residual(ob))
}

func TestProcess_ZeroAmountIsSkipped(t *testing.T) {
	ob := NewOrderBook("BTC/USDC")

	assert.NoError(t, ob.Process(create("1", "BUY", "99", "0")))

	assert.Empty(t, residual(ob))
	assert.Empty(t, ob.Trades())
}

func TestProcess_DuplicateOrderIDRejected(t *testing.T) {
	ob := NewOrderBook("BTC/USDC")

	assert.NoError(t, ob.Process(create("1", "BUY", "99", "10")))
	err := ob.Process(create("1", "BUY", "98", "10"))
	assert.ErrorIs(t, err, ErrDuplicateOrderID)
}

func TestProcess_InvalidDecimalRejected(t *testing.T) {
	ob := NewOrderBook("BTC/USDC")

	err := ob.Process(create("1", "BUY", "not-a-number", "10"))
	assert.Error(t, err)
}

func TestProcess_Conservation(t *testing.T) {
	ob := NewOrderBook("BTC/USDC")

	assert.NoError(t, ob.Process(create("maker", "SELL", "100", "10")))
	assert.NoError(t, ob.Process(create("taker-a", "BUY", "100", "4")))
	assert.NoError(t, ob.Process(create("taker-b", "BUY", "100", "6")))

	var traded float64
	for _, tr := range ob.Trades() {
		var f float64
		_, err := fmt.Sscan(tr.Amount, &f)
		assert.NoError(t, err)
		traded += f
	}
	assert.InDelta(t, 10.0, traded, 1e-9)
	assert.Empty(t, residual(ob))
}
