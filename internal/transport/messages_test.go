package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"matchcore/internal/common"
)

func TestEncodeCommand_CreateRoundTrips(t *testing.T) {
	cmd := common.RawCommand{
		Op:         common.OpCreate,
		AccountID:  "acct-1",
		OrderID:    "order-1",
		Pair:       "BTC/USDC",
		Side:       common.Sell,
		LimitPrice: "63500.50",
		Amount:     "0.0023",
	}

	wire := EncodeCommand(cmd)
	got, err := parseMessage(wire)
	assert.NoError(t, err)
	assert.Equal(t, cmd, got)
}

func TestEncodeCommand_DeleteRoundTrips(t *testing.T) {
	cmd := common.RawCommand{Op: common.OpDelete, Pair: "BTC/USDC", OrderID: "order-1"}

	wire := EncodeCommand(cmd)
	got, err := parseMessage(wire)
	assert.NoError(t, err)
	assert.Equal(t, cmd, got)
}

func TestEncodeQuery_RoundTrips(t *testing.T) {
	wire := EncodeQuery("BTC/USDC", 42)
	assert.Equal(t, byte(QueryMessage), wire[0])

	q, err := parseQuery(wire[1:])
	assert.NoError(t, err)
	assert.Equal(t, TradeQuery{Pair: "BTC/USDC", Since: 42}, q)
}

func TestReport_TradeRoundTrips(t *testing.T) {
	report := Report{Kind: TradeReport, Trade: common.Trade{
		Pair: "BTC/USDC", BuyOrderID: "b1", SellOrderID: "s1",
		Price: "63500", Amount: "0.0023", Ts: 1234567890,
	}}

	got, err := ParseReport(report.Serialize())
	assert.NoError(t, err)
	assert.Equal(t, report, got)
}

func TestReport_ErrorRoundTrips(t *testing.T) {
	report := Report{Kind: ErrorReport, ErrText: "boom"}

	got, err := ParseReport(report.Serialize())
	assert.NoError(t, err)
	assert.Equal(t, report, got)
}

func TestParseMessage_TooShortIsRejected(t *testing.T) {
	_, err := parseMessage(nil)
	assert.ErrorIs(t, err, ErrMessageTooShort)
}

func TestParseQuery_TooShortIsRejected(t *testing.T) {
	_, err := parseQuery([]byte{0, 1})
	assert.Error(t, err)
}
