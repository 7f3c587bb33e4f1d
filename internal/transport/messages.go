// Package transport is the binary TCP wire protocol and connection
// handling around a MatcherEngine. Unlike a float64-bit-packed wire
// format, every price and amount travels as its canonical decimal string:
// binary floating point never touches the value path.
package transport

import (
	"encoding/binary"
	"errors"
	"fmt"

	"matchcore/internal/common"
)

var (
	ErrInvalidMessageType = errors.New("invalid message type")
	ErrMessageTooShort    = errors.New("message too short for its declared field lengths")
)

type MessageType uint8

const (
	CommandMessage MessageType = iota
	ReportMessage
	QueryMessage
)

type ReportKind uint8

const (
	TradeReport ReportKind = iota
	ErrorReport
	BookSnapshotReport
)

// BaseMessageHeaderLen is the 1-byte type tag every message starts with.
const BaseMessageHeaderLen = 1

func parseMessage(msg []byte) (common.RawCommand, error) {
	if len(msg) < BaseMessageHeaderLen {
		return common.RawCommand{}, fmt.Errorf("%w: no type byte", ErrMessageTooShort)
	}
	switch MessageType(msg[0]) {
	case CommandMessage:
		return parseCommand(msg[1:])
	default:
		return common.RawCommand{}, ErrInvalidMessageType
	}
}

// readString consumes a 2-byte big-endian length prefix followed by that
// many bytes, returning the string and the remainder of buf.
func readString(buf []byte) (string, []byte, error) {
	if len(buf) < 2 {
		return "", nil, ErrMessageTooShort
	}
	n := int(binary.BigEndian.Uint16(buf[0:2]))
	buf = buf[2:]
	if len(buf) < n {
		return "", nil, ErrMessageTooShort
	}
	return string(buf[:n]), buf[n:], nil
}

func putString(buf []byte, s string) []byte {
	header := make([]byte, 2)
	binary.BigEndian.PutUint16(header, uint16(len(s)))
	buf = append(buf, header...)
	return append(buf, s...)
}

// parseCommand decodes a CREATE/DELETE command:
//
//	[1B op][2B+pair][2B+order_id] and, for CREATE only:
//	[2B+account_id][1B side][2B+limit_price][2B+amount]
func parseCommand(buf []byte) (common.RawCommand, error) {
	if len(buf) < 1 {
		return common.RawCommand{}, ErrMessageTooShort
	}
	op := common.OpType("DELETE")
	if buf[0] == 0 {
		op = common.OpCreate
	}
	buf = buf[1:]

	pair, buf, err := readString(buf)
	if err != nil {
		return common.RawCommand{}, err
	}
	orderID, buf, err := readString(buf)
	if err != nil {
		return common.RawCommand{}, err
	}

	cmd := common.RawCommand{Op: op, Pair: pair, OrderID: orderID}
	if op == common.OpDelete {
		return cmd, nil
	}

	accountID, buf, err := readString(buf)
	if err != nil {
		return common.RawCommand{}, err
	}
	if len(buf) < 1 {
		return common.RawCommand{}, ErrMessageTooShort
	}
	side := common.Buy
	if buf[0] != 0 {
		side = common.Sell
	}
	buf = buf[1:]

	limitPrice, buf, err := readString(buf)
	if err != nil {
		return common.RawCommand{}, err
	}
	amount, _, err := readString(buf)
	if err != nil {
		return common.RawCommand{}, err
	}

	cmd.AccountID = accountID
	cmd.Side = side
	cmd.LimitPrice = limitPrice
	cmd.Amount = amount
	return cmd, nil
}

// TradeQuery asks the server to replay every trade generated for Pair
// after sequence number Since (0 meaning "everything").
type TradeQuery struct {
	Pair  string
	Since uint64
}

// parseQuery decodes a QueryMessage body: [2B+pair][8B since-sequence].
func parseQuery(buf []byte) (TradeQuery, error) {
	pair, buf, err := readString(buf)
	if err != nil {
		return TradeQuery{}, err
	}
	if len(buf) < 8 {
		return TradeQuery{}, ErrMessageTooShort
	}
	return TradeQuery{Pair: pair, Since: binary.BigEndian.Uint64(buf[0:8])}, nil
}

// EncodeQuery is the client-side counterpart of parseQuery.
func EncodeQuery(pair string, since uint64) []byte {
	buf := []byte{byte(QueryMessage)}
	buf = putString(buf, pair)
	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, since)
	return append(buf, ts...)
}

// EncodeCommand is the client-side counterpart of parseCommand.
func EncodeCommand(cmd common.RawCommand) []byte {
	buf := []byte{byte(CommandMessage)}
	if cmd.Op == common.OpCreate {
		buf = append(buf, 0)
	} else {
		buf = append(buf, 1)
	}
	buf = putString(buf, cmd.Pair)
	buf = putString(buf, cmd.OrderID)
	if cmd.Op == common.OpDelete {
		return buf
	}
	buf = putString(buf, cmd.AccountID)
	if cmd.Side == common.Buy {
		buf = append(buf, 0)
	} else {
		buf = append(buf, 1)
	}
	buf = putString(buf, cmd.LimitPrice)
	buf = putString(buf, cmd.Amount)
	return buf
}

// Report is a server->client execution or error report.
type Report struct {
	Kind    ReportKind
	Trade   common.Trade
	ErrText string
}

// Serialize converts the report to its wire form.
func (r Report) Serialize() []byte {
	buf := []byte{byte(r.Kind)}
	switch r.Kind {
	case TradeReport:
		ts := make([]byte, 8)
		binary.BigEndian.PutUint64(ts, uint64(r.Trade.Ts))
		buf = append(buf, ts...)
		buf = putString(buf, r.Trade.Pair)
		buf = putString(buf, r.Trade.BuyOrderID)
		buf = putString(buf, r.Trade.SellOrderID)
		buf = putString(buf, r.Trade.Price)
		buf = putString(buf, r.Trade.Amount)
	case ErrorReport:
		buf = putString(buf, r.ErrText)
	}
	return buf
}

// ParseReport is the client-side counterpart of Report.Serialize.
func ParseReport(msg []byte) (Report, error) {
	if len(msg) < 1 {
		return Report{}, ErrMessageTooShort
	}
	kind := ReportKind(msg[0])
	buf := msg[1:]
	switch kind {
	case TradeReport:
		if len(buf) < 8 {
			return Report{}, ErrMessageTooShort
		}
		ts := int64(binary.BigEndian.Uint64(buf[0:8]))
		buf = buf[8:]
		pair, buf, err := readString(buf)
		if err != nil {
			return Report{}, err
		}
		buyID, buf, err := readString(buf)
		if err != nil {
			return Report{}, err
		}
		sellID, buf, err := readString(buf)
		if err != nil {
			return Report{}, err
		}
		price, buf, err := readString(buf)
		if err != nil {
			return Report{}, err
		}
		amount, _, err := readString(buf)
		if err != nil {
			return Report{}, err
		}
		return Report{Kind: TradeReport, Trade: common.Trade{
			Pair: pair, BuyOrderID: buyID, SellOrderID: sellID,
			Price: price, Amount: amount, Ts: ts,
		}}, nil
	case ErrorReport:
		errText, _, err := readString(buf)
		if err != nil {
			return Report{}, err
		}
		return Report{Kind: ErrorReport, ErrText: errText}, nil
	default:
		return Report{}, ErrInvalidMessageType
	}
}
