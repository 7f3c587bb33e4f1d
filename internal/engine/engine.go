package engine

// This is the main matching engine. A MatcherEngine owns one OrderBook per
// trading pair, created lazily on first sight, and routes every command to
// the book for its pair.

import "matchcore/internal/common"

// MatcherEngine fans commands out to per-pair order books. It is not safe
// for concurrent use from multiple goroutines; callers that need to serve
// concurrent requests either serialize access to a single MatcherEngine
// (e.g. one writer goroutine) or construct a fresh MatcherEngine per
// request.
type MatcherEngine struct {
	books    map[string]*OrderBook
	pairSeen []string // insertion order, for a stable Finish() ordering
}

// New returns an empty MatcherEngine with no books yet.
func New() *MatcherEngine {
	return &MatcherEngine{books: make(map[string]*OrderBook)}
}

// Ingest routes a single command to the book for its pair, creating that
// book on first use.
func (m *MatcherEngine) Ingest(cmd common.RawCommand) error {
	return m.bookFor(cmd.Pair).Process(cmd)
}

// IngestReporting behaves like Ingest but also returns exactly the trades
// generated by this one command, for drivers that report incrementally.
func (m *MatcherEngine) IngestReporting(cmd common.RawCommand) ([]common.Trade, error) {
	return m.bookFor(cmd.Pair).ProcessReporting(cmd)
}

// bookFor returns the order book for pair, creating it if this is the
// first command seen for it.
func (m *MatcherEngine) bookFor(pair string) *OrderBook {
	ob, ok := m.books[pair]
	if !ok {
		ob = NewOrderBook(pair)
		m.books[pair] = ob
		m.pairSeen = append(m.pairSeen, pair)
	}
	return ob
}

// TradesSince returns every trade generated for pair after the given
// sequence number. An unknown pair (no commands ingested for it yet)
// yields an empty slice rather than creating a book for it.
func (m *MatcherEngine) TradesSince(pair string, seq uint64) []common.Trade {
	ob, ok := m.books[pair]
	if !ok {
		return nil
	}
	return ob.TradesSince(seq)
}

// Finish collects every trade and every book's final snapshot, in the
// order pairs were first seen.
func (m *MatcherEngine) Finish() common.RunResult {
	var result common.RunResult
	for _, pair := range m.pairSeen {
		ob := m.books[pair]
		result.Trades = append(result.Trades, ob.Trades()...)
		result.OrderBooks = append(result.OrderBooks, ob.Snapshot())
	}
	return result
}
