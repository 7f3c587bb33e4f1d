// Package ledger is an append-only, sequence-ordered trade tape backed by
// a B-tree index.
package ledger

import (
	"github.com/tidwall/btree"

	"matchcore/internal/common"
)

type entry struct {
	seq   uint64
	trade common.Trade
}

// Ledger indexes trades by the order in which they were generated.
type Ledger struct {
	entries *btree.BTreeG[entry]
	seq     uint64
}

// New returns an empty ledger.
func New() *Ledger {
	less := func(a, b entry) bool { return a.seq < b.seq }
	return &Ledger{entries: btree.NewBTreeG(less)}
}

// Append records a trade, assigning it the next emission sequence number.
func (l *Ledger) Append(t common.Trade) {
	l.seq++
	l.entries.Set(entry{seq: l.seq, trade: t})
}

// All returns every trade in generation order.
func (l *Ledger) All() []common.Trade {
	out := make([]common.Trade, 0, l.entries.Len())
	l.entries.Scan(func(e entry) bool {
		out = append(out, e.trade)
		return true
	})
	return out
}

// Since returns every trade generated after the given sequence number, in
// generation order. Pass 0 to get everything.
func (l *Ledger) Since(seq uint64) []common.Trade {
	var out []common.Trade
	l.entries.Ascend(entry{seq: seq + 1}, func(e entry) bool {
		out = append(out, e.trade)
		return true
	})
	return out
}

// Len returns the number of trades recorded.
func (l *Ledger) Len() int { return l.entries.Len() }
