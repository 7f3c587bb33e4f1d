package engine

import "time"

// nowMillis is the wall-clock timestamp attached to each emitted trade.
// It is unrelated to BookOrder.Ts, which is an arrival sequence.
func nowMillis() int64 { return time.Now().UnixMilli() }
