// Package metrics keeps cheap run counters for the pipeline stages.
package metrics

import "sync/atomic"

var (
	deadlinesResolved int64
	lookupsFailed     int64
	lookupsEmpty      int64
	datesUnparsed     int64
)

func IncResolved()     { atomic.AddInt64(&deadlinesResolved, 1) }
func IncLookupFailed() { atomic.AddInt64(&lookupsFailed, 1) }
func IncLookupEmpty()  { atomic.AddInt64(&lookupsEmpty, 1) }
func IncDateUnparsed() { atomic.AddInt64(&datesUnparsed, 1) }

// Snapshot returns the current counter values.
func Snapshot() map[string]int64 {
	return map[string]int64{
		"deadlines_resolved": atomic.LoadInt64(&deadlinesResolved),
		"lookups_failed":     atomic.LoadInt64(&lookupsFailed),
		"lookups_empty":      atomic.LoadInt64(&lookupsEmpty),
		"dates_unparsed":     atomic.LoadInt64(&datesUnparsed),
	}
}

// Reset zeroes all counters. Used by tests.
func Reset() {
	atomic.StoreInt64(&deadlinesResolved, 0)
	atomic.StoreInt64(&lookupsFailed, 0)
	atomic.StoreInt64(&lookupsEmpty, 0)
	atomic.StoreInt64(&datesUnparsed, 0)
}
