package recorder

import "time"

// FetchEvent is the terminal outcome of one provider fetch, after the
// retry policy has run its course. Cache hits are not recorded.
type FetchEvent struct {
	Operation string
	Symbol    string
	Attempts  int
	Success   bool
	Duration  time.Duration
	Error     string
}

// Recorder persists fetch outcomes for operability analysis.
type Recorder interface {
	RecordFetch(evt *FetchEvent) error
	Close() error
}
