package domain

import "time"

const (
	DefaultFetcherRPM = 60
	DefaultRateWindow = time.Minute
)

type Admission struct {
	OK   bool
	Wait time.Duration
}

// RateWindow is a sliding window of admission timestamps kept in a ring
// buffer sized to the limit. It is not safe for concurrent use.
type RateWindow struct {
	window  time.Duration
	entries []time.Time
	head    int
	size    int
}

func NewRateWindow(limit int, window time.Duration) *RateWindow {
	if limit <= 0 {
		limit = DefaultFetcherRPM
	}
	if window <= 0 {
		window = DefaultRateWindow
	}

	return &RateWindow{
		window:  window,
		entries: make([]time.Time, limit),
	}
}

func (w *RateWindow) Limit() int {
	return len(w.entries)
}

func (w *RateWindow) Len() int {
	return w.size
}

// Admit prunes entries that fell out of the window and then either records
// now or reports how long the caller must wait for the oldest entry to expire.
func (w *RateWindow) Admit(now time.Time) Admission {
	w.prune(now)

	if w.size >= len(w.entries) {
		oldest := w.entries[w.head]
		return Admission{OK: false, Wait: w.window - now.Sub(oldest)}
	}

	w.entries[(w.head+w.size)%len(w.entries)] = now
	w.size++

	return Admission{OK: true}
}

func (w *RateWindow) prune(now time.Time) {
	for w.size > 0 && now.Sub(w.entries[w.head]) >= w.window {
		w.entries[w.head] = time.Time{}
		w.head = (w.head + 1) % len(w.entries)
		w.size--
	}
}
