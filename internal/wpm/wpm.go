// Package wpm estimates typing speed over a trailing time window.
package wpm

import (
	"sync"
	"time"
)

// DefaultWindow is the trailing interval keystrokes are counted over.
const DefaultWindow = 10 * time.Second

// CharsPerWord is the conventional word length for WPM.
const CharsPerWord = 5

// Counter records keystroke instants and derives words per minute from the
// ones inside the window. Old entries are pruned on every access.
type Counter struct {
	mu      sync.Mutex
	presses []time.Time
	window  time.Duration
	now     func() time.Time
}

type Option func(*Counter)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Counter) { c.now = now }
}

// New creates a counter; a non-positive window selects DefaultWindow.
func New(window time.Duration, opts ...Option) *Counter {
	if window <= 0 {
		window = DefaultWindow
	}
	c := &Counter{window: window, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddKeyPress records a keystroke at the current time.
func (c *Counter) AddKeyPress() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.presses = append(c.presses, now)
	c.prune(now)
}

// WPM returns (count / 5) / (window in minutes), truncated.
func (c *Counter) WPM() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune(c.now())
	return int((float64(len(c.presses)) / CharsPerWord) / c.window.Minutes())
}

// Count returns the number of keystrokes inside the window.
func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune(c.now())
	return len(c.presses)
}

func (c *Counter) Window() time.Duration { return c.window }

func (c *Counter) prune(now time.Time) {
	cutoff := now.Add(-c.window)
	i := 0
	for i < len(c.presses) && c.presses[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		c.presses = append(c.presses[:0], c.presses[i:]...)
	}
}
