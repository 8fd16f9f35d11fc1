package input

import (
	"strings"
	"sync"
)

// DefaultBufferSize is the number of characters kept.
const DefaultBufferSize = 100

// Buffer is the typed text, capped at a maximum length with the oldest
// characters dropped first. It also records characters removed by backspace
// since the last typed character.
type Buffer struct {
	mu      sync.Mutex
	chars   []rune
	removed []rune
	max     int
}

func NewBuffer(max int) *Buffer {
	if max <= 0 {
		max = DefaultBufferSize
	}
	return &Buffer{chars: make([]rune, 0, max+1), max: max}
}

// Append adds r, trims to the cap and clears the removed record.
func (b *Buffer) Append(r rune) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chars = append(b.chars, r)
	if over := len(b.chars) - b.max; over > 0 {
		b.chars = append(b.chars[:0], b.chars[over:]...)
	}
	b.removed = b.removed[:0]
}

// Backspace removes the last character and records it. It reports false on
// an empty buffer.
func (b *Buffer) Backspace() (rune, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.chars) == 0 {
		return 0, false
	}
	r := b.chars[len(b.chars)-1]
	b.chars = b.chars[:len(b.chars)-1]
	b.removed = append(b.removed, r)
	return r, true
}

// Tail returns the last n characters.
func (b *Buffer) Tail(n int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n < 0 || n > len(b.chars) {
		n = len(b.chars)
	}
	return string(b.chars[len(b.chars)-n:])
}

func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.chars)
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.chars)
}

// Removed returns the characters removed since the last append, most
// recent last.
func (b *Buffer) Removed() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sb strings.Builder
	for _, r := range b.removed {
		sb.WriteRune(r)
	}
	return sb.String()
}
