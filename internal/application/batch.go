package application

import (
	"sync"

	"textoverlay/internal/domain/entities"
)

// DefaultBatchSize is the number of rich nodes handled per cycle.
const DefaultBatchSize = 150

// BatchCursor spreads rich nodes over consecutive cycles, one window per
// cycle, wrapping back to the first window once the end is passed.
type BatchCursor struct {
	mu    sync.Mutex
	index int
	size  int
}

func NewBatchCursor(size int) *BatchCursor {
	if size <= 0 {
		size = DefaultBatchSize
	}
	return &BatchCursor{size: size}
}

// Window returns the range to process for total nodes. It reports false,
// and resets the cursor, when there is nothing to process.
func (b *BatchCursor) Window(total int) (entities.Window, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if total <= 0 {
		b.index = 0
		return entities.Window{}, false
	}
	start := b.index * b.size
	if start >= total {
		b.index = 0
		start = 0
	}
	return entities.Window{Start: start, End: min(start+b.size, total)}, true
}

// Advance moves to the next window. Call it only once a window has been
// fully processed.
func (b *BatchCursor) Advance() {
	b.mu.Lock()
	b.index++
	b.mu.Unlock()
}

func (b *BatchCursor) Index() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.index
}

func (b *BatchCursor) Size() int { return b.size }
