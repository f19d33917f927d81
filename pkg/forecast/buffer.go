package forecast

import (
	"fmt"

	"github.com/raykavin/stockcast/pkg/core"
)

// Buffer is a fixed-length FIFO of normalized values. Every Push evicts the
// oldest value so the length never changes after construction.
type Buffer struct {
	values []float64
}

// NewBuffer copies seed into a buffer that must hold exactly size values
func NewBuffer(seed []float64, size int) (*Buffer, error) {
	if size <= 0 || len(seed) != size {
		return nil, fmt.Errorf("%w: expected %d, got %d", core.ErrInvalidBufferLength, size, len(seed))
	}

	values := make([]float64, size)
	copy(values, seed)
	return &Buffer{values: values}, nil
}

// Push appends v and drops the oldest value
func (b *Buffer) Push(v float64) {
	copy(b.values, b.values[1:])
	b.values[len(b.values)-1] = v
}

// Values returns a copy of the buffer contents, oldest first
func (b *Buffer) Values() []float64 {
	out := make([]float64, len(b.values))
	copy(out, b.values)
	return out
}

// Len returns the number of values held
func (b *Buffer) Len() int {
	return len(b.values)
}

// Last returns the newest value
func (b *Buffer) Last() float64 {
	return b.values[len(b.values)-1]
}
