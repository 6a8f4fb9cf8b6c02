package bits

import "fmt"

// Cursor reads bits from a window of a Sequence. Reads are destructive:
// every successful read advances the offset and nothing is re-readable.
// A Cursor belongs to a single decode and must not be shared between
// goroutines.
type Cursor struct {
	seq   *Sequence
	start int
	pos   int
	end   int
}

// NewCursor returns a cursor over all of seq.
func NewCursor(seq *Sequence) *Cursor {
	return &Cursor{seq: seq, end: seq.Len()}
}

// ReadBits consumes the next n bits, 0 <= n <= 64, as a big-endian
// unsigned integer. On error the offset is left unchanged.
func (c *Cursor) ReadBits(n int) (uint64, error) {
	if n < 0 || n > 64 {
		return 0, fmt.Errorf("%w: %d", ErrWidth, n)
	}
	if err := c.need(n); err != nil {
		return 0, err
	}
	var v uint64
	for i := c.pos; i < c.pos+n; i++ {
		v <<= 1
		if c.seq.Bit(i) {
			v |= 1
		}
	}
	c.pos += n
	return v, nil
}

// ReadBit consumes a single bit.
func (c *Cursor) ReadBit() (bool, error) {
	v, err := c.ReadBits(1)
	return v == 1, err
}

// Sub carves the next n bits into an isolated cursor over the same
// backing sequence and advances c past them.
func (c *Cursor) Sub(n int) (*Cursor, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrWidth, n)
	}
	if err := c.need(n); err != nil {
		return nil, err
	}
	sub := &Cursor{seq: c.seq, start: c.pos, pos: c.pos, end: c.pos + n}
	c.pos += n
	return sub, nil
}

func (c *Cursor) need(n int) error {
	if have := c.end - c.pos; n > have {
		return fmt.Errorf("%w: need %d bits at offset %d, have %d", ErrTruncated, n, c.pos, have)
	}
	return nil
}

// Offset is the absolute bit position within the backing sequence.
func (c *Cursor) Offset() int { return c.pos }

// Remaining is the number of unread bits in the window.
func (c *Cursor) Remaining() int { return c.end - c.pos }

// Exhausted reports whether every bit in the window has been read.
func (c *Cursor) Exhausted() bool { return c.pos == c.end }

// Len is the size of the cursor's window in bits.
func (c *Cursor) Len() int { return c.end - c.start }

// Consumed is the number of bits read from the window so far.
func (c *Cursor) Consumed() int { return c.pos - c.start }
