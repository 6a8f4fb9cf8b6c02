package bits

import (
	"fmt"
	"strings"
)

const hexDigits = "0123456789ABCDEF"

// Writer accumulates bits MSB first. The zero value is ready to use.
type Writer struct {
	buf    []byte
	bitLen int
}

func NewWriter() *Writer {
	return &Writer{}
}

// WriteBits appends the low n bits of v, most significant first.
func (w *Writer) WriteBits(v uint64, n int) error {
	if n < 0 || n > 64 {
		return fmt.Errorf("%w: %d", ErrWidth, n)
	}
	if n < 64 && v>>uint(n) != 0 {
		return fmt.Errorf("%w: %d in %d bits", ErrValueRange, v, n)
	}
	for i := n - 1; i >= 0; i-- {
		w.appendBit(v>>uint(i)&1 == 1)
	}
	return nil
}

func (w *Writer) appendBit(bit bool) {
	if w.bitLen%8 == 0 {
		w.buf = append(w.buf, 0)
	}
	if bit {
		w.buf[len(w.buf)-1] |= 0x80 >> uint(w.bitLen%8)
	}
	w.bitLen++
}

// Append copies every bit written to other onto the end of w.
func (w *Writer) Append(other *Writer) {
	for i := 0; i < other.bitLen; i++ {
		w.appendBit(other.buf[i/8]&(0x80>>uint(i%8)) != 0)
	}
}

func (w *Writer) Len() int { return w.bitLen }

// Sequence snapshots the written bits without nibble padding.
func (w *Writer) Sequence() *Sequence {
	buf := make([]byte, len(w.buf))
	copy(buf, w.buf)
	return &Sequence{buf: buf, bitLen: w.bitLen}
}

// Hex renders the written bits as upper-case hex, zero-padding the tail
// to a whole digit.
func (w *Writer) Hex() string {
	digits := (w.bitLen + 3) / 4
	var b strings.Builder
	b.Grow(digits)
	for i := 0; i < digits; i++ {
		v := w.buf[i/2]
		if i%2 == 0 {
			v >>= 4
		}
		b.WriteByte(hexDigits[v&0x0f])
	}
	return b.String()
}
