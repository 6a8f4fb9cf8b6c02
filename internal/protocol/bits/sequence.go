package bits

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCharacter = errors.New("bits: invalid hex character")
	ErrTruncated        = errors.New("bits: truncated data")
	ErrWidth            = errors.New("bits: invalid read width")
	ErrValueRange       = errors.New("bits: value does not fit width")
)

// InvalidCharacterError reports the first non-hex rune in a transmission.
type InvalidCharacterError struct {
	Pos  int
	Char rune
}

func (e InvalidCharacterError) Error() string {
	return fmt.Sprintf("bits: invalid hex character %q at position %d", e.Char, e.Pos)
}

func (e InvalidCharacterError) Unwrap() error {
	return ErrInvalidCharacter
}

// Sequence is an immutable run of bits packed MSB first into bytes.
type Sequence struct {
	buf    []byte
	bitLen int
}

// FromHex expands hex text into a bit sequence, four bits per digit.
// Surrounding whitespace is trimmed; digits are case-insensitive.
func FromHex(s string) (*Sequence, error) {
	s = strings.TrimSpace(s)
	seq := &Sequence{
		buf:    make([]byte, (len(s)+1)/2),
		bitLen: 4 * len(s),
	}
	for i, r := range s {
		n, ok := nibble(r)
		if !ok {
			return nil, InvalidCharacterError{Pos: i, Char: r}
		}
		if i%2 == 0 {
			seq.buf[i/2] = n << 4
		} else {
			seq.buf[i/2] |= n
		}
	}
	return seq, nil
}

func nibble(r rune) (byte, bool) {
	switch {
	case r >= '0' && r <= '9':
		return byte(r - '0'), true
	case r >= 'a' && r <= 'f':
		return byte(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return byte(r-'A') + 10, true
	default:
		return 0, false
	}
}

// Len returns the number of bits in the sequence.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return s.bitLen
}

// Bit returns bit i, counting from the most significant bit of the first byte.
func (s *Sequence) Bit(i int) bool {
	return s.buf[i/8]&(0x80>>uint(i%8)) != 0
}

// String renders the sequence as a run of '0' and '1'.
func (s *Sequence) String() string {
	var b strings.Builder
	b.Grow(s.Len())
	for i := 0; i < s.Len(); i++ {
		if s.Bit(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
