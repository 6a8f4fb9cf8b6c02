package protocol

import (
	"errors"

	"github.com/danmuck/pktdecode/internal/protocol/bits"
)

var (
	ErrInvalidCharacter    = bits.ErrInvalidCharacter
	ErrTruncated           = bits.ErrTruncated
	ErrMalformedExpression = errors.New("protocol: malformed expression")
	ErrPayloadOverflow     = errors.New("protocol: literal payload overflows 64 bits")
	ErrTrailingData        = errors.New("protocol: non-zero trailing data")
	ErrDepthExceeded       = errors.New("protocol: nesting depth exceeded")
	ErrFieldRange          = errors.New("protocol: field out of range")
	ErrNilPacket           = errors.New("protocol: nil packet")
)
