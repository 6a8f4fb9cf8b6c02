package protocol

import (
	"fmt"

	"github.com/danmuck/pktdecode/internal/protocol/bits"
)

// EncodeHex encodes p as a transmission, zero-padded to a whole hex digit.
func EncodeHex(p *Packet) (string, error) {
	w := bits.NewWriter()
	if err := Encode(w, p); err != nil {
		return "", err
	}
	return w.Hex(), nil
}

// Encode writes p and its descendants to w. Operators are framed by their
// LengthType; the declared count or region length is recomputed from
// SubPackets rather than taken from Payload.
func Encode(w *bits.Writer, p *Packet) error {
	if p == nil {
		return ErrNilPacket
	}
	if p.Version > MaxVersion {
		return fmt.Errorf("%w: version %d", ErrFieldRange, p.Version)
	}
	if p.Type > TypeEqual {
		return fmt.Errorf("%w: type %d", ErrFieldRange, p.Type)
	}
	if err := w.WriteBits(uint64(p.Version), versionBits); err != nil {
		return err
	}
	if err := w.WriteBits(uint64(p.Type), typeBits); err != nil {
		return err
	}
	if p.IsLiteral() {
		return writeLiteral(w, p.Payload)
	}

	switch p.LengthType {
	case LengthCount:
		if len(p.SubPackets) > MaxSubPackets {
			return fmt.Errorf("%w: %d sub-packets", ErrFieldRange, len(p.SubPackets))
		}
		if err := w.WriteBits(uint64(LengthCount), lengthTypeBits); err != nil {
			return err
		}
		if err := w.WriteBits(uint64(len(p.SubPackets)), countBits); err != nil {
			return err
		}
		for _, child := range p.SubPackets {
			if err := Encode(w, child); err != nil {
				return err
			}
		}
		return nil
	case LengthBits:
		region := bits.NewWriter()
		for _, child := range p.SubPackets {
			if err := Encode(region, child); err != nil {
				return err
			}
		}
		if region.Len() > MaxRegionBits {
			return fmt.Errorf("%w: %d-bit sub-packet region", ErrFieldRange, region.Len())
		}
		if err := w.WriteBits(uint64(LengthBits), lengthTypeBits); err != nil {
			return err
		}
		if err := w.WriteBits(uint64(region.Len()), totalLengthBits); err != nil {
			return err
		}
		w.Append(region)
		return nil
	default:
		return fmt.Errorf("%w: length type %d", ErrFieldRange, p.LengthType)
	}
}

// writeLiteral emits the minimal group sequence for v; zero is one group.
func writeLiteral(w *bits.Writer, v uint64) error {
	groups := 1
	for rest := v >> 4; rest != 0; rest >>= 4 {
		groups++
	}
	for i := groups - 1; i >= 0; i-- {
		group := v >> uint(4*i) & nibbleMask
		if i > 0 {
			group |= continuationOn
		}
		if err := w.WriteBits(group, groupBits); err != nil {
			return err
		}
	}
	return nil
}
