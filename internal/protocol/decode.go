package protocol

import (
	"fmt"

	"github.com/danmuck/pktdecode/internal/protocol/bits"
)

// Limits constrains a decode. The zero value imposes no limits.
type Limits struct {
	// MaxDepth bounds packet nesting; the root is depth 1. Zero disables
	// the check.
	MaxDepth int
	// RejectTrailing makes DecodeHex fail with ErrTrailingData when any bit
	// after the root packet is set.
	RejectTrailing bool
}

func DefaultLimits() Limits {
	return Limits{}
}

// DecodeHex decodes one transmission. Bits after the root packet are
// ignored.
func DecodeHex(s string) (*Packet, error) {
	return DecodeHexWithLimits(s, DefaultLimits())
}

func DecodeHexWithLimits(s string, limits Limits) (*Packet, error) {
	seq, err := bits.FromHex(s)
	if err != nil {
		return nil, err
	}
	c := bits.NewCursor(seq)
	p, err := DecodeWithLimits(c, limits)
	if err != nil {
		return nil, err
	}
	if limits.RejectTrailing {
		if err := checkPadding(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Decode reads exactly one packet, and its descendants, from c and leaves
// c positioned immediately after the packet's last bit.
func Decode(c *bits.Cursor) (*Packet, error) {
	return DecodeWithLimits(c, DefaultLimits())
}

func DecodeWithLimits(c *bits.Cursor, limits Limits) (*Packet, error) {
	d := decoder{limits: limits}
	return d.packet(c, 1)
}

type decoder struct {
	limits Limits
}

func (d decoder) packet(c *bits.Cursor, depth int) (*Packet, error) {
	if d.limits.MaxDepth > 0 && depth > d.limits.MaxDepth {
		return nil, fmt.Errorf("%w: depth %d at offset %d", ErrDepthExceeded, depth, c.Offset())
	}
	version, err := c.ReadBits(versionBits)
	if err != nil {
		return nil, err
	}
	typ, err := c.ReadBits(typeBits)
	if err != nil {
		return nil, err
	}
	p := &Packet{Version: uint8(version), Type: TypeID(typ)}

	if p.Type == TypeLiteral {
		p.Payload, err = readLiteral(c)
		if err != nil {
			return nil, err
		}
		return p, nil
	}

	lengthType, err := c.ReadBits(lengthTypeBits)
	if err != nil {
		return nil, err
	}
	p.LengthType = LengthType(lengthType)
	switch p.LengthType {
	case LengthCount:
		p.Payload, err = c.ReadBits(countBits)
		if err != nil {
			return nil, err
		}
		p.SubPackets, err = d.countedChildren(c, int(p.Payload), depth)
	default:
		p.Payload, err = c.ReadBits(totalLengthBits)
		if err != nil {
			return nil, err
		}
		p.SubPackets, err = d.regionChildren(c, int(p.Payload), depth)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (d decoder) countedChildren(c *bits.Cursor, n, depth int) ([]*Packet, error) {
	children := make([]*Packet, 0, n)
	for i := 0; i < n; i++ {
		child, err := d.packet(c, depth+1)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

// regionChildren decodes packets from the next regionLen bits until the
// region is used up exactly.
func (d decoder) regionChildren(c *bits.Cursor, regionLen, depth int) ([]*Packet, error) {
	region, err := c.Sub(regionLen)
	if err != nil {
		return nil, err
	}
	children := make([]*Packet, 0, 2)
	for !region.Exhausted() {
		child, err := d.packet(region, depth+1)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func readLiteral(c *bits.Cursor) (uint64, error) {
	var value uint64
	for {
		group, err := c.ReadBits(groupBits)
		if err != nil {
			return 0, err
		}
		if value>>60 != 0 {
			return 0, fmt.Errorf("%w: at offset %d", ErrPayloadOverflow, c.Offset())
		}
		value = value<<4 | group&nibbleMask
		if group&continuationOn == 0 {
			return value, nil
		}
	}
}

func checkPadding(c *bits.Cursor) error {
	for !c.Exhausted() {
		start := c.Offset()
		v, err := c.ReadBits(min(64, c.Remaining()))
		if err != nil {
			return err
		}
		if v != 0 {
			return fmt.Errorf("%w: after bit %d", ErrTrailingData, start)
		}
	}
	return nil
}
