package protocol

import "fmt"

// TypeID selects how a packet's value is computed.
type TypeID uint8

const (
	TypeSum TypeID = iota
	TypeProduct
	TypeMinimum
	TypeMaximum
	TypeLiteral
	TypeGreater
	TypeLess
	TypeEqual
)

func (t TypeID) String() string {
	switch t {
	case TypeSum:
		return "sum"
	case TypeProduct:
		return "product"
	case TypeMinimum:
		return "min"
	case TypeMaximum:
		return "max"
	case TypeLiteral:
		return "literal"
	case TypeGreater:
		return "gt"
	case TypeLess:
		return "lt"
	case TypeEqual:
		return "eq"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// LengthType selects how an operator frames its sub-packets.
type LengthType uint8

const (
	// LengthBits: a 15-bit total bit length of the sub-packet region.
	LengthBits LengthType = 0
	// LengthCount: an 11-bit count of immediate sub-packets.
	LengthCount LengthType = 1
)

type Kind uint8

const (
	KindLiteral Kind = iota + 1
	KindOperator
)

// Wire widths.
const (
	versionBits     = 3
	typeBits        = 3
	groupBits       = 5
	lengthTypeBits  = 1
	countBits       = 11
	totalLengthBits = 15

	MaxVersion     = 1<<versionBits - 1
	MaxSubPackets  = 1<<countBits - 1
	MaxRegionBits  = 1<<totalLengthBits - 1
	continuationOn = 0x10
	nibbleMask     = 0x0f
)

// Packet is one decoded unit. Literals carry Payload and no SubPackets.
// Operators carry SubPackets; their Payload holds the declared count or
// region length from the wire and is not used for evaluation.
type Packet struct {
	Version    uint8
	Type       TypeID
	Payload    uint64
	LengthType LengthType
	SubPackets []*Packet
}

// Kind is derived from Type; a packet is exactly one of literal or operator.
func (p *Packet) Kind() Kind {
	if p.Type == TypeLiteral {
		return KindLiteral
	}
	return KindOperator
}

func (p *Packet) IsLiteral() bool { return p.Kind() == KindLiteral }

// NewLiteral builds a literal packet.
func NewLiteral(version uint8, value uint64) *Packet {
	return &Packet{Version: version, Type: TypeLiteral, Payload: value}
}

// NewOperator builds an operator packet framed by count. Payload mirrors
// what a decode of its encoding would report.
func NewOperator(version uint8, typ TypeID, subPackets ...*Packet) *Packet {
	return &Packet{
		Version:    version,
		Type:       typ,
		Payload:    uint64(len(subPackets)),
		LengthType: LengthCount,
		SubPackets: subPackets,
	}
}
