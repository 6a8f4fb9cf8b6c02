// Package eval computes results over a decoded packet tree: the version
// checksum and the expression value.
package eval

import (
	"fmt"
	"slices"

	"github.com/danmuck/pktdecode/internal/protocol"
)

// ArityError reports an operator whose child count its type does not allow.
type ArityError struct {
	Type protocol.TypeID
	Got  int
	// Want is the exact count required, or -1 for "at least one".
	Want int
}

func (e ArityError) Error() string {
	if e.Want < 0 {
		return fmt.Sprintf("protocol: malformed expression: %s needs at least 1 sub-packet, got %d", e.Type, e.Got)
	}
	return fmt.Sprintf("protocol: malformed expression: %s needs %d sub-packets, got %d", e.Type, e.Want, e.Got)
}

func (e ArityError) Unwrap() error {
	return protocol.ErrMalformedExpression
}

// VersionSum adds up the version of every packet in the tree.
func VersionSum(p *protocol.Packet) uint64 {
	var sum uint64
	protocol.Walk(p, func(q *protocol.Packet) bool {
		sum += uint64(q.Version)
		return true
	})
	return sum
}

// Evaluate computes the value of the expression rooted at p. Sums and
// products wrap at 64 bits.
func Evaluate(p *protocol.Packet) (uint64, error) {
	if p == nil {
		return 0, fmt.Errorf("%w: nil packet", protocol.ErrMalformedExpression)
	}
	if p.Type == protocol.TypeLiteral {
		if len(p.SubPackets) != 0 {
			return 0, ArityError{Type: p.Type, Got: len(p.SubPackets), Want: 0}
		}
		return p.Payload, nil
	}

	if err := checkArity(p); err != nil {
		return 0, err
	}
	values := make([]uint64, len(p.SubPackets))
	for i, child := range p.SubPackets {
		v, err := Evaluate(child)
		if err != nil {
			return 0, err
		}
		values[i] = v
	}

	switch p.Type {
	case protocol.TypeSum:
		var sum uint64
		for _, v := range values {
			sum += v
		}
		return sum, nil
	case protocol.TypeProduct:
		product := uint64(1)
		for _, v := range values {
			product *= v
		}
		return product, nil
	case protocol.TypeMinimum:
		return slices.Min(values), nil
	case protocol.TypeMaximum:
		return slices.Max(values), nil
	case protocol.TypeGreater:
		return boolValue(values[0] > values[1]), nil
	case protocol.TypeLess:
		return boolValue(values[0] < values[1]), nil
	case protocol.TypeEqual:
		return boolValue(values[0] == values[1]), nil
	default:
		return 0, fmt.Errorf("%w: unknown type %d", protocol.ErrMalformedExpression, p.Type)
	}
}

func checkArity(p *protocol.Packet) error {
	got := len(p.SubPackets)
	switch p.Type {
	case protocol.TypeSum, protocol.TypeProduct, protocol.TypeMinimum, protocol.TypeMaximum:
		if got < 1 {
			return ArityError{Type: p.Type, Got: got, Want: -1}
		}
	case protocol.TypeGreater, protocol.TypeLess, protocol.TypeEqual:
		if got != 2 {
			return ArityError{Type: p.Type, Got: got, Want: 2}
		}
	default:
		return fmt.Errorf("%w: unknown type %d", protocol.ErrMalformedExpression, p.Type)
	}
	return nil
}

func boolValue(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
