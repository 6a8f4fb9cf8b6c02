package eval

import (
	"strconv"
	"strings"

	"github.com/danmuck/pktdecode/internal/protocol"
)

// Render prints the expression rooted at p, e.g. "sum(1, product(2, 3))"
// or "(5 < 15)". It never fails; malformed comparisons fall back to the
// call form.
func Render(p *protocol.Packet) string {
	var b strings.Builder
	render(&b, p)
	return b.String()
}

func render(b *strings.Builder, p *protocol.Packet) {
	if p == nil {
		b.WriteString("<nil>")
		return
	}
	if p.IsLiteral() {
		b.WriteString(strconv.FormatUint(p.Payload, 10))
		return
	}
	if op, ok := comparison(p.Type); ok && len(p.SubPackets) == 2 {
		b.WriteByte('(')
		render(b, p.SubPackets[0])
		b.WriteString(" " + op + " ")
		render(b, p.SubPackets[1])
		b.WriteByte(')')
		return
	}
	b.WriteString(p.Type.String())
	b.WriteByte('(')
	for i, child := range p.SubPackets {
		if i > 0 {
			b.WriteString(", ")
		}
		render(b, child)
	}
	b.WriteByte(')')
}

func comparison(t protocol.TypeID) (string, bool) {
	switch t {
	case protocol.TypeGreater:
		return ">", true
	case protocol.TypeLess:
		return "<", true
	case protocol.TypeEqual:
		return "==", true
	}
	return "", false
}
