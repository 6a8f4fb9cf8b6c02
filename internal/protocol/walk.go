package protocol

// Walk visits p and its descendants in pre-order. Returning false from fn
// skips that packet's children.
func Walk(p *Packet, fn func(*Packet) bool) {
	if p == nil || !fn(p) {
		return
	}
	for _, child := range p.SubPackets {
		Walk(child, fn)
	}
}

// Count returns the number of packets in the tree rooted at p.
func Count(p *Packet) int {
	n := 0
	Walk(p, func(*Packet) bool {
		n++
		return true
	})
	return n
}

// Depth returns the nesting depth of p; a lone literal has depth 1.
func Depth(p *Packet) int {
	if p == nil {
		return 0
	}
	deepest := 0
	for _, child := range p.SubPackets {
		deepest = max(deepest, Depth(child))
	}
	return deepest + 1
}
