package surface

// ScrollContainer returns the nearest ancestor of el that actually scrolls its
// content: its overflow mode is auto, scroll or overlay and its content is
// taller than its client area. The walk starts at el's parent and stops before
// the document root. A nil result means there is no scrollable ancestor and the
// viewport itself is the positioning frame.
//
// The ancestry of an editing surface does not change during a suggestion
// session, so callers may resolve once and cache the result.
func ScrollContainer(el *Node) *Node {
	if el == nil {
		return nil
	}
	for p := el.Parent(); p != nil && p.Parent() != nil; p = p.Parent() {
		if p.Overflow.scrolls() && p.ScrollHeight() > p.ClientHeight() {
			return p
		}
	}
	return nil
}
