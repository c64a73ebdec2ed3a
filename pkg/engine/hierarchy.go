package engine

import (
	"github.com/odvcencio/wayfinder/pkg/config"
	"github.com/odvcencio/wayfinder/pkg/geometry"
)

// hierarchy decides when a command drills into a child group or
// escapes to a group head instead of falling through to spatial
// search, and keeps the per-group last-visited-child memory.
type hierarchy struct {
	side      config.Side
	tolerance float64
	lastChild map[string]Region
}

func newHierarchy(side config.Side, tolerance float64) *hierarchy {
	return &hierarchy{
		side:      side,
		tolerance: tolerance,
		lastChild: make(map[string]Region),
	}
}

// drillDirection is the direction command that enters a group:
// children of a left-side head sit to its right.
func (h *hierarchy) drillDirection() geometry.Direction {
	if h.side == config.SideRight {
		return geometry.DirLeft
	}
	return geometry.DirRight
}

// escapeDirection is the direction command that leaves a group.
func (h *hierarchy) escapeDirection() geometry.Direction {
	return h.drillDirection().Opposite()
}

// drillTarget picks the child to focus when drilling into the group
// headed by the region at head. The remembered last-visited child wins
// when it is still a visible member; otherwise the first visible child
// does. For directional drill-in the first child's position must be
// consistent with the configured side; select skips that check.
func (h *hierarchy) drillTarget(set *regionSet, head int, directional bool) (int, bool) {
	hr := set.at(head)
	if hr == nil {
		return 0, false
	}
	key := hr.GroupKey()
	if key == "" {
		return 0, false
	}

	kids := set.visibleChildren(key)
	if len(kids) == 0 {
		// A group with no visible children behaves as an ordinary leaf.
		return 0, false
	}

	if directional && !h.childOnSide(hr.Bounds(), set.at(kids[0]).Bounds()) {
		return 0, false
	}

	if lc, ok := h.lastChild[key]; ok {
		for _, i := range kids {
			if set.at(i) == lc {
				return i, true
			}
		}
		// Stale memory is a cache miss, not an error.
	}
	return kids[0], true
}

// escapeTarget returns the group head to focus when escaping from the
// child at the given index. With requireEdge set (directional escape)
// the child must sit at the structural edge of its sibling group on
// the escape side and the head must lie on the configured side; Back
// escapes unconditionally.
func (h *hierarchy) escapeTarget(set *regionSet, child int, requireEdge bool) (int, bool) {
	cr := set.at(child)
	if cr == nil {
		return 0, false
	}
	key := cr.MemberOf()
	if key == "" {
		return 0, false
	}

	head, ok := set.headOf(key)
	if !ok || !set.at(head).Visible() {
		return 0, false
	}

	if requireEdge {
		if !h.atEscapeEdge(set, child, key) {
			return 0, false
		}
		if !h.headOnSide(set.at(head).Bounds(), cr.Bounds()) {
			return 0, false
		}
	}
	return head, true
}

// childOnSide checks the drill-in position constraint: the child's
// leading edge sits at or beyond the head's trailing edge, within
// tolerance.
func (h *hierarchy) childOnSide(head, child geometry.Rect) bool {
	if h.side == config.SideRight {
		return child.Right <= head.Left+h.tolerance
	}
	return child.Left >= head.Right-h.tolerance
}

// atEscapeEdge reports whether no visible sibling lies strictly beyond
// the child on the escape side.
func (h *hierarchy) atEscapeEdge(set *regionSet, child int, key string) bool {
	cb := set.at(child).Bounds()
	for _, i := range set.visibleChildren(key) {
		if i == child {
			continue
		}
		sb := set.at(i).Bounds()
		if h.side == config.SideRight {
			if sb.Right > cb.Right {
				return false
			}
		} else if sb.Left < cb.Left {
			return false
		}
	}
	return true
}

// headOnSide checks that the head's trailing edge does not overshoot
// the child's leading edge.
func (h *hierarchy) headOnSide(head, child geometry.Rect) bool {
	if h.side == config.SideRight {
		return head.Left >= child.Right-h.tolerance
	}
	return head.Right <= child.Left+h.tolerance
}

// remember records r as the last-visited child of its group. Regions
// without a member tag are ignored.
func (h *hierarchy) remember(r Region) {
	if r == nil {
		return
	}
	if key := r.MemberOf(); key != "" {
		h.lastChild[key] = r
	}
}

// revalidate drops memory entries for regions absent from the new set
// and seeds a default entry for any group that lacks one.
func (h *hierarchy) revalidate(set *regionSet) {
	for key, r := range h.lastChild {
		if _, ok := set.indexOf(r); !ok {
			delete(h.lastChild, key)
		}
	}
	for key := range set.groups {
		if _, ok := h.lastChild[key]; ok {
			continue
		}
		if kids := set.visibleChildren(key); len(kids) > 0 {
			h.lastChild[key] = set.at(kids[0])
		}
	}
}

func (h *hierarchy) reset() {
	h.lastChild = make(map[string]Region)
}
