package engine

import "github.com/odvcencio/wayfinder/pkg/spatial"

// group holds the index structure for one relationship key.
type group struct {
	head     int   // index of the group head, -1 if only children carry the key
	children []int // child indices in document order
}

// regionSet is an immutable snapshot of the host's regions with the
// group index prebuilt. Replaced wholesale on every refresh; indices
// are stable for the snapshot's lifetime.
type regionSet struct {
	regions []Region
	index   map[Region]int
	groups  map[string]*group
}

func newRegionSet(regions []Region) *regionSet {
	s := &regionSet{
		regions: regions,
		index:   make(map[Region]int, len(regions)),
		groups:  make(map[string]*group),
	}
	for i, r := range regions {
		if _, dup := s.index[r]; !dup {
			s.index[r] = i
		}
		if key := r.GroupKey(); key != "" {
			g := s.group(key)
			if g.head == -1 {
				g.head = i
			}
		}
		if key := r.MemberOf(); key != "" {
			s.group(key).children = append(s.group(key).children, i)
		}
	}
	return s
}

func (s *regionSet) group(key string) *group {
	g, ok := s.groups[key]
	if !ok {
		g = &group{head: -1}
		s.groups[key] = g
	}
	return g
}

func (s *regionSet) len() int { return len(s.regions) }

func (s *regionSet) at(i int) Region {
	if i < 0 || i >= len(s.regions) {
		return nil
	}
	return s.regions[i]
}

func (s *regionSet) indexOf(r Region) (int, bool) {
	if r == nil {
		return 0, false
	}
	i, ok := s.index[r]
	return i, ok
}

// firstVisible returns the index of the first visible region in
// document order, or -1.
func (s *regionSet) firstVisible() int {
	for i, r := range s.regions {
		if r.Visible() {
			return i
		}
	}
	return -1
}

// candidates returns the spatial candidates for a move away from the
// region at exclude. The strict visibility check is applied first; if
// it filters everything out, the loose check is used instead.
func (s *regionSet) candidates(exclude int) []spatial.Candidate {
	strict := make([]spatial.Candidate, 0, len(s.regions))
	loose := make([]spatial.Candidate, 0, len(s.regions))
	for i, r := range s.regions {
		if i == exclude || !r.Visible() {
			continue
		}
		c := spatial.Candidate{Index: i, Rect: r.Bounds()}
		loose = append(loose, c)
		if sv, ok := r.(StrictVisibility); !ok || sv.StrictlyVisible() {
			strict = append(strict, c)
		}
	}
	if len(strict) > 0 {
		return strict
	}
	return loose
}

// visibleChildren returns the visible child indices of a group in
// document order.
func (s *regionSet) visibleChildren(key string) []int {
	g, ok := s.groups[key]
	if !ok {
		return nil
	}
	var out []int
	for _, i := range g.children {
		if s.regions[i].Visible() {
			out = append(out, i)
		}
	}
	return out
}

// headOf returns the index of a group's head region.
func (s *regionSet) headOf(key string) (int, bool) {
	g, ok := s.groups[key]
	if !ok || g.head == -1 {
		return 0, false
	}
	return g.head, true
}
