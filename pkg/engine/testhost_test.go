package engine

import (
	"errors"

	"github.com/odvcencio/wayfinder/pkg/geometry"
)

// fakeRegion is a plain box with tags. Pointer identity matters, so
// tests always share the same *fakeRegion between host and assertions.
type fakeRegion struct {
	id      string
	rect    geometry.Rect
	visible bool
	group   string
	member  string
}

func (r *fakeRegion) Bounds() geometry.Rect { return r.rect }
func (r *fakeRegion) Visible() bool         { return r.visible }
func (r *fakeRegion) GroupKey() string      { return r.group }
func (r *fakeRegion) MemberOf() string      { return r.member }

func box(id string, left, top, right, bottom float64) *fakeRegion {
	return &fakeRegion{
		id:      id,
		rect:    geometry.NewRect(left, top, right, bottom),
		visible: true,
	}
}

// strictRegion layers the optional strict visibility check on top of a
// fakeRegion.
type strictRegion struct {
	fakeRegion
	strict bool
}

func (r *strictRegion) StrictlyVisible() bool { return r.strict }

// fakeHost records every interaction so tests can assert on side
// effects.
type fakeHost struct {
	regions   []Region
	focused   Region
	decorated map[Region]bool
	selects   []Region
	failFocus map[Region]bool
	observers map[Region][]func(Region)
	queries   int
	detached  int
}

func newFakeHost(regions ...Region) *fakeHost {
	return &fakeHost{
		regions:   regions,
		decorated: make(map[Region]bool),
		failFocus: make(map[Region]bool),
		observers: make(map[Region][]func(Region)),
	}
}

func (h *fakeHost) QueryRegions(selector string) []Region {
	h.queries++
	return h.regions
}

func (h *fakeHost) PlaceFocus(r Region) error {
	if h.failFocus[r] {
		return errors.New("host refused focus")
	}
	h.focused = r
	return nil
}

func (h *fakeHost) Decorate(r Region, focused bool) {
	if focused {
		h.decorated[r] = true
	} else {
		delete(h.decorated, r)
	}
}

func (h *fakeHost) FocusedRegion() Region { return h.focused }

func (h *fakeHost) NotifySelect(r Region) {
	h.selects = append(h.selects, r)
}

func (h *fakeHost) ObserveFocus(r Region, handler func(Region)) func() {
	h.observers[r] = append(h.observers[r], handler)
	return func() { h.detached++ }
}

// focusExternally simulates the host moving focus on its own, e.g.
// from a pointer event, and firing the region's observers.
func (h *fakeHost) focusExternally(r Region) {
	h.focused = r
	for _, handler := range h.observers[r] {
		handler(r)
	}
}

// decoratedCount returns how many regions currently carry the marker.
func (h *fakeHost) decoratedCount() int { return len(h.decorated) }

// newGrid builds the reference 2x2 layout and a started engine on it.
//
//	item1 (0,0)-(100,100)    item2 (120,0)-(220,100)
//	item3 (0,120)-(100,220)  item4 (120,120)-(220,220)
func newGrid() (*fakeHost, *Engine, []*fakeRegion) {
	items := []*fakeRegion{
		box("item1", 0, 0, 100, 100),
		box("item2", 120, 0, 220, 100),
		box("item3", 0, 120, 100, 220),
		box("item4", 120, 120, 220, 220),
	}
	host := newFakeHost(items[0], items[1], items[2], items[3])
	eng := New(Config{Host: host})
	if err := eng.Start(); err != nil {
		panic(err)
	}
	return host, eng, items
}

// newMenu builds a left-side group head with two children in a row to
// its right, plus a started engine.
//
//	head (0,0)-(100,100) [group menu]
//	c1 (120,0)-(220,100) [member menu]   c2 (240,0)-(340,100) [member menu]
func newMenu() (*fakeHost, *Engine, *fakeRegion, *fakeRegion, *fakeRegion) {
	head := box("head", 0, 0, 100, 100)
	head.group = "menu"
	c1 := box("c1", 120, 0, 220, 100)
	c1.member = "menu"
	c2 := box("c2", 240, 0, 340, 100)
	c2.member = "menu"

	host := newFakeHost(head, c1, c2)
	eng := New(Config{Host: host})
	if err := eng.Start(); err != nil {
		panic(err)
	}
	return host, eng, head, c1, c2
}
