// Package ui is the interactive terminal host for the navigation
// engine. Boxes from a layout file become regions on a tcell screen;
// the engine decides where focus goes, the host draws it.
package ui

import (
	"fmt"

	"github.com/odvcencio/wayfinder/pkg/engine"
	"github.com/odvcencio/wayfinder/pkg/geometry"
	"github.com/odvcencio/wayfinder/pkg/layout"
)

// Box is one rendered region. It implements engine.Region; identity is
// the pointer, continuity across reloads is the id.
type Box struct {
	id     string
	rect   geometry.Rect
	group  string
	member string
	hidden bool
}

func newBox(b layout.Box) *Box {
	return &Box{
		id:     b.ID,
		rect:   geometry.XYWH(b.X, b.Y, b.W, b.H),
		group:  b.Group,
		member: b.Member,
		hidden: b.Hidden,
	}
}

// ID returns the box's layout id.
func (b *Box) ID() string { return b.id }

func (b *Box) Bounds() geometry.Rect { return b.rect }
func (b *Box) Visible() bool         { return !b.hidden }
func (b *Box) GroupKey() string      { return b.group }
func (b *Box) MemberOf() string      { return b.member }

type observer struct {
	id      int
	handler func(engine.Region)
}

// Host implements engine.Host over a layout. Not goroutine-safe; all
// calls come from the app's event loop.
type Host struct {
	boxes     []*Box
	focused   *Box
	decorated map[*Box]bool
	observers map[*Box][]observer
	nextObs   int
	onSelect  func(*Box)
}

// NewHost builds a host from a layout. onSelect receives selects that
// did not drill into a group; nil is allowed.
func NewHost(l *layout.Layout, onSelect func(*Box)) *Host {
	h := &Host{
		decorated: make(map[*Box]bool),
		observers: make(map[*Box][]observer),
		onSelect:  onSelect,
	}
	h.boxes = boxesOf(l)
	return h
}

func boxesOf(l *layout.Layout) []*Box {
	out := make([]*Box, 0, len(l.Boxes))
	for _, b := range l.Boxes {
		out = append(out, newBox(b))
	}
	return out
}

// QueryRegions returns every box in layout order. The selector is part
// of the engine contract but this host has nothing to filter by; all
// of its boxes opted in by being in the layout.
func (h *Host) QueryRegions(selector string) []engine.Region {
	out := make([]engine.Region, len(h.boxes))
	for i, b := range h.boxes {
		out[i] = b
	}
	return out
}

// PlaceFocus moves host focus to the box. Hidden or foreign regions
// are refused.
func (h *Host) PlaceFocus(r engine.Region) error {
	b, ok := r.(*Box)
	if !ok || b == nil {
		return fmt.Errorf("ui: focus target is not a box")
	}
	if !h.owns(b) {
		return fmt.Errorf("ui: box %q is not in the current layout", b.id)
	}
	if b.hidden {
		return fmt.Errorf("ui: box %q is hidden", b.id)
	}
	h.focused = b
	return nil
}

// Decorate toggles the focus marker used at render time.
func (h *Host) Decorate(r engine.Region, focused bool) {
	b, ok := r.(*Box)
	if !ok || b == nil {
		return
	}
	if focused {
		h.decorated[b] = true
	} else {
		delete(h.decorated, b)
	}
}

// FocusedRegion returns the focused box. The nil check matters: a
// typed-nil *Box inside the interface would read as focused.
func (h *Host) FocusedRegion() engine.Region {
	if h.focused == nil {
		return nil
	}
	return h.focused
}

// NotifySelect forwards a select to the app callback.
func (h *Host) NotifySelect(r engine.Region) {
	b, ok := r.(*Box)
	if !ok || h.onSelect == nil {
		return
	}
	h.onSelect(b)
}

// ObserveFocus registers a handler for externally placed focus.
func (h *Host) ObserveFocus(r engine.Region, handler func(engine.Region)) func() {
	b, ok := r.(*Box)
	if !ok || b == nil {
		return func() {}
	}
	h.nextObs++
	id := h.nextObs
	h.observers[b] = append(h.observers[b], observer{id: id, handler: handler})
	return func() {
		obs := h.observers[b]
		for i := range obs {
			if obs[i].id == id {
				h.observers[b] = append(obs[:i], obs[i+1:]...)
				return
			}
		}
	}
}

// FocusExternally places focus from outside the engine, e.g. a mouse
// click, and fires the box's observers so the engine reconciles.
func (h *Host) FocusExternally(b *Box) {
	if b == nil || b.hidden || !h.owns(b) {
		return
	}
	h.focused = b
	for _, o := range h.observers[b] {
		o.handler(b)
	}
}

// BoxAt hit-tests a point against visible boxes, last match wins so
// boxes drawn later sit on top.
func (h *Host) BoxAt(x, y float64) *Box {
	var hit *Box
	for _, b := range h.boxes {
		if b.hidden {
			continue
		}
		r := b.rect
		if x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom {
			hit = b
		}
	}
	return hit
}

// Reload swaps in a new layout. Focus and decoration carry over to the
// boxes with the same ids; boxes that disappeared drop out.
func (h *Host) Reload(l *layout.Layout) {
	h.boxes = boxesOf(l)

	byID := make(map[string]*Box, len(h.boxes))
	for _, b := range h.boxes {
		byID[b.id] = b
	}

	if h.focused != nil {
		h.focused = byID[h.focused.id]
	}

	decorated := make(map[*Box]bool, len(h.decorated))
	for b := range h.decorated {
		if nb, ok := byID[b.id]; ok {
			decorated[nb] = true
		}
	}
	h.decorated = decorated
}

// Boxes returns the current boxes in layout order.
func (h *Host) Boxes() []*Box { return h.boxes }

// Decorated reports whether the box carries the focus marker.
func (h *Host) Decorated(b *Box) bool { return h.decorated[b] }

func (h *Host) owns(b *Box) bool {
	for _, have := range h.boxes {
		if have == b {
			return true
		}
	}
	return false
}
