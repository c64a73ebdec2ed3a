package engine

import "github.com/odvcencio/wayfinder/pkg/geometry"

// Region is one focusable, positioned unit the engine can land on. The
// host owns the identity; the engine only reads boxes and tags. Bounds
// are read on demand, never cached, so a moved region scores correctly
// on the next command.
//
// Region values are compared with == for identity, so hosts should
// implement Region with pointer types.
type Region interface {
	// Bounds returns the current axis-aligned bounding box, zeros if
	// the region is detached.
	Bounds() geometry.Rect
	// Visible reports whether the region currently renders at all.
	Visible() bool
	// GroupKey returns the key of the child group this region heads,
	// or "" if the region is not a group head.
	GroupKey() string
	// MemberOf returns the key of the group this region belongs to,
	// or "" if the region is not a child.
	MemberOf() string
}

// StrictVisibility is an optional Region refinement with a stricter
// visibility test (e.g. computed opacity). When every region fails the
// strict check the engine falls back to the loose Visible result, so a
// host with an over-eager strict check never strands the cursor.
type StrictVisibility interface {
	StrictlyVisible() bool
}

// Host is the environment the engine navigates. All calls are
// synchronous; PlaceFocus failure is reported as an error, never a
// panic.
type Host interface {
	// QueryRegions returns the focusable regions matching the selector
	// in document order. The selector string is opaque to the engine.
	QueryRegions(selector string) []Region

	// PlaceFocus transfers real host-level focus to the region.
	PlaceFocus(r Region) error

	// Decorate toggles the presentation marker on a region. Must be
	// idempotent.
	Decorate(r Region, focused bool)

	// FocusedRegion returns the region currently holding host focus,
	// or nil.
	FocusedRegion() Region

	// NotifySelect delivers a select on a region that did not drill in.
	NotifySelect(r Region)

	// ObserveFocus registers a handler for focus landing on r outside
	// the engine's own PlaceFocus calls. The returned func detaches
	// the handler.
	ObserveFocus(r Region, handler func(Region)) (remove func())
}
