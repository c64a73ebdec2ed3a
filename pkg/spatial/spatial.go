// Package spatial implements the directional nearest-candidate search:
// given a current box, a travel direction, and a set of candidate boxes,
// it picks the best next box to focus. The search is a greedy
// nearest-neighbor heuristic, deterministic for a fixed candidate order
// and fixed rectangles.
package spatial

import (
	"math"

	"github.com/odvcencio/wayfinder/pkg/geometry"
)

// Candidate pairs a region-set index with its current bounding box.
// The caller excludes the current region and anything not visible.
type Candidate struct {
	Index int
	Rect  geometry.Rect
}

// Params are the scoring weights. The relative ordering is the
// contract: ProjectionPenalty > 1 > AlignBonus. The literals are
// tunable defaults, not load-bearing constants.
type Params struct {
	// CrossAxisWeight scales misalignment on the axis perpendicular to
	// travel; the primary axis dominates the distance.
	CrossAxisWeight float64
	// AlignBonus multiplies the distance when the cross-axis delta is
	// smaller than AlignFraction of the smaller rect's cross extent.
	AlignBonus float64
	// AlignFraction is the near-perfect-alignment threshold.
	AlignFraction float64
	// ProjectionPenalty multiplies the distance when the clamped
	// projection of travel misses the candidate's own cross-axis span.
	ProjectionPenalty float64
}

// DefaultParams returns the standard scoring weights.
func DefaultParams() Params {
	return Params{
		CrossAxisWeight:   0.3,
		AlignBonus:        0.8,
		AlignFraction:     0.25,
		ProjectionPenalty: 1.5,
	}
}

// Normalize fills zero-valued fields with defaults so a partially
// configured Params is still usable.
func (p Params) Normalize() Params {
	def := DefaultParams()
	if p.CrossAxisWeight <= 0 {
		p.CrossAxisWeight = def.CrossAxisWeight
	}
	if p.AlignBonus <= 0 {
		p.AlignBonus = def.AlignBonus
	}
	if p.AlignFraction <= 0 {
		p.AlignFraction = def.AlignFraction
	}
	if p.ProjectionPenalty <= 0 {
		p.ProjectionPenalty = def.ProjectionPenalty
	}
	return p
}

// FindNext returns the index of the best candidate in the given travel
// direction, or false if no candidate is eligible. Ties break toward
// the first enumerated candidate, so callers pass candidates in region
// set order.
func FindNext(current geometry.Rect, dir geometry.Direction, candidates []Candidate, p Params) (int, bool) {
	cur := current.Center()

	best := -1
	var bestScore float64

	for _, cand := range candidates {
		cc := cand.Rect.Center()
		dx := cc.X - cur.X
		dy := cc.Y - cur.Y

		if !onCorrectSide(dx, dy, dir) {
			continue
		}
		if dir.Horizontal() {
			if !current.OverlapsY(cand.Rect) {
				continue
			}
		} else {
			if !current.OverlapsX(cand.Rect) {
				continue
			}
		}

		s := score(current, cand.Rect, dx, dy, dir, p)
		if best == -1 || s < bestScore {
			best = cand.Index
			bestScore = s
		}
	}

	if best == -1 {
		return 0, false
	}
	return best, true
}

// onCorrectSide requires the candidate center to lie strictly on the
// travel side of the current center.
func onCorrectSide(dx, dy float64, dir geometry.Direction) bool {
	switch dir {
	case geometry.DirUp:
		return dy < 0
	case geometry.DirDown:
		return dy > 0
	case geometry.DirLeft:
		return dx < 0
	case geometry.DirRight:
		return dx > 0
	default:
		return false
	}
}

func score(current, candidate geometry.Rect, dx, dy float64, dir geometry.Direction, p Params) float64 {
	var primary, cross float64
	if dir.Horizontal() {
		primary = math.Abs(dx)
		cross = math.Abs(dy)
	} else {
		primary = math.Abs(dy)
		cross = math.Abs(dx)
	}

	dist := primary + p.CrossAxisWeight*cross

	// Reward near-perfect alignment on the cross axis.
	if cross < p.AlignFraction*minCrossExtent(current, candidate, dir) {
		dist *= p.AlignBonus
	}

	// Penalize candidates whose body is not reachable along the travel
	// line even though their center looks aligned.
	proj := geometry.Projection(current, candidate, dir)
	if dir.Horizontal() {
		if !candidate.ContainsY(proj) {
			dist *= p.ProjectionPenalty
		}
	} else {
		if !candidate.ContainsX(proj) {
			dist *= p.ProjectionPenalty
		}
	}

	return dist
}

// minCrossExtent returns the smaller of the two rects' extents on the
// axis perpendicular to travel.
func minCrossExtent(a, b geometry.Rect, dir geometry.Direction) float64 {
	if dir.Horizontal() {
		return math.Min(a.Height, b.Height)
	}
	return math.Min(a.Width, b.Width)
}
