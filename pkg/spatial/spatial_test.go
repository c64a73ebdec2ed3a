package spatial

import (
	"testing"

	"github.com/odvcencio/wayfinder/pkg/geometry"
)

// gridCandidates is the reference 2x2 layout:
//
//	item1 (0,0)-(100,100)    item2 (120,0)-(220,100)
//	item3 (0,120)-(100,220)  item4 (120,120)-(220,220)
func gridCandidates(exclude int) []Candidate {
	rects := []geometry.Rect{
		geometry.NewRect(0, 0, 100, 100),
		geometry.NewRect(120, 0, 220, 100),
		geometry.NewRect(0, 120, 100, 220),
		geometry.NewRect(120, 120, 220, 220),
	}
	var out []Candidate
	for i, r := range rects {
		if i == exclude {
			continue
		}
		out = append(out, Candidate{Index: i, Rect: r})
	}
	return out
}

func gridRect(i int) geometry.Rect {
	rects := []geometry.Rect{
		geometry.NewRect(0, 0, 100, 100),
		geometry.NewRect(120, 0, 220, 100),
		geometry.NewRect(0, 120, 100, 220),
		geometry.NewRect(120, 120, 220, 220),
	}
	return rects[i]
}

func TestFindNext_GridRight(t *testing.T) {
	got, ok := FindNext(gridRect(0), geometry.DirRight, gridCandidates(0), DefaultParams())
	if !ok {
		t.Fatal("expected a candidate")
	}
	if got != 1 {
		t.Errorf("right from item1 = item%d, want item2", got+1)
	}
}

func TestFindNext_GridDown(t *testing.T) {
	got, ok := FindNext(gridRect(0), geometry.DirDown, gridCandidates(0), DefaultParams())
	if !ok {
		t.Fatal("expected a candidate")
	}
	if got != 2 {
		t.Errorf("down from item1 = item%d, want item3", got+1)
	}
}

func TestFindNext_GridRightThenDown(t *testing.T) {
	// From item2 (after moving right from item1), down lands on item4.
	got, ok := FindNext(gridRect(1), geometry.DirDown, gridCandidates(1), DefaultParams())
	if !ok {
		t.Fatal("expected a candidate")
	}
	if got != 3 {
		t.Errorf("down from item2 = item%d, want item4", got+1)
	}
}

func TestFindNext_DiagonalExcludedByCrossOverlap(t *testing.T) {
	// item4 is below-right of item1 with no horizontal span overlap, so
	// it must never win a pure "down" from item1 even with item3 gone.
	cands := []Candidate{{Index: 3, Rect: gridRect(3)}}
	_, ok := FindNext(gridRect(0), geometry.DirDown, cands, DefaultParams())
	if ok {
		t.Error("item4 should not be reachable going down from item1")
	}
}

func TestFindNext_Deterministic(t *testing.T) {
	first, ok := FindNext(gridRect(0), geometry.DirRight, gridCandidates(0), DefaultParams())
	if !ok {
		t.Fatal("expected a candidate")
	}
	for i := 0; i < 10; i++ {
		got, ok := FindNext(gridRect(0), geometry.DirRight, gridCandidates(0), DefaultParams())
		if !ok || got != first {
			t.Fatalf("call %d returned (%d, %v), want (%d, true)", i, got, ok, first)
		}
	}
}

func TestFindNext_DirectionSoundness(t *testing.T) {
	center := geometry.NewRect(120, 120, 220, 220) // item4
	cands := gridCandidates(3)
	cur := center.Center()

	dirs := []geometry.Direction{geometry.DirUp, geometry.DirDown, geometry.DirLeft, geometry.DirRight}
	for _, dir := range dirs {
		got, ok := FindNext(center, dir, cands, DefaultParams())
		if !ok {
			continue
		}
		cc := gridRect(got).Center()
		switch dir {
		case geometry.DirUp:
			if cc.Y >= cur.Y {
				t.Errorf("up returned candidate at y=%v, not above %v", cc.Y, cur.Y)
			}
		case geometry.DirDown:
			if cc.Y <= cur.Y {
				t.Errorf("down returned candidate at y=%v, not below %v", cc.Y, cur.Y)
			}
		case geometry.DirLeft:
			if cc.X >= cur.X {
				t.Errorf("left returned candidate at x=%v, not left of %v", cc.X, cur.X)
			}
		case geometry.DirRight:
			if cc.X <= cur.X {
				t.Errorf("right returned candidate at x=%v, not right of %v", cc.X, cur.X)
			}
		}
	}
}

func TestFindNext_NoEligibleCandidate(t *testing.T) {
	if _, ok := FindNext(gridRect(0), geometry.DirUp, gridCandidates(0), DefaultParams()); ok {
		t.Error("nothing lies above item1")
	}
	if _, ok := FindNext(gridRect(0), geometry.DirLeft, gridCandidates(0), DefaultParams()); ok {
		t.Error("nothing lies left of item1")
	}
	if _, ok := FindNext(gridRect(0), geometry.DirRight, nil, DefaultParams()); ok {
		t.Error("empty candidate set should return false")
	}
}

func TestFindNext_TieBreakFirstEnumeratedWins(t *testing.T) {
	current := geometry.XYWH(0, 0, 100, 100)
	twin := geometry.XYWH(150, 0, 100, 100)

	cands := []Candidate{
		{Index: 7, Rect: twin},
		{Index: 3, Rect: twin},
	}
	got, ok := FindNext(current, geometry.DirRight, cands, DefaultParams())
	if !ok {
		t.Fatal("expected a candidate")
	}
	if got != 7 {
		t.Errorf("tie returned index %d, want first-enumerated 7", got)
	}
}

func TestFindNext_AlignmentBonusPrefersAligned(t *testing.T) {
	current := geometry.XYWH(0, 0, 100, 100)

	// aligned is farther on the primary axis but perfectly aligned;
	// offset is closer but pays the cross-axis weight with no bonus.
	aligned := Candidate{Index: 0, Rect: geometry.XYWH(150, 0, 100, 100)}
	offset := Candidate{Index: 1, Rect: geometry.XYWH(120, 60, 100, 100)}

	got, ok := FindNext(current, geometry.DirRight, []Candidate{offset, aligned}, DefaultParams())
	if !ok {
		t.Fatal("expected a candidate")
	}
	if got != 0 {
		t.Errorf("got index %d, want aligned candidate 0", got)
	}
}

func TestParams_Normalize(t *testing.T) {
	p := Params{}.Normalize()
	def := DefaultParams()
	if p != def {
		t.Errorf("Normalize() of zero params = %+v, want defaults %+v", p, def)
	}

	custom := Params{CrossAxisWeight: 0.5, AlignBonus: 0.9, AlignFraction: 0.1, ProjectionPenalty: 2}
	if got := custom.Normalize(); got != custom {
		t.Errorf("Normalize() changed fully specified params: %+v", got)
	}
}
