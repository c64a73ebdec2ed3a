// Package engine is the focus state machine: it owns the region set,
// the focus cursor, and the last-visited-child memory, and exposes the
// command entry points the host drives. Hierarchy checks run first;
// anything they decline falls through to the spatial search.
package engine

import (
	"errors"
	"time"

	"github.com/odvcencio/wayfinder/pkg/config"
	"github.com/odvcencio/wayfinder/pkg/geometry"
	"github.com/odvcencio/wayfinder/pkg/logging"
	"github.com/odvcencio/wayfinder/pkg/spatial"
	"github.com/odvcencio/wayfinder/pkg/telemetry"
)

// ErrDestroyed is returned by Start after Teardown.
var ErrDestroyed = errors.New("engine: destroyed")

// Phase is the engine lifecycle state.
type Phase int

const (
	// PhaseScanning means no region scan has completed yet.
	PhaseScanning Phase = iota
	// PhaseFocusPending means the set is scanned but no focus has been
	// successfully placed. Commands retry initial focus from here.
	PhaseFocusPending
	// PhaseSettled means the engine holds an active region.
	PhaseSettled
	// PhaseDestroyed is terminal; every command is a no-op.
	PhaseDestroyed
)

func (p Phase) String() string {
	switch p {
	case PhaseScanning:
		return "scanning"
	case PhaseFocusPending:
		return "focus-pending"
	case PhaseSettled:
		return "settled"
	case PhaseDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Config configures an Engine. Host is required; a nil Settings falls
// back to config.DefaultConfig and a nil Logger drops all events.
type Config struct {
	Host     Host
	Settings *config.Config
	Logger   *logging.Logger
}

// Engine is a single focus state machine instance. It is not
// goroutine-safe: the host delivers commands one at a time from its
// own event dispatch, and each runs to completion synchronously.
// Re-entrant commands from decoration or focus callbacks are permitted
// because state is committed before side effects fire.
type Engine struct {
	host     Host
	settings *config.Config
	logger   *logging.Logger
	params   spatial.Params

	phase Phase
	set   *regionSet
	hier  *hierarchy

	currentIndex        int
	activeRegion        Region
	previouslyDecorated Region

	removeHooks []func()

	// inert is set when construction finds a misconfiguration; the
	// engine then behaves as if every scan came back empty.
	inert bool
}

// New creates an engine bound to a host. A misconfigured Settings is
// logged once and leaves the engine inert rather than failing hard.
func New(cfg Config) *Engine {
	settings := cfg.Settings
	if settings == nil {
		settings = config.DefaultConfig()
	}

	e := &Engine{
		host:     cfg.Host,
		settings: settings,
		logger:   cfg.Logger,
		params: spatial.Params{
			CrossAxisWeight:   settings.Scoring.CrossAxisWeight,
			AlignBonus:        settings.Scoring.AlignBonus,
			AlignFraction:     settings.Scoring.AlignFraction,
			ProjectionPenalty: settings.Scoring.ProjectionPenalty,
		}.Normalize(),
		phase:        PhaseScanning,
		set:          newRegionSet(nil),
		hier:         newHierarchy(settings.ParentSide, settings.EdgeTolerance),
		currentIndex: -1,
	}

	if cfg.Host == nil {
		e.logger.Error(logging.CategoryConfig, "missing_host", "engine created without a host", nil)
		e.inert = true
	} else if err := settings.Validate(); err != nil {
		e.logger.Error(logging.CategoryConfig, "invalid_config", err.Error(), nil)
		e.inert = true
	}
	return e
}

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() Phase { return e.phase }

// Current returns the engine's active region, or nil.
func (e *Engine) Current() Region { return e.activeRegion }

// Regions returns the regions of the current snapshot in document order.
func (e *Engine) Regions() []Region {
	out := make([]Region, e.set.len())
	copy(out, e.set.regions)
	return out
}

// Start runs the scan and initial focus placement as one bootstrap
// step. If no focus can be placed yet the engine stays in
// focus-pending and any later command retries. Safe to call again
// while pending.
func (e *Engine) Start() error {
	if e.phase == PhaseDestroyed {
		return ErrDestroyed
	}
	if e.inert {
		return nil
	}
	e.RefreshRegions()
	if e.phase == PhaseScanning {
		e.phase = PhaseFocusPending
	}
	e.SetInitialFocus()
	return nil
}

// RefreshRegions re-scans the host, replaces the region snapshot, and
// re-attaches focus observers. Focus does not move, but state that
// points at a region no longer in the set is cleared.
func (e *Engine) RefreshRegions() {
	if e.phase == PhaseDestroyed || e.inert {
		return
	}

	e.detachHooks()
	e.set = newRegionSet(e.host.QueryRegions(e.settings.Selector))
	telemetry.SetRegionCount(int64(e.set.len()))

	if e.activeRegion != nil {
		if idx, ok := e.set.indexOf(e.activeRegion); ok {
			e.currentIndex = idx
		} else {
			e.currentIndex = -1
			e.activeRegion = nil
			if e.phase == PhaseSettled {
				e.phase = PhaseFocusPending
			}
		}
	}
	if e.previouslyDecorated != nil {
		if _, ok := e.set.indexOf(e.previouslyDecorated); !ok {
			e.previouslyDecorated = nil
		}
	}

	e.hier.revalidate(e.set)

	for _, r := range e.set.regions {
		e.removeHooks = append(e.removeHooks, e.host.ObserveFocus(r, e.noteExternalFocus))
	}

	e.logger.Debug(logging.CategoryEngine, "regions_refreshed", "", map[string]any{
		"count":  e.set.len(),
		"groups": len(e.set.groups),
	})
}

// SetInitialFocus places focus on the host's already-focused region if
// it is a member of the set, otherwise on the first visible region
// (index 0 when nothing reports visible). Placement failure is logged
// and leaves the engine pending.
func (e *Engine) SetInitialFocus() {
	if e.phase == PhaseDestroyed || e.inert || e.set.len() == 0 {
		return
	}

	if hosted := e.host.FocusedRegion(); hosted != nil {
		if idx, ok := e.set.indexOf(hosted); ok {
			e.commit(idx, hosted)
			return
		}
	}

	idx := e.set.firstVisible()
	if idx == -1 {
		idx = 0
	}
	if !e.focusRegion(idx) {
		e.logger.Warn(logging.CategoryEngine, "initial_focus_failed", "", map[string]any{
			"index": idx,
		})
	}
}

// Move resolves one directional command. Hierarchy overrides are
// checked first; otherwise the nearest spatial candidate wins. Returns
// true if focus changed.
func (e *Engine) Move(dir geometry.Direction) bool {
	if e.phase == PhaseDestroyed || e.inert {
		return false
	}
	start := time.Now()
	defer func() { telemetry.RecordResolveDuration(time.Since(start)) }()

	cur := e.resolveCurrent()
	if cur == -1 {
		return false
	}

	if dir == e.hier.drillDirection() {
		if target, ok := e.hier.drillTarget(e.set, cur, true); ok {
			if e.focusRegion(target) {
				telemetry.RecordDrillIn()
				e.logger.Debug(logging.CategoryHierarchy, "drill_in", "", map[string]any{
					"direction": dir.String(),
				})
				return true
			}
			return false
		}
	}
	if dir == e.hier.escapeDirection() {
		if target, ok := e.hier.escapeTarget(e.set, cur, true); ok {
			if e.focusRegion(target) {
				telemetry.RecordEscape()
				e.logger.Debug(logging.CategoryHierarchy, "escape", "", map[string]any{
					"direction": dir.String(),
				})
				return true
			}
			return false
		}
	}

	target, ok := spatial.FindNext(e.set.at(cur).Bounds(), dir, e.set.candidates(cur), e.params)
	if !ok {
		return false
	}
	if !e.focusRegion(target) {
		return false
	}
	telemetry.RecordMove(dir.String())
	return true
}

// Select drills into the current region's child group when it heads
// one, suppressing the host's select callback; otherwise the callback
// fires with the current region. Returns true unless nothing happened.
func (e *Engine) Select() bool {
	if e.phase == PhaseDestroyed || e.inert {
		return false
	}
	start := time.Now()
	defer func() { telemetry.RecordResolveDuration(time.Since(start)) }()

	cur := e.resolveCurrent()
	if cur == -1 {
		return false
	}

	if target, ok := e.hier.drillTarget(e.set, cur, false); ok {
		// Drilling and selecting are mutually exclusive outcomes of
		// one command: a failed placement is a full no-op, not a
		// fallback to the callback.
		if e.focusRegion(target) {
			telemetry.RecordDrillIn()
			return true
		}
		return false
	}

	e.host.NotifySelect(e.set.at(cur))
	telemetry.RecordSelect()
	return true
}

// Back escapes from a child region to its group head, regardless of
// the child's position within the sibling row. A no-op anywhere else.
func (e *Engine) Back() bool {
	if e.phase == PhaseDestroyed || e.inert {
		return false
	}
	start := time.Now()
	defer func() { telemetry.RecordResolveDuration(time.Since(start)) }()

	cur := e.resolveCurrent()
	if cur == -1 {
		return false
	}

	target, ok := e.hier.escapeTarget(e.set, cur, false)
	if !ok {
		return false
	}
	if !e.focusRegion(target) {
		return false
	}
	telemetry.RecordEscape()
	return true
}

// Teardown detaches observers, clears decoration and all state, and
// moves the engine to its terminal phase. Idempotent; every later
// command is a silent no-op.
func (e *Engine) Teardown() {
	if e.phase == PhaseDestroyed {
		return
	}

	e.detachHooks()
	if e.previouslyDecorated != nil && e.host != nil {
		e.host.Decorate(e.previouslyDecorated, false)
	}

	e.currentIndex = -1
	e.activeRegion = nil
	e.previouslyDecorated = nil
	e.set = newRegionSet(nil)
	e.hier.reset()
	e.phase = PhaseDestroyed

	e.logger.Info(logging.CategoryEngine, "teardown", "", nil)
}

// resolveCurrent picks the effective current region for a command. The
// engine's own active region is authoritative; host-reported focus is
// adopted only when the engine holds none. Falls back to the first
// visible region, retrying initial focus while pending.
func (e *Engine) resolveCurrent() int {
	if e.activeRegion != nil {
		if idx, ok := e.set.indexOf(e.activeRegion); ok {
			return idx
		}
		e.currentIndex = -1
		e.activeRegion = nil
	}

	if hosted := e.host.FocusedRegion(); hosted != nil {
		if idx, ok := e.set.indexOf(hosted); ok {
			e.currentIndex = idx
			e.activeRegion = hosted
			return idx
		}
	}

	if e.currentIndex >= 0 && e.currentIndex < e.set.len() {
		return e.currentIndex
	}

	if e.phase == PhaseFocusPending {
		e.SetInitialFocus()
		if e.activeRegion != nil {
			return e.currentIndex
		}
	}
	return e.set.firstVisible()
}

// noteExternalFocus reconciles focus the host placed on its own, e.g.
// from a pointer event. No PlaceFocus round-trip; the engine adopts
// the region and runs the usual decoration swap.
func (e *Engine) noteExternalFocus(r Region) {
	if e.phase == PhaseDestroyed || e.inert {
		return
	}
	idx, ok := e.set.indexOf(r)
	if !ok || e.activeRegion == r {
		return
	}
	e.logger.Debug(logging.CategoryHost, "external_focus", "", map[string]any{
		"index": idx,
	})
	e.commit(idx, r)
}

// focusRegion asks the host to place focus and commits on success.
// Placement failure is logged, counted, and leaves state untouched.
func (e *Engine) focusRegion(idx int) bool {
	r := e.set.at(idx)
	if r == nil {
		return false
	}
	if err := e.host.PlaceFocus(r); err != nil {
		telemetry.RecordPlacementFailure()
		e.logger.Warn(logging.CategoryHost, "placement_failed", err.Error(), map[string]any{
			"index": idx,
		})
		return false
	}
	e.commit(idx, r)
	return true
}

// commit updates the focus state and then runs the decoration swap.
// State goes first so a re-entrant command from a host callback
// observes the new current region.
func (e *Engine) commit(idx int, r Region) {
	e.currentIndex = idx
	e.activeRegion = r
	e.hier.remember(r)
	if e.phase == PhaseFocusPending {
		e.phase = PhaseSettled
	}

	prev := e.previouslyDecorated
	e.previouslyDecorated = r
	if prev != nil && prev != r {
		e.host.Decorate(prev, false)
	}
	e.host.Decorate(r, true)

	e.logger.Debug(logging.CategoryEngine, "focus_changed", "", map[string]any{
		"index": idx,
	})
}

func (e *Engine) detachHooks() {
	for _, remove := range e.removeHooks {
		if remove != nil {
			remove()
		}
	}
	e.removeHooks = nil
}
