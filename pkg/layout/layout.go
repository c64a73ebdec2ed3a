// Package layout loads declarative region layouts for the demo host.
// A layout file is a YAML list of boxes with positions and optional
// group tags; the engine itself never reads these files.
package layout

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Box is one declared region.
type Box struct {
	// ID identifies the box across reloads; assigned when omitted.
	ID string `yaml:"id"`

	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`

	// Group marks the box as a drill-in head for the named group.
	Group string `yaml:"group,omitempty"`
	// Member marks the box as a child of the named group.
	Member string `yaml:"member,omitempty"`
	// Hidden boxes stay in the layout but never receive focus.
	Hidden bool `yaml:"hidden,omitempty"`
}

// Layout is an ordered set of boxes. Order is document order for the
// engine's region set.
type Layout struct {
	Boxes []Box `yaml:"boxes"`
}

// Load reads and validates a layout file. Boxes without an id get a
// generated one, so every box is addressable across reloads.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout: %w", err)
	}
	return Parse(data)
}

// Parse parses layout YAML.
func Parse(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}
	if err := l.normalize(); err != nil {
		return nil, err
	}
	return &l, nil
}

func (l *Layout) normalize() error {
	seen := make(map[string]bool, len(l.Boxes))
	for i := range l.Boxes {
		b := &l.Boxes[i]
		if strings.TrimSpace(b.ID) == "" {
			b.ID = uuid.NewString()
		}
		if seen[b.ID] {
			return fmt.Errorf("duplicate box id %q", b.ID)
		}
		seen[b.ID] = true

		if b.W <= 0 || b.H <= 0 {
			return fmt.Errorf("box %q has non-positive size %gx%g", b.ID, b.W, b.H)
		}
		if b.Group != "" && b.Group == b.Member {
			return fmt.Errorf("box %q heads the group it belongs to", b.ID)
		}
	}
	return nil
}

// ByID returns the box with the given id.
func (l *Layout) ByID(id string) (*Box, bool) {
	for i := range l.Boxes {
		if l.Boxes[i].ID == id {
			return &l.Boxes[i], true
		}
	}
	return nil, false
}

// Groups returns the group keys declared by heads, in document order.
func (l *Layout) Groups() []string {
	var keys []string
	seen := make(map[string]bool)
	for _, b := range l.Boxes {
		if b.Group != "" && !seen[b.Group] {
			seen[b.Group] = true
			keys = append(keys, b.Group)
		}
	}
	return keys
}
