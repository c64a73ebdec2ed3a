package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLayout = `
boxes:
  - id: menu
    x: 0
    y: 0
    w: 20
    h: 10
    group: main
  - id: item-a
    x: 24
    y: 0
    w: 20
    h: 10
    member: main
  - x: 48
    y: 0
    w: 20
    h: 10
    member: main
  - id: footer
    x: 0
    y: 12
    w: 68
    h: 4
    hidden: true
`

func TestParse(t *testing.T) {
	l, err := Parse([]byte(sampleLayout))
	require.NoError(t, err)
	require.Len(t, l.Boxes, 4)

	assert.Equal(t, "menu", l.Boxes[0].ID)
	assert.Equal(t, "main", l.Boxes[0].Group)
	assert.Equal(t, "main", l.Boxes[1].Member)
	assert.True(t, l.Boxes[3].Hidden)

	// The third box omitted its id and got a generated one.
	assert.NotEmpty(t, l.Boxes[2].ID)
	assert.NotEqual(t, l.Boxes[1].ID, l.Boxes[2].ID)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleLayout), 0o644))

	l, err := Load(path)
	require.NoError(t, err)

	b, ok := l.ByID("item-a")
	require.True(t, ok)
	assert.Equal(t, 24.0, b.X)

	_, ok = l.ByID("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"main"}, l.Groups())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"bad yaml", "boxes: ["},
		{"duplicate id", `
boxes:
  - {id: a, x: 0, y: 0, w: 10, h: 10}
  - {id: a, x: 20, y: 0, w: 10, h: 10}
`},
		{"zero size", `
boxes:
  - {id: a, x: 0, y: 0, w: 0, h: 10}
`},
		{"self group", `
boxes:
  - {id: a, x: 0, y: 0, w: 10, h: 10, group: g, member: g}
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.in))
			assert.Error(t, err)
		})
	}
}
