package telemetry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	c := NewCounter("test_counter", Labels{"kind": "unit"})
	assert.Equal(t, int64(0), c.Get())

	c.Inc()
	c.Add(4)
	assert.Equal(t, int64(5), c.Get())

	// Negative deltas are ignored, counters are monotonic.
	c.Add(-3)
	assert.Equal(t, int64(5), c.Get())
}

func TestCounter_NilSafe(t *testing.T) {
	var c *Counter
	c.Inc()
	c.Add(10)
	assert.Equal(t, int64(0), c.Get())
}

func TestGauge(t *testing.T) {
	g := NewGauge("test_gauge", nil)
	g.Set(10)
	assert.Equal(t, int64(10), g.Get())

	g.Inc()
	g.Dec()
	g.Dec()
	assert.Equal(t, int64(9), g.Get())
}

func TestHistogram(t *testing.T) {
	h := NewHistogram("test_hist", nil, []float64{0.001, 0.01, 0.1})

	h.Observe(0.0005)
	h.Observe(0.05)
	h.Observe(5) // lands in the +Inf bucket

	assert.Equal(t, int64(3), h.GetCount())
	assert.InDelta(t, 5.0505, h.GetSum(), 0.001)
}

func TestHistogram_ObserveDuration(t *testing.T) {
	h := NewHistogram("test_hist", nil, nil)
	h.ObserveDuration(2 * time.Millisecond)
	assert.Equal(t, int64(1), h.GetCount())
	assert.InDelta(t, 0.002, h.GetSum(), 0.0001)
}

func TestRegistry_SameMetricSameInstance(t *testing.T) {
	r := NewRegistry()

	c1 := r.RegisterCounter("moves", Labels{"direction": "up"})
	c2 := r.RegisterCounter("moves", Labels{"direction": "up"})
	c3 := r.RegisterCounter("moves", Labels{"direction": "down"})

	assert.Same(t, c1, c2)
	assert.NotSame(t, c1, c3)

	c1.Inc()
	assert.Equal(t, int64(1), c2.Get())
	assert.Equal(t, int64(0), c3.Get())
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()
	r.RegisterGauge("regions", nil).Set(12)

	g, ok := r.GetGauge("regions", nil)
	require.True(t, ok)
	assert.Equal(t, int64(12), g.Get())

	_, ok = r.GetGauge("missing", nil)
	assert.False(t, ok)
}

func TestRegistry_ExportJSON(t *testing.T) {
	r := NewRegistry()
	r.RegisterCounter("moves", Labels{"direction": "left"}).Inc()
	r.RegisterGauge("regions", nil).Set(4)
	r.RegisterHistogram("resolve", nil, nil).Observe(0.001)

	data, err := r.ExportJSON()
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Contains(t, out, "counters")
	assert.Contains(t, out, "gauges")
	assert.Contains(t, out, "histograms")
}

func TestRegistry_NilSafe(t *testing.T) {
	var r *Registry

	c := r.RegisterCounter("orphan", nil)
	require.NotNil(t, c)
	c.Inc()
	assert.Equal(t, int64(1), c.Get())

	_, ok := r.GetCounter("orphan", nil)
	assert.False(t, ok)
	assert.Nil(t, r.Export())
}

func TestRecordHelpers(t *testing.T) {
	saved := DefaultRegistry
	DefaultRegistry = NewRegistry()
	defer func() { DefaultRegistry = saved }()

	RecordMove("right")
	RecordMove("right")
	RecordMove("up")
	RecordDrillIn()
	RecordEscape()
	RecordSelect()
	RecordPlacementFailure()
	SetRegionCount(7)
	RecordResolveDuration(50 * time.Microsecond)

	right, ok := DefaultRegistry.GetCounter(MetricMovesTotal, Labels{"direction": "right"})
	require.True(t, ok)
	assert.Equal(t, int64(2), right.Get())

	regions, ok := DefaultRegistry.GetGauge(MetricRegionsScanned, nil)
	require.True(t, ok)
	assert.Equal(t, int64(7), regions.Get())

	resolve, ok := DefaultRegistry.GetHistogram(MetricResolveSeconds, nil)
	require.True(t, ok)
	assert.Equal(t, int64(1), resolve.GetCount())
}

func TestLabels_String(t *testing.T) {
	assert.Equal(t, "", Labels{}.String())
	assert.Equal(t, "a=1,b=2", Labels{"b": "2", "a": "1"}.String())
}
