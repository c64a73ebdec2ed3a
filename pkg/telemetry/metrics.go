// Package telemetry tracks navigation metrics in an in-process
// registry. Counters, gauges, and histograms are lock-free on the hot
// path; the registry exports as JSON for debugging dumps.
package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// MetricType identifies the kind of metric.
type MetricType string

const (
	MetricTypeCounter   MetricType = "counter"
	MetricTypeGauge     MetricType = "gauge"
	MetricTypeHistogram MetricType = "histogram"
)

// Labels represents a set of dimensional labels for metrics.
type Labels map[string]string

// String returns a string representation of labels for map keys.
func (l Labels) String() string {
	if len(l) == 0 {
		return ""
	}
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	result := ""
	for i, k := range keys {
		if i > 0 {
			result += ","
		}
		result += fmt.Sprintf("%s=%s", k, l[k])
	}
	return result
}

// Counter is a monotonically increasing metric.
type Counter struct {
	name   string
	labels Labels
	value  atomic.Int64
}

// NewCounter creates a new counter with the given name and labels.
func NewCounter(name string, labels Labels) *Counter {
	if labels == nil {
		labels = Labels{}
	}
	return &Counter{name: name, labels: labels}
}

// Name returns the metric name.
func (c *Counter) Name() string { return c.name }

// Inc increments the counter by 1.
func (c *Counter) Inc() {
	if c == nil {
		return
	}
	c.value.Add(1)
}

// Add adds the given value to the counter.
func (c *Counter) Add(delta int64) {
	if c == nil || delta < 0 {
		return
	}
	c.value.Add(delta)
}

// Get returns the current value.
func (c *Counter) Get() int64 {
	if c == nil {
		return 0
	}
	return c.value.Load()
}

// MarshalJSON implements json.Marshaler.
func (c *Counter) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"name":   c.name,
		"type":   MetricTypeCounter,
		"labels": c.labels,
		"value":  c.Get(),
	})
}

// Gauge is a metric that can go up and down.
type Gauge struct {
	name   string
	labels Labels
	value  atomic.Int64
}

// NewGauge creates a new gauge with the given name and labels.
func NewGauge(name string, labels Labels) *Gauge {
	if labels == nil {
		labels = Labels{}
	}
	return &Gauge{name: name, labels: labels}
}

// Name returns the metric name.
func (g *Gauge) Name() string { return g.name }

// Set sets the gauge to the given value.
func (g *Gauge) Set(value int64) {
	if g == nil {
		return
	}
	g.value.Store(value)
}

// Inc increments the gauge by 1.
func (g *Gauge) Inc() {
	if g == nil {
		return
	}
	g.value.Add(1)
}

// Dec decrements the gauge by 1.
func (g *Gauge) Dec() {
	if g == nil {
		return
	}
	g.value.Add(-1)
}

// Get returns the current value.
func (g *Gauge) Get() int64 {
	if g == nil {
		return 0
	}
	return g.value.Load()
}

// MarshalJSON implements json.Marshaler.
func (g *Gauge) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"name":   g.name,
		"type":   MetricTypeGauge,
		"labels": g.labels,
		"value":  g.Get(),
	})
}

// DefaultHistogramBuckets are the default latency buckets in seconds.
var DefaultHistogramBuckets = []float64{
	0.000001, // 1µs
	0.00001,  // 10µs
	0.0001,   // 100µs
	0.001,    // 1ms
	0.005,    // 5ms
	0.01,     // 10ms
	0.05,     // 50ms
	0.1,      // 100ms
}

// Histogram is a metric that samples observations and counts them in buckets.
type Histogram struct {
	name    string
	labels  Labels
	buckets []float64
	counts  []atomic.Int64
	sum     atomic.Int64
	count   atomic.Int64
}

// NewHistogram creates a new histogram with the given name, labels, and
// buckets. If buckets is nil, DefaultHistogramBuckets is used.
func NewHistogram(name string, labels Labels, buckets []float64) *Histogram {
	if labels == nil {
		labels = Labels{}
	}
	if buckets == nil {
		buckets = DefaultHistogramBuckets
	}
	return &Histogram{
		name:    name,
		labels:  labels,
		buckets: buckets,
		counts:  make([]atomic.Int64, len(buckets)+1), // +1 for +Inf bucket
	}
}

// Name returns the metric name.
func (h *Histogram) Name() string { return h.name }

// Observe records a value in seconds.
func (h *Histogram) Observe(value float64) {
	if h == nil {
		return
	}
	if value < 0 {
		value = 0
	}

	placed := false
	for i, bucket := range h.buckets {
		if value <= bucket {
			h.counts[i].Add(1)
			placed = true
			break
		}
	}
	if !placed {
		h.counts[len(h.buckets)].Add(1)
	}

	// Store seconds as nanoseconds for atomic arithmetic.
	h.sum.Add(int64(value * 1e9))
	h.count.Add(1)
}

// ObserveDuration records a duration observation.
func (h *Histogram) ObserveDuration(duration time.Duration) {
	if h == nil {
		return
	}
	h.Observe(duration.Seconds())
}

// GetCount returns the total number of observations.
func (h *Histogram) GetCount() int64 {
	if h == nil {
		return 0
	}
	return h.count.Load()
}

// GetSum returns the sum of all observed values (in seconds).
func (h *Histogram) GetSum() float64 {
	if h == nil {
		return 0
	}
	return float64(h.sum.Load()) / 1e9
}

// MarshalJSON implements json.Marshaler.
func (h *Histogram) MarshalJSON() ([]byte, error) {
	counts := make([]int64, len(h.counts))
	for i := range h.counts {
		counts[i] = h.counts[i].Load()
	}
	return json.Marshal(map[string]any{
		"name":    h.name,
		"type":    MetricTypeHistogram,
		"labels":  h.labels,
		"count":   h.GetCount(),
		"sum":     h.GetSum(),
		"buckets": counts,
	})
}

// Registry manages all metrics.
type Registry struct {
	mu         sync.RWMutex
	counters   map[string]*Counter
	gauges     map[string]*Gauge
	histograms map[string]*Histogram
}

// NewRegistry creates a new metric registry.
func NewRegistry() *Registry {
	return &Registry{
		counters:   make(map[string]*Counter),
		gauges:     make(map[string]*Gauge),
		histograms: make(map[string]*Histogram),
	}
}

// makeKey creates a unique key for a metric with labels.
func makeKey(name string, labels Labels) string {
	if len(labels) == 0 {
		return name
	}
	return name + "{" + labels.String() + "}"
}

// RegisterCounter registers (or returns the existing) counter.
func (r *Registry) RegisterCounter(name string, labels Labels) *Counter {
	if r == nil {
		return NewCounter(name, labels)
	}
	key := makeKey(name, labels)
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.counters[key]; ok {
		return c
	}
	c := NewCounter(name, labels)
	r.counters[key] = c
	return c
}

// RegisterGauge registers (or returns the existing) gauge.
func (r *Registry) RegisterGauge(name string, labels Labels) *Gauge {
	if r == nil {
		return NewGauge(name, labels)
	}
	key := makeKey(name, labels)
	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.gauges[key]; ok {
		return g
	}
	g := NewGauge(name, labels)
	r.gauges[key] = g
	return g
}

// RegisterHistogram registers (or returns the existing) histogram.
func (r *Registry) RegisterHistogram(name string, labels Labels, buckets []float64) *Histogram {
	if r == nil {
		return NewHistogram(name, labels, buckets)
	}
	key := makeKey(name, labels)
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.histograms[key]; ok {
		return h
	}
	h := NewHistogram(name, labels, buckets)
	r.histograms[key] = h
	return h
}

// GetCounter retrieves a counter by name and labels.
func (r *Registry) GetCounter(name string, labels Labels) (*Counter, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.counters[makeKey(name, labels)]
	return c, ok
}

// GetGauge retrieves a gauge by name and labels.
func (r *Registry) GetGauge(name string, labels Labels) (*Gauge, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.gauges[makeKey(name, labels)]
	return g, ok
}

// GetHistogram retrieves a histogram by name and labels.
func (r *Registry) GetHistogram(name string, labels Labels) (*Histogram, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.histograms[makeKey(name, labels)]
	return h, ok
}

// Export exports all metrics as a map suitable for JSON serialization.
func (r *Registry) Export() map[string]any {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	return map[string]any{
		"counters":   r.counters,
		"gauges":     r.gauges,
		"histograms": r.histograms,
	}
}

// ExportJSON exports all metrics as JSON.
func (r *Registry) ExportJSON() ([]byte, error) {
	export := r.Export()
	if export == nil {
		return []byte("null"), nil
	}
	return json.MarshalIndent(export, "", "  ")
}

// WriteTo writes all metrics to the given writer.
func (r *Registry) WriteTo(w io.Writer) (int64, error) {
	data, err := r.ExportJSON()
	if err != nil {
		return 0, fmt.Errorf("exporting metrics: %w", err)
	}
	n, err := w.Write(data)
	return int64(n), err
}

// DefaultRegistry is the default global registry.
var DefaultRegistry = NewRegistry()

// Predefined metric names for the navigation engine.
const (
	MetricMovesTotal             = "nav_moves_total"
	MetricDrillInsTotal          = "nav_drill_ins_total"
	MetricEscapesTotal           = "nav_escapes_total"
	MetricSelectsTotal           = "nav_selects_total"
	MetricPlacementFailuresTotal = "nav_placement_failures_total"
	MetricRegionsScanned         = "nav_regions_scanned"
	MetricResolveSeconds         = "nav_resolve_seconds"
)

// RecordMove records a directional move resolved spatially.
func RecordMove(direction string) {
	DefaultRegistry.RegisterCounter(MetricMovesTotal, Labels{"direction": direction}).Inc()
}

// RecordDrillIn records a hierarchy drill-in.
func RecordDrillIn() {
	DefaultRegistry.RegisterCounter(MetricDrillInsTotal, nil).Inc()
}

// RecordEscape records a hierarchy escape to a group head.
func RecordEscape() {
	DefaultRegistry.RegisterCounter(MetricEscapesTotal, nil).Inc()
}

// RecordSelect records a select delivered to the host callback.
func RecordSelect() {
	DefaultRegistry.RegisterCounter(MetricSelectsTotal, nil).Inc()
}

// RecordPlacementFailure records a host focus-placement failure.
func RecordPlacementFailure() {
	DefaultRegistry.RegisterCounter(MetricPlacementFailuresTotal, nil).Inc()
}

// SetRegionCount records the size of the most recent region scan.
func SetRegionCount(n int64) {
	DefaultRegistry.RegisterGauge(MetricRegionsScanned, nil).Set(n)
}

// RecordResolveDuration records how long one command resolution took.
func RecordResolveDuration(d time.Duration) {
	DefaultRegistry.RegisterHistogram(MetricResolveSeconds, nil, nil).ObserveDuration(d)
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a started timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time.
func (t *Timer) Elapsed() time.Duration {
	if t == nil {
		return 0
	}
	return time.Since(t.start)
}

// Observe records the elapsed time in a histogram.
func (t *Timer) Observe(h *Histogram) {
	if t == nil || h == nil {
		return
	}
	h.ObserveDuration(t.Elapsed())
}
