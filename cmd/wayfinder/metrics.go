package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wayfinder",
		Name:      "commands_total",
		Help:      "Navigation commands dispatched, by command name.",
	}, []string{"command"})

	metricMoved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wayfinder",
		Name:      "focus_changes_total",
		Help:      "Commands that actually changed focus, by command name.",
	}, []string{"command"})

	metricReloads = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wayfinder",
		Name:      "layout_reloads_total",
		Help:      "Layout file reloads triggered by the watcher or the r key.",
	})

	metricRegions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "wayfinder",
		Name:      "regions",
		Help:      "Regions in the engine's current snapshot.",
	})
)
