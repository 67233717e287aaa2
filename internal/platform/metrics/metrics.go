// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics holds Prometheus instruments that are used across the
// service. All collectors are registered with the default registry, so
// mounting promhttp.Handler() on /metrics is enough to expose them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Seed outcomes recorded by [SeedTotal].
const (
	SeedOutcomeWritten = "written"
	SeedOutcomeNoop    = "noop"
)

var (
	BootstrapTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "page_settings_bootstrap_total",
			Help: "Settings records created with defaults on first read.",
		})

	BootstrapRaceTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "page_settings_bootstrap_race_total",
			Help: "First-read inserts that lost a unique-key race and re-read the winner.",
		})

	SeedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_settings_seed_total",
			Help: "Approval-time seeds, by outcome (written or noop).",
		}, []string{"outcome"})

	ListDeleteFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_settings_list_delete_failures_total",
			Help: "Child-list delete steps that failed and were skipped, by list kind.",
		}, []string{"kind"})

	TeardownStepFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_teardown_step_failures_total",
			Help: "Account teardown steps that failed and were skipped, by step.",
		}, []string{"step"})

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"})
)

func init() {
	prometheus.MustRegister(
		BootstrapTotal,
		BootstrapRaceTotal,
		SeedTotal,
		ListDeleteFailuresTotal,
		TeardownStepFailuresTotal,
		RequestDuration,
	)
}
