// Copyright (c) 2026, the sitemirror authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mirror

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	operationUp   = "up"
	operationDown = "down"

	outcomeSuccess = "success"
	outcomeError   = "error"

	stateTotal       = "total"
	stateUnreachable = "unreachable"
)

var (
	// Run lifecycle metrics
	runDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sitemirror_run_duration_seconds",
			Help:    "Time taken by a full site mirror operation",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1200},
		},
		[]string{"operation"},
	)

	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitemirror_runs_total",
			Help: "Total site mirror operations by outcome",
		},
		[]string{"operation", "outcome"}, // up, down x success, error
	)

	runDevices = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sitemirror_run_devices",
			Help: "Device counts observed by the most recent run",
		},
		[]string{"state"},
	)
)
