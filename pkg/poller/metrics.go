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

package poller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	stageProbe     = "probe"
	stageHarvest   = "harvest"
	stageNeighbors = "neighbors"

	outcomeOK     = "ok"
	outcomeFailed = "failed"
)

var (
	// Fleet polling metrics
	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sitemirror_poll_stage_duration_seconds",
			Help:    "Time taken by a polling stage across the whole fleet",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"stage"},
	)

	deviceOutcomeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitemirror_poll_device_outcomes_total",
			Help: "Total per-device outcomes by polling stage",
		},
		[]string{"stage", "outcome"}, // probe, harvest, neighbors x ok, failed
	)
)
