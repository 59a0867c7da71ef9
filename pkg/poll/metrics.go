// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package poll

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSatisfied = "satisfied"
	resultTimeout   = "timeout"
	resultCanceled  = "canceled"
)

var (
	pollAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stackctl_poll_attempts",
			Help:    "Predicate evaluations per wait",
			Buckets: []float64{1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	pollResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stackctl_poll_results_total",
			Help: "Total number of waits by result",
		},
		[]string{"result"}, // satisfied, timeout, canceled
	)
)
