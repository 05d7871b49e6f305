// Copyright 2026 The Restmachine Authors
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

package nethttp

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the adapter's Prometheus collectors. The same value is
// persisted into the application's session dependency scope under the
// "metrics" name, so handlers and callbacks can record their own
// observations without reaching for a global registry.
type Metrics struct {
	// Requests counts processed requests by method and status.
	Requests *prometheus.CounterVec

	// Duration observes request processing time by method.
	Duration *prometheus.HistogramVec
}

// newMetrics builds the collectors and registers them. A nil registerer
// leaves them unregistered, which tests use to avoid global state.
func newMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "restmachine",
			Name:      "requests_total",
			Help:      "Processed requests by method and status.",
		}, []string{"method", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "restmachine",
			Name:      "request_duration_seconds",
			Help:      "Request processing time by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	if reg != nil {
		if err := reg.Register(m.Requests); err != nil {
			return nil, err
		}
		if err := reg.Register(m.Duration); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// observe records one processed request.
func (m *Metrics) observe(method string, status int, elapsed time.Duration) {
	m.Requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.Duration.WithLabelValues(method).Observe(elapsed.Seconds())
}
