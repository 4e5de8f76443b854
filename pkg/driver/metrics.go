// Copyright 2024 Nokia
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package driver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts the device requests issued by drivers.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the driver metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bigip",
			Subsystem: "driver",
			Name:      "requests_total",
			Help:      "Number of device requests by operation and result.",
		}, []string{"device", "operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bigip",
			Subsystem: "driver",
			Name:      "request_duration_seconds",
			Help:      "Duration of device requests by operation.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"device", "operation"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *Metrics) observe(device, op string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.requests.WithLabelValues(device, op, result).Inc()
	m.duration.WithLabelValues(device, op).Observe(time.Since(start).Seconds())
}
