/*
 *
 * Copyright 2025 gRPC authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package shmlog

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the ambient instrumentation for a PageWriter/PageReader
// pair, mirroring iris/storage/wal.WalMetrics's shape: a fixed set of
// counters registered against a caller-supplied prometheus.Registerer.
type Metrics struct {
	PagesRotated   prometheus.Counter
	BytesWritten   prometheus.Counter
	RecordsWritten prometheus.Counter
	RecordsRead    prometheus.Counter
	ReadResults    *prometheus.CounterVec
}

// NewMetrics registers shmlog's counters against reg and returns them. A nil
// reg registers into a private, unexported registry instead of skipping
// registration, so every Metrics value is always safe to increment — no
// call site needs a nil check.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		PagesRotated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shmlog",
			Name:      "pages_rotated_total",
			Help:      "Number of times the writer rotated to a new ring page.",
		}),
		BytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shmlog",
			Name:      "bytes_written_total",
			Help:      "Total aligned payload bytes written to the log.",
		}),
		RecordsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shmlog",
			Name:      "records_written_total",
			Help:      "Total number of records written to the log.",
		}),
		RecordsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shmlog",
			Name:      "records_read_total",
			Help:      "Total number of records delivered to reader callbacks.",
		}),
		ReadResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shmlog",
			Name:      "read_results_total",
			Help:      "Outcomes of PageReader.ReadOnce calls, labeled by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.PagesRotated, m.BytesWritten, m.RecordsWritten, m.RecordsRead, m.ReadResults)
	return m
}
