package shmlog

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsNilRegistererIsSafe(t *testing.T) {
	m := NewMetrics(nil)
	require.NotNil(t, m)
	m.PagesRotated.Inc()
	m.BytesWritten.Add(4)
	m.RecordsWritten.Inc()
	m.RecordsRead.Inc()
	m.ReadResults.WithLabelValues(Readed.String()).Inc()
}

func TestNewMetricsRegistersAgainstProvidedRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}
