package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegisterCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { RegisterCollectors(reg) })

	DocumentOps.WithLabelValues("create", "ok").Inc()
	require.GreaterOrEqual(t, testutil.ToFloat64(DocumentOps.WithLabelValues("create", "ok")), 1.0)

	// registering the same collectors twice is a programming error
	require.Panics(t, func() { RegisterCollectors(reg) })
}
