package engine_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/config"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/engine"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/metric"
)

func TestIngestInstrumentation(t *testing.T) {
	registry := metric.NewRegistry()
	cfg := config.DefaultEngine()
	cfg.MinFoundationVisits = 1

	e, err := engine.New(cfg, engine.WithMetrics(registry.Core()))
	require.NoError(t, err)

	core := registry.Core()

	_, err = e.Ingest(rawPacket(0.0)) // BASE layer 1
	require.NoError(t, err)
	_, err = e.Ingest(rawPacket(0.5)) // RING layer 4
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(core.PacketsIngested.WithLabelValues("BASE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(core.PacketsIngested.WithLabelValues("RING")))
	assert.Equal(t, 2.0, testutil.ToFloat64(core.TrailSize))

	// A rejected packet counts as an invalid ingest error and nothing else.
	_, err = e.Ingest(rawPacket(2.0))
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(core.IngestErrors.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(core.PacketsIngested.WithLabelValues("BASE")))

	// Layer 7 completes the axis: the physical APEX placement and the
	// singularity emission are both counted.
	placement, err := e.Ingest(rawPacket(1.0))
	require.NoError(t, err)
	require.True(t, placement.State.IsSingularity())
	assert.Equal(t, 1.0, testutil.ToFloat64(core.PacketsIngested.WithLabelValues("APEX")))
	assert.Equal(t, 1.0, testutil.ToFloat64(core.Singularities))

	// A repeated placement counts an anomaly.
	_, err = e.Ingest(rawPacket(0.5))
	require.NoError(t, err)
	_, err = e.Ingest(rawPacket(0.5))
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(core.Anomalies.WithLabelValues(engine.AnomalyLoop)))
}
