package metric_test

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/metric"
)

func TestNewRegistryRegistersCoreMetrics(t *testing.T) {
	reg := metric.NewRegistry()
	require.NotNil(t, reg.Core())

	reg.Core().PacketsIngested.WithLabelValues("BASE").Inc()
	reg.Core().Singularities.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Core().PacketsIngested.WithLabelValues("BASE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Core().Singularities))
}

func TestRegistriesAreIndependent(t *testing.T) {
	first := metric.NewRegistry()
	second := metric.NewRegistry()

	first.Core().Singularities.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(first.Core().Singularities))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.Core().Singularities))
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := metric.NewRegistry()
	reg.Core().Singularities.Inc()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	reg.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "vcore_engine_singularities_total 1")
}
