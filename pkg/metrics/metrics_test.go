package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/dontfile/pkg/configs"
	"github.com/yeisme/dontfile/pkg/metrics"
)

func TestSetUsage(t *testing.T) {
	metrics.SetUsage(2, 5, 1024)

	assert.InDelta(t, 2, testutil.ToFloat64(metrics.Rooms), 0)
	assert.InDelta(t, 5, testutil.ToFloat64(metrics.Files), 0)
	assert.InDelta(t, 1024, testutil.ToFloat64(metrics.StoredBytes), 0)
}

func TestRegisterExposesMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	metrics.Register(configs.MetricsConfig{Enabled: true, Path: "/metrics"}, engine)

	metrics.Uploads.WithLabelValues(metrics.ResultOK).Inc()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "dontfile_uploads_total"))
}

func TestRegisterDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	metrics.Register(configs.MetricsConfig{Enabled: false, Path: "/metrics"}, engine)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
