package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/postcraft/infrastructure/metrics"
)

func TestHTTPMiddleware_CountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	m := metrics.NewHTTP(reg)

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/posts/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts/"+id, http.NoBody))
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", http.NoBody))

	count, err := testutil.GatherAndCount(reg, "postcraft_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per route/status pair")

	families, err := reg.Gather()
	require.NoError(t, err)
	var routes []string
	for _, mf := range families {
		if mf.GetName() != "postcraft_http_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "route" {
					routes = append(routes, l.GetValue())
				}
			}
		}
	}
	assert.ElementsMatch(t, []string{"/posts/:id", "unmatched"}, routes)
}

func TestNewRegistry_HasRuntimeCollectors(t *testing.T) {
	t.Parallel()

	families, err := metrics.NewRegistry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
