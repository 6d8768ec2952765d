package cmd

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_ServesHealthAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	viper.Set(synthAPIKeyKey, "test-key")
	t.Cleanup(func() { viper.Set(synthAPIKeyKey, "") })

	srv, err := newServer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
	assert.Contains(t, rec.Body.String(), "autotest_pipeline_inflight_runs")
}

func TestNewServer_RequiresCredentials(t *testing.T) {
	viper.Set(synthAPIKeyKey, "")

	_, err := newServer()
	require.Error(t, err)
}

func TestNewServeCmd(t *testing.T) {
	cmd := newServeCmd()
	assert.Equal(t, "serve", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup(addrFlagName))
}
