package config

import (
	"testing"
	"time"

	"github.com/couchcryptid/satveg-series/satveg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIToken = "tk.test-token"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ndvi", cfg.Profile)
	assert.Equal(t, "terra", cfg.Satellite)
	assert.Equal(t, 3, cfg.PreFilter)
	assert.Empty(t, cfg.Filter)
	assert.False(t, cfg.FilterParamSet)
	assert.Equal(t, satveg.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 0, cfg.CacheSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("SATVEG_TOKEN", testAPIToken)
	t.Setenv("SATVEG_PROFILE", "evi")
	t.Setenv("SATVEG_SATELLITE", "comb")
	t.Setenv("SATVEG_PRE_FILTER", "0")
	t.Setenv("SATVEG_FILTER", "sav")
	t.Setenv("SATVEG_FILTER_PARAM", "4")
	t.Setenv("SATVEG_BASE_URL", "http://localhost:9090/series")
	t.Setenv("SATVEG_TIMEOUT", "5s")
	t.Setenv("HTTP_ADDR", ":9091")
	t.Setenv("SATVEG_CACHE_SIZE", "500")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testAPIToken, cfg.Token)
	assert.Equal(t, "evi", cfg.Profile)
	assert.Equal(t, "comb", cfg.Satellite)
	assert.Equal(t, 0, cfg.PreFilter)
	assert.Equal(t, "sav", cfg.Filter)
	assert.True(t, cfg.FilterParamSet)
	assert.Equal(t, 4, cfg.FilterParam)
	assert.Equal(t, "http://localhost:9090/series", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, ":9091", cfg.HTTPAddr)
	assert.Equal(t, 500, cfg.CacheSize)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("SATVEG_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SATVEG_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidProfile(t *testing.T) {
	t.Setenv("SATVEG_PROFILE", "savi")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SATVEG_PROFILE")
}

func TestLoad_InvalidSatellite(t *testing.T) {
	t.Setenv("SATVEG_SATELLITE", "landsat")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SATVEG_SATELLITE")
}

func TestLoad_InvalidPreFilter(t *testing.T) {
	t.Setenv("SATVEG_PRE_FILTER", "7")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SATVEG_PRE_FILTER")
}

func TestLoad_NegativeCacheSize(t *testing.T) {
	t.Setenv("SATVEG_CACHE_SIZE", "-1")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SATVEG_CACHE_SIZE")
}

func TestLoad_FilterValidation(t *testing.T) {
	tests := []struct {
		name    string
		filter  string
		param   string
		wantErr string
	}{
		{name: "flt with valid param", filter: "flt", param: "20"},
		{name: "flt without param", filter: "flt", wantErr: "SATVEG_FILTER_PARAM"},
		{name: "flt bad param", filter: "flt", param: "15", wantErr: "0, 10, 20 or 30"},
		{name: "wav without param", filter: "wav"},
		{name: "wav with param", filter: "wav", param: "2", wantErr: "no SATVEG_FILTER_PARAM"},
		{name: "sav with valid param", filter: "sav", param: "3"},
		{name: "sav param out of range", filter: "sav", param: "9", wantErr: "2 through 6"},
		{name: "unknown filter", filter: "box", wantErr: "SATVEG_FILTER"},
		{name: "param without filter", param: "3", wantErr: "SATVEG_FILTER is not"},
		{name: "param not an integer", filter: "sav", param: "three", wantErr: "not an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.filter != "" {
				t.Setenv("SATVEG_FILTER", tt.filter)
			}
			if tt.param != "" {
				t.Setenv("SATVEG_FILTER_PARAM", tt.param)
			}

			cfg, err := Load()
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.filter, cfg.Filter)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_RequireToken(t *testing.T) {
	cfg := &Config{}
	require.Error(t, cfg.RequireToken())

	cfg.Token = testAPIToken
	require.NoError(t, cfg.RequireToken())
}

func TestConfig_ClientOptions(t *testing.T) {
	t.Setenv("SATVEG_TOKEN", testAPIToken)
	t.Setenv("SATVEG_FILTER", "flt")
	t.Setenv("SATVEG_FILTER_PARAM", "10")

	cfg, err := Load()
	require.NoError(t, err)

	// The options must satisfy the client's own validation.
	c, err := satveg.NewClient(cfg.Token, cfg.ClientOptions(nil)...)
	require.NoError(t, err)
	assert.NotNil(t, c)
}
