package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/satveg-series/satveg"
	"github.com/joho/godotenv"
)

// Config holds all tool settings, populated from environment variables.
type Config struct {
	// SATVeg query configuration.
	Token          string
	Profile        string
	Satellite      string
	PreFilter      int
	Filter         string
	FilterParam    int
	FilterParamSet bool
	BaseURL        string
	Timeout        time.Duration

	// Serving and logging configuration.
	HTTPAddr        string
	CacheSize       int
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is read first when
// present; real environment variables win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	timeout, err := parseDuration("SATVEG_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	preFilter, err := strconv.Atoi(envOrDefault("SATVEG_PRE_FILTER", "3"))
	if err != nil || preFilter < satveg.PreFilterNone || preFilter > satveg.PreFilterCloudNoData {
		return nil, errors.New("invalid SATVEG_PRE_FILTER: want 0 through 3")
	}

	// Series gain a point per composite period, so the facade cache is
	// opt-in: cached envelopes would go stale in a long-running process.
	cacheSize, err := strconv.Atoi(envOrDefault("SATVEG_CACHE_SIZE", "0"))
	if err != nil || cacheSize < 0 {
		return nil, errors.New("invalid SATVEG_CACHE_SIZE: want 0 or a positive entry count")
	}

	cfg := &Config{
		Token:     os.Getenv("SATVEG_TOKEN"),
		Profile:   envOrDefault("SATVEG_PROFILE", satveg.ProfileNDVI),
		Satellite: envOrDefault("SATVEG_SATELLITE", satveg.SatelliteTerra),
		PreFilter: preFilter,
		Filter:    os.Getenv("SATVEG_FILTER"),
		BaseURL:   envOrDefault("SATVEG_BASE_URL", satveg.DefaultBaseURL),
		Timeout:   timeout,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		CacheSize:       cacheSize,
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if s := os.Getenv("SATVEG_FILTER_PARAM"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, errors.New("invalid SATVEG_FILTER_PARAM: not an integer")
		}
		cfg.FilterParam = n
		cfg.FilterParamSet = true
	}

	switch cfg.Profile {
	case satveg.ProfileNDVI, satveg.ProfileEVI:
	default:
		return nil, errors.New("invalid SATVEG_PROFILE: want ndvi or evi")
	}

	switch cfg.Satellite {
	case satveg.SatelliteTerra, satveg.SatelliteAqua, satveg.SatelliteCombined:
	default:
		return nil, errors.New("invalid SATVEG_SATELLITE: want terra, aqua or comb")
	}

	if err := validateFilter(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateFilter enforces the service's filter domains: flt takes 0, 10, 20
// or 30; sav takes 2 through 6; wav takes no parameter at all.
func validateFilter(cfg *Config) error {
	switch cfg.Filter {
	case "":
		if cfg.FilterParamSet {
			return errors.New("SATVEG_FILTER_PARAM is set but SATVEG_FILTER is not")
		}
	case satveg.FilterFlatBottom:
		if !cfg.FilterParamSet {
			return errors.New("SATVEG_FILTER=flt requires SATVEG_FILTER_PARAM (0, 10, 20 or 30)")
		}
		switch cfg.FilterParam {
		case 0, 10, 20, 30:
		default:
			return errors.New("invalid SATVEG_FILTER_PARAM for flt: want 0, 10, 20 or 30")
		}
	case satveg.FilterWavelet:
		if cfg.FilterParamSet {
			return errors.New("SATVEG_FILTER=wav takes no SATVEG_FILTER_PARAM")
		}
	case satveg.FilterSavGolay:
		if !cfg.FilterParamSet {
			return errors.New("SATVEG_FILTER=sav requires SATVEG_FILTER_PARAM (2 through 6)")
		}
		if cfg.FilterParam < 2 || cfg.FilterParam > 6 {
			return errors.New("invalid SATVEG_FILTER_PARAM for sav: want 2 through 6")
		}
	default:
		return errors.New("invalid SATVEG_FILTER: want flt, wav or sav")
	}
	return nil
}

// RequireToken errors when no API token is configured. Commands that talk
// to the service call this; mock and version do not need one.
func (c *Config) RequireToken() error {
	if c.Token == "" {
		return errors.New("SATVEG_TOKEN is required")
	}
	return nil
}

// ClientOptions translates the configuration into satveg client options.
// The token goes to satveg.NewClient separately.
func (c *Config) ClientOptions(logger *slog.Logger) []satveg.Option {
	opts := []satveg.Option{
		satveg.WithProfile(c.Profile),
		satveg.WithSatellite(c.Satellite),
		satveg.WithPreFilter(c.PreFilter),
		satveg.WithBaseURL(c.BaseURL),
		satveg.WithTimeout(c.Timeout),
		satveg.WithLogger(logger),
	}
	if c.Filter != "" {
		opts = append(opts, satveg.WithFilter(c.Filter))
	}
	if c.FilterParamSet {
		opts = append(opts, satveg.WithFilterParameter(c.FilterParam))
	}
	return opts
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}
