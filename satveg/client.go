package satveg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the production SATVeg series endpoint.
const DefaultBaseURL = "https://api.cnptia.embrapa.br/satveg/v1/series"

// DefaultTimeout bounds one lookup when no custom HTTP client is supplied.
const DefaultTimeout = 30 * time.Second

// Vegetation-index profiles served by the API.
const (
	ProfileNDVI = "ndvi"
	ProfileEVI  = "evi"
)

// MODIS platforms served by the API.
const (
	SatelliteTerra    = "terra"
	SatelliteAqua     = "aqua"
	SatelliteCombined = "comb"
)

// Pre-filter corrections applied by the service before any smoothing filter.
const (
	PreFilterNone        = 0
	PreFilterNoData      = 1
	PreFilterCloud       = 2
	PreFilterCloudNoData = 3
)

// Smoothing filters served by the API. FlatBottom and Savitzky-Golay require
// a parameter (see WithFilterParameter); Wavelet takes none.
const (
	FilterFlatBottom = "flt"
	FilterWavelet    = "wav"
	FilterSavGolay   = "sav"
)

// Client queries the SATVeg series API. Construct it with NewClient; the
// zero value is not usable.
type Client struct {
	token          string
	profile        string
	satellite      string
	preFilter      int
	filter         string
	filterParam    int
	hasFilterParam bool
	baseURL        string
	timeout        time.Duration
	httpClient     *http.Client
	logger         *slog.Logger
}

// Option adjusts how a Client queries the service.
type Option func(*Client)

// WithProfile selects the vegetation index: ProfileNDVI or ProfileEVI.
func WithProfile(profile string) Option {
	return func(c *Client) { c.profile = profile }
}

// WithSatellite selects the MODIS platform: SatelliteTerra, SatelliteAqua
// or SatelliteCombined.
func WithSatellite(satellite string) Option {
	return func(c *Client) { c.satellite = satellite }
}

// WithPreFilter selects the pre-filter correction, PreFilterNone through
// PreFilterCloudNoData.
func WithPreFilter(preFilter int) Option {
	return func(c *Client) { c.preFilter = preFilter }
}

// WithFilter selects a smoothing filter: FilterFlatBottom, FilterWavelet or
// FilterSavGolay. Without this option no filter is requested.
func WithFilter(filter string) Option {
	return func(c *Client) { c.filter = filter }
}

// WithFilterParameter sets the smoothing filter parameter: 0, 10, 20 or 30
// for FlatBottom, 2 through 6 for Savitzky-Golay.
func WithFilterParameter(parameter int) Option {
	return func(c *Client) {
		c.filterParam = parameter
		c.hasFilterParam = true
	}
}

// WithBaseURL points the client at a different endpoint, such as a mock
// upstream.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithTimeout sets the per-lookup timeout of the default HTTP client. It is
// ignored when WithHTTPClient supplies a client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

// WithHTTPClient replaces the default HTTP client entirely.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithLogger routes the client's logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a SATVeg client. The token is sent as a Bearer token on
// every request; it is deliberately not checked here, because only the
// service can judge it, and a bad one surfaces as a 401 failure envelope.
// Option values are checked against the service's documented domains.
func NewClient(token string, opts ...Option) (*Client, error) {
	c := &Client{
		token:     token,
		profile:   ProfileNDVI,
		satellite: SatelliteTerra,
		preFilter: PreFilterCloudNoData,
		baseURL:   DefaultBaseURL,
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if err := c.validateOptions(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) validateOptions() error {
	switch c.profile {
	case ProfileNDVI, ProfileEVI:
	default:
		return fmt.Errorf("satveg: unknown profile %q", c.profile)
	}

	switch c.satellite {
	case SatelliteTerra, SatelliteAqua, SatelliteCombined:
	default:
		return fmt.Errorf("satveg: unknown satellite %q", c.satellite)
	}

	if c.preFilter < PreFilterNone || c.preFilter > PreFilterCloudNoData {
		return fmt.Errorf("satveg: pre-filter %d out of range 0..3", c.preFilter)
	}

	switch c.filter {
	case "":
		if c.hasFilterParam {
			return errors.New("satveg: filter parameter set without a filter")
		}
	case FilterFlatBottom:
		if !c.hasFilterParam {
			return errors.New("satveg: the FlatBottom filter requires a parameter (0, 10, 20 or 30)")
		}
		switch c.filterParam {
		case 0, 10, 20, 30:
		default:
			return fmt.Errorf("satveg: FlatBottom parameter %d: want 0, 10, 20 or 30", c.filterParam)
		}
	case FilterWavelet:
		if c.hasFilterParam {
			return errors.New("satveg: the Wavelet filter takes no parameter")
		}
	case FilterSavGolay:
		if !c.hasFilterParam {
			return errors.New("satveg: the Savitzky-Golay filter requires a parameter (2 through 6)")
		}
		if c.filterParam < 2 || c.filterParam > 6 {
			return fmt.Errorf("satveg: Savitzky-Golay parameter %d: want 2 through 6", c.filterParam)
		}
	default:
		return fmt.Errorf("satveg: unknown filter %q", c.filter)
	}

	return nil
}

// FetchSeries looks up the vegetation-index time series for one WGS-84
// coordinate. Failures reported by the service come back inside the
// SeriesResponse envelope with error nil; a non-nil error means the request
// never completed (dial failure, timeout, cancelled context). Lookups are
// never retried.
func (c *Client) FetchSeries(ctx context.Context, lat, lon float64) (SeriesResponse, error) {
	params := url.Values{
		"tipoPerfil": {c.profile},
		"satelite":   {c.satellite},
		"latitude":   {formatCoord(lat)},
		"longitude":  {formatCoord(lon)},
		"preFiltro":  {strconv.Itoa(c.preFilter)},
	}
	if c.filter != "" {
		params.Set("filtro", c.filter)
		if c.hasFilterParam {
			params.Set("parametroFiltro", strconv.Itoa(c.filterParam))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return SeriesResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SeriesResponse{}, fmt.Errorf("series request for (%s, %s): %w", formatCoord(lat), formatCoord(lon), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		message := msgNotProcessable
		if resp.StatusCode == http.StatusUnauthorized {
			message = msgInvalidCredentials
		}
		c.logger.Warn("series lookup failed", "status", resp.StatusCode, "lat", lat, "lon", lon)
		return SeriesResponse{StatusCode: resp.StatusCode, Message: message}, nil
	}

	var data SeriesData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		c.logger.Warn("series payload undecodable", "error", err, "lat", lat, "lon", lon)
		return SeriesResponse{StatusCode: resp.StatusCode, Message: fmt.Sprintf("undecodable series payload: %v", err)}, nil
	}
	// A 200 that breaks the series contract is reported, not coerced.
	if err := data.Validate(); err != nil {
		c.logger.Warn("series payload invalid", "error", err, "lat", lat, "lon", lon)
		return SeriesResponse{StatusCode: resp.StatusCode, Message: err.Error()}, nil
	}

	return SeriesResponse{
		Success:    true,
		StatusCode: http.StatusOK,
		Message:    msgSuccess,
		Data:       &data,
	}, nil
}

// FetchSeriesTable fetches the series for one labeled point and shapes it
// as a single-label table. Unlike FetchSeries, a failure the service
// reported is returned as an error wrapping a *RemoteError, so callers of
// this method always get rows they can use.
func (c *Client) FetchSeriesTable(ctx context.Context, lat, lon float64, label string) (*SeriesTable, error) {
	resp, err := c.FetchSeries(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	data, err := resp.Series()
	if err != nil {
		return nil, fmt.Errorf("series for %q (%s, %s): %w", label, formatCoord(lat), formatCoord(lon), err)
	}
	return NewSeriesTable(label, data), nil
}

// formatCoord renders a coordinate with the shortest representation that
// round-trips, so the query carries exactly what the caller passed.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
