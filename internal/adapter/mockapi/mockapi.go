// Package mockapi serves a deterministic stand-in for the SATVeg series
// endpoint, for offline development and for integration tests that need a
// real HTTP upstream without network access or a token.
//
// The synthetic series follows the MODIS composite calendar: one value per
// 16-day period (8-day for the combined product) from the satellite's first
// acquisition through the current date. Values trace a seasonal curve whose
// phase and level derive from a hash of the full query, so the same request
// always yields the same series and any parameter change yields a
// different one.
package mockapi

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/satveg-series/satveg"
)

// BasePath is the route the series endpoint is mounted on, mirroring the
// production URL layout. Point clients at the server address plus BasePath.
const BasePath = "/satveg/v1/series"

// First 16-day composite of each MODIS platform.
var (
	terraEpoch = time.Date(2000, time.February, 18, 0, 0, 0, 0, time.UTC)
	aquaEpoch  = time.Date(2002, time.July, 4, 0, 0, 0, 0, time.UTC)
)

// Handler answers series lookups with synthetic data. It checks the Bearer
// token and the query the way the production service does, so client
// failure paths are exercisable offline.
type Handler struct {
	token  string
	logger *slog.Logger
	mux    *http.ServeMux
}

// NewHandler creates the mock endpoint. Requests must carry token as a
// Bearer token.
func NewHandler(token string, logger *slog.Logger) *Handler {
	h := &Handler{token: token, logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+BasePath, h.handleSeries)
	h.mux = mux
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleSeries(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+h.token {
		h.logger.Warn("rejected series request", "reason", "bad bearer token")
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid or missing bearer token"})
		return
	}

	q, err := parseQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	data := Generate(q)
	h.logger.Debug("serving synthetic series",
		"profile", q.Profile, "satellite", q.Satellite,
		"lat", q.Lat, "lon", q.Lon, "points", data.Len())
	writeJSON(w, http.StatusOK, data)
}

// Query is one parsed series request.
type Query struct {
	Profile     string
	Satellite   string
	Lat         float64
	Lon         float64
	PreFilter   int
	Filter      string
	FilterParam string
}

func parseQuery(r *http.Request) (Query, error) {
	v := r.URL.Query()
	q := Query{
		Profile:     v.Get("tipoPerfil"),
		Satellite:   v.Get("satelite"),
		Filter:      v.Get("filtro"),
		FilterParam: v.Get("parametroFiltro"),
	}

	switch q.Profile {
	case satveg.ProfileNDVI, satveg.ProfileEVI:
	default:
		return Query{}, fmt.Errorf("unknown tipoPerfil %q", q.Profile)
	}
	switch q.Satellite {
	case satveg.SatelliteTerra, satveg.SatelliteAqua, satveg.SatelliteCombined:
	default:
		return Query{}, fmt.Errorf("unknown satelite %q", q.Satellite)
	}

	var err error
	if q.Lat, err = strconv.ParseFloat(v.Get("latitude"), 64); err != nil {
		return Query{}, fmt.Errorf("latitude %q is not a number", v.Get("latitude"))
	}
	if q.Lon, err = strconv.ParseFloat(v.Get("longitude"), 64); err != nil {
		return Query{}, fmt.Errorf("longitude %q is not a number", v.Get("longitude"))
	}
	if q.PreFilter, err = strconv.Atoi(v.Get("preFiltro")); err != nil ||
		q.PreFilter < satveg.PreFilterNone || q.PreFilter > satveg.PreFilterCloudNoData {
		return Query{}, fmt.Errorf("preFiltro %q out of range 0..3", v.Get("preFiltro"))
	}
	switch q.Filter {
	case "", satveg.FilterFlatBottom, satveg.FilterWavelet, satveg.FilterSavGolay:
	default:
		return Query{}, fmt.Errorf("unknown filtro %q", q.Filter)
	}

	return q, nil
}

// Generate produces the synthetic series for a query. The composite
// calendar runs from the satellite's epoch through the package clock's
// current date; every value is a function of the query alone.
func Generate(q Query) satveg.SeriesData {
	epoch, step := terraEpoch, 16
	switch q.Satellite {
	case satveg.SatelliteAqua:
		epoch = aquaEpoch
	case satveg.SatelliteCombined:
		step = 8
	}

	base := 0.55
	if q.Profile == satveg.ProfileEVI {
		base = 0.35
	}

	seed := querySeed(q)
	phase := 2 * math.Pi * float64(seed%3600) / 3600
	level := float64(seed%200)/1000 - 0.1 // stable per-site offset in [-0.1, 0.1)

	now := clock.Now().UTC()
	var data satveg.SeriesData
	for d := epoch; !d.After(now); d = d.AddDate(0, 0, step) {
		season := 2 * math.Pi * float64(d.YearDay()) / 365.25
		v := base + level + 0.18*math.Sin(season+phase) + 0.04*math.Sin(2*season+phase)
		data.Values = append(data.Values, math.Round(v*10000)/10000)
		data.Dates = append(data.Dates, d.Format("2006-01-02"))
	}
	return data
}

// querySeed hashes every query knob, so changing any of them moves the
// series.
func querySeed(q Query) uint64 {
	input := fmt.Sprintf("%s|%s|%.5f|%.5f|%d|%s|%s",
		q.Profile, q.Satellite, q.Lat, q.Lon, q.PreFilter, q.Filter, q.FilterParam)
	sum := sha256.Sum256([]byte(input))
	return binary.BigEndian.Uint64(sum[:8])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
