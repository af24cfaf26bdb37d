// Package satveg queries vegetation-index time series from Embrapa's SATVeg
// service and aggregates per-point series into combined tables.
//
// # Data Source
//
// SATVeg (Sistema de Análise Temporal da Vegetação) serves NDVI and EVI
// profiles derived from MODIS imagery for any WGS-84 (EPSG:4326) coordinate
// over Brazil and surroundings. The API lives at
// https://api.cnptia.embrapa.br/satveg/v1/series and authenticates every
// request with a Bearer token issued by the Embrapa developer portal.
//
// # Query Conventions
//
// One lookup is a GET with the following query parameters:
//
//	tipoPerfil       vegetation index: "ndvi" or "evi"
//	satelite         MODIS platform: "terra", "aqua" or "comb" (combined)
//	latitude         decimal degrees, EPSG:4326
//	longitude        decimal degrees, EPSG:4326
//	preFiltro        0 = none, 1 = nodata correction, 2 = cloud correction,
//	                 3 = cloud and nodata correction
//	filtro           optional smoothing filter: "flt" (FlatBottom),
//	                 "wav" (Wavelet) or "sav" (Savitzky-Golay)
//	parametroFiltro  filter parameter; required for flt (0, 10, 20 or 30)
//	                 and sav (2 through 6), absent for wav
//
// Coordinates are passed through unvalidated: the service itself decides
// whether a point is inside its coverage and answers accordingly.
//
// # Response Shape
//
// A successful lookup returns two parallel JSON arrays:
//
//	{"listaSerie": [0.607, ..., 0.7939], "listaDatas": ["2000-02-18", ...]}
//
// listaSerie[i] is the index value observed on listaDatas[i]. Dates are ISO
// YYYY-MM-DD on the MODIS 16-day composite cadence starting 2000-02-18, in
// chronological order. [SeriesData.Validate] enforces this contract; a 200
// response that breaks it is reported as a failed lookup, never coerced.
//
// # Failure Reporting
//
// [Client.FetchSeries] separates two failure classes. Problems reported by
// the service (bad credentials, non-200 statuses, contract-violating
// payloads) come back inside the [SeriesResponse] envelope with
// Success=false, a status code and a message. Problems reaching the service
// (dial errors, timeouts) are returned as ordinary Go errors. Batch
// aggregation aborts on the first failed record unless skipping is
// explicitly requested with [WithSkipFailures].
package satveg
