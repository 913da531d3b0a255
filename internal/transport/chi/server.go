// Package chi exposes the reverse-geocoding engine over HTTP using the chi
// router.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/geoforge/revgeo"
	"github.com/geoforge/revgeo/internal/domain"
)

// Geocoder is the engine surface the transport needs.
type Geocoder interface {
	FindAddresses(ctx context.Context, lng, lat float64) ([]revgeo.Result, error)
}

// Pinger checks one backing database for liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server handles the HTTP API.
type Server struct {
	geocoder Geocoder
	stores   []Pinger
	logger   *zap.Logger
}

// NewServer creates an HTTP API server over the given engine and its stores.
func NewServer(geocoder Geocoder, stores []Pinger, logger *zap.Logger) *Server {
	return &Server{geocoder: geocoder, stores: stores, logger: logger}
}

// Routes registers all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/v1/reverse", s.handleReverse)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
}

type addressResponse struct {
	Type          string  `json:"type"`
	Country       string  `json:"country,omitempty"`
	Region        string  `json:"region,omitempty"`
	County        string  `json:"county,omitempty"`
	Locality      string  `json:"locality,omitempty"`
	Neighbourhood string  `json:"neighbourhood,omitempty"`
	Street        string  `json:"street,omitempty"`
	Postcode      string  `json:"postcode,omitempty"`
	HouseNumber   string  `json:"housenumber,omitempty"`
	Name          string  `json:"name,omitempty"`
	Rank          float64 `json:"rank"`
}

type reverseResponse struct {
	Results []addressResponse `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleReverse(w http.ResponseWriter, r *http.Request) {
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if errLng != nil || errLat != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "lng and lat query parameters are required"})
		return
	}

	results, err := s.geocoder.FindAddresses(r.Context(), lng, lat)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCoordinates) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		s.logger.Error("reverse geocoding failed",
			zap.Float64("lng", lng),
			zap.Float64("lat", lat),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	resp := reverseResponse{Results: make([]addressResponse, 0, len(results))}
	for _, res := range results {
		a := res.Address
		resp.Results = append(resp.Results, addressResponse{
			Type:          a.Type.String(),
			Country:       a.Country,
			Region:        a.Region,
			County:        a.County,
			Locality:      a.Locality,
			Neighbourhood: a.Neighbourhood,
			Street:        a.Street,
			Postcode:      a.Postcode,
			HouseNumber:   a.HouseNumber,
			Name:          a.Name,
			Rank:          res.Rank,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	for _, store := range s.stores {
		if err := store.Ping(r.Context()); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "database unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
