// Package handler wires the HTTP routes: the Connect service, the legacy
// JSON calculate endpoint used by the web page, health, metrics and static files.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/middleware"
	"github.com/mmynk/billsplit/internal/service"
	"github.com/mmynk/billsplit/pkg/api"
)

// maxBodyBytes caps the size of a legacy calculate request.
const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// Section1 is the people/dishes/ratios block of the web form.
type Section1 struct {
	People []api.Person              `json:"people" validate:"dive"`
	Dishes []api.Dish                `json:"dishes" validate:"dive"`
	Ratios map[string]map[string]int `json:"ratios"`
}

// BillData is the body the web page posts to /calculate.
type BillData struct {
	Section1 Section1      `json:"section1"`
	Payments []api.Payment `json:"payments" validate:"dive"`
	Covers   []api.Cover   `json:"covers" validate:"dive"`
}

// SettlementsResponse is the legacy calculate response.
type SettlementsResponse struct {
	Settlements []api.Settlement `json:"settlements"`
}

// Handler serves the plain HTTP endpoints.
type Handler struct {
	metrics *middleware.Metrics
}

// NewHandler creates a Handler. metrics may be nil.
func NewHandler(metrics *middleware.Metrics) *Handler {
	return &Handler{metrics: metrics}
}

// Options configures the router.
type Options struct {
	// ConnectPath and ConnectHandler mount the Connect service.
	ConnectPath    string
	ConnectHandler http.Handler
	// Gatherer serves /metrics when set.
	Gatherer prometheus.Gatherer
	// StaticPath is a directory served at / when set.
	StaticPath string
}

// NewRouter builds the mux router for all routes.
func NewRouter(h *Handler, opts Options) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/calculate", h.Calculate).Methods(http.MethodPost)

	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	if opts.ConnectHandler != nil {
		r.PathPrefix(opts.ConnectPath).Handler(opts.ConnectHandler)
	}
	if opts.StaticPath != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(opts.StaticPath))).Methods(http.MethodGet, http.MethodHead)
	}

	return r
}

// Health reports that the server is up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Calculate handles the web page's bill form and returns the settlements.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var data BillData
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&data); err != nil {
		slog.Error("Calculate: failed to decode body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&data); err != nil {
		slog.Error("Calculate validation failed", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := &api.CalculateRequest{
		People:   data.Section1.People,
		Dishes:   data.Section1.Dishes,
		Ratios:   data.Section1.Ratios,
		Payments: data.Payments,
		Covers:   data.Covers,
	}
	result := calculator.Calculate(service.ToBill(req))
	h.metrics.ObserveSettlements(len(result.Settlements))

	writeJSON(w, http.StatusOK, SettlementsResponse{
		Settlements: service.FromResult(result).Settlements,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
