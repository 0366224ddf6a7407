// Package server wires the prediction handlers into an HTTP router.
package server

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"Composite/internal/calc/composite"
	"Composite/internal/calc/premium/batch"
	"Composite/internal/calc/premium/importer"
	"Composite/internal/calc/report"
	"Composite/internal/config"
	"Composite/internal/logging"
	"Composite/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	Name    = "Composite Materials Property Prediction API"
	Version = "2.0"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewHandler builds the full handler chain: CORS around the router, with
// logging and metrics on every matched route.
func NewHandler(cfg *config.Config, p *composite.Predictor, logger *slog.Logger) http.Handler {
	r := mux.NewRouter()
	HandleList(r, cfg, p)
	r.Use(logging.Middleware(logger))
	if cfg.Metrics.Enabled {
		r.Use(metrics.Middleware)
	}
	return CORS(r)
}

func HandleList(r *mux.Router, cfg *config.Config, p *composite.Predictor) {
	predictH := composite.NewHandler(p)
	batchH := &batch.Handler{Predictor: predictH}
	importH := &importer.Handler{Predictor: predictH}
	reportH := &report.Handler{Predictor: p}
	healthH := &HealthHandler{Predictor: p, Port: cfg.Server.Port}

	r.HandleFunc("/health", healthH.Health).Methods("GET")
	r.HandleFunc("/api", APIInfo).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", healthH.Health).Methods("GET")
	api.HandleFunc("/predict", predictH.Predict).Methods("POST")
	api.HandleFunc("/predict/batch", batchH.Predict).Methods("POST")
	api.HandleFunc("/predict/import", importH.Import).Methods("POST")
	api.HandleFunc("/predict/report", reportH.Generate).Methods("POST")
	api.HandleFunc("/materials", predictH.Materials).Methods("GET")
	api.HandleFunc("/options", predictH.Options).Methods("GET")

	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods("GET")
	}

	staticDir := cfg.Server.StaticDir
	r.PathPrefix("/static/").
		Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	r.HandleFunc("/", Home(staticDir)).Methods("GET")
}

type HealthHandler struct {
	Predictor *composite.Predictor
	Port      int
}

type HealthResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	Method         string `json:"method"`
	MaterialsCount int    `json:"materials_count"`
	Port           int    `json:"port"`
	Timestamp      string `json:"timestamp"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	composite.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:         "healthy",
		Version:        Version,
		Method:         composite.Method,
		MaterialsCount: h.Predictor.FiberCount(),
		Port:           h.Port,
		Timestamp:      time.Now().Format(time.RFC3339),
	})
}

// Home serves the web interface, or a JSON stub when it is not deployed.
func Home(staticDir string) http.HandlerFunc {
	index := filepath.Join(staticDir, "index.html")
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(index); err == nil {
			http.ServeFile(w, r, index)
			return
		}
		composite.WriteJSON(w, http.StatusOK, map[string]string{
			"status":   "online",
			"message":  "Composite Materials API",
			"api_docs": "/api",
			"error":    "Web interface not found",
		})
	}
}
