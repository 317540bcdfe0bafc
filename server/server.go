package server

import (
	"net/http"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/segmentio/encoding/json"

	"github.com/voxely/voxelize-go/voxelizer"
)

var (
	requestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxelize_requests_total",
		Help: "Number of voxelization requests by mode and status.",
	}, []string{"mode", "status"})

	durationHistogram = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "voxelize_duration_seconds",
		Help:    "Voxelization pass duration.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"mode"})

	voxelCountGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voxelize_last_voxel_count",
		Help: "Number of voxels emitted by the last completed pass.",
	})
)

// VoxelizeRequest is the body of a voxelization call.
type VoxelizeRequest struct {
	Triangles []voxelizer.Triangle `json:"triangles"`
	Depth     int                  `json:"depth"`
}

// VoxelizeResponse carries the voxelization result and its job id.
type VoxelizeResponse struct {
	JobID            string            `json:"job_id"`
	Voxels           []voxelizer.Voxel `json:"voxels"`
	VoxelCount       int               `json:"voxel_count"`
	SkippedTriangles int               `json:"skipped_triangles"`
	Incomplete       bool              `json:"incomplete"`
	Depth            int               `json:"depth"`
}

// NewRouter builds the HTTP API: voxelization endpoints, health check and
// Prometheus metrics, wrapped with permissive CORS.
func NewRouter() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/voxelize", handleVoxelize("sat")).Methods("POST")
	api.HandleFunc("/voxelize/vertices", handleVoxelize("vertex")).Methods("POST")
	api.HandleFunc("/voxelize/lattice", handleVoxelize("lattice")).Methods("POST")
	api.HandleFunc("/healthz", handleHealth).Methods("GET")

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}

func handleVoxelize(mode string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VoxelizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			requestCounter.WithLabelValues(mode, "bad_request").Inc()
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		v, err := voxelizer.New(req.Depth)
		if err != nil {
			requestCounter.WithLabelValues(mode, "bad_request").Inc()
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		run := v.Voxelize
		switch mode {
		case "vertex":
			run = v.VoxelizeVertices
		case "lattice":
			run = v.VoxelizeLattice
		}

		start := time.Now()
		result, err := run(r.Context(), req.Triangles)
		if err != nil {
			requestCounter.WithLabelValues(mode, "error").Inc()
			logs.WithTag("mode", mode).Error(errors.New("voxelization failed").Wrap(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		durationHistogram.WithLabelValues(mode).Observe(time.Since(start).Seconds())
		voxelCountGauge.Set(float64(len(result.Voxels)))
		requestCounter.WithLabelValues(mode, "ok").Inc()

		jobID := uuid.NewString()
		logs.WithTag("job_id", jobID).
			WithTag("mode", mode).
			WithTag("depth", result.Depth).
			WithTag("voxels", len(result.Voxels)).
			WithTag("skipped_triangles", result.SkippedTriangles).
			WithTag("incomplete", result.Incomplete).
			Info("voxelization completed")

		writeJSON(w, VoxelizeResponse{
			JobID:            jobID,
			Voxels:           result.Voxels,
			VoxelCount:       len(result.Voxels),
			SkippedTriangles: result.SkippedTriangles,
			Incomplete:       result.Incomplete,
			Depth:            result.Depth,
		})
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logs.Error(errors.New("encoding response").Wrap(err))
	}
}
