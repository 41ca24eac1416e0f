package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/marketpulse/pulse-api/internal/config"
	"github.com/marketpulse/pulse-api/internal/dashboard"
	"github.com/marketpulse/pulse-api/internal/database"
	"github.com/marketpulse/pulse-api/internal/importer"
	"github.com/marketpulse/pulse-api/internal/metrics"
	"github.com/marketpulse/pulse-api/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies holds everything the server needs.  DB, Redis and ClickHouse
// are nil when the corresponding backend is disabled; the server degrades to
// in-memory storage and no report cache.
type Dependencies struct {
	DB         *database.PostgresDB
	Redis      *database.RedisDB
	ClickHouse *database.ClickHouseDB
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
}

// Server is the MarketPulse HTTP API.
type Server struct {
	mux    *http.ServeMux
	deps   Dependencies
	logger *zap.Logger

	campaigns    *dashboard.CampaignService
	integrations *dashboard.IntegrationService
	kpis         *dashboard.KPIService
	benchmarks   *dashboard.BenchmarkService
	performance  *dashboard.PerformanceService
	summary      *dashboard.SummaryService
	insights     *dashboard.InsightService
	sync         *importer.SyncService
}

// NewServer wires repositories, services and routes.  Storage backend
// selection: postgres when a database is configured, memory otherwise; the
// metric store additionally prefers ClickHouse when enabled.
func NewServer(deps Dependencies) *Server {
	logger := deps.Logger

	var (
		campaignRepo    storage.CampaignRepo
		integrationRepo storage.IntegrationRepo
		kpiRepo         storage.KPIRepo
		benchmarkRepo   storage.BenchmarkRepo
		metricStore     storage.MetricStore
	)

	if deps.DB != nil {
		campaignRepo = storage.NewPostgresCampaignRepo(deps.DB.Pool)
		integrationRepo = storage.NewPostgresIntegrationRepo(deps.DB.Pool)
		kpiRepo = storage.NewPostgresKPIRepo(deps.DB.Pool)
		benchmarkRepo = storage.NewPostgresBenchmarkRepo(deps.DB.Pool)
		metricStore = storage.NewPostgresMetricStore(deps.DB.Pool)
		logger.Info("using postgres storage")
	} else {
		campaignRepo = storage.NewInMemoryCampaignRepo()
		integrationRepo = storage.NewInMemoryIntegrationRepo()
		kpiRepo = storage.NewInMemoryKPIRepo()
		benchmarkRepo = storage.NewInMemoryBenchmarkRepo()
		metricStore = storage.NewInMemoryMetricStore()
		logger.Info("using in-memory storage")
	}

	if deps.ClickHouse != nil {
		metricStore = storage.NewClickHouseMetricStore(deps.ClickHouse.Conn)
		logger.Info("using clickhouse metric store")
	}

	var cacheClient *redis.Client
	if deps.Redis != nil {
		cacheClient = deps.Redis.Client
	}

	s := &Server{
		mux:    http.NewServeMux(),
		deps:   deps,
		logger: logger,
	}

	s.campaigns = dashboard.NewCampaignService(campaignRepo, logger)
	s.integrations = dashboard.NewIntegrationService(integrationRepo, logger)
	s.kpis = dashboard.NewKPIService(kpiRepo, logger)
	s.benchmarks = dashboard.NewBenchmarkService(benchmarkRepo, logger)
	s.performance = dashboard.NewPerformanceService(metricStore, logger, deps.Metrics)
	s.summary = dashboard.NewSummaryService(metricStore, logger)
	s.insights = dashboard.NewInsightService(
		metricStore, kpiRepo, benchmarkRepo,
		cacheClient, deps.Config.Insights.CacheTTL,
		logger, deps.Metrics,
	)

	importClient := importer.NewClient(deps.Config.Importer, logger)
	s.sync = importer.NewSyncService(importClient, s.integrations, s.performance, logger)

	s.routes()
	return s
}

// Handler returns the routed handler, with per-request metric recording.
func (s *Server) Handler() http.Handler {
	return s.instrument(s.mux)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.deps.Config.Metrics.Enabled {
		s.mux.Handle(s.deps.Config.Metrics.Path, metrics.Handler())
	}

	s.mux.HandleFunc("/api/campaigns", s.handleCampaigns)
	s.mux.HandleFunc("/api/campaigns/", s.handleCampaignByID)

	s.mux.HandleFunc("/api/integrations", s.handleIntegrations)
	s.mux.HandleFunc("/api/integrations/", s.handleIntegrationByID)

	s.mux.HandleFunc("/api/kpis", s.handleKPIs)
	s.mux.HandleFunc("/api/kpis/", s.handleKPIByID)

	s.mux.HandleFunc("/api/benchmarks", s.handleBenchmarks)
	s.mux.HandleFunc("/api/benchmarks/", s.handleBenchmarkByID)

	s.mux.HandleFunc("/api/performance", s.handlePerformance)
	s.mux.HandleFunc("/api/metrics/summary", s.handleSummary)
	s.mux.HandleFunc("/api/insights", s.handleInsights)
}

// instrument records request count and latency per method and route family.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.deps.Metrics.RecordHTTPRequest(r.Method, routeFamily(r.URL.Path), sw.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// routeFamily collapses entity IDs out of paths to keep metric cardinality
// bounded: /api/campaigns/abc -> /api/campaigns/:id.
func routeFamily(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 3 && parts[0] == "api" {
		switch parts[1] {
		case "campaigns", "integrations", "kpis", "benchmarks":
			parts[2] = ":id"
			return "/" + strings.Join(parts, "/")
		}
	}
	return path
}

// JSON response helpers

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter) {
	s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// handleHealth reports liveness of the server and its backends.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}

	status := map[string]string{"status": "ok"}
	code := http.StatusOK

	if s.deps.DB != nil {
		if err := s.deps.DB.Health(r.Context()); err != nil {
			status["database"] = "unavailable"
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		} else {
			status["database"] = "ok"
		}
	}
	if s.deps.Redis != nil {
		if err := s.deps.Redis.Health(r.Context()); err != nil {
			status["redis"] = "unavailable"
			status["status"] = "degraded"
		} else {
			status["redis"] = "ok"
		}
	}
	if s.deps.ClickHouse != nil {
		if err := s.deps.ClickHouse.Health(r.Context()); err != nil {
			status["clickhouse"] = "unavailable"
			status["status"] = "degraded"
		} else {
			status["clickhouse"] = "ok"
		}
	}

	s.writeJSON(w, code, status)
}
