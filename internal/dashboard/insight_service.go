package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marketpulse/pulse-api/internal/insights"
	"github.com/marketpulse/pulse-api/internal/metrics"
	"github.com/marketpulse/pulse-api/internal/models"
	"github.com/marketpulse/pulse-api/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// InsightService loads the evaluation input from storage, runs the engine and
// caches the resulting report in Redis.  The engine itself is pure; the cache
// only saves the storage round trip and re-evaluation on dashboard refreshes.
type InsightService struct {
	store      storage.MetricStore
	kpis       storage.KPIRepo
	benchmarks storage.BenchmarkRepo

	cache    *redis.Client // nil when Redis is disabled
	cacheTTL time.Duration

	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewInsightService(
	store storage.MetricStore,
	kpis storage.KPIRepo,
	benchmarks storage.BenchmarkRepo,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger *zap.Logger,
	m *metrics.Metrics,
) *InsightService {
	return &InsightService{
		store:      store,
		kpis:       kpis,
		benchmarks: benchmarks,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
		metrics:    m,
	}
}

func cacheKey(from, to string) string {
	return fmt.Sprintf("pulse:insights:%s:%s", from, to)
}

// Report evaluates the insight engine over the stored records in [from, to]
// (empty bounds are open ends), serving from cache when possible.
func (s *InsightService) Report(ctx context.Context, from, to string) (*insights.Report, error) {
	if cached := s.fromCache(ctx, from, to); cached != nil {
		return cached, nil
	}

	records, err := s.store.ListRecords(from, to)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	kpis, err := s.kpis.ListKPIs()
	if err != nil {
		return nil, fmt.Errorf("load kpis: %w", err)
	}
	benchmarks, err := s.benchmarks.ListBenchmarks()
	if err != nil {
		return nil, fmt.Errorf("load benchmarks: %w", err)
	}

	start := time.Now()
	report := insights.Evaluate(insights.Input{
		Records:    records,
		KPIs:       derefKPIs(kpis),
		Benchmarks: derefBenchmarks(benchmarks),
	})
	s.metrics.RecordEvaluation(time.Since(start), report.Insights)

	s.logger.Info("insight report evaluated",
		zap.Int("records", len(records)),
		zap.Int("available_days", report.AvailableDays),
		zap.Int("insights", len(report.Insights)),
		zap.Duration("duration", time.Since(start)),
	)

	s.toCache(ctx, from, to, report)
	return report, nil
}

// Invalidate drops the cached report for a date range.  Called after imports;
// an empty-range key covers the default dashboard view.
func (s *InsightService) Invalidate(ctx context.Context, from, to string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(from, to)).Err(); err != nil {
		s.logger.Warn("insight cache invalidation failed", zap.Error(err))
	}
}

func (s *InsightService) fromCache(ctx context.Context, from, to string) *insights.Report {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, cacheKey(from, to)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("insight cache read failed", zap.Error(err))
		}
		s.metrics.RecordCacheMiss()
		return nil
	}
	var report insights.Report
	if err := json.Unmarshal(data, &report); err != nil {
		s.logger.Warn("insight cache entry corrupt", zap.Error(err))
		s.metrics.RecordCacheMiss()
		return nil
	}
	s.metrics.RecordCacheHit()
	return &report
}

func (s *InsightService) toCache(ctx context.Context, from, to string, report *insights.Report) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		s.logger.Warn("insight report marshal failed", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, cacheKey(from, to), data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("insight cache write failed", zap.Error(err))
	}
}

func derefKPIs(in []*models.KPIDefinition) []models.KPIDefinition {
	out := make([]models.KPIDefinition, 0, len(in))
	for _, k := range in {
		out = append(out, *k)
	}
	return out
}

func derefBenchmarks(in []*models.BenchmarkDefinition) []models.BenchmarkDefinition {
	out := make([]models.BenchmarkDefinition, 0, len(in))
	for _, b := range in {
		out = append(out, *b)
	}
	return out
}
