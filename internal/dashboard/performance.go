package dashboard

import (
	"fmt"

	"github.com/marketpulse/pulse-api/internal/metrics"
	"github.com/marketpulse/pulse-api/internal/models"
	"github.com/marketpulse/pulse-api/internal/storage"
	"go.uber.org/zap"
)

// PerformanceService accepts daily metric batches and serves them back for
// charting.  It is the write path feeding the insight engine.
type PerformanceService struct {
	store   storage.MetricStore
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewPerformanceService(store storage.MetricStore, logger *zap.Logger, m *metrics.Metrics) *PerformanceService {
	return &PerformanceService{store: store, logger: logger, metrics: m}
}

// Import validates and persists a batch of raw records.  The whole batch is
// rejected on the first invalid record so a retry cannot half-apply it.
func (s *PerformanceService) Import(records []models.RawMetricRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("empty record batch")
	}
	for i := range records {
		if err := records[i].Validate(); err != nil {
			s.metrics.RecordImportFailure()
			return fmt.Errorf("record %d: %w", i, err)
		}
	}

	if err := s.store.SaveRecords(records); err != nil {
		s.metrics.RecordImportFailure()
		return err
	}

	s.metrics.RecordImport(len(records))
	s.logger.Info("metric records imported", zap.Int("count", len(records)))
	return nil
}

// List returns stored records within the inclusive [from, to] date range.
// Empty bounds are open ends.
func (s *PerformanceService) List(from, to string) ([]models.RawMetricRecord, error) {
	return s.store.ListRecords(from, to)
}
