package storage

import "github.com/marketpulse/pulse-api/internal/models"

// Repos return (nil, nil) for a missing entity; callers translate that to a
// 404.  Delete reports whether anything was removed.

// CampaignRepo defines CRUD operations for campaigns.
type CampaignRepo interface {
	GetCampaign(id string) (*models.Campaign, error)
	ListCampaigns() ([]*models.Campaign, error)
	UpsertCampaign(c *models.Campaign) error
	DeleteCampaign(id string) (bool, error)
}

// IntegrationRepo defines operations for platform connection records.
type IntegrationRepo interface {
	GetIntegration(id string) (*models.Integration, error)
	ListIntegrations() ([]*models.Integration, error)
	UpsertIntegration(i *models.Integration) error
	DeleteIntegration(id string) (bool, error)
}

// KPIRepo defines operations for KPI definitions.
type KPIRepo interface {
	GetKPI(id string) (*models.KPIDefinition, error)
	ListKPIs() ([]*models.KPIDefinition, error)
	UpsertKPI(k *models.KPIDefinition) error
	DeleteKPI(id string) (bool, error)
}

// BenchmarkRepo defines operations for benchmark definitions.
type BenchmarkRepo interface {
	GetBenchmark(id string) (*models.BenchmarkDefinition, error)
	ListBenchmarks() ([]*models.BenchmarkDefinition, error)
	UpsertBenchmark(b *models.BenchmarkDefinition) error
	DeleteBenchmark(id string) (bool, error)
}

// MetricStore persists raw daily metric records.  A (date, campaign) pair is
// the natural key: re-importing a day replaces it rather than double
// counting.  Backed by postgres, clickhouse or memory.
type MetricStore interface {
	SaveRecords(records []models.RawMetricRecord) error

	// ListRecords returns records with from <= date <= to.  Empty bounds are
	// open ends.
	ListRecords(from, to string) ([]models.RawMetricRecord, error)
}
