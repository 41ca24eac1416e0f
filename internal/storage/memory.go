package storage

import (
	"sort"
	"sync"

	"github.com/marketpulse/pulse-api/internal/models"
)

// In-memory implementations.  Not durable; used for development, tests and
// as the fallback when no database is configured.

// InMemoryCampaignRepo stores campaigns in memory.
type InMemoryCampaignRepo struct {
	mu        sync.RWMutex
	campaigns map[string]*models.Campaign
}

func NewInMemoryCampaignRepo() *InMemoryCampaignRepo {
	return &InMemoryCampaignRepo{campaigns: make(map[string]*models.Campaign)}
}

func (r *InMemoryCampaignRepo) GetCampaign(id string) (*models.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.campaigns[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *InMemoryCampaignRepo) ListCampaigns() ([]*models.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*models.Campaign, 0, len(r.campaigns))
	for _, c := range r.campaigns {
		cp := *c
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (r *InMemoryCampaignRepo) UpsertCampaign(c *models.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.campaigns[c.ID] = &cp
	return nil
}

func (r *InMemoryCampaignRepo) DeleteCampaign(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.campaigns[id]; !ok {
		return false, nil
	}
	delete(r.campaigns, id)
	return true, nil
}

// InMemoryIntegrationRepo stores integrations in memory.
type InMemoryIntegrationRepo struct {
	mu           sync.RWMutex
	integrations map[string]*models.Integration
}

func NewInMemoryIntegrationRepo() *InMemoryIntegrationRepo {
	return &InMemoryIntegrationRepo{integrations: make(map[string]*models.Integration)}
}

func (r *InMemoryIntegrationRepo) GetIntegration(id string) (*models.Integration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i, ok := r.integrations[id]; ok {
		cp := *i
		return &cp, nil
	}
	return nil, nil
}

func (r *InMemoryIntegrationRepo) ListIntegrations() ([]*models.Integration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*models.Integration, 0, len(r.integrations))
	for _, i := range r.integrations {
		cp := *i
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (r *InMemoryIntegrationRepo) UpsertIntegration(i *models.Integration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *i
	r.integrations[i.ID] = &cp
	return nil
}

func (r *InMemoryIntegrationRepo) DeleteIntegration(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.integrations[id]; !ok {
		return false, nil
	}
	delete(r.integrations, id)
	return true, nil
}

// InMemoryKPIRepo stores KPI definitions in memory.
type InMemoryKPIRepo struct {
	mu   sync.RWMutex
	kpis map[string]*models.KPIDefinition
}

func NewInMemoryKPIRepo() *InMemoryKPIRepo {
	return &InMemoryKPIRepo{kpis: make(map[string]*models.KPIDefinition)}
}

func (r *InMemoryKPIRepo) GetKPI(id string) (*models.KPIDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if k, ok := r.kpis[id]; ok {
		cp := *k
		return &cp, nil
	}
	return nil, nil
}

func (r *InMemoryKPIRepo) ListKPIs() ([]*models.KPIDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*models.KPIDefinition, 0, len(r.kpis))
	for _, k := range r.kpis {
		cp := *k
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (r *InMemoryKPIRepo) UpsertKPI(k *models.KPIDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *k
	r.kpis[k.ID] = &cp
	return nil
}

func (r *InMemoryKPIRepo) DeleteKPI(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.kpis[id]; !ok {
		return false, nil
	}
	delete(r.kpis, id)
	return true, nil
}

// InMemoryBenchmarkRepo stores benchmark definitions in memory.
type InMemoryBenchmarkRepo struct {
	mu         sync.RWMutex
	benchmarks map[string]*models.BenchmarkDefinition
}

func NewInMemoryBenchmarkRepo() *InMemoryBenchmarkRepo {
	return &InMemoryBenchmarkRepo{benchmarks: make(map[string]*models.BenchmarkDefinition)}
}

func (r *InMemoryBenchmarkRepo) GetBenchmark(id string) (*models.BenchmarkDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.benchmarks[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *InMemoryBenchmarkRepo) ListBenchmarks() ([]*models.BenchmarkDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*models.BenchmarkDefinition, 0, len(r.benchmarks))
	for _, b := range r.benchmarks {
		cp := *b
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (r *InMemoryBenchmarkRepo) UpsertBenchmark(b *models.BenchmarkDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.benchmarks[b.ID] = &cp
	return nil
}

func (r *InMemoryBenchmarkRepo) DeleteBenchmark(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.benchmarks[id]; !ok {
		return false, nil
	}
	delete(r.benchmarks, id)
	return true, nil
}

// InMemoryMetricStore stores raw daily records in memory, keyed by
// (date, campaign) so re-imports replace rather than accumulate.
type InMemoryMetricStore struct {
	mu      sync.RWMutex
	records map[string]models.RawMetricRecord
}

func NewInMemoryMetricStore() *InMemoryMetricStore {
	return &InMemoryMetricStore{records: make(map[string]models.RawMetricRecord)}
}

func (s *InMemoryMetricStore) SaveRecords(records []models.RawMetricRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.records[r.Date+"|"+r.Entity()] = r
	}
	return nil
}

func (s *InMemoryMetricStore) ListRecords(from, to string) ([]models.RawMetricRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []models.RawMetricRecord
	for _, r := range s.records {
		if from != "" && r.Date < from {
			continue
		}
		if to != "" && r.Date > to {
			continue
		}
		res = append(res, r)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Date != res[j].Date {
			return res[i].Date < res[j].Date
		}
		return res[i].Entity() < res[j].Entity()
	})
	return res, nil
}
