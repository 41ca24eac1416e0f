package dashboard

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/marketpulse/pulse-api/internal/models"
	"github.com/marketpulse/pulse-api/internal/storage"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// CampaignService manages campaign records.
type CampaignService struct {
	repo   storage.CampaignRepo
	logger *zap.Logger
}

func NewCampaignService(repo storage.CampaignRepo, logger *zap.Logger) *CampaignService {
	return &CampaignService{repo: repo, logger: logger}
}

func (s *CampaignService) Create(c *models.Campaign) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.repo.UpsertCampaign(c); err != nil {
		return err
	}
	s.logger.Info("campaign created",
		zap.String("id", c.ID),
		zap.String("name", c.Name),
		zap.String("platform", c.Platform),
	)
	return nil
}

func (s *CampaignService) Get(id string) (*models.Campaign, error) {
	c, err := s.repo.GetCampaign(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *CampaignService) List() ([]*models.Campaign, error) {
	return s.repo.ListCampaigns()
}

// Update applies the incoming fields onto the stored campaign, keeping its
// creation time.
func (s *CampaignService) Update(id string, in *models.Campaign) (*models.Campaign, error) {
	existing, err := s.repo.GetCampaign(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	in.ID = id
	in.CreatedAt = existing.CreatedAt
	in.UpdatedAt = time.Now().UTC()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpsertCampaign(in); err != nil {
		return nil, err
	}
	s.logger.Info("campaign updated", zap.String("id", id))
	return in, nil
}

func (s *CampaignService) Delete(id string) error {
	deleted, err := s.repo.DeleteCampaign(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.logger.Info("campaign deleted", zap.String("id", id))
	return nil
}

// IntegrationService manages platform connection records.
type IntegrationService struct {
	repo   storage.IntegrationRepo
	logger *zap.Logger
}

func NewIntegrationService(repo storage.IntegrationRepo, logger *zap.Logger) *IntegrationService {
	return &IntegrationService{repo: repo, logger: logger}
}

func (s *IntegrationService) Create(i *models.Integration) error {
	if err := i.Validate(); err != nil {
		return err
	}
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	i.CreatedAt = time.Now().UTC()

	if err := s.repo.UpsertIntegration(i); err != nil {
		return err
	}
	s.logger.Info("integration created",
		zap.String("id", i.ID),
		zap.String("platform", i.Platform),
	)
	return nil
}

func (s *IntegrationService) Get(id string) (*models.Integration, error) {
	i, err := s.repo.GetIntegration(id)
	if err != nil {
		return nil, err
	}
	if i == nil {
		return nil, ErrNotFound
	}
	return i, nil
}

func (s *IntegrationService) List() ([]*models.Integration, error) {
	return s.repo.ListIntegrations()
}

func (s *IntegrationService) Delete(id string) error {
	deleted, err := s.repo.DeleteIntegration(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.logger.Info("integration deleted", zap.String("id", id))
	return nil
}

// Connect marks an integration connected and stamps its credentials.
func (s *IntegrationService) Connect(id, apiKey, accountID string) (*models.Integration, error) {
	i, err := s.repo.GetIntegration(id)
	if err != nil {
		return nil, err
	}
	if i == nil {
		return nil, ErrNotFound
	}

	if apiKey != "" {
		i.APIKey = apiKey
	}
	if accountID != "" {
		i.AccountID = accountID
	}
	i.Status = models.IntegrationStatusConnected

	if err := s.repo.UpsertIntegration(i); err != nil {
		return nil, err
	}
	s.logger.Info("integration connected", zap.String("id", id), zap.String("platform", i.Platform))
	return i, nil
}

// MarkSynced records a successful metrics pull for the integration.
func (s *IntegrationService) MarkSynced(id string, at time.Time) error {
	i, err := s.repo.GetIntegration(id)
	if err != nil {
		return err
	}
	if i == nil {
		return ErrNotFound
	}
	at = at.UTC()
	i.LastSync = &at
	i.Status = models.IntegrationStatusConnected
	return s.repo.UpsertIntegration(i)
}

// KPIService manages KPI definitions.
type KPIService struct {
	repo   storage.KPIRepo
	logger *zap.Logger
}

func NewKPIService(repo storage.KPIRepo, logger *zap.Logger) *KPIService {
	return &KPIService{repo: repo, logger: logger}
}

func (s *KPIService) Create(k *models.KPIDefinition) error {
	if err := k.Validate(); err != nil {
		return err
	}
	if k.ID == "" {
		k.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	k.CreatedAt = now
	k.UpdatedAt = now

	if err := s.repo.UpsertKPI(k); err != nil {
		return err
	}
	s.logger.Info("kpi created", zap.String("id", k.ID), zap.String("metric", k.Metric))
	return nil
}

func (s *KPIService) Get(id string) (*models.KPIDefinition, error) {
	k, err := s.repo.GetKPI(id)
	if err != nil {
		return nil, err
	}
	if k == nil {
		return nil, ErrNotFound
	}
	return k, nil
}

func (s *KPIService) List() ([]*models.KPIDefinition, error) {
	return s.repo.ListKPIs()
}

func (s *KPIService) Update(id string, in *models.KPIDefinition) (*models.KPIDefinition, error) {
	existing, err := s.repo.GetKPI(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	in.ID = id
	in.CreatedAt = existing.CreatedAt
	in.UpdatedAt = time.Now().UTC()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpsertKPI(in); err != nil {
		return nil, err
	}
	return in, nil
}

func (s *KPIService) Delete(id string) error {
	deleted, err := s.repo.DeleteKPI(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// BenchmarkService manages benchmark definitions.
type BenchmarkService struct {
	repo   storage.BenchmarkRepo
	logger *zap.Logger
}

func NewBenchmarkService(repo storage.BenchmarkRepo, logger *zap.Logger) *BenchmarkService {
	return &BenchmarkService{repo: repo, logger: logger}
}

func (s *BenchmarkService) Create(b *models.BenchmarkDefinition) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	if err := s.repo.UpsertBenchmark(b); err != nil {
		return err
	}
	s.logger.Info("benchmark created", zap.String("id", b.ID), zap.String("metric", b.Metric))
	return nil
}

func (s *BenchmarkService) Get(id string) (*models.BenchmarkDefinition, error) {
	b, err := s.repo.GetBenchmark(id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *BenchmarkService) List() ([]*models.BenchmarkDefinition, error) {
	return s.repo.ListBenchmarks()
}

func (s *BenchmarkService) Update(id string, in *models.BenchmarkDefinition) (*models.BenchmarkDefinition, error) {
	existing, err := s.repo.GetBenchmark(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	in.ID = id
	in.CreatedAt = existing.CreatedAt
	in.UpdatedAt = time.Now().UTC()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpsertBenchmark(in); err != nil {
		return nil, err
	}
	return in, nil
}

func (s *BenchmarkService) Delete(id string) error {
	deleted, err := s.repo.DeleteBenchmark(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
