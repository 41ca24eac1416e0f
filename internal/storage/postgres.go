package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/marketpulse/pulse-api/internal/models"
)

// PostgresCampaignRepo implements CampaignRepo using PostgreSQL.
type PostgresCampaignRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresCampaignRepo(pool *pgxpool.Pool) *PostgresCampaignRepo {
	return &PostgresCampaignRepo{pool: pool}
}

func (r *PostgresCampaignRepo) GetCampaign(id string) (*models.Campaign, error) {
	ctx := context.Background()

	var c models.Campaign
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, type, platform, status, impressions, clicks, spend, created_at, updated_at
		FROM campaigns WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Type, &c.Platform, &c.Status, &c.Impressions, &c.Clicks, &c.Spend, &c.CreatedAt, &c.UpdatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return &c, nil
}

func (r *PostgresCampaignRepo) ListCampaigns() ([]*models.Campaign, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, type, platform, status, impressions, clicks, spend, created_at, updated_at
		FROM campaigns ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.Platform, &c.Status, &c.Impressions, &c.Clicks, &c.Spend, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, &c)
	}
	return campaigns, rows.Err()
}

func (r *PostgresCampaignRepo) UpsertCampaign(c *models.Campaign) error {
	ctx := context.Background()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO campaigns (id, name, type, platform, status, impressions, clicks, spend, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			platform = EXCLUDED.platform,
			status = EXCLUDED.status,
			impressions = EXCLUDED.impressions,
			clicks = EXCLUDED.clicks,
			spend = EXCLUDED.spend,
			updated_at = EXCLUDED.updated_at
	`, c.ID, c.Name, c.Type, c.Platform, c.Status, c.Impressions, c.Clicks, c.Spend, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert campaign: %w", err)
	}
	return nil
}

func (r *PostgresCampaignRepo) DeleteCampaign(id string) (bool, error) {
	tag, err := r.pool.Exec(context.Background(), `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete campaign: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// PostgresIntegrationRepo implements IntegrationRepo using PostgreSQL.
type PostgresIntegrationRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresIntegrationRepo(pool *pgxpool.Pool) *PostgresIntegrationRepo {
	return &PostgresIntegrationRepo{pool: pool}
}

func (r *PostgresIntegrationRepo) GetIntegration(id string) (*models.Integration, error) {
	ctx := context.Background()

	var i models.Integration
	err := r.pool.QueryRow(ctx, `
		SELECT id, platform, status, api_key, account_id, last_sync, created_at
		FROM integrations WHERE id = $1
	`, id).Scan(&i.ID, &i.Platform, &i.Status, &i.APIKey, &i.AccountID, &i.LastSync, &i.CreatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get integration: %w", err)
	}
	return &i, nil
}

func (r *PostgresIntegrationRepo) ListIntegrations() ([]*models.Integration, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT id, platform, status, api_key, account_id, last_sync, created_at
		FROM integrations ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}
	defer rows.Close()

	var integrations []*models.Integration
	for rows.Next() {
		var i models.Integration
		if err := rows.Scan(&i.ID, &i.Platform, &i.Status, &i.APIKey, &i.AccountID, &i.LastSync, &i.CreatedAt); err != nil {
			return nil, err
		}
		integrations = append(integrations, &i)
	}
	return integrations, rows.Err()
}

func (r *PostgresIntegrationRepo) UpsertIntegration(i *models.Integration) error {
	_, err := r.pool.Exec(context.Background(), `
		INSERT INTO integrations (id, platform, status, api_key, account_id, last_sync, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			platform = EXCLUDED.platform,
			status = EXCLUDED.status,
			api_key = EXCLUDED.api_key,
			account_id = EXCLUDED.account_id,
			last_sync = EXCLUDED.last_sync
	`, i.ID, i.Platform, i.Status, i.APIKey, i.AccountID, i.LastSync, i.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert integration: %w", err)
	}
	return nil
}

func (r *PostgresIntegrationRepo) DeleteIntegration(id string) (bool, error) {
	tag, err := r.pool.Exec(context.Background(), `DELETE FROM integrations WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete integration: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// PostgresKPIRepo implements KPIRepo using PostgreSQL.
type PostgresKPIRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresKPIRepo(pool *pgxpool.Pool) *PostgresKPIRepo {
	return &PostgresKPIRepo{pool: pool}
}

func (r *PostgresKPIRepo) GetKPI(id string) (*models.KPIDefinition, error) {
	var k models.KPIDefinition
	err := r.pool.QueryRow(context.Background(), `
		SELECT id, name, metric, target_value, created_at, updated_at
		FROM kpi_definitions WHERE id = $1
	`, id).Scan(&k.ID, &k.Name, &k.Metric, &k.TargetValue, &k.CreatedAt, &k.UpdatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kpi: %w", err)
	}
	return &k, nil
}

func (r *PostgresKPIRepo) ListKPIs() ([]*models.KPIDefinition, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT id, name, metric, target_value, created_at, updated_at
		FROM kpi_definitions ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list kpis: %w", err)
	}
	defer rows.Close()

	var kpis []*models.KPIDefinition
	for rows.Next() {
		var k models.KPIDefinition
		if err := rows.Scan(&k.ID, &k.Name, &k.Metric, &k.TargetValue, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, err
		}
		kpis = append(kpis, &k)
	}
	return kpis, rows.Err()
}

func (r *PostgresKPIRepo) UpsertKPI(k *models.KPIDefinition) error {
	_, err := r.pool.Exec(context.Background(), `
		INSERT INTO kpi_definitions (id, name, metric, target_value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			metric = EXCLUDED.metric,
			target_value = EXCLUDED.target_value,
			updated_at = EXCLUDED.updated_at
	`, k.ID, k.Name, k.Metric, k.TargetValue, k.CreatedAt, k.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert kpi: %w", err)
	}
	return nil
}

func (r *PostgresKPIRepo) DeleteKPI(id string) (bool, error) {
	tag, err := r.pool.Exec(context.Background(), `DELETE FROM kpi_definitions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete kpi: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// PostgresBenchmarkRepo implements BenchmarkRepo using PostgreSQL.
type PostgresBenchmarkRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresBenchmarkRepo(pool *pgxpool.Pool) *PostgresBenchmarkRepo {
	return &PostgresBenchmarkRepo{pool: pool}
}

func (r *PostgresBenchmarkRepo) GetBenchmark(id string) (*models.BenchmarkDefinition, error) {
	var b models.BenchmarkDefinition
	err := r.pool.QueryRow(context.Background(), `
		SELECT id, name, metric, benchmark_value, created_at, updated_at
		FROM benchmark_definitions WHERE id = $1
	`, id).Scan(&b.ID, &b.Name, &b.Metric, &b.BenchmarkValue, &b.CreatedAt, &b.UpdatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get benchmark: %w", err)
	}
	return &b, nil
}

func (r *PostgresBenchmarkRepo) ListBenchmarks() ([]*models.BenchmarkDefinition, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT id, name, metric, benchmark_value, created_at, updated_at
		FROM benchmark_definitions ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list benchmarks: %w", err)
	}
	defer rows.Close()

	var benchmarks []*models.BenchmarkDefinition
	for rows.Next() {
		var b models.BenchmarkDefinition
		if err := rows.Scan(&b.ID, &b.Name, &b.Metric, &b.BenchmarkValue, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		benchmarks = append(benchmarks, &b)
	}
	return benchmarks, rows.Err()
}

func (r *PostgresBenchmarkRepo) UpsertBenchmark(b *models.BenchmarkDefinition) error {
	_, err := r.pool.Exec(context.Background(), `
		INSERT INTO benchmark_definitions (id, name, metric, benchmark_value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			metric = EXCLUDED.metric,
			benchmark_value = EXCLUDED.benchmark_value,
			updated_at = EXCLUDED.updated_at
	`, b.ID, b.Name, b.Metric, b.BenchmarkValue, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert benchmark: %w", err)
	}
	return nil
}

func (r *PostgresBenchmarkRepo) DeleteBenchmark(id string) (bool, error) {
	tag, err := r.pool.Exec(context.Background(), `DELETE FROM benchmark_definitions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete benchmark: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// PostgresMetricStore implements MetricStore using PostgreSQL.
type PostgresMetricStore struct {
	pool *pgxpool.Pool
}

func NewPostgresMetricStore(pool *pgxpool.Pool) *PostgresMetricStore {
	return &PostgresMetricStore{pool: pool}
}

func (s *PostgresMetricStore) SaveRecords(records []models.RawMetricRecord) error {
	ctx := context.Background()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		_, err := tx.Exec(ctx, `
			INSERT INTO daily_metrics (date, campaign_id, campaign_name, impressions, clicks, spend,
				conversions, conversion_value, video_views, search_impression_share)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (date, campaign_id) DO UPDATE SET
				campaign_name = EXCLUDED.campaign_name,
				impressions = EXCLUDED.impressions,
				clicks = EXCLUDED.clicks,
				spend = EXCLUDED.spend,
				conversions = EXCLUDED.conversions,
				conversion_value = EXCLUDED.conversion_value,
				video_views = EXCLUDED.video_views,
				search_impression_share = EXCLUDED.search_impression_share
		`, r.Date, r.Entity(), r.CampaignName,
			r.Impressions.Float64(), r.Clicks.Float64(), r.Spend.Float64(),
			r.Conversions.Float64(), r.ConversionValue.Float64(),
			r.VideoViews.Float64(), r.SearchImpressionShare.Float64())
		if err != nil {
			return fmt.Errorf("failed to upsert daily metric: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit daily metrics: %w", err)
	}
	return nil
}

func (s *PostgresMetricStore) ListRecords(from, to string) ([]models.RawMetricRecord, error) {
	ctx := context.Background()

	rows, err := s.pool.Query(ctx, `
		SELECT date, campaign_id, campaign_name, impressions, clicks, spend,
			conversions, conversion_value, video_views, search_impression_share
		FROM daily_metrics
		WHERE ($1 = '' OR date >= $1) AND ($2 = '' OR date <= $2)
		ORDER BY date, campaign_id
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily metrics: %w", err)
	}
	defer rows.Close()

	var records []models.RawMetricRecord
	for rows.Next() {
		var r models.RawMetricRecord
		var impressions, clicks, spend, conversions, conversionValue, videoViews, share float64
		if err := rows.Scan(&r.Date, &r.CampaignID, &r.CampaignName,
			&impressions, &clicks, &spend, &conversions, &conversionValue, &videoViews, &share); err != nil {
			return nil, err
		}
		r.Impressions = models.FlexFloat(impressions)
		r.Clicks = models.FlexFloat(clicks)
		r.Spend = models.FlexFloat(spend)
		r.Conversions = models.FlexFloat(conversions)
		r.ConversionValue = models.FlexFloat(conversionValue)
		r.VideoViews = models.FlexFloat(videoViews)
		r.SearchImpressionShare = models.FlexFloat(share)
		records = append(records, r)
	}
	return records, rows.Err()
}
