package storage

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/marketpulse/pulse-api/internal/models"
)

// ClickHouseMetricStore implements MetricStore on ClickHouse.  Daily metric
// rows are append-heavy and queried by date range, which is the workload a
// columnar store is built for; a ReplacingMergeTree keyed on
// (date, campaign_id) gives the same replace-on-reimport semantics as the
// postgres upsert.
type ClickHouseMetricStore struct {
	conn driver.Conn
}

func NewClickHouseMetricStore(conn driver.Conn) *ClickHouseMetricStore {
	return &ClickHouseMetricStore{conn: conn}
}

func (s *ClickHouseMetricStore) SaveRecords(records []models.RawMetricRecord) error {
	ctx := context.Background()

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO daily_metrics (date, campaign_id, campaign_name, impressions, clicks, spend,
			conversions, conversion_value, video_views, search_impression_share)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, r := range records {
		err := batch.Append(
			r.Date, r.Entity(), r.CampaignName,
			r.Impressions.Float64(), r.Clicks.Float64(), r.Spend.Float64(),
			r.Conversions.Float64(), r.ConversionValue.Float64(),
			r.VideoViews.Float64(), r.SearchImpressionShare.Float64(),
		)
		if err != nil {
			return fmt.Errorf("failed to append daily metric: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}
	return nil
}

func (s *ClickHouseMetricStore) ListRecords(from, to string) ([]models.RawMetricRecord, error) {
	ctx := context.Background()

	rows, err := s.conn.Query(ctx, `
		SELECT date, campaign_id, campaign_name, impressions, clicks, spend,
			conversions, conversion_value, video_views, search_impression_share
		FROM daily_metrics FINAL
		WHERE (? = '' OR date >= ?) AND (? = '' OR date <= ?)
		ORDER BY date, campaign_id
	`, from, from, to, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily metrics: %w", err)
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
