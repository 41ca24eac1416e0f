package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marketpulse/pulse-api/internal/config"
	"github.com/marketpulse/pulse-api/internal/dashboard"
	"github.com/marketpulse/pulse-api/internal/models"
	"github.com/marketpulse/pulse-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSyncPullsAndStoresReport(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "acct-7", r.URL.Query().Get("account_id"))
		w.Write([]byte(`{"records":[
			{"date":"2026-01-01","campaign_id":"c-1","spend":10},
			{"date":"2026-01-02","campaign_id":"c-1","spend":12}
		]}`))
	}))
	defer ts.Close()

	logger := zap.NewNop()
	integrations := dashboard.NewIntegrationService(storage.NewInMemoryIntegrationRepo(), logger)
	store := storage.NewInMemoryMetricStore()
	performance := dashboard.NewPerformanceService(store, logger, nil)

	integ := &models.Integration{Platform: "google_ads", AccountID: "acct-7", Status: models.IntegrationStatusConnected}
	require.NoError(t, integrations.Create(integ))

	client := NewClient(config.ImporterConfig{BaseURL: ts.URL, Timeout: 2 * time.Second}, logger)
	svc := NewSyncService(client, integrations, performance, logger)

	result, err := svc.Sync(context.Background(), integ.ID, "2026-01-01", "2026-01-02")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Records)
	assert.False(t, result.SyncedAt.IsZero())

	records, err := store.ListRecords("", "")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	updated, err := integrations.Get(integ.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.LastSync)
}

func TestSyncRejectsDisconnectedIntegration(t *testing.T) {
	logger := zap.NewNop()
	integrations := dashboard.NewIntegrationService(storage.NewInMemoryIntegrationRepo(), logger)
	performance := dashboard.NewPerformanceService(storage.NewInMemoryMetricStore(), logger, nil)

	integ := &models.Integration{Platform: "google_ads"}
	require.NoError(t, integrations.Create(integ))

	client := NewClient(config.ImporterConfig{BaseURL: "http://unused", Timeout: time.Second}, logger)
	svc := NewSyncService(client, integrations, performance, logger)

	_, err := svc.Sync(context.Background(), integ.ID, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")
}

func TestSyncMissingIntegration(t *testing.T) {
	logger := zap.NewNop()
	integrations := dashboard.NewIntegrationService(storage.NewInMemoryIntegrationRepo(), logger)
	performance := dashboard.NewPerformanceService(storage.NewInMemoryMetricStore(), logger, nil)
	client := NewClient(config.ImporterConfig{BaseURL: "http://unused", Timeout: time.Second}, logger)
	svc := NewSyncService(client, integrations, performance, logger)

	_, err := svc.Sync(context.Background(), "missing", "", "")
	assert.ErrorIs(t, err, dashboard.ErrNotFound)
}
