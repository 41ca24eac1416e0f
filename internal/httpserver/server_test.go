package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marketpulse/pulse-api/internal/config"
	"github.com/marketpulse/pulse-api/internal/insights"
	"github.com/marketpulse/pulse-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		Server:   config.ServerConfig{Addr: ":0", Env: "test"},
		Insights: config.InsightsConfig{CacheTTL: time.Minute},
	}
	srv := NewServer(Dependencies{
		Config: cfg,
		Logger: zap.NewNop(),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body interface{}, out interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]string
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/health", nil, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestCampaignCRUD(t *testing.T) {
	ts := newTestServer(t)

	var created models.Campaign
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/campaigns",
		models.Campaign{Name: "Spring Sale", Platform: "google_ads"}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, created.ID)

	var fetched models.Campaign
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/campaigns/"+created.ID, nil, &fetched)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Spring Sale", fetched.Name)

	var updated models.Campaign
	resp = doJSON(t, http.MethodPut, ts.URL+"/api/campaigns/"+created.ID,
		models.Campaign{Name: "Spring Sale v2", Platform: "google_ads"}, &updated)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Spring Sale v2", updated.Name)

	var list []models.Campaign
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/campaigns", nil, &list)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list, 1)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/campaigns/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/campaigns/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCampaignValidationErrors(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/campaigns",
		models.Campaign{Platform: "google_ads"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPatch, ts.URL+"/api/campaigns", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestKPIAndBenchmarkEndpoints(t *testing.T) {
	ts := newTestServer(t)

	var kpi models.KPIDefinition
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/kpis",
		models.KPIDefinition{Name: "CTR goal", Metric: "ctr", TargetValue: 2}, &kpi)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/kpis",
		models.KPIDefinition{Name: "bad", Metric: "ctr"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var bench models.BenchmarkDefinition
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/benchmarks",
		models.BenchmarkDefinition{Name: "Industry ROAS", Metric: "roas", BenchmarkValue: 4}, &bench)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/benchmarks/"+bench.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestPerformanceImportAndInsights(t *testing.T) {
	ts := newTestServer(t)

	var records []models.RawMetricRecord
	for i := 0; i < 30; i++ {
		records = append(records, models.RawMetricRecord{
			Date:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i).Format("2006-01-02"),
			CampaignID:  "c-1",
			Impressions: 2000,
			Clicks:      100,
			Spend:       50,
		})
	}

	var imported map[string]int
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/performance",
		map[string]interface{}{"records": records}, &imported)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 30, imported["imported"])

	var listed struct {
		Records []models.RawMetricRecord `json:"records"`
		Count   int                      `json:"count"`
	}
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/performance?from=2026-01-01&to=2026-01-07", nil, &listed)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 7, listed.Count)

	var report insights.Report
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/insights", nil, &report)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 30, report.AvailableDays)

	// Spend with zero conversions across the whole window.
	var found bool
	for _, it := range report.Insights {
		if it.ID == "integrity:spend-no-conversions" {
			found = true
			assert.Equal(t, insights.SeverityHigh, it.Severity)
		}
	}
	assert.True(t, found)

	var summary struct {
		AvailableDays int `json:"available_days"`
		Cards         []struct {
			Metric  string  `json:"metric"`
			Value   float64 `json:"value"`
			Display string  `json:"display"`
		} `json:"cards"`
	}
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/metrics/summary", nil, &summary)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 30, summary.AvailableDays)
	require.NotEmpty(t, summary.Cards)
	for _, card := range summary.Cards {
		if card.Metric == "spend" {
			assert.Equal(t, "$1500.00", card.Display)
		}
	}
}

func TestPerformanceImportRejectsBadBatch(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/performance",
		map[string]interface{}{"records": []models.RawMetricRecord{{Date: "bad-date"}}}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/performance",
		map[string]interface{}{"records": []models.RawMetricRecord{}}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIntegrationConnectEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var created models.Integration
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/integrations",
		models.Integration{Platform: "meta_ads"}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var connected models.Integration
	resp = doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/integrations/%s/connect", ts.URL, created.ID),
		map[string]string{"api_key": "key-1", "account_id": "acct-1"}, &connected)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.IntegrationStatusConnected, connected.Status)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/integrations/nope/connect",
		map[string]string{}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouteFamilyCollapsesIDs(t *testing.T) {
	assert.Equal(t, "/api/campaigns/:id", routeFamily("/api/campaigns/abc-123"))
	assert.Equal(t, "/api/integrations/:id/sync", routeFamily("/api/integrations/i-9/sync"))
	assert.Equal(t, "/api/insights", routeFamily("/api/insights"))
	assert.Equal(t, "/api/health", routeFamily("/api/health"))
}
