package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCampaignValidate(t *testing.T) {
	c := Campaign{Name: "Spring Sale", Platform: "google_ads"}
	assert.NoError(t, c.Validate())
	assert.Equal(t, CampaignStatusActive, c.Status, "empty status defaults to active")

	c = Campaign{Platform: "google_ads"}
	assert.Error(t, c.Validate(), "name required")

	c = Campaign{Name: "Spring Sale"}
	assert.Error(t, c.Validate(), "platform required")

	c = Campaign{Name: "Spring Sale", Platform: "google_ads", Status: "archived"}
	assert.Error(t, c.Validate(), "unknown status rejected")

	c = Campaign{Name: "Spring Sale", Platform: "google_ads", Spend: -1}
	assert.Error(t, c.Validate(), "negative counters rejected")
}

func TestIntegrationValidate(t *testing.T) {
	i := Integration{Platform: "meta_ads"}
	assert.NoError(t, i.Validate())
	assert.Equal(t, IntegrationStatusDisconnected, i.Status)

	i = Integration{}
	assert.Error(t, i.Validate())

	i = Integration{Platform: "meta_ads", Status: "pending"}
	assert.Error(t, i.Validate())
}

func TestDefinitionValidate(t *testing.T) {
	k := KPIDefinition{Name: "CTR goal", Metric: "ctr", TargetValue: 2}
	assert.NoError(t, k.Validate())

	k.TargetValue = 0
	assert.Error(t, k.Validate())

	k = KPIDefinition{Metric: "ctr", TargetValue: 2}
	assert.Error(t, k.Validate())

	b := BenchmarkDefinition{Name: "Industry CTR", Metric: "ctr", BenchmarkValue: 3}
	assert.NoError(t, b.Validate())

	b.BenchmarkValue = -1
	assert.Error(t, b.Validate())
}
