package models

import (
	"errors"
	"time"
)

type CampaignStatus string

const (
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusDraft     CampaignStatus = "draft"
)

// Campaign is a paid-media campaign tracked by the dashboard.  Lifetime
// impression/click/spend counters come from the connected platform and are
// display-only; the insight engine works from daily records instead.
type Campaign struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Platform    string         `json:"platform"`
	Status      CampaignStatus `json:"status"`
	Impressions int64          `json:"impressions"`
	Clicks      int64          `json:"clicks"`
	Spend       float64        `json:"spend"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Validate checks required fields and value ranges.
func (c *Campaign) Validate() error {
	if c.Name == "" {
		return errors.New("campaign name is required")
	}
	if len(c.Name) > 200 {
		return errors.New("campaign name exceeds 200 characters")
	}
	if c.Platform == "" {
		return errors.New("campaign platform is required")
	}
	switch c.Status {
	case CampaignStatusActive, CampaignStatusPaused, CampaignStatusCompleted, CampaignStatusDraft:
	case "":
		c.Status = CampaignStatusActive
	default:
		return errors.New("invalid campaign status: " + string(c.Status))
	}
	if c.Impressions < 0 || c.Clicks < 0 || c.Spend < 0 {
		return errors.New("campaign counters must be non-negative")
	}
	return nil
}
