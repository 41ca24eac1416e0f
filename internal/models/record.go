package models

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// FlexFloat decodes a JSON number that some platform exports serialize as a
// string ("123.45").  Unparsable or null values coerce to 0 instead of
// failing the whole import batch.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(f))
}

func (f FlexFloat) Float64() float64 {
	return float64(f)
}

// RawMetricRecord is one per-campaign-per-day row as delivered by a platform
// report.  Several records may share a date (one per campaign); the insight
// engine sums them into a single daily entry before any math.
type RawMetricRecord struct {
	Date                  string    `json:"date"`
	CampaignID            string    `json:"campaign_id,omitempty"`
	CampaignName          string    `json:"campaign_name,omitempty"`
	Impressions           FlexFloat `json:"impressions"`
	Clicks                FlexFloat `json:"clicks"`
	Spend                 FlexFloat `json:"spend"`
	Conversions           FlexFloat `json:"conversions"`
	ConversionValue       FlexFloat `json:"conversion_value"`
	VideoViews            FlexFloat `json:"video_views"`
	SearchImpressionShare FlexFloat `json:"search_impression_share"`
}

func (r *RawMetricRecord) Validate() error {
	if r.Date == "" {
		return errors.New("record date is required")
	}
	if len(r.Date) != 10 || r.Date[4] != '-' || r.Date[7] != '-' {
		return errors.New("record date must be an ISO day (YYYY-MM-DD): " + r.Date)
	}
	return nil
}

// Entity returns the best available campaign identifier for grouping.
func (r *RawMetricRecord) Entity() string {
	if r.CampaignID != "" {
		return r.CampaignID
	}
	return r.CampaignName
}
