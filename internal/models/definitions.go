package models

import (
	"errors"
	"time"
)

// KPIDefinition is a caller-managed target for a single metric.  Metric is a
// key into the engine's canonical metric set ("ctr", "cpc", "roas", ...);
// unknown keys are tolerated and surfaced with an identity formatter rather
// than rejected, so one stale definition cannot break evaluation.
type KPIDefinition struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Metric      string    `json:"metric"`
	TargetValue float64   `json:"target_value"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (k *KPIDefinition) Validate() error {
	if k.Name == "" {
		return errors.New("kpi name is required")
	}
	if k.Metric == "" {
		return errors.New("kpi metric is required")
	}
	if k.TargetValue <= 0 {
		return errors.New("kpi target value must be positive")
	}
	return nil
}

// BenchmarkDefinition is an industry or account benchmark for a metric.
type BenchmarkDefinition struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Metric         string    `json:"metric"`
	BenchmarkValue float64   `json:"benchmark_value"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (b *BenchmarkDefinition) Validate() error {
	if b.Name == "" {
		return errors.New("benchmark name is required")
	}
	if b.Metric == "" {
		return errors.New("benchmark metric is required")
	}
	if b.BenchmarkValue <= 0 {
		return errors.New("benchmark value must be positive")
	}
	return nil
}
