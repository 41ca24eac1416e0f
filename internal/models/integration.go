package models

import (
	"errors"
	"time"
)

type IntegrationStatus string

const (
	IntegrationStatusConnected    IntegrationStatus = "connected"
	IntegrationStatusDisconnected IntegrationStatus = "disconnected"
	IntegrationStatusError        IntegrationStatus = "error"
)

// Integration is a connection record for an advertising platform account.
// Token exchange and OAuth flows happen outside this service; only the
// resulting credentials and sync state are stored here.
type Integration struct {
	ID        string            `json:"id"`
	Platform  string            `json:"platform"`
	Status    IntegrationStatus `json:"status"`
	APIKey    string            `json:"api_key,omitempty"`
	AccountID string            `json:"account_id,omitempty"`
	LastSync  *time.Time        `json:"last_sync,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func (i *Integration) Validate() error {
	if i.Platform == "" {
		return errors.New("integration platform is required")
	}
	switch i.Status {
	case IntegrationStatusConnected, IntegrationStatusDisconnected, IntegrationStatusError:
	case "":
		i.Status = IntegrationStatusDisconnected
	default:
		return errors.New("invalid integration status: " + string(i.Status))
	}
	return nil
}
