package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/marketpulse/pulse-api/internal/dashboard"
	"github.com/marketpulse/pulse-api/internal/models"
	"go.uber.org/zap"
)

// pathID extracts the entity ID (and optional trailing action) from a path
// like /api/campaigns/{id} or /api/integrations/{id}/sync.
func pathID(path, prefix string) (id, action string) {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return "", ""
	}
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}

func (s *Server) serviceError(w http.ResponseWriter, err error) {
	if errors.Is(err, dashboard.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.logger.Error("request failed", zap.Error(err))
	s.writeError(w, http.StatusInternalServerError, "internal server error")
}

// Campaigns

func (s *Server) handleCampaigns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.campaigns.List()
		if err != nil {
			s.serviceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var c models.Campaign
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.campaigns.Create(&c); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeJSON(w, http.StatusCreated, &c)

	default:
		s.methodNotAllowed(w)
	}
}

func (s *Server) handleCampaignByID(w http.ResponseWriter, r *http.Request) {
	id, action := pathID(r.URL.Path, "/api/campaigns")
	if id == "" || action != "" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := s.campaigns.Get(id)
		if err != nil {
			s.serviceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, c)

	case http.MethodPut:
		var in models.Campaign
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		updated, err := s.campaigns.Update(id, &in)
		if err != nil {
			if errors.Is(err, dashboard.ErrNotFound) {
				s.writeError(w, http.StatusNotFound, "not found")
			} else {
				s.writeError(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		s.writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.campaigns.Delete(id); err != nil {
			s.serviceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		s.methodNotAllowed(w)
	}
}

// Integrations

func (s *Server) handleIntegrations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.integrations.List()
		if err != nil {
			s.serviceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var i models.Integration
		if err := json.NewDecoder(r.Body).Decode(&i); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.integrations.Create(&i); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeJSON(w, http.StatusCreated, &i)

	default:
		s.methodNotAllowed(w)
	}
}

func (s *Server) handleIntegrationByID(w http.ResponseWriter, r *http.Request) {
	id, action := pathID(r.URL.Path, "/api/integrations")
	if id == "" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch action {
	case "":
		switch r.Method {
		case http.MethodGet:
			i, err := s.integrations.Get(id)
			if err != nil {
				s.serviceError(w, err)
				return
			}
			s.writeJSON(w, http.StatusOK, i)
		case http.MethodDelete:
			if err := s.integrations.Delete(id); err != nil {
				s.serviceError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			s.methodNotAllowed(w)
		}

	case "connect":
		if r.Method != http.MethodPost {
			s.methodNotAllowed(w)
			return
		}
		var body struct {
			APIKey    string `json:"api_key"`
			AccountID string `json:"account_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		i, err := s.integrations.Connect(id, body.APIKey, body.AccountID)
		if err != nil {
			s.serviceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, i)

	case "sync":
		if r.Method != http.MethodPost {
			s.methodNotAllowed(w)
			return
		}
		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")
		result, err := s.sync.Sync(r.Context(), id, from, to)
		if err != nil {
			if errors.Is(err, dashboard.ErrNotFound) {
				s.writeError(w, http.StatusNotFound, "not found")
			} else {
				s.logger.Error("sync failed", zap.String("integration_id", id), zap.Error(err))
				s.writeError(w, http.StatusBadGateway, err.Error())
			}
			return
		}
		s.insights.Invalidate(r.Context(), "", "")
		s.writeJSON(w, http.StatusOK, result)

	default:
		s.writeError(w, http.StatusNotFound, "not found")
	}
}

// KPIs

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.kpis.List()
		if err != nil {
			s.serviceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var k models.KPIDefinition
		if err := json.NewDecoder(r.Body).Decode(&k); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.kpis.Create(&k); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeJSON(w, http.StatusCreated, &k)

	default:
		s.methodNotAllowed(w)
	}
}

func (s *Server) handleKPIByID(w http.ResponseWriter, r *http.Request) {
	id, action := pathID(r.URL.Path, "/api/kpis")
	if id == "" || action != "" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		k, err := s.kpis.Get(id)
		if err != nil {
			s.serviceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, k)

	case http.MethodPut:
		var in models.KPIDefinition
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		updated, err := s.kpis.Update(id, &in)
		if err != nil {
			if errors.Is(err, dashboard.ErrNotFound) {
				s.writeError(w, http.StatusNotFound, "not found")
			} else {
				s.writeError(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		s.writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.kpis.Delete(id); err != nil {
			s.serviceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		s.methodNotAllowed(w)
	}
}

// Benchmarks

func (s *Server) handleBenchmarks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.benchmarks.List()
		if err != nil {
			s.serviceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var b models.BenchmarkDefinition
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.benchmarks.Create(&b); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeJSON(w, http.StatusCreated, &b)

	default:
		s.methodNotAllowed(w)
	}
}

func (s *Server) handleBenchmarkByID(w http.ResponseWriter, r *http.Request) {
	id, action := pathID(r.URL.Path, "/api/benchmarks")
	if id == "" || action != "" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		b, err := s.benchmarks.Get(id)
		if err != nil {
			s.serviceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, b)

	case http.MethodPut:
		var in models.BenchmarkDefinition
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		updated, err := s.benchmarks.Update(id, &in)
		if err != nil {
			if errors.Is(err, dashboard.ErrNotFound) {
				s.writeError(w, http.StatusNotFound, "not found")
			} else {
				s.writeError(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		s.writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.benchmarks.Delete(id); err != nil {
			s.serviceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		s.methodNotAllowed(w)
	}
}

// Performance

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		records, err := s.performance.List(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
		if err != nil {
			s.serviceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"records": records,
			"count":   len(records),
		})

	case http.MethodPost:
		var body struct {
			Records []models.RawMetricRecord `json:"records"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.performance.Import(body.Records); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.insights.Invalidate(r.Context(), "", "")
		s.writeJSON(w, http.StatusCreated, map[string]int{"imported": len(body.Records)})

	default:
		s.methodNotAllowed(w)
	}
}

// Summary and insights

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}
	summary, err := s.summary.Build(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}
	report, err := s.insights.Report(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}
