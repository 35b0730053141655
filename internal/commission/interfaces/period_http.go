package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"trophy-ops/internal/audit"
	"trophy-ops/internal/commission/application"
	commission "trophy-ops/internal/commission/domain"
	"trophy-ops/internal/observability/metrics"
)

// PeriodsHandler serves payout period views under /api/v1/periods.
type PeriodsHandler struct {
	ledger      *application.LedgerService
	auditLogger audit.Logger
}

// NewPeriodsHandler constructs a handler.
func NewPeriodsHandler(ledger *application.LedgerService, auditLogger audit.Logger) (*PeriodsHandler, error) {
	if ledger == nil {
		return nil, errors.New("periods handler: nil ledger service")
	}
	return &PeriodsHandler{ledger: ledger, auditLogger: auditLogger}, nil
}

// ServeHTTP handles period routes.
func (h *PeriodsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	path := r.URL.Path
	if path == "/api/v1/periods" {
		h.handleList(w, r)
		return
	}
	if strings.HasPrefix(path, "/api/v1/periods/") {
		rest := strings.TrimPrefix(path, "/api/v1/periods/")
		parts := strings.Split(rest, "/")
		if len(parts) == 2 && parts[1] == "statement.pdf" {
			h.handleStatementPDF(w, r, parts[0])
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *PeriodsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	groups, err := h.ledger.PeriodGroups(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	type groupJSON struct {
		Period          string      `json:"period"`
		TotalCommission float64     `json:"total_commission"`
		TotalSales      float64     `json:"total_sales"`
		Items           []orderJSON `json:"items"`
	}
	out := make([]groupJSON, 0, len(groups))
	for _, group := range groups {
		entry := groupJSON{
			Period:          group.Period.String(),
			TotalCommission: group.TotalCommission,
			TotalSales:      group.TotalSales,
			Items:           make([]orderJSON, 0, len(group.Items)),
		}
		for _, item := range group.Items {
			entry.Items = append(entry.Items, toOrderJSON(item))
		}
		out = append(out, entry)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (h *PeriodsHandler) handleStatementPDF(w http.ResponseWriter, r *http.Request, period string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveExport("pdf", result, time.Since(start))
	}()

	if _, err := commission.ParsePeriod(period); err != nil {
		result = metrics.ResultError
		http.Error(w, "period must be YYYY-MM", http.StatusBadRequest)
		return
	}

	groups, err := h.ledger.PeriodGroups(r.Context())
	if err != nil {
		result = metrics.ResultError
		respondServiceError(w, err)
		return
	}
	var found *application.PeriodGroup
	for i := range groups {
		if groups[i].Period.String() == period {
			found = &groups[i]
			break
		}
	}
	if found == nil {
		result = metrics.ResultError
		http.Error(w, "period not found", http.StatusNotFound)
		return
	}

	data, err := BuildPeriodStatementPDF(*found)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export pdf error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	logAudit(h.auditLogger, r, "period", period, "period.export", map[string]any{"format": "pdf"})
}
