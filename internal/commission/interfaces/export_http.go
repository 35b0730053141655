package interfaces

import (
	"errors"
	"net/http"
	"time"

	"trophy-ops/internal/audit"
	"trophy-ops/internal/commission/application"
	"trophy-ops/internal/observability/metrics"
)

// ExportsHandler serves ledger exports under /api/v1/exports. Exports apply
// the same period/search filter as the ledger list view.
type ExportsHandler struct {
	ledger      *application.LedgerService
	auditLogger audit.Logger
}

// NewExportsHandler constructs a handler.
func NewExportsHandler(ledger *application.LedgerService, auditLogger audit.Logger) (*ExportsHandler, error) {
	if ledger == nil {
		return nil, errors.New("exports handler: nil ledger service")
	}
	return &ExportsHandler{ledger: ledger, auditLogger: auditLogger}, nil
}

// ServeHTTP handles export routes.
func (h *ExportsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	switch r.URL.Path {
	case "/api/v1/exports/commissions.xlsx":
		h.handleExport(w, r, "xlsx")
	case "/api/v1/exports/commissions.csv":
		h.handleExport(w, r, "csv")
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *ExportsHandler) handleExport(w http.ResponseWriter, r *http.Request, format string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveExport(format, result, time.Since(start))
	}()

	filter := application.QueryFilter{
		Year:   r.URL.Query().Get("year"),
		Month:  r.URL.Query().Get("month"),
		Search: r.URL.Query().Get("q"),
	}
	records, err := h.ledger.Query(r.Context(), filter)
	if err != nil {
		result = metrics.ResultError
		respondServiceError(w, err)
		return
	}

	switch format {
	case "xlsx":
		data, err := BuildCommissionsXLSX(records)
		if err != nil {
			result = metrics.ResultError
			http.Error(w, "export xlsx error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="commissions.xlsx"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="commissions.csv"`)
		w.WriteHeader(http.StatusOK)
		_ = WriteCommissionsCSV(w, records)
	}
	logAudit(h.auditLogger, r, "ledger", "", "ledger.export", map[string]any{
		"format": format,
		"rows":   len(records),
	})
}
