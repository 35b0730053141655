package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"trophy-ops/internal/audit"
	"trophy-ops/internal/auth"
	"trophy-ops/internal/commission/application"
	commission "trophy-ops/internal/commission/domain"
)

const deliveryDateLayout = "2006-01-02"

// OrdersHandler handles order ledger APIs under /api/v1/orders.
type OrdersHandler struct {
	ledger      *application.LedgerService
	settler     *application.SettlementService
	auditLogger audit.Logger
}

// NewOrdersHandler constructs a handler.
func NewOrdersHandler(ledger *application.LedgerService, settler *application.SettlementService, auditLogger audit.Logger) (*OrdersHandler, error) {
	if ledger == nil {
		return nil, errors.New("orders handler: nil ledger service")
	}
	if settler == nil {
		return nil, errors.New("orders handler: nil settlement service")
	}
	return &OrdersHandler{ledger: ledger, settler: settler, auditLogger: auditLogger}, nil
}

// ServeHTTP handles order routes.
func (h *OrdersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/api/v1/orders" {
		switch r.Method {
		case http.MethodPost:
			h.handleCreate(w, r)
		case http.MethodGet:
			h.handleList(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}
	if path == "/api/v1/orders/settle" && r.Method == http.MethodPost {
		h.handleSettleBulk(w, r)
		return
	}
	if strings.HasPrefix(path, "/api/v1/orders/") {
		rest := strings.TrimPrefix(path, "/api/v1/orders/")
		parts := strings.Split(rest, "/")
		if len(parts) == 2 && parts[1] == "settle" && r.Method == http.MethodPost {
			h.handleSettleOne(w, r, parts[0])
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *OrdersHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeliveryDate     string  `json:"delivery_date"`
		PONumber         string  `json:"po_number"`
		JobName          string  `json:"job_name"`
		Category         string  `json:"category"`
		SalesPersonName  string  `json:"sales_person_name"`
		Quantity         int     `json:"quantity"`
		TotalSalesAmount float64 `json:"total_sales_amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	deliveryDate, err := time.Parse(deliveryDateLayout, req.DeliveryDate)
	if err != nil {
		http.Error(w, "delivery_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	order, err := h.ledger.AddOrder(r.Context(), application.NewOrderInput{
		DeliveryDate:     deliveryDate,
		PONumber:         req.PONumber,
		JobName:          req.JobName,
		Category:         req.Category,
		SalesPersonName:  req.SalesPersonName,
		Quantity:         req.Quantity,
		TotalSalesAmount: req.TotalSalesAmount,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toOrderJSON(order))
	h.logAudit(r, order.ID(), "order.add", map[string]any{
		"po_number": order.PONumber(),
		"category":  order.Category(),
	})
}

func (h *OrdersHandler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := application.QueryFilter{
		Year:   r.URL.Query().Get("year"),
		Month:  r.URL.Query().Get("month"),
		Search: r.URL.Query().Get("q"),
	}
	records, err := h.ledger.Query(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	out := make([]orderJSON, 0, len(records))
	for _, record := range records {
		out = append(out, toOrderJSON(record))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (h *OrdersHandler) handleSettleOne(w http.ResponseWriter, r *http.Request, id string) {
	order, err := h.settler.SettleOne(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := struct {
		Order   orderJSON `json:"order"`
		Warning string    `json:"warning,omitempty"`
	}{Order: toOrderJSON(order), Warning: degradationWarning(order)}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
	h.logAudit(r, order.ID(), "order.settle", map[string]any{
		"period": order.Period().String(),
		"amount": order.CommissionAmount(),
	})
}

func (h *OrdersHandler) handleSettleBulk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if len(req.IDs) == 0 {
		http.Error(w, "ids required", http.StatusBadRequest)
		return
	}

	settled, failures := h.settler.SettleMany(r.Context(), req.IDs)

	type skippedJSON struct {
		ID     string `json:"id"`
		Reason string `json:"reason"`
	}
	type warningJSON struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	}
	resp := struct {
		Settled  []orderJSON   `json:"settled"`
		Skipped  []skippedJSON `json:"skipped"`
		Warnings []warningJSON `json:"warnings,omitempty"`
	}{Settled: make([]orderJSON, 0, len(settled)), Skipped: make([]skippedJSON, 0, len(failures))}
	for _, order := range settled {
		resp.Settled = append(resp.Settled, toOrderJSON(order))
		if warning := degradationWarning(order); warning != "" {
			resp.Warnings = append(resp.Warnings, warningJSON{ID: order.ID(), Message: warning})
		}
	}
	for _, failure := range failures {
		resp.Skipped = append(resp.Skipped, skippedJSON{ID: failure.ID, Reason: failure.Err.Error()})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
	h.logAudit(r, "", "order.settle_bulk", map[string]any{
		"requested": len(req.IDs),
		"settled":   len(settled),
		"skipped":   len(failures),
	})
}

func (h *OrdersHandler) logAudit(r *http.Request, orderID, action string, meta map[string]any) {
	logAudit(h.auditLogger, r, "order", orderID, action, meta)
}

// orderJSON is the wire form of an order record.
type orderJSON struct {
	ID               string             `json:"id"`
	DeliveryDate     string             `json:"delivery_date"`
	PONumber         string             `json:"po_number"`
	JobName          string             `json:"job_name"`
	Category         string             `json:"category"`
	SalesPersonName  string             `json:"sales_person_name"`
	Quantity         int                `json:"quantity"`
	TotalSalesAmount float64            `json:"total_sales_amount"`
	Status           string             `json:"status"`
	Commission       *commission.Result `json:"commission,omitempty"`
	ProcessedAt      string             `json:"processed_at,omitempty"`
	Period           string             `json:"period,omitempty"`
}

func toOrderJSON(order *commission.OrderRecord) orderJSON {
	out := orderJSON{
		ID:               order.ID(),
		DeliveryDate:     order.DeliveryDate().Format(deliveryDateLayout),
		PONumber:         order.PONumber(),
		JobName:          order.JobName(),
		Category:         order.Category(),
		SalesPersonName:  order.SalesPersonName(),
		Quantity:         order.Quantity(),
		TotalSalesAmount: order.TotalSalesAmount(),
		Status:           order.Status(),
		Commission:       order.Commission(),
	}
	if order.IsCompleted() {
		out.ProcessedAt = order.ProcessedAt().Format(time.RFC3339)
		out.Period = order.Period().String()
	}
	return out
}

func degradationWarning(order *commission.OrderRecord) string {
	result := order.Commission()
	if result != nil && result.Description == application.DescriptionConfigNotFound {
		return application.DescriptionConfigNotFound
	}
	return ""
}

func respondServiceError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, commission.ErrOrderNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
	case errors.Is(err, commission.ErrAlreadySettled):
		http.Error(w, "order already settled", http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func logAudit(logger audit.Logger, r *http.Request, resourceType, resourceID, action string, meta map[string]any) {
	if logger == nil {
		return
	}
	payload, _ := json.Marshal(meta)
	_ = logger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Metadata:     payload,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}
