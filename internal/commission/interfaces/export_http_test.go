package interfaces

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func settleAll(t *testing.T, orders *OrdersHandler, ids ...string) {
	t.Helper()
	body, _ := json.Marshal(map[string][]string{"ids": ids})
	rec := httptest.NewRecorder()
	orders.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/orders/settle", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("bulk settle status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPeriodsList(t *testing.T) {
	orders, periods, _ := newHandlers(t, time.Date(2025, time.January, 8, 0, 0, 0, 0, time.UTC))
	first := createOrder(t, orders, medalOrderBody)
	second := createOrder(t, orders, `{
		"delivery_date": "2025-02-14",
		"po_number": "PO-2002",
		"job_name": "Repair Kit",
		"category": "Spare Parts",
		"sales_person_name": "Lin Yu-Hsuan",
		"quantity": 1,
		"total_sales_amount": 38000
	}`)
	settleAll(t, orders, first.ID, second.ID)

	rec := httptest.NewRecorder()
	periods.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/periods", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status %d", rec.Code)
	}

	var groups []struct {
		Period          string      `json:"period"`
		TotalCommission float64     `json:"total_commission"`
		TotalSales      float64     `json:"total_sales"`
		Items           []orderJSON `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &groups); err != nil {
		t.Fatalf("decode groups: %v", err)
	}
	if len(groups) != 1 || groups[0].Period != "2025-01" {
		t.Fatalf("group mismatch: %+v", groups)
	}
	// 5 per unit × 50 plus 5% of 38000.
	if groups[0].TotalCommission != 2150 {
		t.Fatalf("total commission %v, want 2150", groups[0].TotalCommission)
	}
	if groups[0].TotalSales != 63000 {
		t.Fatalf("total sales %v, want 63000", groups[0].TotalSales)
	}
	if len(groups[0].Items) != 2 || groups[0].Items[0].PONumber != "PO-1001" {
		t.Fatalf("items mismatch: %+v", groups[0].Items)
	}
}

func TestPeriodStatementPDF(t *testing.T) {
	orders, periods, _ := newHandlers(t, time.Date(2025, time.January, 8, 0, 0, 0, 0, time.UTC))
	created := createOrder(t, orders, medalOrderBody)
	settleAll(t, orders, created.ID)

	rec := httptest.NewRecorder()
	periods.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/periods/2025-01/statement.pdf", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("statement status %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("content type %q", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("body is not a pdf document")
	}
}

func TestPeriodStatementPDF_Errors(t *testing.T) {
	orders, periods, _ := newHandlers(t, time.Date(2025, time.January, 8, 0, 0, 0, 0, time.UTC))
	created := createOrder(t, orders, medalOrderBody)
	settleAll(t, orders, created.ID)

	rec := httptest.NewRecorder()
	periods.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/periods/january/statement.pdf", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad period status %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	periods.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/periods/2024-06/statement.pdf", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing period status %d, want 404", rec.Code)
	}
}

func TestExportCSV(t *testing.T) {
	orders, _, exports := newHandlers(t, time.Date(2025, time.January, 8, 0, 0, 0, 0, time.UTC))
	created := createOrder(t, orders, medalOrderBody)
	settleAll(t, orders, created.ID)

	rec := httptest.NewRecorder()
	exports.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/exports/commissions.csv", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("csv status %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("content type %q", got)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "commissions.csv") {
		t.Fatalf("disposition %q", rec.Header().Get("Content-Disposition"))
	}

	rows, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d", len(rows))
	}
	if rows[0][0] != "Delivery Date" {
		t.Fatalf("header mismatch: %v", rows[0])
	}
	if rows[1][1] != "PO-1001" {
		t.Fatalf("row mismatch: %v", rows[1])
	}
}

func TestExportXLSX(t *testing.T) {
	orders, _, exports := newHandlers(t, time.Date(2025, time.January, 8, 0, 0, 0, 0, time.UTC))
	created := createOrder(t, orders, medalOrderBody)
	settleAll(t, orders, created.ID)

	rec := httptest.NewRecorder()
	exports.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/exports/commissions.xlsx", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("xlsx status %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("content type %q", got)
	}
	// XLSX files are zip archives.
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Fatalf("body is not an xlsx archive")
	}
}

func TestExport_FilterApplies(t *testing.T) {
	orders, _, exports := newHandlers(t, time.Date(2025, time.January, 8, 0, 0, 0, 0, time.UTC))
	createOrder(t, orders, medalOrderBody)

	rec := httptest.NewRecorder()
	exports.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/exports/commissions.csv?year=2030", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("csv status %d", rec.Code)
	}
	rows, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}

func TestExportRouting(t *testing.T) {
	_, _, exports := newHandlers(t, time.Now())

	rec := httptest.NewRecorder()
	exports.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/exports/commissions.pdf", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	exports.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/exports/commissions.csv", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status %d, want 405", rec.Code)
	}
}
