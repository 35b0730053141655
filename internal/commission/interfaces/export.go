package interfaces

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"trophy-ops/internal/commission/application"
	commission "trophy-ops/internal/commission/domain"
)

var exportHeader = []string{
	"Delivery Date", "PO Number", "Job Name", "Category", "Sales Person",
	"Quantity", "Sales Amount", "Rate", "Base Amount", "Commission",
	"Description", "Status", "Period",
}

func exportRow(order *commission.OrderRecord) []string {
	rateDisplay := ""
	baseDisplay := ""
	amountDisplay := ""
	description := ""
	if result := order.Commission(); result != nil {
		rateDisplay = result.RateDisplay
		baseDisplay = result.BaseAmountDisplay
		amountDisplay = strconv.FormatFloat(result.Amount, 'f', 2, 64)
		description = result.Description
	}
	return []string{
		order.DeliveryDate().Format(deliveryDateLayout),
		order.PONumber(),
		order.JobName(),
		order.Category(),
		order.SalesPersonName(),
		strconv.Itoa(order.Quantity()),
		strconv.FormatFloat(order.TotalSalesAmount(), 'f', 2, 64),
		rateDisplay,
		baseDisplay,
		amountDisplay,
		description,
		order.Status(),
		order.Period().String(),
	}
}

// BuildCommissionsXLSX renders the ledger as an XLSX workbook with an
// order sheet and a per-period summary sheet.
func BuildCommissionsXLSX(records []*commission.OrderRecord) ([]byte, error) {
	f := excelize.NewFile()
	ordersSheet := "orders"
	periodsSheet := "periods"
	f.SetSheetName("Sheet1", ordersSheet)
	f.NewSheet(periodsSheet)

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(ordersSheet, cell, title)
	}
	for i, order := range records {
		for col, value := range exportRow(order) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellValue(ordersSheet, cell, value)
		}
	}

	_ = f.SetCellValue(periodsSheet, "A1", "Period")
	_ = f.SetCellValue(periodsSheet, "B1", "Orders")
	_ = f.SetCellValue(periodsSheet, "C1", "Total Sales")
	_ = f.SetCellValue(periodsSheet, "D1", "Total Commission")
	for i, group := range application.GroupCompleted(records) {
		row := i + 2
		_ = f.SetCellValue(periodsSheet, fmt.Sprintf("A%d", row), group.Period.String())
		_ = f.SetCellValue(periodsSheet, fmt.Sprintf("B%d", row), len(group.Items))
		_ = f.SetCellValue(periodsSheet, fmt.Sprintf("C%d", row), group.TotalSales)
		_ = f.SetCellValue(periodsSheet, fmt.Sprintf("D%d", row), group.TotalCommission)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCommissionsCSV streams the ledger as CSV rows.
func WriteCommissionsCSV(w io.Writer, records []*commission.OrderRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}
	for _, order := range records {
		if err := writer.Write(exportRow(order)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// BuildPeriodStatementPDF renders a payout period statement.
func BuildPeriodStatementPDF(group application.PeriodGroup) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Commission Statement")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Payout Period: %s", group.Period.String()))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Settled Lines: %d", len(group.Items)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Sales: %.2f", group.TotalSales))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Commission: %.2f", group.TotalCommission))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format(time.RFC3339)))
	pdf.Ln(8)

	// Items table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(25, 6, "Delivered", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "PO Number", "1", 0, "C", false, 0, "")
	pdf.CellFormat(55, 6, "Job", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Sales Person", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Sales", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Commission", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Description", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, item := range group.Items {
		description := ""
		if result := item.Commission(); result != nil {
			description = result.Description
		}
		pdf.CellFormat(25, 6, item.DeliveryDate().Format(deliveryDateLayout), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, item.PONumber(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(55, 6, item.JobName(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, item.SalesPersonName(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, strconv.Itoa(item.Quantity()), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", item.TotalSalesAmount()), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", item.CommissionAmount()), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, description, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
