package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"olist-dashboard/internal/models"
)

// Reports bundles every dashboard report for a single workbook export.
type Reports struct {
	Overview  models.Overview
	Delivery  models.DeliveryReport
	RFM       models.RFMReport
	Geography models.GeographyReport
}

// BuildWorkbook renders the reports into an xlsx workbook with one sheet
// per dashboard view. The caller owns closing the returned file.
func BuildWorkbook(r Reports) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeOverviewSheet(f, r.Overview); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeDeliverySheet(f, r.Delivery); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSegmentsSheet(f, r.RFM); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeStatesSheet(f, r.Geography); err != nil {
		f.Close()
		return nil, err
	}

	// Replace the default sheet with the overview.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, err
	}
	idx, err := f.GetSheetIndex("Overview")
	if err != nil {
		f.Close()
		return nil, err
	}
	f.SetActiveSheet(idx)

	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d on %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

func writeOverviewSheet(f *excelize.File, ov models.Overview) error {
	rows := [][]any{
		{"Metric", "Value"},
		{"Total Orders", ov.TotalOrders},
		{"Total Customers", ov.TotalCustomers},
		{"Total Revenue", ov.TotalRevenue},
		{"Avg Review Score", ov.AvgReviewScore},
		{},
		{"Month", "Orders"},
	}
	for _, m := range ov.MonthlyOrders {
		rows = append(rows, []any{m.Month, m.Orders})
	}
	rows = append(rows, []any{}, []any{"Category", "Revenue", "Orders"})
	for _, c := range ov.TopCategories {
		rows = append(rows, []any{c.Category, c.Revenue, c.Orders})
	}
	return writeRows(f, "Overview", rows)
}

func writeDeliverySheet(f *excelize.File, d models.DeliveryReport) error {
	rows := [][]any{
		{"Metric", "Value"},
		{"Avg Delivery Days", d.AvgDeliveryDays},
		{"On-Time Rate %", d.OnTimeRate},
		{"Delayed Orders", d.DelayedOrders},
		{"On-Time Avg Review", d.OnTimeReview},
		{"Delayed Avg Review", d.DelayedReview},
		{},
		{"Delay", "Orders", "Satisfied %", "Unsatisfied %"},
	}
	for _, b := range d.DelayBuckets {
		rows = append(rows, []any{b.Label, b.Orders, b.SatisfiedRate, b.UnsatisfiedRate})
	}
	return writeRows(f, "Delivery", rows)
}

func writeSegmentsSheet(f *excelize.File, r models.RFMReport) error {
	rows := [][]any{
		{"Segment", "Customers", "Revenue", "Avg Recency", "Avg Frequency", "Avg Monetary"},
	}
	for _, s := range r.Segments {
		rows = append(rows, []any{s.Segment, s.Customers, s.Revenue, s.AvgRecency, s.AvgFrequency, s.AvgMonetary})
	}
	return writeRows(f, "Segments", rows)
}

func writeStatesSheet(f *excelize.File, g models.GeographyReport) error {
	rows := [][]any{
		{"State", "Customers", "Orders", "Sellers", "Revenue", "Revenue/Customer", "Lat", "Lng"},
	}
	for _, s := range g.States {
		rows = append(rows, []any{s.State, s.Customers, s.Orders, s.Sellers, s.Revenue, s.RevenuePerCustomer, s.Lat, s.Lng})
	}
	return writeRows(f, "States", rows)
}
