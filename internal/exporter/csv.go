package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"olist-dashboard/internal/models"
)

// utf8BOM helps Excel recognize UTF-8 encoded CSV downloads.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes a header row and records to w, prefixed with a UTF-8
// BOM.
func WriteCSV(w io.Writer, headers []string, records [][]string) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for i, record := range records {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	return cw.Error()
}

// StatesRecords flattens the geography report for tabular export.
func StatesRecords(report models.GeographyReport) (headers []string, records [][]string) {
	headers = []string{"state", "customers", "orders", "sellers", "revenue", "revenue_per_customer"}
	records = make([][]string, 0, len(report.States))
	for _, s := range report.States {
		records = append(records, []string{
			s.State,
			strconv.Itoa(s.Customers),
			strconv.Itoa(s.Orders),
			strconv.Itoa(s.Sellers),
			money(s.Revenue),
			money(s.RevenuePerCustomer),
		})
	}
	return headers, records
}

// SegmentsRecords flattens the RFM report for tabular export.
func SegmentsRecords(report models.RFMReport) (headers []string, records [][]string) {
	headers = []string{"segment", "customers", "revenue", "avg_recency", "avg_frequency", "avg_monetary"}
	records = make([][]string, 0, len(report.Segments))
	for _, s := range report.Segments {
		records = append(records, []string{
			s.Segment,
			strconv.Itoa(s.Customers),
			money(s.Revenue),
			strconv.FormatFloat(s.AvgRecency, 'f', 1, 64),
			strconv.FormatFloat(s.AvgFrequency, 'f', 2, 64),
			money(s.AvgMonetary),
		})
	}
	return headers, records
}

// MonthlyRecords flattens the monthly order counts for tabular export.
func MonthlyRecords(overview models.Overview) (headers []string, records [][]string) {
	headers = []string{"month", "orders"}
	records = make([][]string, 0, len(overview.MonthlyOrders))
	for _, m := range overview.MonthlyOrders {
		records = append(records, []string{m.Month, strconv.Itoa(m.Orders)})
	}
	return headers, records
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
