package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"olist-dashboard/internal/errors"
	"olist-dashboard/internal/exporter"
	"olist-dashboard/internal/observability"
	"olist-dashboard/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandlers struct {
	analytics  *services.Analytics
	logger     *slog.Logger
	reportName string
}

func NewExportHandlers(analytics *services.Analytics, logger *slog.Logger, reportName string) *ExportHandlers {
	return &ExportHandlers{
		analytics:  analytics,
		logger:     logger,
		reportName: reportName,
	}
}

// HandleXLSX streams a workbook with one sheet per dashboard view.
func (h *ExportHandlers) HandleXLSX(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	filter, err := parseFilter(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	workbook, err := exporter.BuildWorkbook(exporter.Reports{
		Overview:  h.analytics.Overview(filter),
		Delivery:  h.analytics.Delivery(filter),
		RFM:       h.analytics.RFM(filter),
		Geography: h.analytics.Geography(filter),
	})
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "build workbook"), requestID)
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("%s-%s.xlsx", h.reportName, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := workbook.Write(w); err != nil {
		h.logger.Error("stream workbook", "error", err, "request_id", requestID)
		return
	}
	observability.ObserveExport("xlsx")
}

// HandleCSV streams one report table as CSV. The report query parameter
// selects states, segments, or monthly.
func (h *ExportHandlers) HandleCSV(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	filter, err := parseFilter(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	report := r.URL.Query().Get("report")

	var headers []string
	var records [][]string
	switch report {
	case "states":
		headers, records = exporter.StatesRecords(h.analytics.Geography(filter))
	case "segments":
		headers, records = exporter.SegmentsRecords(h.analytics.RFM(filter))
	case "monthly":
		headers, records = exporter.MonthlyRecords(h.analytics.Overview(filter))
	default:
		errors.WriteError(w, h.logger, errors.BadRequest(fmt.Sprintf("unknown report %q", report)), requestID)
		return
	}

	filename := fmt.Sprintf("%s-%s-%s.csv", h.reportName, report, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := exporter.WriteCSV(w, headers, records); err != nil {
		h.logger.Error("stream csv", "error", err, "report", report, "request_id", requestID)
		return
	}
	observability.ObserveExport("csv")
}
