package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"spellquiz/internal/service"
)

// AnalyticsHandler serves the teacher dashboard API
type AnalyticsHandler struct {
	analytics       *service.AnalyticsService
	exports         *service.ExportService
	email           *service.EmailService
	reportRecipient string
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analytics *service.AnalyticsService, exports *service.ExportService, email *service.EmailService, reportRecipient string) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics:       analytics,
		exports:         exports,
		email:           email,
		reportRecipient: reportRecipient,
	}
}

// parseFilters reads the common filter query parameters. Dates use
// YYYY-MM-DD form; an invalid value is an error rather than silently
// ignored.
func parseFilters(r *http.Request) (service.SessionFilters, error) {
	var filters service.SessionFilters
	query := r.URL.Query()

	if value := query.Get("dateFrom"); value != "" {
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			return filters, fmt.Errorf("invalid dateFrom: %q", value)
		}
		filters.DateFrom = &t
	}
	if value := query.Get("dateTo"); value != "" {
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			return filters, fmt.Errorf("invalid dateTo: %q", value)
		}
		filters.DateTo = &t
	}
	filters.StudentName = query.Get("studentName")

	if value := query.Get("minScore"); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return filters, fmt.Errorf("invalid minScore: %q", value)
		}
		filters.MinScore = &n
	}
	if value := query.Get("maxScore"); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return filters, fmt.Errorf("invalid maxScore: %q", value)
		}
		filters.MaxScore = &n
	}
	return filters, nil
}

// WordDifficulty returns per-word difficulty statistics, hardest first
func (h *AnalyticsHandler) WordDifficulty(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	stats, err := h.analytics.WordDifficulty(filters)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to analyze word difficulty", err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// StudentProgress returns the progress report for one student
func (h *AnalyticsHandler) StudentProgress(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	progress, err := h.analytics.StudentProgress(r.PathValue("name"), filters)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to analyze student progress", err)
		return
	}
	if progress == nil {
		respondWithError(w, http.StatusNotFound, "No quiz data for student", nil)
		return
	}
	respondWithJSON(w, http.StatusOK, progress)
}

// ClassReport returns the combined class performance report
func (h *AnalyticsHandler) ClassReport(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	report, err := h.analytics.ClassReport(filters)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to build class report", err)
		return
	}
	if report == nil {
		respondWithError(w, http.StatusNotFound, "No quiz data available", nil)
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

// TeachingFocus returns the highest-priority words for classroom review
func (h *AnalyticsHandler) TeachingFocus(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	limit := 20
	if value := r.URL.Query().Get("limit"); value != "" {
		limit, err = strconv.Atoi(value)
		if err != nil || limit <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit", nil)
			return
		}
	}

	words, err := h.analytics.TeachingFocusWords(filters, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to compute teaching focus", err)
		return
	}
	respondWithJSON(w, http.StatusOK, words)
}

// Export streams an analytics projection as CSV or JSON
func (h *AnalyticsHandler) Export(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	exportType := service.ExportType(r.URL.Query().Get("type"))
	if exportType == "" {
		exportType = service.ExportComprehensive
	}

	table, err := h.exports.Export(exportType, filters)
	if err != nil {
		if errors.Is(err, service.ErrUnknownExportType) {
			respondWithError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to build export", err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", table.Name+".csv"))
		writer := csv.NewWriter(w)
		writer.Write(table.Headers)
		for _, row := range table.Rows {
			writer.Write(row)
		}
		writer.Flush()
	case "json":
		records := make([]map[string]string, 0, len(table.Rows))
		for _, row := range table.Rows {
			record := make(map[string]string, len(table.Headers))
			for i, header := range table.Headers {
				record[header] = row[i]
			}
			records = append(records, record)
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", table.Name+".json"))
		respondWithJSON(w, http.StatusOK, records)
	default:
		respondWithError(w, http.StatusBadRequest, "Unsupported export format", nil)
	}
}

// ClearCache drops every memoized analytics result
func (h *AnalyticsHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.analytics.ClearCache()
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "cache cleared"})
}

type emailReportRequest struct {
	To string `json:"to,omitempty"`
}

// EmailReport sends the current class report to the configured recipient,
// or to an address named in the request body
func (h *AnalyticsHandler) EmailReport(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	var req emailReportRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	recipient := req.To
	if recipient == "" {
		recipient = h.reportRecipient
	}
	if recipient == "" {
		respondWithError(w, http.StatusBadRequest, "No report recipient configured", nil)
		return
	}

	report, err := h.analytics.ClassReport(filters)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to build class report", err)
		return
	}
	if report == nil {
		respondWithError(w, http.StatusNotFound, "No quiz data available", nil)
		return
	}

	if err := h.email.SendClassReport(r.Context(), recipient, report); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to send report email", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "report sent", "to": recipient})
}
