package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/playtrack/playtrack-core/internal/session"
)

// dateFormat is the wire format for date query parameters.
const dateFormat = "2006-01-02"

// Daily chart defaults.
const (
	defaultChartDays = 7
	maxChartDays     = 90
)

// handleStats returns usage aggregates for a day and its Monday-based
// week, plus the number of sessions in progress.
//
// Query parameters:
//   - date: target day as YYYY-MM-DD (default: today)
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	target := s.now().UTC()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.Parse(dateFormat, dateStr)
		if err != nil {
			writeBadRequest(w, "date must be formatted as YYYY-MM-DD")
			return
		}
		target = parsed
	}

	dayFrom, dayTo := session.DayRange(target)
	today, err := s.sessions.RangeStats(ctx, dayFrom, dayTo)
	if err != nil {
		s.logger.Error("querying day stats failed", "error", err)
		writeInternalError(w, "failed to compute statistics")
		return
	}

	weekFrom, weekTo := session.WeekRange(target)
	week, err := s.sessions.RangeStats(ctx, weekFrom, weekTo)
	if err != nil {
		s.logger.Error("querying week stats failed", "error", err)
		writeInternalError(w, "failed to compute statistics")
		return
	}

	openCount, err := s.sessions.CountOpen(ctx)
	if err != nil {
		s.logger.Error("counting open sessions failed", "error", err)
		writeInternalError(w, "failed to compute statistics")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":          dayFrom.Format(dateFormat),
		"today":         today,
		"week":          week,
		"open_sessions": openCount,
	})
}

// periodSummary aggregates a daily chart's whole date range.
type periodSummary struct {
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	TotalDays       int    `json:"total_days"`
	TotalSeconds    int64  `json:"total_time_seconds"`
	TotalSessions   int    `json:"total_sessions"`
	AvgDailySeconds int64  `json:"avg_daily_seconds"`
}

// handleDailyChart returns per-day usage totals for chart rendering.
// Every day in the range appears in the result; days with no sessions
// are zero-filled.
//
// Query parameters:
//   - days: number of days to cover, ending today (default 7, max 90)
//   - start_date, end_date: explicit inclusive range as YYYY-MM-DD;
//     overrides days and must be given together
func (s *Server) handleDailyChart(w http.ResponseWriter, r *http.Request) {
	from, to, ok := s.chartRange(w, r)
	if !ok {
		return
	}

	totals, err := s.sessions.DailyTotals(r.Context(), from, to)
	if err != nil {
		s.logger.Error("querying daily totals failed", "error", err)
		writeInternalError(w, "failed to compute chart data")
		return
	}

	byDate := make(map[string]session.DailyTotal, len(totals))
	for _, d := range totals {
		byDate[d.Date] = d
	}

	totalDays := int(to.Sub(from).Hours() / 24)
	days := make([]session.DailyTotal, 0, totalDays)
	summary := periodSummary{
		StartDate: from.Format(dateFormat),
		EndDate:   to.AddDate(0, 0, -1).Format(dateFormat),
		TotalDays: totalDays,
	}
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateFormat)
		d, found := byDate[date]
		if !found {
			d = session.DailyTotal{Date: date}
		}
		days = append(days, d)
		summary.TotalSeconds += d.TotalSeconds
		summary.TotalSessions += d.SessionCount
	}
	if totalDays > 0 {
		summary.AvgDailySeconds = summary.TotalSeconds / int64(totalDays)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"days":           days,
		"period_summary": summary,
	})
}

// chartRange resolves the half-open UTC day range for a chart request.
// It writes a 400 response and returns ok=false on invalid parameters.
func (s *Server) chartRange(w http.ResponseWriter, r *http.Request) (from, to time.Time, ok bool) {
	startStr := r.URL.Query().Get("start_date")
	endStr := r.URL.Query().Get("end_date")

	if startStr != "" || endStr != "" {
		if startStr == "" || endStr == "" {
			writeBadRequest(w, "start_date and end_date must be given together")
			return time.Time{}, time.Time{}, false
		}
		start, err := time.Parse(dateFormat, startStr)
		if err != nil {
			writeBadRequest(w, "start_date must be formatted as YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		end, err := time.Parse(dateFormat, endStr)
		if err != nil {
			writeBadRequest(w, "end_date must be formatted as YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		if end.Before(start) {
			writeBadRequest(w, "end_date must not precede start_date")
			return time.Time{}, time.Time{}, false
		}
		// end_date is inclusive.
		return start, end.AddDate(0, 0, 1), true
	}

	days := defaultChartDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed < 1 {
			writeBadRequest(w, "days must be a positive integer")
			return time.Time{}, time.Time{}, false
		}
		if parsed > maxChartDays {
			parsed = maxChartDays
		}
		days = parsed
	}

	_, to = session.DayRange(s.now().UTC())
	return to.AddDate(0, 0, -days), to, true
}
