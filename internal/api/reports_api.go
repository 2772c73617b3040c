package api

import (
	"fmt"
	"net/http"

	"innkeeper/internal/models"
	"innkeeper/internal/report"
)

// Report ranges are capped to keep the spreadsheet bounded.
const maxReportDays = 366

// handleBookingsReport streams an xlsx occupancy report for bookings
// whose stay touches the [start, end] period.
func (s *HTTPServer) handleBookingsReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	start, ok := parseDay(w, "start", query.Get("start"))
	if !ok {
		return
	}
	end, ok := parseDay(w, "end", query.Get("end"))
	if !ok {
		return
	}
	if !end.After(start) {
		writeError(w, http.StatusBadRequest, "end must be after start")
		return
	}
	if int(end.Sub(start).Hours()/24) > maxReportDays {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("report range is capped at %d days", maxReportDays))
		return
	}

	bookings, err := s.db.ListBookingsBetween(r.Context(), start, end)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	filename := fmt.Sprintf("bookings_%s_%s.xlsx",
		start.Format(models.DateLayout), end.Format(models.DateLayout))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := report.WriteBookings(w, bookings, start, end); err != nil {
		s.logger.Error().Err(err).Msg("Failed to stream bookings report")
	}
}
