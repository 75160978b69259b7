package api

import (
	"net/http"
	"time"

	"krampus/internal/export"
	"krampus/internal/metrics"
	"krampus/internal/model"
	"krampus/internal/service"
)

// economicsRange resolves the period from the query string. Explicit from/to
// win over a preset; both fall back to today.
func economicsRange(r *http.Request) (from, to string, bad string) {
	q := r.URL.Query()
	from, to = q.Get("from"), q.Get("to")
	if from == "" && to == "" {
		from, to = service.RangeFor(q.Get("range"), time.Now())
		return from, to, ""
	}
	if from == "" || to == "" {
		return "", "", "from and to must be supplied together"
	}
	for _, d := range []string{from, to} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return "", "", "invalid date; expected YYYY-MM-DD"
		}
	}
	if from > to {
		return "", "", "from must not be after to"
	}
	return from, to, ""
}

func (s *HTTPServer) handleEconomics(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("economics")

	from, to, bad := economicsRange(r)
	if bad != "" {
		writeError(w, http.StatusBadRequest, bad)
		return
	}
	writeJSON(w, http.StatusOK, service.Summarize(s.reservations.List(), from, to))
}

func (s *HTTPServer) handleEconomicsExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("economics_export")

	from, to, bad := economicsRange(r)
	if bad != "" {
		writeError(w, http.StatusBadRequest, bad)
		return
	}

	var filtered []model.Reservation
	for _, res := range s.reservations.List() {
		if res.AppointmentDate >= from && res.AppointmentDate <= to {
			filtered = append(filtered, res)
		}
	}

	artistNames := make(map[string]string)
	for _, m := range s.staff.List() {
		artistNames[m.ID] = m.Name
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="economics-`+from+`-`+to+`.xlsx"`)
	if err := export.EconomicsWorkbook(w, filtered, artistNames); err != nil {
		s.logger.Error().Err(err).Msg("economics export")
	}
}
