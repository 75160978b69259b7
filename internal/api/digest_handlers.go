package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"krampus/internal/metrics"
)

type digestRequest struct {
	Date   string `json:"date"`
	Manual bool   `json:"manual"`
}

// handleDigest triggers a digest run. The body is optional; the scheduler
// endpoint posts with no body at all, which means "today, not manual".
func (s *HTTPServer) handleDigest(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("digest")

	var req digestRequest
	if err := decodeStrict(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Date != "" {
		if _, err := time.Parse("2006-01-02", req.Date); err != nil {
			writeError(w, http.StatusBadRequest, "invalid date; expected YYYY-MM-DD")
			return
		}
	}

	summary, err := s.dispatcher.RunDigest(r.Context(), req.Date, req.Manual)
	if err != nil {
		s.logger.Error().Err(err).Str("date", req.Date).Msg("digest run")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"message":           summary.Message,
		"reservationsCount": summary.ReservationsCount,
		"date":              summary.Date,
		"manual":            summary.Manual,
	})
}
