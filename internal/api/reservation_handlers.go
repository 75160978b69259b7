package api

import (
	"errors"
	"net/http"
	"time"

	"krampus/internal/database"
	"krampus/internal/metrics"
	"krampus/internal/model"
)

type createReservationRequest struct {
	FirstName         string   `json:"first_name"`
	LastName          string   `json:"last_name"`
	Phone             string   `json:"phone"`
	AppointmentDate   string   `json:"appointment_date"`
	AppointmentTime   string   `json:"appointment_time"`
	TotalPrice        float64  `json:"total_price"`
	DepositPaid       float64  `json:"deposit_paid"`
	DepositPaidStatus bool     `json:"deposit_paid_status"`
	RestPaidStatus    bool     `json:"rest_paid_status"`
	DesignImages      []string `json:"design_images"`
	Notes             string   `json:"notes"`
	ArtistID          string   `json:"artist_id"`
}

func (req *createReservationRequest) validate() string {
	switch {
	case req.FirstName == "":
		return "first_name is required"
	case req.LastName == "":
		return "last_name is required"
	case req.Phone == "":
		return "phone is required"
	case req.AppointmentDate == "":
		return "appointment_date is required"
	case req.AppointmentTime == "":
		return "appointment_time is required"
	}
	if _, err := time.Parse("2006-01-02", req.AppointmentDate); err != nil {
		return "invalid appointment_date; expected YYYY-MM-DD"
	}
	t, err := time.Parse("15:04", req.AppointmentTime)
	if err != nil {
		return "invalid appointment_time; expected HH:MM"
	}
	if t.Minute()%15 != 0 {
		return "appointment_time must fall on a 15-minute boundary"
	}
	if req.TotalPrice < 0 || req.DepositPaid < 0 {
		return "prices must be non-negative"
	}
	return ""
}

func (s *HTTPServer) handleListReservations(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("reservations_list")
	writeJSON(w, http.StatusOK, map[string]any{"reservations": s.reservations.List()})
}

func (s *HTTPServer) handleCreateReservation(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("reservations_create")

	var req createReservationRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res := &model.Reservation{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Phone:             req.Phone,
		AppointmentDate:   req.AppointmentDate,
		AppointmentTime:   req.AppointmentTime,
		TotalPrice:        req.TotalPrice,
		DepositPaid:       req.DepositPaid,
		IsPaid:            req.RestPaidStatus,
		DepositPaidStatus: req.DepositPaidStatus,
		RestPaidStatus:    req.RestPaidStatus,
		DesignImages:      req.DesignImages,
		Notes:             req.Notes,
		ArtistID:          req.ArtistID,
	}
	if err := s.reservations.Add(r.Context(), res); err != nil {
		s.logger.Error().Err(err).Msg("create reservation")
		writeError(w, http.StatusInternalServerError, "failed to create reservation")
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *HTTPServer) handleUpdateReservation(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("reservations_update")

	var patch model.ReservationPatch
	if err := decodeStrict(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if patch.AppointmentDate != nil {
		if _, err := time.Parse("2006-01-02", *patch.AppointmentDate); err != nil {
			writeError(w, http.StatusBadRequest, "invalid appointment_date; expected YYYY-MM-DD")
			return
		}
	}
	if patch.AppointmentTime != nil {
		t, err := time.Parse("15:04", *patch.AppointmentTime)
		if err != nil || t.Minute()%15 != 0 {
			writeError(w, http.StatusBadRequest, "invalid appointment_time; expected HH:MM on a 15-minute boundary")
			return
		}
	}

	err := s.reservations.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "reservation not found")
			return
		}
		s.logger.Error().Err(err).Msg("update reservation")
		writeError(w, http.StatusInternalServerError, "failed to update reservation")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *HTTPServer) handleDeleteReservation(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("reservations_delete")

	err := s.reservations.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "reservation not found")
			return
		}
		s.logger.Error().Err(err).Msg("delete reservation")
		writeError(w, http.StatusInternalServerError, "failed to delete reservation")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *HTTPServer) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("reservations_pdf")

	res, err := s.reservations.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "reservation not found")
			return
		}
		s.logger.Error().Err(err).Msg("load reservation for pdf")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	artistName := ""
	if res.ArtistID != "" {
		if artist, err := s.staff.Get(r.Context(), res.ArtistID); err == nil {
			artistName = artist.Name
		}
	}

	doc, filename, err := s.pdf.Generate(r.Context(), res, artistName)
	if err != nil {
		s.logger.Error().Err(err).Int("reservation_number", res.ReservationNumber).Msg("generate pdf")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
