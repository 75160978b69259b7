// Package api exposes the dashboard's JSON HTTP surface.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"krampus/internal/auth"
	"krampus/internal/model"
	"krampus/internal/notify"
	"krampus/internal/pdf"
	"krampus/internal/service"
)

type contextKey string

const sessionKey contextKey = "session"

// HTTPServer wires the services to their routes.
type HTTPServer struct {
	reservations *service.ReservationService
	staff        *service.StaffService
	auth         *auth.Service
	dispatcher   *notify.Dispatcher
	pdf          *pdf.Client
	logger       zerolog.Logger
}

func NewHTTPServer(
	reservations *service.ReservationService,
	staff *service.StaffService,
	authSvc *auth.Service,
	dispatcher *notify.Dispatcher,
	pdfClient *pdf.Client,
	logger zerolog.Logger,
) *HTTPServer {
	return &HTTPServer{
		reservations: reservations,
		staff:        staff,
		auth:         authSvc,
		dispatcher:   dispatcher,
		pdf:          pdfClient,
		logger:       logger.With().Str("component", "api").Logger(),
	}
}

// Handler builds the route table.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/logout", s.handleLogout)

	mux.HandleFunc("GET /api/v1/reservations", s.requireAuth(model.PermReservations, s.handleListReservations))
	mux.HandleFunc("POST /api/v1/reservations", s.requireAuth(model.PermReservations, s.handleCreateReservation))
	mux.HandleFunc("PATCH /api/v1/reservations/{id}", s.requireAuth(model.PermReservations, s.handleUpdateReservation))
	mux.HandleFunc("DELETE /api/v1/reservations/{id}", s.requireAuth(model.PermReservations, s.handleDeleteReservation))
	mux.HandleFunc("POST /api/v1/reservations/{id}/pdf", s.requireAuth(model.PermReservations, s.handleGeneratePDF))

	mux.HandleFunc("GET /api/v1/staff", s.requireAuth(model.PermStaff, s.handleListStaff))
	mux.HandleFunc("POST /api/v1/staff", s.requireAuth(model.PermStaff, s.handleCreateStaff))
	mux.HandleFunc("PATCH /api/v1/staff/{id}", s.requireAuth(model.PermStaff, s.handleUpdateStaff))
	mux.HandleFunc("DELETE /api/v1/staff/{id}", s.requireAuth(model.PermStaff, s.handleDeleteStaff))
	mux.HandleFunc("GET /api/v1/artists", s.requireAuth(model.PermReservations, s.handleListArtists))

	mux.HandleFunc("GET /api/v1/economics", s.requireAuth(model.PermEconomics, s.handleEconomics))
	mux.HandleFunc("GET /api/v1/economics/export", s.requireAuth(model.PermEconomics, s.handleEconomicsExport))

	mux.HandleFunc("POST /api/v1/digest", s.requireAuth(model.PermReservations, s.handleDigest))

	return mux
}

// requireAuth resolves the bearer token to a session (which also re-arms
// the idle window) and checks the permission.
func (s *HTTPServer) requireAuth(perm string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "no session")
			return
		}
		sess, err := s.auth.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrNoSession) {
				writeError(w, http.StatusUnauthorized, "no session")
				return
			}
			s.logger.Error().Err(err).Msg("authenticate")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !sess.HasPermission(perm) {
			writeError(w, http.StatusForbidden, "permission denied")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	}
}

func sessionFrom(r *http.Request) *model.Session {
	sess, _ := r.Context().Value(sessionKey).(*model.Session)
	return sess
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func decodeStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
