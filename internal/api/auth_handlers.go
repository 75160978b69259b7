package api

import (
	"errors"
	"net/http"

	"krampus/internal/auth"
	"krampus/internal/metrics"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token       string   `json:"token"`
	StaffID     string   `json:"staff_id"`
	Username    string   `json:"username"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// handleLogin validates credentials. Wrong username and wrong password give
// the same response on purpose.
func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("login")

	var req loginRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	sess, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.logger.Error().Err(err).Msg("login")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:       sess.Token,
		StaffID:     sess.StaffID,
		Username:    sess.Username,
		Name:        sess.Name,
		Role:        string(sess.Role),
		Permissions: sess.Permissions,
	})
}

// handleLogout clears the session unconditionally; an absent token still
// reports success.
func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("logout")

	token := bearerToken(r)
	if token != "" {
		if err := s.auth.Logout(r.Context(), token); err != nil {
			s.logger.Error().Err(err).Msg("logout")
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
