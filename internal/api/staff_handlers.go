package api

import (
	"errors"
	"net/http"

	"krampus/internal/database"
	"krampus/internal/metrics"
	"krampus/internal/model"
)

type createStaffRequest struct {
	Name     string     `json:"name"`
	Username string     `json:"username"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

func (s *HTTPServer) handleListStaff(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("staff_list")
	writeJSON(w, http.StatusOK, map[string]any{"staff": s.staff.List()})
}

func (s *HTTPServer) handleCreateStaff(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("staff_create")

	var req createStaffRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	switch {
	case req.Name == "":
		writeError(w, http.StatusBadRequest, "name is required")
		return
	case req.Username == "":
		writeError(w, http.StatusBadRequest, "username is required")
		return
	case req.Password == "":
		writeError(w, http.StatusBadRequest, "password is required")
		return
	case !req.Role.Valid():
		writeError(w, http.StatusBadRequest, "role must be admin, staff or artist")
		return
	}

	if sess := sessionFrom(r); sess != nil {
		s.logger.Info().Str("by", sess.Username).Str("username", req.Username).Msg("staff create requested")
	}

	member, err := s.staff.Add(r.Context(), req.Name, req.Username, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, database.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, "username already taken")
			return
		}
		s.logger.Error().Err(err).Msg("create staff")
		writeError(w, http.StatusInternalServerError, "failed to create staff member")
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (s *HTTPServer) handleUpdateStaff(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("staff_update")

	var patch model.StaffPatch
	if err := decodeStrict(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if patch.Role != nil && !patch.Role.Valid() {
		writeError(w, http.StatusBadRequest, "role must be admin, staff or artist")
		return
	}

	err := s.staff.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			writeError(w, http.StatusNotFound, "staff member not found")
		case errors.Is(err, database.ErrUsernameTaken):
			writeError(w, http.StatusConflict, "username already taken")
		default:
			s.logger.Error().Err(err).Msg("update staff")
			writeError(w, http.StatusInternalServerError, "failed to update staff member")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *HTTPServer) handleDeleteStaff(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("staff_delete")

	err := s.staff.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "staff member not found")
			return
		}
		s.logger.Error().Err(err).Msg("delete staff")
		writeError(w, http.StatusInternalServerError, "failed to delete staff member")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *HTTPServer) handleListArtists(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("artists_list")
	artists := s.staff.Artists()
	if artists == nil {
		artists = []model.Staff{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"artists": artists})
}
