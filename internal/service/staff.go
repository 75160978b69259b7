package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"krampus/internal/auth"
	"krampus/internal/database"
	"krampus/internal/model"
)

// StaffService owns staff accounts. Permission sets are always re-derived
// from the role here, never taken from the caller, and passwords are hashed
// at this boundary.
type StaffService struct {
	db     *database.DB
	logger zerolog.Logger

	mu    sync.RWMutex
	cache []model.Staff
}

func NewStaffService(db *database.DB, logger zerolog.Logger) *StaffService {
	return &StaffService{
		db:     db,
		logger: logger.With().Str("component", "staff").Logger(),
	}
}

// Refresh reloads the staff snapshot.
func (s *StaffService) Refresh(ctx context.Context) error {
	list, err := s.db.ListStaff(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cache = list
	s.mu.Unlock()
	return nil
}

// List returns the current snapshot.
func (s *StaffService) List() []model.Staff {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Staff, len(s.cache))
	copy(out, s.cache)
	return out
}

// Artists returns staff with the artist role, the set a reservation can be
// assigned to.
func (s *StaffService) Artists() []model.Staff {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Staff
	for _, m := range s.cache {
		if m.Role == model.RoleArtist {
			out = append(out, m)
		}
	}
	return out
}

// Add creates an account with derived permissions and a hashed password.
func (s *StaffService) Add(ctx context.Context, name, username, password string, role model.Role) (*model.Staff, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	member := &model.Staff{
		Name:         name,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Permissions:  model.PermissionsFor(role),
	}
	if err := s.db.CreateStaff(ctx, member); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("staff_id", member.ID).
		Str("username", member.Username).
		Str("role", string(member.Role)).
		Msg("staff created")

	if err := s.Refresh(ctx); err != nil {
		s.logger.Error().Err(err).Msg("refresh after add")
	}
	return member, nil
}

// Update applies a partial patch. A role change re-derives permissions; a
// password change re-hashes.
func (s *StaffService) Update(ctx context.Context, id string, p model.StaffPatch) error {
	var passwordHash *string
	if p.Password != nil {
		hash, err := auth.HashPassword(*p.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		passwordHash = &hash
	}

	var permissions []string
	if p.Role != nil {
		if !p.Role.Valid() {
			return fmt.Errorf("unknown role %q", *p.Role)
		}
		permissions = model.PermissionsFor(*p.Role)
	}

	if err := s.db.UpdateStaff(ctx, id, p.Name, p.Username, passwordHash, p.Role, permissions); err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Error().Err(err).Msg("refresh after update")
	}
	return nil
}

// Delete removes an account. Reservations pointing at it as artist keep the
// dangling reference and show as unassigned.
func (s *StaffService) Delete(ctx context.Context, id string) error {
	if err := s.db.DeleteStaff(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("staff_id", id).Msg("staff deleted")
	if err := s.Refresh(ctx); err != nil {
		s.logger.Error().Err(err).Msg("refresh after delete")
	}
	return nil
}

// Get fetches one account from the store.
func (s *StaffService) Get(ctx context.Context, id string) (*model.Staff, error) {
	return s.db.GetStaff(ctx, id)
}
