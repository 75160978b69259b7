// Package auth implements the login gate and session lifecycle for the
// dashboard.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"krampus/internal/database"
	"krampus/internal/model"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords;
// callers cannot tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service validates credentials against the staff table and manages
// sessions.
type Service struct {
	db       *database.DB
	sessions *SessionStore
	logger   zerolog.Logger
}

func NewService(db *database.DB, sessions *SessionStore, logger zerolog.Logger) *Service {
	return &Service{
		db:       db,
		sessions: sessions,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// HashPassword returns a bcrypt hash for storage.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Login checks the username/password pair and, on success, creates a
// session with a fresh idle window.
func (s *Service) Login(ctx context.Context, username, password string) (*model.Session, error) {
	staff, err := s.db.GetStaffByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup staff: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	sess := &model.Session{
		Token:       uuid.NewString(),
		StaffID:     staff.ID,
		Username:    staff.Username,
		Name:        staff.Name,
		Role:        staff.Role,
		Permissions: staff.Permissions,
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.logger.Info().
		Str("staff_id", staff.ID).
		Str("username", staff.Username).
		Msg("login")

	return sess, nil
}

// Authenticate resolves a token to a session, counting the call as
// activity.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	return s.sessions.Get(ctx, token)
}

// Logout clears the session unconditionally.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return err
	}
	s.logger.Info().Msg("logout")
	return nil
}
