// Package service holds the application services the API handlers call
// into: reservation and staff lifecycles plus the economics rollups.
package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"krampus/internal/database"
	"krampus/internal/events"
	"krampus/internal/metrics"
	"krampus/internal/model"
)

// ReservationService owns the reservation lifecycle and the in-memory
// snapshot the dashboard lists from. Every mutation reloads the snapshot in
// full from the store; there is no incremental patching.
type ReservationService struct {
	db     *database.DB
	bus    *events.EventBus
	logger zerolog.Logger

	mu    sync.RWMutex
	cache []model.Reservation
}

func NewReservationService(db *database.DB, bus *events.EventBus, logger zerolog.Logger) *ReservationService {
	return &ReservationService{
		db:     db,
		bus:    bus,
		logger: logger.With().Str("component", "reservations").Logger(),
	}
}

// Refresh reloads the snapshot from the store, ordered by appointment date
// and time.
func (s *ReservationService) Refresh(ctx context.Context) error {
	list, err := s.db.ListReservations(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cache = list
	s.mu.Unlock()
	return nil
}

// List returns the current snapshot.
func (s *ReservationService) List() []model.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Reservation, len(s.cache))
	copy(out, s.cache)
	return out
}

// Get fetches one reservation from the store.
func (s *ReservationService) Get(ctx context.Context, id string) (*model.Reservation, error) {
	return s.db.GetReservation(ctx, id)
}

// Add persists a new reservation (number assigned inside the store layer),
// publishes the created event for the post-commit hooks, then refreshes the
// snapshot. Hook failures never surface here; a store failure does.
func (s *ReservationService) Add(ctx context.Context, r *model.Reservation) error {
	if err := s.db.CreateReservation(ctx, r); err != nil {
		return err
	}
	metrics.IncReservationCreated()

	s.logger.Info().
		Int("reservation_number", r.ReservationNumber).
		Str("date", r.AppointmentDate).
		Str("time", r.AppointmentTime).
		Msg("reservation created")

	s.bus.Publish(events.Event{Type: events.TypeReservationCreated, Payload: r})

	if err := s.Refresh(ctx); err != nil {
		s.logger.Error().Err(err).Msg("refresh after add")
	}
	return nil
}

// Update applies a partial patch and refreshes the snapshot.
func (s *ReservationService) Update(ctx context.Context, id string, p model.ReservationPatch) error {
	if err := s.db.UpdateReservation(ctx, id, p); err != nil {
		return err
	}
	s.bus.Publish(events.Event{Type: events.TypeReservationUpdated, Payload: id})
	if err := s.Refresh(ctx); err != nil {
		s.logger.Error().Err(err).Msg("refresh after update")
	}
	return nil
}

// Delete hard-deletes and refreshes the snapshot. The freed number is never
// reassigned.
func (s *ReservationService) Delete(ctx context.Context, id string) error {
	if err := s.db.DeleteReservation(ctx, id); err != nil {
		return err
	}
	metrics.IncReservationDeleted()
	s.bus.Publish(events.Event{Type: events.TypeReservationDeleted, Payload: id})
	if err := s.Refresh(ctx); err != nil {
		s.logger.Error().Err(err).Msg("refresh after delete")
	}
	return nil
}
