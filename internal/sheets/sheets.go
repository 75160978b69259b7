// Package sheets mirrors the reservation book into a Google Sheet the
// studio owners share with their accountant.
package sheets

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	sheetsapi "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"

	"krampus/internal/model"
)

var header = []any{
	"Number", "Date", "Time", "Client", "Phone", "Artist",
	"Total Price", "Deposit", "Remaining", "Status", "Notes", "Created",
}

// Service rewrites one sheet with the full reservation list on every sync.
// The volume is small enough that a full rewrite beats row bookkeeping.
type Service struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sheetName     string
	logger        zerolog.Logger
}

// New builds a service from a service-account credentials file.
func New(ctx context.Context, credentialsFile, spreadsheetID, sheetName string, logger zerolog.Logger) (*Service, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(data, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return &Service{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger.With().Str("component", "sheets").Logger(),
	}, nil
}

// SyncReservations clears the sheet and writes a header plus one row per
// reservation, in dashboard order.
func (s *Service) SyncReservations(ctx context.Context, reservations []model.Reservation, artistNames map[string]string) error {
	rangeAll := s.sheetName
	if _, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, rangeAll, &sheetsapi.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}

	values := [][]any{header}
	for i := range reservations {
		values = append(values, reservationRowValues(&reservations[i], artistNames))
	}

	vr := &sheetsapi.ValueRange{Values: values}
	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, s.sheetName+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update sheet: %w", err)
	}

	s.logger.Info().Int("rows", len(reservations)).Msg("sheet synced")
	return nil
}

func reservationRowValues(r *model.Reservation, artistNames map[string]string) []any {
	artist := "Not assigned"
	if r.ArtistID != "" {
		if name, ok := artistNames[r.ArtistID]; ok {
			artist = name
		}
	}
	status := "Pending"
	switch {
	case r.FullyPaid():
		status = "Fully Paid"
	case r.DepositPaidStatus:
		status = "Deposit Paid"
	}

	return []any{
		r.ReservationNumber,
		r.AppointmentDate,
		r.AppointmentTime,
		r.ClientName(),
		r.Phone,
		artist,
		r.TotalPrice,
		r.DepositPaid,
		r.Remaining(),
		status,
		r.Notes,
		r.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}
