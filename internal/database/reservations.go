package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"krampus/internal/model"
)

// NextReservationNumber returns the next number in the sequence: the seed
// for a fresh database, otherwise whichever is higher of the stored
// high-water counter and max(reservation_number)+1 over live rows. The
// counter survives deletes, so a freed number is never handed out again
// even when the highest-numbered reservation is removed.
func (db *DB) NextReservationNumber(ctx context.Context) (int, error) {
	next := model.FirstReservationNumber

	var counter sql.NullInt64
	err := db.QueryRowContext(ctx,
		"SELECT next_number FROM reservation_counter WHERE id = 1",
	).Scan(&counter)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("read reservation counter: %w", err)
	}
	if counter.Valid && int(counter.Int64) > next {
		next = int(counter.Int64)
	}

	var max sql.NullInt64
	err = db.QueryRowContext(ctx,
		"SELECT MAX(reservation_number) FROM reservations",
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("next reservation number: %w", err)
	}
	if max.Valid && int(max.Int64)+1 > next {
		next = int(max.Int64) + 1
	}

	return next, nil
}

// advanceReservationCounter raises the high-water mark past number. The
// counter never moves backwards.
func (db *DB) advanceReservationCounter(ctx context.Context, number int) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO reservation_counter (id, next_number) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET next_number = MAX(next_number, excluded.next_number)`,
		number+1,
	)
	if err != nil {
		return fmt.Errorf("advance reservation counter: %w", err)
	}
	return nil
}

// CreateReservation inserts a full record. ID and ReservationNumber are
// assigned here when unset; CreatedAt/UpdatedAt are stamped.
func (db *DB) CreateReservation(ctx context.Context, r *model.Reservation) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.ReservationNumber == 0 {
		n, err := db.NextReservationNumber(ctx)
		if err != nil {
			return err
		}
		r.ReservationNumber = n
	}
	images, err := json.Marshal(imagesOrEmpty(r.DesignImages))
	if err != nil {
		return fmt.Errorf("encode design images: %w", err)
	}

	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err = db.ExecContext(ctx, `
		INSERT INTO reservations (
			id, reservation_number, first_name, last_name, phone,
			appointment_date, appointment_time, total_price, deposit_paid,
			is_paid, deposit_paid_status, rest_paid_status,
			design_images, notes, artist_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ReservationNumber, r.FirstName, r.LastName, r.Phone,
		r.AppointmentDate, r.AppointmentTime, r.TotalPrice, r.DepositPaid,
		r.IsPaid, r.DepositPaidStatus, r.RestPaidStatus,
		string(images), nullIfEmpty(r.Notes), nullIfEmpty(r.ArtistID), now, now,
	)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return db.advanceReservationCounter(ctx, r.ReservationNumber)
}

// GetReservation returns a reservation by id.
func (db *DB) GetReservation(ctx context.Context, id string) (*model.Reservation, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, reservation_number, first_name, last_name, phone,
		       appointment_date, appointment_time, total_price, deposit_paid,
		       is_paid, deposit_paid_status, rest_paid_status,
		       design_images, notes, artist_id, created_at, updated_at
		FROM reservations WHERE id = ?`, id)
	r, err := scanReservation(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return r, err
}

// UpdateReservation applies only the fields present in the patch. Unset
// fields are left byte-identical; updated_at is always stamped. Raising
// rest_paid_status also raises is_paid; clearing it leaves is_paid alone.
func (db *DB) UpdateReservation(ctx context.Context, id string, p model.ReservationPatch) error {
	set := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	add := func(col string, v any) {
		set = append(set, col+" = ?")
		args = append(args, v)
	}

	if p.FirstName != nil {
		add("first_name", *p.FirstName)
	}
	if p.LastName != nil {
		add("last_name", *p.LastName)
	}
	if p.Phone != nil {
		add("phone", *p.Phone)
	}
	if p.AppointmentDate != nil {
		add("appointment_date", *p.AppointmentDate)
	}
	if p.AppointmentTime != nil {
		add("appointment_time", *p.AppointmentTime)
	}
	if p.TotalPrice != nil {
		add("total_price", *p.TotalPrice)
	}
	if p.DepositPaid != nil {
		add("deposit_paid", *p.DepositPaid)
	}
	if p.IsPaid != nil {
		add("is_paid", *p.IsPaid)
	}
	if p.DepositPaidStatus != nil {
		add("deposit_paid_status", *p.DepositPaidStatus)
	}
	if p.RestPaidStatus != nil {
		add("rest_paid_status", *p.RestPaidStatus)
		if *p.RestPaidStatus {
			add("is_paid", true)
		}
	}
	if p.DesignImages != nil {
		images, err := json.Marshal(imagesOrEmpty(*p.DesignImages))
		if err != nil {
			return fmt.Errorf("encode design images: %w", err)
		}
		add("design_images", string(images))
	}
	if p.Notes != nil {
		add("notes", nullIfEmpty(*p.Notes))
	}
	if p.ArtistID != nil {
		add("artist_id", nullIfEmpty(*p.ArtistID))
	}

	query := "UPDATE reservations SET " + joinSet(set) + " WHERE id = ?"
	args = append(args, id)

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteReservation removes a reservation. Hard delete, no archival.
func (db *DB) DeleteReservation(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM reservations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListReservations returns all reservations ordered by appointment date and
// time ascending, the order the dashboard shows them in.
func (db *DB) ListReservations(ctx context.Context) ([]model.Reservation, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, reservation_number, first_name, last_name, phone,
		       appointment_date, appointment_time, total_price, deposit_paid,
		       is_paid, deposit_paid_status, rest_paid_status,
		       design_images, notes, artist_id, created_at, updated_at
		FROM reservations
		ORDER BY appointment_date ASC, appointment_time ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// ListReservationsByDate returns reservations for one calendar date ordered
// by time, the digest input.
func (db *DB) ListReservationsByDate(ctx context.Context, date string) ([]model.Reservation, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, reservation_number, first_name, last_name, phone,
		       appointment_date, appointment_time, total_price, deposit_paid,
		       is_paid, deposit_paid_status, rest_paid_status,
		       design_images, notes, artist_id, created_at, updated_at
		FROM reservations
		WHERE appointment_date = ?
		ORDER BY appointment_time ASC`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*model.Reservation, error) {
	var r model.Reservation
	var images string
	var notes, artistID sql.NullString
	err := row.Scan(
		&r.ID, &r.ReservationNumber, &r.FirstName, &r.LastName, &r.Phone,
		&r.AppointmentDate, &r.AppointmentTime, &r.TotalPrice, &r.DepositPaid,
		&r.IsPaid, &r.DepositPaidStatus, &r.RestPaidStatus,
		&images, &notes, &artistID, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(images), &r.DesignImages); err != nil {
		return nil, fmt.Errorf("decode design images: %w", err)
	}
	if r.DesignImages == nil {
		r.DesignImages = []string{}
	}
	if notes.Valid {
		r.Notes = notes.String
	}
	if artistID.Valid {
		r.ArtistID = artistID.String
	}
	return &r, nil
}

func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
	var out []model.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func imagesOrEmpty(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func joinSet(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}
