package model

import "time"

// FirstReservationNumber seeds the human-facing sequence when the table is
// empty. Numbers only grow from there and are never reused after deletion.
const FirstReservationNumber = 1290

// Reservation is a booked tattoo appointment. AppointmentDate is a calendar
// date (YYYY-MM-DD) and AppointmentTime a time of day (HH:MM, 15-minute
// grid); both are kept as strings because the store orders and filters on
// the textual forms, matching the wire format of the dashboard.
type Reservation struct {
	ID                string    `json:"id"`
	ReservationNumber int       `json:"reservation_number"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Phone             string    `json:"phone"`
	AppointmentDate   string    `json:"appointment_date"`
	AppointmentTime   string    `json:"appointment_time"`
	TotalPrice        float64   `json:"total_price"`
	DepositPaid       float64   `json:"deposit_paid"`
	IsPaid            bool      `json:"is_paid"`
	DepositPaidStatus bool      `json:"deposit_paid_status"`
	RestPaidStatus    bool      `json:"rest_paid_status"`
	DesignImages      []string  `json:"design_images"`
	Notes             string    `json:"notes,omitempty"`
	ArtistID          string    `json:"artist_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Remaining is the outstanding amount; derived, never persisted.
func (r *Reservation) Remaining() float64 {
	return r.TotalPrice - r.DepositPaid
}

// ClientName joins the free-text name fields.
func (r *Reservation) ClientName() string {
	return r.FirstName + " " + r.LastName
}

// FullyPaid reports both payment tranches settled.
func (r *Reservation) FullyPaid() bool {
	return r.DepositPaidStatus && r.RestPaidStatus
}

// ReservationPatch carries a partial reservation update; nil fields are left
// untouched by Update. Setting RestPaidStatus to true also raises IsPaid
// (one-directional; clearing it leaves IsPaid alone).
type ReservationPatch struct {
	FirstName         *string   `json:"first_name,omitempty"`
	LastName          *string   `json:"last_name,omitempty"`
	Phone             *string   `json:"phone,omitempty"`
	AppointmentDate   *string   `json:"appointment_date,omitempty"`
	AppointmentTime   *string   `json:"appointment_time,omitempty"`
	TotalPrice        *float64  `json:"total_price,omitempty"`
	DepositPaid       *float64  `json:"deposit_paid,omitempty"`
	IsPaid            *bool     `json:"is_paid,omitempty"`
	DepositPaidStatus *bool     `json:"deposit_paid_status,omitempty"`
	RestPaidStatus    *bool     `json:"rest_paid_status,omitempty"`
	DesignImages      *[]string `json:"design_images,omitempty"`
	Notes             *string   `json:"notes,omitempty"`
	ArtistID          *string   `json:"artist_id,omitempty"`
}
