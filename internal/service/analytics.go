package service

import (
	"time"

	"krampus/internal/model"
)

// Economics is the payment rollup for a date range of appointments.
type Economics struct {
	From                    string  `json:"from"`
	To                      string  `json:"to"`
	TotalReservations       int     `json:"total_reservations"`
	CreatedInPeriod         int     `json:"created_in_period"`
	TotalRevenue            float64 `json:"total_revenue"`
	TotalDeposits           float64 `json:"total_deposits"`
	ActualDepositsCollected float64 `json:"actual_deposits_collected"`
	FullyPaidRevenue        float64 `json:"fully_paid_revenue"`
	PendingRevenue          float64 `json:"pending_revenue"`
	DepositPaidCount        int     `json:"deposit_paid_count"`
	RestPaidCount           int     `json:"rest_paid_count"`
	FullyPaidCount          int     `json:"fully_paid_count"`
	PendingCount            int     `json:"pending_count"`
	AverageTicket           float64 `json:"average_ticket"`
}

// Summarize rolls up the reservations whose appointment date falls in
// [from, to] (inclusive, YYYY-MM-DD). CreatedInPeriod counts on created_at
// instead, the "reservations created in period" figure.
func Summarize(reservations []model.Reservation, from, to string) Economics {
	e := Economics{From: from, To: to}

	for i := range reservations {
		r := &reservations[i]

		created := r.CreatedAt.UTC().Format("2006-01-02")
		if created >= from && created <= to {
			e.CreatedInPeriod++
		}

		if r.AppointmentDate < from || r.AppointmentDate > to {
			continue
		}

		e.TotalReservations++
		e.TotalRevenue += r.TotalPrice
		e.TotalDeposits += r.DepositPaid

		if r.DepositPaidStatus {
			e.DepositPaidCount++
			e.ActualDepositsCollected += r.DepositPaid
		}
		if r.RestPaidStatus {
			e.RestPaidCount++
		}
		if r.FullyPaid() {
			e.FullyPaidCount++
			e.FullyPaidRevenue += r.TotalPrice
		} else {
			e.PendingCount++
		}
		if !r.RestPaidStatus {
			e.PendingRevenue += r.Remaining()
		}
	}

	if e.TotalReservations > 0 {
		e.AverageTicket = e.TotalRevenue / float64(e.TotalReservations)
	}
	return e
}

// RangeFor resolves a preset range name relative to now. Week starts on
// Monday; unknown presets collapse to today.
func RangeFor(preset string, now time.Time) (from, to string) {
	today := now.UTC().Format("2006-01-02")
	switch preset {
	case "week":
		weekday := int(now.UTC().Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday
		}
		start := now.UTC().AddDate(0, 0, -(weekday - 1))
		return start.Format("2006-01-02"), today
	case "month":
		start := time.Date(now.UTC().Year(), now.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
		return start.Format("2006-01-02"), today
	default:
		return today, today
	}
}
