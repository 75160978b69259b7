package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"krampus/internal/metrics"
	"krampus/internal/model"
)

const studioSignature = "🏪 *Krampus Tattoo Studio*"

// Dispatcher owns the studio's outbound notifications. The instant alert
// and the daily digest each have their own bot/chat pair; either may be
// unconfigured, which surfaces as an error at call time rather than at
// startup.
type Dispatcher struct {
	instant       Messenger
	instantChatID int64
	daily         Messenger
	dailyChatID   int64

	reservations ReservationSource
	staff        StaffSource
	sleep        SleepFunc
	logger       zerolog.Logger
}

// ReservationSource is the slice of the store the digest needs.
type ReservationSource interface {
	ListReservationsByDate(ctx context.Context, date string) ([]model.Reservation, error)
}

// StaffSource resolves artist names.
type StaffSource interface {
	ListStaff(ctx context.Context) ([]model.Staff, error)
}

// SleepFunc is the injected delay primitive; tests pass a zero-delay one.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type Options struct {
	Instant       Messenger
	InstantChatID int64
	Daily         Messenger
	DailyChatID   int64
	Sleep         SleepFunc
}

func NewDispatcher(opts Options, reservations ReservationSource, staff StaffSource, logger zerolog.Logger) *Dispatcher {
	sleep := opts.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	return &Dispatcher{
		instant:       opts.Instant,
		instantChatID: opts.InstantChatID,
		daily:         opts.Daily,
		dailyChatID:   opts.DailyChatID,
		reservations:  reservations,
		staff:         staff,
		sleep:         sleep,
		logger:        logger.With().Str("component", "notify").Logger(),
	}
}

// NotifyNewReservation sends the instant alert for a freshly created
// reservation. Best effort: the caller treats any error as log-only.
func (d *Dispatcher) NotifyNewReservation(ctx context.Context, r *model.Reservation, artistName string) error {
	if d.instant == nil || d.instantChatID == 0 {
		return fmt.Errorf("telegram configuration missing")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🦂 *New Reservation Created* 🦂\n\n")
	fmt.Fprintf(&b, "📋 *Reservation #%d*\n\n", r.ReservationNumber)
	fmt.Fprintf(&b, "👤 *Customer:* %s\n", r.ClientName())
	fmt.Fprintf(&b, "📞 *Phone:* %s\n", r.Phone)
	fmt.Fprintf(&b, "📅 *Date:* %s\n", formatDate(r.AppointmentDate))
	fmt.Fprintf(&b, "🕐 *Time:* %s\n", r.AppointmentTime)
	if artistName != "" {
		fmt.Fprintf(&b, "🎨 *Artist:* %s\n", artistName)
	}
	fmt.Fprintf(&b, "\n💰 *Total Price:* €%.2f\n", r.TotalPrice)
	fmt.Fprintf(&b, "💳 *Deposit:* €%.2f\n", r.DepositPaid)
	fmt.Fprintf(&b, "💸 *Remaining:* €%.2f\n\n", r.Remaining())
	b.WriteString(studioSignature)

	if err := d.instant.SendMessage(ctx, d.instantChatID, b.String(), true); err != nil {
		metrics.IncNotificationSent("instant", "error")
		return err
	}
	metrics.IncNotificationSent("instant", "ok")
	return nil
}

// artistNames returns the id→name map, tolerating staff lookup failures by
// falling back to an empty map (every artist resolves to "Not assigned").
func (d *Dispatcher) artistNames(ctx context.Context) map[string]string {
	names := make(map[string]string)
	staff, err := d.staff.ListStaff(ctx)
	if err != nil {
		d.logger.Error().Err(err).Msg("fetch staff for artist names")
		return names
	}
	for _, s := range staff {
		names[s.ID] = s.Name
	}
	return names
}

func resolveArtist(names map[string]string, artistID string) string {
	if artistID == "" {
		return "Not assigned"
	}
	if name, ok := names[artistID]; ok {
		return name
	}
	return "Not assigned"
}

// formatDate renders a YYYY-MM-DD date as dd/mm/yyyy; unparseable input is
// passed through as-is.
func formatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}

func paymentStatusLine(r *model.Reservation) string {
	switch {
	case r.DepositPaidStatus && r.RestPaidStatus:
		return "✅ Fully Paid"
	case r.DepositPaidStatus:
		return "🟡 Deposit Paid"
	default:
		return "🔴 Pending"
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
