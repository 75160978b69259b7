package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"krampus/internal/metrics"
	"krampus/internal/model"
)

// Delays between digest sends. Sequential on purpose: the Bot API throttles
// bursts, and the batch must arrive in reservation order.
const (
	delayAfterHeader = 1000 * time.Millisecond
	delayAfterDetail = 500 * time.Millisecond
	delayAfterPhoto  = 800 * time.Millisecond
	delayBetweenRes  = 2000 * time.Millisecond
)

// Summary reports a finished digest run.
type Summary struct {
	Message           string `json:"message"`
	ReservationsCount int    `json:"reservationsCount"`
	Date              string `json:"date"`
	Manual            bool   `json:"manual"`
}

// RunDigest sends the reservation digest for one calendar date
// (YYYY-MM-DD). manual only changes the message labeling. With no
// reservations scheduled it sends exactly one summary message; otherwise a
// header followed by one detail message per reservation in time order, each
// trailed by its design images as photos. One failed photo produces a
// fallback error text for that image and the batch keeps going.
func (d *Dispatcher) RunDigest(ctx context.Context, date string, manual bool) (*Summary, error) {
	if d.daily == nil || d.dailyChatID == 0 {
		return nil, fmt.Errorf("telegram configuration missing")
	}
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	trigger := "scheduled"
	if manual {
		trigger = "manual"
	}
	metrics.IncDigestRun(trigger)

	reservations, err := d.reservations.ListReservationsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("fetch reservations: %w", err)
	}
	names := d.artistNames(ctx)

	if len(reservations) == 0 {
		msg := fmt.Sprintf("🎨 *Daily Reservations* 🎨\n\n📅 *Date:* %s%s\n\n📋 No reservations scheduled for this date.\n\n%s",
			formatDate(date), manualLabel(manual), studioSignature)
		if err := d.sendDigestMessage(ctx, msg); err != nil {
			return nil, err
		}
		return &Summary{
			Message:           "Daily summary sent (no reservations)",
			ReservationsCount: 0,
			Date:              date,
			Manual:            manual,
		}, nil
	}

	header := fmt.Sprintf("🎨 *Daily Reservations* 🎨\n\n📅 *Date:* %s%s\n\n📊 *%d reservation%s scheduled*\n\n%s",
		formatDate(date), manualLabel(manual), len(reservations), plural(len(reservations)), studioSignature)
	if err := d.sendDigestMessage(ctx, header); err != nil {
		return nil, err
	}
	if err := d.sleep(ctx, delayAfterHeader); err != nil {
		return nil, err
	}

	for i := range reservations {
		r := &reservations[i]

		if err := d.sendDigestMessage(ctx, detailMessage(r, resolveArtist(names, r.ArtistID))); err != nil {
			return nil, err
		}
		if err := d.sleep(ctx, delayAfterDetail); err != nil {
			return nil, err
		}

		for j, image := range r.DesignImages {
			caption := fmt.Sprintf("🖼️ Design %d/%d - Reservation #%d", j+1, len(r.DesignImages), r.ReservationNumber)
			if err := d.sendDigestPhoto(ctx, image, caption); err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				d.logger.Error().Err(err).
					Int("reservation_number", r.ReservationNumber).
					Int("image", j+1).
					Msg("send design image")
				fallback := fmt.Sprintf("❌ Failed to send design image %d for reservation #%d", j+1, r.ReservationNumber)
				if err := d.sendDigestMessage(ctx, fallback); err != nil {
					return nil, err
				}
			}
			if err := d.sleep(ctx, delayAfterPhoto); err != nil {
				return nil, err
			}
		}

		if i < len(reservations)-1 {
			if err := d.sleep(ctx, delayBetweenRes); err != nil {
				return nil, err
			}
		}
	}

	return &Summary{
		Message:           fmt.Sprintf("Daily reservations sent successfully for %s", formatDate(date)),
		ReservationsCount: len(reservations),
		Date:              date,
		Manual:            manual,
	}, nil
}

func (d *Dispatcher) sendDigestMessage(ctx context.Context, text string) error {
	if err := d.daily.SendMessage(ctx, d.dailyChatID, text, true); err != nil {
		metrics.IncNotificationSent("digest", "error")
		return err
	}
	metrics.IncNotificationSent("digest", "ok")
	return nil
}

func (d *Dispatcher) sendDigestPhoto(ctx context.Context, image, caption string) error {
	photo, err := photoFor(image)
	if err != nil {
		metrics.IncNotificationSent("digest_photo", "error")
		return err
	}
	if err := d.daily.SendPhoto(ctx, d.dailyChatID, photo, caption); err != nil {
		metrics.IncNotificationSent("digest_photo", "error")
		return err
	}
	metrics.IncNotificationSent("digest_photo", "ok")
	return nil
}

func detailMessage(r *model.Reservation, artistName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 *Reservation #%d*\n\n", r.ReservationNumber)
	fmt.Fprintf(&b, "👤 *Client:* %s\n", r.ClientName())
	fmt.Fprintf(&b, "📞 *Phone:* %s\n", r.Phone)
	fmt.Fprintf(&b, "🕐 *Time:* %s\n", r.AppointmentTime)
	fmt.Fprintf(&b, "🎨 *Artist:* %s\n\n", artistName)
	fmt.Fprintf(&b, "💰 *Total Price:* €%.2f\n", r.TotalPrice)
	fmt.Fprintf(&b, "💳 *Deposit:* €%.2f\n", r.DepositPaid)
	fmt.Fprintf(&b, "💸 *Remaining:* €%.2f\n", r.Remaining())
	fmt.Fprintf(&b, "💳 *Status:* %s\n", paymentStatusLine(r))
	if r.Notes != "" {
		fmt.Fprintf(&b, "\n📝 *Notes:* %s\n", r.Notes)
	}
	if len(r.DesignImages) > 0 {
		fmt.Fprintf(&b, "\n🖼️ *%d design image%s*", len(r.DesignImages), plural(len(r.DesignImages)))
	}
	return b.String()
}

func manualLabel(manual bool) string {
	if manual {
		return " (Manual)"
	}
	return ""
}
