package notify

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krampus/internal/model"
)

type sentItem struct {
	kind    string // "message" or "photo"
	chatID  int64
	text    string
	photo   Photo
	caption string
}

// fakeMessenger records everything sent and can fail photo sends on demand.
type fakeMessenger struct {
	sent       []sentItem
	photoErrAt map[int]error // photo sequence index -> error
	photoCount int
}

func (f *fakeMessenger) SendMessage(_ context.Context, chatID int64, text string, _ bool) error {
	f.sent = append(f.sent, sentItem{kind: "message", chatID: chatID, text: text})
	return nil
}

func (f *fakeMessenger) SendPhoto(_ context.Context, chatID int64, photo Photo, caption string) error {
	f.photoCount++
	if err, ok := f.photoErrAt[f.photoCount]; ok {
		return err
	}
	f.sent = append(f.sent, sentItem{kind: "photo", chatID: chatID, photo: photo, caption: caption})
	return nil
}

type fakeReservations struct {
	byDate map[string][]model.Reservation
	err    error
}

func (f *fakeReservations) ListReservationsByDate(_ context.Context, date string) ([]model.Reservation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byDate[date], nil
}

type fakeStaff struct {
	staff []model.Staff
}

func (f *fakeStaff) ListStaff(context.Context) ([]model.Staff, error) {
	return f.staff, nil
}

// sleepRecorder captures requested delays without actually waiting.
func sleepRecorder(delays *[]time.Duration) SleepFunc {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func digestReservation(number int, tm string, images ...string) model.Reservation {
	return model.Reservation{
		ID:                fmt.Sprintf("res-%d", number),
		ReservationNumber: number,
		FirstName:         "Abraham",
		LastName:          "Van Helsing",
		Phone:             "+31201234567",
		AppointmentDate:   "2026-09-15",
		AppointmentTime:   tm,
		TotalPrice:        400,
		DepositPaid:       150,
		DepositPaidStatus: true,
		DesignImages:      images,
	}
}

func newDigestDispatcher(msgr *fakeMessenger, res *fakeReservations, delays *[]time.Duration) *Dispatcher {
	return NewDispatcher(Options{
		Daily:       msgr,
		DailyChatID: 42,
		Sleep:       sleepRecorder(delays),
	}, res, &fakeStaff{}, zerolog.New(io.Discard))
}

func TestRunDigestNoReservations(t *testing.T) {
	msgr := &fakeMessenger{}
	var delays []time.Duration
	d := newDigestDispatcher(msgr, &fakeReservations{}, &delays)

	sum, err := d.RunDigest(context.Background(), "2026-09-15", false)
	require.NoError(t, err)

	assert.Equal(t, 0, sum.ReservationsCount)
	assert.Equal(t, "2026-09-15", sum.Date)
	assert.False(t, sum.Manual)
	assert.Equal(t, "Daily summary sent (no reservations)", sum.Message)

	require.Len(t, msgr.sent, 1)
	assert.Contains(t, msgr.sent[0].text, "No reservations scheduled")
	assert.Contains(t, msgr.sent[0].text, "15/09/2026")
	assert.Empty(t, delays, "single summary message needs no pacing")
}

func TestRunDigestSequence(t *testing.T) {
	res := &fakeReservations{byDate: map[string][]model.Reservation{
		"2026-09-15": {
			digestReservation(1290, "10:00"),
			digestReservation(1291, "14:00", "https://example.com/a.png", "https://example.com/b.png"),
		},
	}}
	msgr := &fakeMessenger{}
	var delays []time.Duration
	d := newDigestDispatcher(msgr, res, &delays)

	sum, err := d.RunDigest(context.Background(), "2026-09-15", true)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.ReservationsCount)
	assert.True(t, sum.Manual)

	// header, detail 1290, detail 1291, photo a, photo b
	require.Len(t, msgr.sent, 5)
	assert.Contains(t, msgr.sent[0].text, "2 reservations scheduled")
	assert.Contains(t, msgr.sent[0].text, "(Manual)")
	assert.Contains(t, msgr.sent[1].text, "Reservation #1290")
	assert.Contains(t, msgr.sent[1].text, "Not assigned")
	assert.Contains(t, msgr.sent[2].text, "Reservation #1291")
	assert.Equal(t, "photo", msgr.sent[3].kind)
	assert.Equal(t, "🖼️ Design 1/2 - Reservation #1291", msgr.sent[3].caption)
	assert.Equal(t, "https://example.com/a.png", msgr.sent[3].photo.URL)
	assert.Equal(t, "🖼️ Design 2/2 - Reservation #1291", msgr.sent[4].caption)

	// Pacing: header delay, per-detail delay, per-photo delay, and the
	// between-reservation gap only between reservations, not after the last.
	assert.Equal(t, []time.Duration{
		delayAfterHeader,
		delayAfterDetail, // after detail 1290
		delayBetweenRes,  // gap before 1291
		delayAfterDetail, // after detail 1291
		delayAfterPhoto,  // after photo a
		delayAfterPhoto,  // after photo b
	}, delays)
}

func TestRunDigestPhotoFailureContinues(t *testing.T) {
	res := &fakeReservations{byDate: map[string][]model.Reservation{
		"2026-09-15": {
			digestReservation(1290, "10:00", "https://example.com/bad.png", "https://example.com/good.png"),
		},
	}}
	msgr := &fakeMessenger{photoErrAt: map[int]error{1: fmt.Errorf("telegram 400")}}
	var delays []time.Duration
	d := newDigestDispatcher(msgr, res, &delays)

	sum, err := d.RunDigest(context.Background(), "2026-09-15", false)
	require.NoError(t, err, "one failed photo must not abort the batch")
	assert.Equal(t, 1, sum.ReservationsCount)

	// header, detail, fallback text for the failed photo, then the good photo
	require.Len(t, msgr.sent, 4)
	assert.Equal(t, "message", msgr.sent[2].kind)
	assert.Contains(t, msgr.sent[2].text, "Failed to send design image 1 for reservation #1290")
	assert.Equal(t, "photo", msgr.sent[3].kind)
	assert.Equal(t, "https://example.com/good.png", msgr.sent[3].photo.URL)
}

func TestRunDigestArtistResolution(t *testing.T) {
	r := digestReservation(1290, "10:00")
	r.ArtistID = "artist-1"
	res := &fakeReservations{byDate: map[string][]model.Reservation{"2026-09-15": {r}}}
	msgr := &fakeMessenger{}
	var delays []time.Duration

	d := NewDispatcher(Options{
		Daily:       msgr,
		DailyChatID: 42,
		Sleep:       sleepRecorder(&delays),
	}, res, &fakeStaff{staff: []model.Staff{
		{ID: "artist-1", Name: "Quincey Morris", Role: model.RoleArtist},
	}}, zerolog.New(io.Discard))

	_, err := d.RunDigest(context.Background(), "2026-09-15", false)
	require.NoError(t, err)
	require.Len(t, msgr.sent, 2)
	assert.Contains(t, msgr.sent[1].text, "Quincey Morris")
}

func TestRunDigestUnconfigured(t *testing.T) {
	var delays []time.Duration
	d := NewDispatcher(Options{Sleep: sleepRecorder(&delays)},
		&fakeReservations{}, &fakeStaff{}, zerolog.New(io.Discard))

	_, err := d.RunDigest(context.Background(), "2026-09-15", false)
	assert.ErrorContains(t, err, "telegram configuration missing")
}

func TestNotifyNewReservation(t *testing.T) {
	msgr := &fakeMessenger{}
	d := NewDispatcher(Options{Instant: msgr, InstantChatID: 7},
		&fakeReservations{}, &fakeStaff{}, zerolog.New(io.Discard))

	r := digestReservation(1295, "12:00")
	err := d.NotifyNewReservation(context.Background(), &r, "Quincey Morris")
	require.NoError(t, err)

	require.Len(t, msgr.sent, 1)
	assert.Equal(t, int64(7), msgr.sent[0].chatID)
	assert.Contains(t, msgr.sent[0].text, "New Reservation Created")
	assert.Contains(t, msgr.sent[0].text, "Reservation #1295")
	assert.Contains(t, msgr.sent[0].text, "Abraham Van Helsing")
	assert.Contains(t, msgr.sent[0].text, "15/09/2026")
	assert.Contains(t, msgr.sent[0].text, "Quincey Morris")
	assert.Contains(t, msgr.sent[0].text, "€400.00")
	assert.Contains(t, msgr.sent[0].text, "€250.00") // remaining

	t.Run("Unconfigured", func(t *testing.T) {
		bare := NewDispatcher(Options{}, &fakeReservations{}, &fakeStaff{}, zerolog.New(io.Discard))
		err := bare.NotifyNewReservation(context.Background(), &r, "")
		assert.ErrorContains(t, err, "telegram configuration missing")
	})
}

func TestPhotoFor(t *testing.T) {
	t.Run("PlainURL", func(t *testing.T) {
		p, err := photoFor("https://example.com/x.png")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/x.png", p.URL)
		assert.Nil(t, p.Data)
	})

	t.Run("DataURL", func(t *testing.T) {
		raw := []byte{0xff, 0xd8, 0xff, 0xe0}
		p, err := photoFor("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw))
		require.NoError(t, err)
		assert.Equal(t, raw, p.Data)
		assert.Equal(t, "design.jpg", p.Name)
	})

	t.Run("MalformedDataURL", func(t *testing.T) {
		_, err := photoFor("data:image/jpeg;base64")
		assert.Error(t, err)
	})

	t.Run("BadBase64", func(t *testing.T) {
		_, err := photoFor("data:image/png;base64,!!!")
		assert.Error(t, err)
	})
}

func TestPaymentStatusLine(t *testing.T) {
	r := model.Reservation{}
	assert.Equal(t, "🔴 Pending", paymentStatusLine(&r))
	r.DepositPaidStatus = true
	assert.Equal(t, "🟡 Deposit Paid", paymentStatusLine(&r))
	r.RestPaidStatus = true
	assert.Equal(t, "✅ Fully Paid", paymentStatusLine(&r))
}
