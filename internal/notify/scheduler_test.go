package notify

import (
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTickScheduler(msgr *fakeMessenger, at time.Time) *Scheduler {
	var delays []time.Duration
	d := newDigestDispatcher(msgr, &fakeReservations{}, &delays)
	s := NewScheduler(d, zerolog.New(io.Discard))
	s.now = func() time.Time { return at }
	return s
}

func TestSchedulerTick(t *testing.T) {
	midnight := time.Date(2026, 9, 15, 0, 0, 30, 0, time.UTC)

	t.Run("FiresAtMidnight", func(t *testing.T) {
		msgr := &fakeMessenger{}
		s := newTickScheduler(msgr, midnight)
		s.tick()
		assert.Len(t, msgr.sent, 1)
	})

	t.Run("OncePerDate", func(t *testing.T) {
		msgr := &fakeMessenger{}
		s := newTickScheduler(msgr, midnight)
		s.tick()
		s.tick()
		assert.Len(t, msgr.sent, 1)
	})

	t.Run("SilentOffMidnight", func(t *testing.T) {
		msgr := &fakeMessenger{}
		s := newTickScheduler(msgr, time.Date(2026, 9, 15, 13, 45, 0, 0, time.UTC))
		s.tick()
		assert.Empty(t, msgr.sent)
	})
}

func TestSchedulerStartStop(t *testing.T) {
	msgr := &fakeMessenger{}
	s := newTickScheduler(msgr, time.Date(2026, 9, 15, 13, 45, 0, 0, time.UTC))

	s.Start()
	s.Start() // second start is a no-op
	s.Stop()
	s.Stop() // as is a second stop
}

func TestSchedulerRestart(t *testing.T) {
	msgr := &fakeMessenger{}
	s := newTickScheduler(msgr, time.Date(2026, 9, 15, 13, 45, 0, 0, time.UTC))

	// A stopped scheduler must come back up with a working loop and stop
	// cleanly a second time.
	s.Start()
	s.Stop()
	s.Start()
	s.Stop()
}
