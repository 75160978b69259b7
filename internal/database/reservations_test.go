package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krampus/internal/model"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func ptr[T any](v T) *T { return &v }

func sampleReservation() *model.Reservation {
	return &model.Reservation{
		FirstName:       "Mina",
		LastName:        "Harker",
		Phone:           "+4915112345678",
		AppointmentDate: "2026-09-10",
		AppointmentTime: "14:30",
		TotalPrice:      350,
		DepositPaid:     100,
	}
}

func TestReservationNumbering(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	t.Run("EmptyTableStartsAtSeed", func(t *testing.T) {
		n, err := db.NextReservationNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.FirstReservationNumber, n)
	})

	t.Run("AssignedOnCreate", func(t *testing.T) {
		first := sampleReservation()
		require.NoError(t, db.CreateReservation(ctx, first))
		assert.Equal(t, 1290, first.ReservationNumber)

		second := sampleReservation()
		require.NoError(t, db.CreateReservation(ctx, second))
		assert.Equal(t, 1291, second.ReservationNumber)
	})

	t.Run("DeletedNumbersNeverReused", func(t *testing.T) {
		third := sampleReservation()
		require.NoError(t, db.CreateReservation(ctx, third))
		assert.Equal(t, 1292, third.ReservationNumber)

		require.NoError(t, db.DeleteReservation(ctx, third.ID))

		fourth := sampleReservation()
		require.NoError(t, db.CreateReservation(ctx, fourth))
		assert.Equal(t, 1293, fourth.ReservationNumber)
	})

	t.Run("CounterSurvivesEmptyTable", func(t *testing.T) {
		list, err := db.ListReservations(ctx)
		require.NoError(t, err)
		for _, r := range list {
			require.NoError(t, db.DeleteReservation(ctx, r.ID))
		}

		n, err := db.NextReservationNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1294, n, "sequence keeps going after every row is gone")

		fifth := sampleReservation()
		require.NoError(t, db.CreateReservation(ctx, fifth))
		assert.Equal(t, 1294, fifth.ReservationNumber)
	})
}

func TestCreateAndGetReservation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	r := sampleReservation()
	r.DesignImages = []string{"https://example.com/sketch.png"}
	r.Notes = "left shoulder"
	require.NoError(t, db.CreateReservation(ctx, r))
	require.NotEmpty(t, r.ID)

	got, err := db.GetReservation(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ReservationNumber, got.ReservationNumber)
	assert.Equal(t, "Mina", got.FirstName)
	assert.Equal(t, []string{"https://example.com/sketch.png"}, got.DesignImages)
	assert.Equal(t, "left shoulder", got.Notes)
	assert.Empty(t, got.ArtistID)
	assert.False(t, got.IsPaid)

	_, err = db.GetReservation(ctx, "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateReservationPartial(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	r := sampleReservation()
	require.NoError(t, db.CreateReservation(ctx, r))

	t.Run("UnsetFieldsUntouched", func(t *testing.T) {
		err := db.UpdateReservation(ctx, r.ID, model.ReservationPatch{
			Phone: ptr("+4915199999999"),
		})
		require.NoError(t, err)

		got, err := db.GetReservation(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, "+4915199999999", got.Phone)
		assert.Equal(t, "Mina", got.FirstName)
		assert.Equal(t, "2026-09-10", got.AppointmentDate)
		assert.Equal(t, 350.0, got.TotalPrice)
	})

	t.Run("RestPaidRaisesIsPaid", func(t *testing.T) {
		err := db.UpdateReservation(ctx, r.ID, model.ReservationPatch{
			RestPaidStatus: ptr(true),
		})
		require.NoError(t, err)

		got, err := db.GetReservation(ctx, r.ID)
		require.NoError(t, err)
		assert.True(t, got.RestPaidStatus)
		assert.True(t, got.IsPaid)
	})

	t.Run("ClearingRestPaidLeavesIsPaid", func(t *testing.T) {
		err := db.UpdateReservation(ctx, r.ID, model.ReservationPatch{
			RestPaidStatus: ptr(false),
		})
		require.NoError(t, err)

		got, err := db.GetReservation(ctx, r.ID)
		require.NoError(t, err)
		assert.False(t, got.RestPaidStatus)
		assert.True(t, got.IsPaid, "is_paid only moves one way on rest_paid changes")
	})

	t.Run("PaymentFlagsIndependent", func(t *testing.T) {
		err := db.UpdateReservation(ctx, r.ID, model.ReservationPatch{
			DepositPaidStatus: ptr(true),
		})
		require.NoError(t, err)

		got, err := db.GetReservation(ctx, r.ID)
		require.NoError(t, err)
		assert.True(t, got.DepositPaidStatus)
		assert.False(t, got.RestPaidStatus)
	})

	t.Run("UnknownID", func(t *testing.T) {
		err := db.UpdateReservation(ctx, "no-such-id", model.ReservationPatch{
			Phone: ptr("x"),
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteReservation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	r := sampleReservation()
	require.NoError(t, db.CreateReservation(ctx, r))
	require.NoError(t, db.DeleteReservation(ctx, r.ID))

	_, err := db.GetReservation(ctx, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, db.DeleteReservation(ctx, r.ID), ErrNotFound)
}

func TestListReservationsOrdering(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	insert := func(date, tm string) {
		r := sampleReservation()
		r.AppointmentDate = date
		r.AppointmentTime = tm
		require.NoError(t, db.CreateReservation(ctx, r))
	}
	insert("2026-09-12", "10:00")
	insert("2026-09-10", "16:00")
	insert("2026-09-10", "09:15")

	list, err := db.ListReservations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "09:15", list[0].AppointmentTime)
	assert.Equal(t, "16:00", list[1].AppointmentTime)
	assert.Equal(t, "2026-09-12", list[2].AppointmentDate)

	byDate, err := db.ListReservationsByDate(ctx, "2026-09-10")
	require.NoError(t, err)
	require.Len(t, byDate, 2)
	assert.Equal(t, "09:15", byDate[0].AppointmentTime)
}
