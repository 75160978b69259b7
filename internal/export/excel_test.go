package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"krampus/internal/model"
)

func TestEconomicsWorkbook(t *testing.T) {
	reservations := []model.Reservation{
		{
			FirstName:       "Mina",
			LastName:        "Harker",
			Phone:           "+4915112345678",
			AppointmentDate: "2026-09-10",
			TotalPrice:      350,
			DepositPaid:     100,
			IsPaid:          true,
			ArtistID:        "artist-1",
		},
		{
			FirstName:       "Lucy",
			LastName:        "Westenra",
			Phone:           "+442079460000",
			AppointmentDate: "2026-09-11",
			TotalPrice:      200,
			DepositPaid:     50,
			ArtistID:        "gone",
		},
	}
	names := map[string]string{"artist-1": "Quincey Morris"}

	var buf bytes.Buffer
	require.NoError(t, EconomicsWorkbook(&buf, reservations, names))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Economics")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, economicsColumns, rows[0])

	assert.Equal(t, "Mina Harker", rows[1][1])
	assert.Equal(t, "Quincey Morris", rows[1][3])
	assert.Equal(t, "Paid", rows[1][6])

	assert.Equal(t, "Not assigned", rows[2][3], "dangling artist id")
	assert.Equal(t, "Pending", rows[2][6])
}

func TestEconomicsWorkbookEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EconomicsWorkbook(&buf, nil, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Economics")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
