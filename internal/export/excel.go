// Package export renders reservation data as an Excel workbook for the
// economics download.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"krampus/internal/model"
)

var economicsColumns = []string{"Date", "Client", "Phone", "Artist", "Total Price", "Deposit", "Status"}

// EconomicsWorkbook writes one sheet with a header row and one row per
// reservation. artistNames resolves artist ids; danglers show as
// "Not assigned".
func EconomicsWorkbook(w io.Writer, reservations []model.Reservation, artistNames map[string]string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Economics"
	f.SetSheetName("Sheet1", sheet)

	for i, col := range economicsColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}

	// Bold header
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, 1)
		endCell, _ := excelize.CoordinatesToCellName(len(economicsColumns), 1)
		_ = f.SetCellStyle(sheet, startCell, endCell, style)
	}

	for rowIdx := range reservations {
		r := &reservations[rowIdx]
		artist := "Not assigned"
		if r.ArtistID != "" {
			if name, ok := artistNames[r.ArtistID]; ok {
				artist = name
			}
		}
		status := "Pending"
		if r.IsPaid {
			status = "Paid"
		}

		values := []any{
			r.AppointmentDate,
			r.ClientName(),
			r.Phone,
			artist,
			r.TotalPrice,
			r.DepositPaid,
			status,
		}
		for colIdx, val := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
