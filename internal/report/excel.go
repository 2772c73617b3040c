package report

import (
	"fmt"
	"io"
	"time"

	"innkeeper/internal/models"

	"github.com/xuri/excelize/v2"
)

// WriteBookings renders a bookings report workbook: one sheet with the
// booking rows, one with nights and revenue totals per room.
func WriteBookings(w io.Writer, bookings []models.Booking, start, end time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeBookingsSheet(f, bookings); err != nil {
		return err
	}
	if err := writeOccupancySheet(f, bookings, start, end); err != nil {
		return err
	}
	return f.Write(w)
}

func writeBookingsSheet(f *excelize.File, bookings []models.Booking) error {
	const sheet = "Bookings"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Room", "Guest", "Check-in", "Check-out", "Nights", "Total"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(sheet, "A1", endCell, style)
	}

	for i, b := range bookings {
		row := i + 2
		values := []any{
			b.ID,
			b.RoomNumber,
			b.ClientName,
			b.CheckIn.Format(models.DateLayout),
			b.CheckOut.Format(models.DateLayout),
			b.Stay().Nights(),
			b.TotalCents.String(),
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeOccupancySheet(f *excelize.File, bookings []models.Booking, start, end time.Time) error {
	const sheet = "Occupancy"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	type roomTotals struct {
		number  string
		nights  int
		revenue models.Cents
	}
	totals := make(map[int64]*roomTotals)
	order := []int64{}
	for _, b := range bookings {
		t, ok := totals[b.RoomID]
		if !ok {
			t = &roomTotals{number: b.RoomNumber}
			totals[b.RoomID] = t
			order = append(order, b.RoomID)
		}
		t.nights += b.Stay().Nights()
		t.revenue += b.TotalCents
	}

	for i, h := range []string{"Room", "Nights booked", "Revenue"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for i, roomID := range order {
		t := totals[roomID]
		row := i + 2
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), t.number); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), t.nights); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("C%d", row), t.revenue.String()); err != nil {
			return err
		}
	}

	_ = f.SetCellValue(sheet, "E1", fmt.Sprintf("Period: %s - %s",
		start.Format(models.DateLayout), end.Format(models.DateLayout)))
	return nil
}
