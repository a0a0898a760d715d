package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
)

const bookingsSheet = "Bookings"

var bookingHeaders = []string{
	"ID", "Date", "Start", "End", "Duration (h)", "Student", "Tutor",
	"Subject", "Status", "Payment", "Price",
}

// BookingsWorkbook writes one row per booking plus a total of the paid
// amounts.
func BookingsWorkbook(bookings []models.Booking) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", bookingsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, h := range bookingHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(bookingsSheet, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(bookingHeaders), 1)
	_ = f.SetCellStyle(bookingsSheet, "A1", last, header)

	var paid float64
	for i, b := range bookings {
		row := i + 2
		values := []any{
			b.ID, b.Date, b.StartTime, b.EndTime, b.Duration,
			userName(b.Student), userName(b.Tutor), subjectName(b.Subject),
			b.Status, b.PaymentStatus, b.Price,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(bookingsSheet, cell, v)
		}
		if b.PaymentStatus == "paid" {
			paid += b.Price
		}
	}

	totalRow := len(bookings) + 3
	_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("J%d", totalRow), "Total paid")
	_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("K%d", totalRow), paid)

	_ = f.SetColWidth(bookingsSheet, "B", "B", 12)
	_ = f.SetColWidth(bookingsSheet, "F", "H", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
