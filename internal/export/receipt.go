// Package export renders bookings as downloadable documents.
package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
)

// Receipt renders a one page PDF receipt for a paid booking. Student, Tutor
// and Subject are read when preloaded.
func Receipt(b *models.Booking) ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("receipt requires a booking")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.SetTitle(fmt.Sprintf("Receipt #%d", b.ID), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "TUTORING SESSION RECEIPT", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	rows := [][2]string{
		{"Receipt", fmt.Sprintf("#%d", b.ID)},
		{"Student", userName(b.Student)},
		{"Tutor", userName(b.Tutor)},
		{"Subject", subjectName(b.Subject)},
		{"Date", b.Date},
		{"Time", b.StartTime + " - " + b.EndTime},
		{"Duration", fmt.Sprintf("%.1f h", b.Duration)},
		{"Status", b.Status},
		{"Payment", b.PaymentStatus},
		{"Amount", fmt.Sprintf("%.2f", b.Price)},
	}
	if b.PaidAt != nil {
		rows = append(rows, [2]string{"Paid at", b.PaidAt.UTC().Format("2006-01-02 15:04 UTC")})
	}
	if b.PaymentIntentID != "" {
		rows = append(rows, [2]string{"Reference", b.PaymentIntentID})
	}

	for _, r := range rows {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(45, 8, r[0], "1", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 8, r[1], "1", 1, "", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

func userName(u *models.User) string {
	if u == nil {
		return "-"
	}
	return u.Name
}

func subjectName(s *models.Subject) string {
	if s == nil {
		return "-"
	}
	return s.Name
}
