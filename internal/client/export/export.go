// Package export writes inquiry listings to XLSX workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/dmitrijs2005/dealerdash/internal/client/models"
)

const (
	BookingsSheet = "Bookings"
	DealersSheet  = "Dealers"
)

// Bookings writes one row per booking after a header row.
func Bookings(w io.Writer, bookings []models.Booking) error {
	header := []any{"ID", "Name", "Email", "Contact", "City", "State", "Model", "Color", "Amount", "Created"}
	rows := make([][]any, len(bookings))
	for i, b := range bookings {
		var created any
		if !b.CreatedAt.IsZero() {
			created = b.CreatedAt.UTC().Format("2006-01-02 15:04")
		}
		rows[i] = []any{b.ID, b.Name, b.Email, b.ContactNumber, b.City, b.State, b.ScooterModel, b.Color, b.BookingAmount, created}
	}
	return writeSheet(w, BookingsSheet, header, rows)
}

// Dealers writes one row per dealership application after a header row.
func Dealers(w io.Writer, dealers []models.DealerApplication) error {
	header := []any{"ID", "Name", "Email", "Contact", "Present business", "Investment capacity"}
	rows := make([][]any, len(dealers))
	for i, d := range dealers {
		rows[i] = []any{d.ID, d.Name, d.Email, d.ContactNumber, d.PresentBusiness, d.InvestmentCapacity}
	}
	return writeSheet(w, DealersSheet, header, rows)
}

func writeSheet(w io.Writer, sheet string, header []any, rows [][]any) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
