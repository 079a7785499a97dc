// Package importer turns uploaded payment workbooks into import rows.
package importer

import (
	"io"
	"strings"
	"unicode/utf8"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	colPartyName = 0
	colContact   = 1

	// column widths of payments.party_name and payments.contact
	maxPartyName = 150
	maxContact   = 30
)

// ReadPaymentRows reads sheet (the first sheet when empty). The first row is
// a header; column A is the party name and column B the contact. Rows with
// a blank party name are dropped. A value longer than its column rejects the
// whole workbook, naming the sheet row.
func ReadPaymentRows(r io.Reader, sheet string) ([]models.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperr.ErrInvalidInput.Withf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperr.ErrInvalidInput.Withf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	grid, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperr.ErrInvalidInput.Withf("failed to read sheet %q: %v", sheet, err)
	}
	return rowsFromGrid(grid)
}

func rowsFromGrid(grid [][]string) ([]models.ImportRow, error) {
	if len(grid) <= 1 {
		return nil, nil
	}
	out := make([]models.ImportRow, 0, len(grid)-1)
	for i, cells := range grid[1:] {
		name := cell(cells, colPartyName)
		if name == "" {
			continue
		}
		contact := cell(cells, colContact)
		row := i + 2
		if utf8.RuneCountInString(name) > maxPartyName {
			return nil, apperr.ErrInvalidInput.Withf("row %d: party name exceeds %d characters", row, maxPartyName)
		}
		if utf8.RuneCountInString(contact) > maxContact {
			return nil, apperr.ErrInvalidInput.Withf("row %d: contact exceeds %d characters", row, maxContact)
		}
		out = append(out, models.ImportRow{PartyName: name, Contact: contact})
	}
	return out, nil
}

func cell(cells []string, idx int) string {
	if idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

// CheckFilename rejects anything but .xlsx uploads
func CheckFilename(name string) error {
	if !strings.HasSuffix(strings.ToLower(name), ".xlsx") {
		return apperr.ErrInvalidInput.Withf("invalid file type %q: only .xlsx files are allowed", name)
	}
	return nil
}
