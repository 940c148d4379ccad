// Package export flattens expenses into rows for tabular output.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"bytebank/internal/models"
)

// Header is the column order of every exported row.
var Header = []string{"ID", "Date", "Category", "Description", "Amount"}

// Row is one exported expense.
type Row struct {
	ID          int64
	Date        string
	Category    string
	Description string
	Amount      float64
}

// Strings returns the row's fields formatted in Header order.
func (r Row) Strings() []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Date,
		r.Category,
		r.Description,
		strconv.FormatFloat(r.Amount, 'f', -1, 64),
	}
}

// ToRows converts expenses to rows, preserving order.
func ToRows(expenses []models.Expense) []Row {
	rows := make([]Row, len(expenses))
	for i, e := range expenses {
		rows[i] = Row{
			ID:          e.ID,
			Date:        e.DateString(),
			Category:    string(e.Category),
			Description: e.Description,
			Amount:      e.Amount,
		}
	}
	return rows
}

// WriteCSV writes Header followed by one record per expense.
func WriteCSV(w io.Writer, expenses []models.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range ToRows(expenses) {
		if err := cw.Write(r.Strings()); err != nil {
			return fmt.Errorf("write row %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
