// Package export serializes ledger records to flat text for recovery use.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"billsplit/internal/models"
)

// header names the exported columns, after a leading generation record that
// ties the file to the ledger generation it came from.
var header = []string{"id", "category", "period", "amount", "user1_paid", "user2_paid", "fully_paid", "note"}

// Write serializes bills as CSV.
func Write(w io.Writer, generation string, bills []models.Bill) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"generation", generation}); err != nil {
		return fmt.Errorf("failed to write generation record: %w", err)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range bills {
		b := &bills[i]
		row := []string{
			strconv.FormatInt(b.ID, 10),
			b.Category,
			b.Period,
			strconv.FormatInt(b.Amount, 10),
			strconv.FormatBool(b.User1Paid),
			strconv.FormatBool(b.User2Paid),
			strconv.FormatBool(b.FullyPaid),
			b.Note,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write bill %d: %w", b.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
