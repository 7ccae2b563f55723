package models

import (
	"strings"

	"billsplit/internal/calculator"
)

// Party is one of the two people splitting bills.
type Party struct {
	// ID is 1 or 2, fixed at ledger initialization.
	ID int

	// Name is the display name entered at setup.
	Name string
}

// Matches reports whether input identifies this party, ignoring case.
func (p Party) Matches(input string) bool {
	return strings.EqualFold(p.Name, input)
}

// Bill represents one shared bill owed by both parties.
type Bill struct {
	// ID is the unique identifier assigned by the store on insertion.
	// IDs are never reused after deletion within a ledger generation.
	ID int64

	// Category is the user-defined grouping label (e.g. "gas", "rent").
	// A category exists exactly as long as it has bills.
	Category string

	// Period describes the billing period(s) covered, free text.
	// Multiple periods are comma-separated (e.g. "04-21,05-21").
	Period string

	// Amount is the total bill cost in whole currency units.
	Amount int64

	// User1Paid and User2Paid are the independent per-party paid flags.
	User1Paid bool
	User2Paid bool

	// FullyPaid is always User1Paid && User2Paid. It is derived state kept
	// in the record for querying; call Sync after changing either flag.
	FullyPaid bool

	// Note is free-text audit history. Payment events append lines here;
	// the note is never truncated.
	Note string
}

// Sync recomputes FullyPaid from the two paid flags.
func (b *Bill) Sync() {
	b.FullyPaid = b.User1Paid && b.User2Paid
}

// Paid reports whether the given party has paid their share.
func (b *Bill) Paid(partyID int) bool {
	if partyID == 1 {
		return b.User1Paid
	}
	return b.User2Paid
}

// MarkPaid sets the given party's paid flag and recomputes FullyPaid.
func (b *Bill) MarkPaid(partyID int) {
	if partyID == 1 {
		b.User1Paid = true
	} else {
		b.User2Paid = true
	}
	b.Sync()
}

// Share returns the given party's portion of the bill amount.
func (b *Bill) Share(partyID int) int64 {
	return calculator.Share(b.Amount, partyID)
}

// AppendNote adds a line to the bill's audit note.
func (b *Bill) AppendNote(line string) {
	if b.Note != "" && !strings.HasSuffix(b.Note, "\n") {
		b.Note += "\n"
	}
	b.Note += line
}
