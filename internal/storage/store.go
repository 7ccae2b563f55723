// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"
	"errors"
	"fmt"

	"billsplit/internal/models"
)

// ErrNotFound is returned when a bill id or category has no matching record.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyInitialized is returned by Initialize when the ledger already
// holds parties. It is fatal at startup: re-initializing would orphan bills.
var ErrAlreadyInitialized = errors.New("ledger already initialized")

// StorageError wraps a low-level database failure. It is always fatal to the
// session: a ledger must not silently lose writes, so callers surface it and
// stop instead of retrying.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite today, anything
// else later) without changing the session or service layer.
//
// Reads reflect all prior completed writers; each mutating call is atomic
// with respect to process crash. Exactly one session uses a Store at a time,
// so no isolation between concurrent writers is required.
type Store interface {
	// Initialize performs one-time setup, recording the two party names and
	// a fresh generation token. Returns ErrAlreadyInitialized if parties
	// already exist.
	Initialize(ctx context.Context, party1, party2 string) error

	// Parties returns the two parties in id order, or an empty slice when
	// the ledger has not been initialized yet.
	Parties(ctx context.Context) ([]models.Party, error)

	// Generation returns the token assigned at initialization. Bill ids are
	// unique within a generation and never reused after deletion.
	Generation(ctx context.Context) (string, error)

	// AddBill persists a new bill, assigning bill.ID.
	AddBill(ctx context.Context, bill *models.Bill) error

	// UpdateBill overwrites the paid flags and note of an existing bill.
	// FullyPaid is recomputed from the flags, never taken from the input.
	// Returns ErrNotFound if the id is unknown.
	UpdateBill(ctx context.Context, bill *models.Bill) error

	// RemoveBill deletes the bill with the given id.
	// Returns ErrNotFound if the id is unknown.
	RemoveBill(ctx context.Context, id int64) error

	// RemoveCategory deletes every bill in the category and returns the
	// number removed.
	RemoveCategory(ctx context.Context, category string) (int64, error)

	// GetBill retrieves a bill by id. Returns ErrNotFound when absent.
	GetBill(ctx context.Context, id int64) (*models.Bill, error)

	// ListBills returns every bill in insertion order (ascending id).
	ListBills(ctx context.Context) ([]models.Bill, error)

	// ListByCategory returns the category's bills in insertion order.
	ListByCategory(ctx context.Context, category string) ([]models.Bill, error)

	// Categories returns the distinct categories currently present.
	// Categories with no bills do not appear.
	Categories(ctx context.Context) ([]string, error)

	// UnpaidFor returns the bills the given party has not paid, restricted
	// to category when it is non-empty, in insertion order.
	UnpaidFor(ctx context.Context, party models.Party, category string) ([]models.Bill, error)

	// TotalOwed sums the party's share over every bill they have not paid.
	// It is recomputed on every call, never cached.
	TotalOwed(ctx context.Context, party models.Party) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}
