package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"billsplit/internal/models"
	"billsplit/internal/storage"
)

const billColumns = "id, category, period, amount, user1_paid, user2_paid, fully_paid, note"

// AddBill persists a new bill and assigns bill.ID.
func (s *SQLiteStore) AddBill(ctx context.Context, bill *models.Bill) error {
	if bill.Amount < 0 {
		return fmt.Errorf("bill amount must not be negative: %d", bill.Amount)
	}
	bill.Sync()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bills (category, period, amount, user1_paid, user2_paid, fully_paid, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		bill.Category, bill.Period, bill.Amount,
		bill.User1Paid, bill.User2Paid, bill.FullyPaid, bill.Note,
	)
	if err != nil {
		return &storage.StorageError{Op: "insert bill", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return &storage.StorageError{Op: "bill insert id", Err: err}
	}
	bill.ID = id
	return nil
}

// UpdateBill overwrites the paid flags and note of an existing bill.
// FullyPaid is recomputed from the flags before the write.
func (s *SQLiteStore) UpdateBill(ctx context.Context, bill *models.Bill) error {
	bill.Sync()

	res, err := s.db.ExecContext(ctx,
		`UPDATE bills
		 SET user1_paid = ?, user2_paid = ?, fully_paid = ?, note = ?
		 WHERE id = ?`,
		bill.User1Paid, bill.User2Paid, bill.FullyPaid, bill.Note, bill.ID,
	)
	if err != nil {
		return &storage.StorageError{Op: "update bill", Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return &storage.StorageError{Op: "update bill rows", Err: err}
	}
	if n == 0 {
		return fmt.Errorf("bill %d: %w", bill.ID, storage.ErrNotFound)
	}
	return nil
}

// RemoveBill deletes the bill with the given id.
func (s *SQLiteStore) RemoveBill(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", id)
	if err != nil {
		return &storage.StorageError{Op: "delete bill", Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return &storage.StorageError{Op: "delete bill rows", Err: err}
	}
	if n == 0 {
		return fmt.Errorf("bill %d: %w", id, storage.ErrNotFound)
	}
	return nil
}

// RemoveCategory deletes every bill in the category and returns the count.
func (s *SQLiteStore) RemoveCategory(ctx context.Context, category string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE category = ?", category)
	if err != nil {
		return 0, &storage.StorageError{Op: "delete category", Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, &storage.StorageError{Op: "delete category rows", Err: err}
	}
	return n, nil
}

// GetBill retrieves a bill by id.
func (s *SQLiteStore) GetBill(ctx context.Context, id int64) (*models.Bill, error) {
	bill := &models.Bill{}
	err := s.db.QueryRowContext(ctx,
		"SELECT "+billColumns+" FROM bills WHERE id = ?", id,
	).Scan(&bill.ID, &bill.Category, &bill.Period, &bill.Amount,
		&bill.User1Paid, &bill.User2Paid, &bill.FullyPaid, &bill.Note)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bill %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, &storage.StorageError{Op: "select bill", Err: err}
	}
	return bill, nil
}

// ListBills returns every bill in insertion order.
func (s *SQLiteStore) ListBills(ctx context.Context) ([]models.Bill, error) {
	return s.queryBills(ctx, "SELECT "+billColumns+" FROM bills ORDER BY id")
}

// ListByCategory returns the category's bills in insertion order.
func (s *SQLiteStore) ListByCategory(ctx context.Context, category string) ([]models.Bill, error) {
	return s.queryBills(ctx,
		"SELECT "+billColumns+" FROM bills WHERE category = ? ORDER BY id", category)
}

// Categories returns the distinct categories currently present.
func (s *SQLiteStore) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT category FROM bills ORDER BY category")
	if err != nil {
		return nil, &storage.StorageError{Op: "select categories", Err: err}
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, &storage.StorageError{Op: "scan category", Err: err}
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &storage.StorageError{Op: "iterate categories", Err: err}
	}
	return categories, nil
}

// UnpaidFor returns the bills the party has not paid, optionally restricted
// to one category.
func (s *SQLiteStore) UnpaidFor(ctx context.Context, party models.Party, category string) ([]models.Bill, error) {
	flag := paidColumn(party)
	if category != "" {
		return s.queryBills(ctx,
			"SELECT "+billColumns+" FROM bills WHERE "+flag+" = 0 AND category = ? ORDER BY id",
			category)
	}
	return s.queryBills(ctx,
		"SELECT "+billColumns+" FROM bills WHERE "+flag+" = 0 ORDER BY id")
}

// TotalOwed sums the party's share over every bill they have not paid.
func (s *SQLiteStore) TotalOwed(ctx context.Context, party models.Party) (int64, error) {
	bills, err := s.UnpaidFor(ctx, party, "")
	if err != nil {
		return 0, err
	}

	var total int64
	for i := range bills {
		total += bills[i].Share(party.ID)
	}
	return total, nil
}

func (s *SQLiteStore) queryBills(ctx context.Context, query string, args ...any) ([]models.Bill, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &storage.StorageError{Op: "select bills", Err: err}
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		var b models.Bill
		if err := rows.Scan(&b.ID, &b.Category, &b.Period, &b.Amount,
			&b.User1Paid, &b.User2Paid, &b.FullyPaid, &b.Note); err != nil {
			return nil, &storage.StorageError{Op: "scan bill", Err: err}
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, &storage.StorageError{Op: "iterate bills", Err: err}
	}
	return bills, nil
}

// paidColumn maps a party to its paid-flag column. Only fixed column names
// are returned, so interpolating into SQL is safe.
func paidColumn(party models.Party) string {
	if party.ID == 1 {
		return "user1_paid"
	}
	return "user2_paid"
}
