package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"billsplit/internal/models"
	"billsplit/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "billsplit-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInitialize(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("records parties and generation", func(t *testing.T) {
		if err := store.Initialize(ctx, "Alex", "Bo"); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}

		parties, err := store.Parties(ctx)
		if err != nil {
			t.Fatalf("Parties failed: %v", err)
		}
		if len(parties) != 2 {
			t.Fatalf("Expected 2 parties, got %d", len(parties))
		}
		if parties[0].ID != 1 || parties[0].Name != "Alex" {
			t.Errorf("Party 1 mismatch: %+v", parties[0])
		}
		if parties[1].ID != 2 || parties[1].Name != "Bo" {
			t.Errorf("Party 2 mismatch: %+v", parties[1])
		}

		gen, err := store.Generation(ctx)
		if err != nil {
			t.Fatalf("Generation failed: %v", err)
		}
		if gen == "" {
			t.Error("Expected a non-empty generation token")
		}
	})

	t.Run("second initialize fails", func(t *testing.T) {
		err := store.Initialize(ctx, "Carol", "Dan")
		if !errors.Is(err, storage.ErrAlreadyInitialized) {
			t.Errorf("Expected ErrAlreadyInitialized, got %v", err)
		}
	})
}

func TestBillRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	original := &models.Bill{
		Category:  "gas",
		Period:    "04-21,05-21",
		Amount:    4000,
		User1Paid: true,
		Note:      "first of the month",
	}
	if err := store.AddBill(ctx, original); err != nil {
		t.Fatalf("AddBill failed: %v", err)
	}
	if original.ID == 0 {
		t.Fatal("Expected bill ID to be assigned")
	}

	got, err := store.GetBill(ctx, original.ID)
	if err != nil {
		t.Fatalf("GetBill failed: %v", err)
	}
	if *got != *original {
		t.Errorf("Round trip mismatch:\n got %+v\nwant %+v", got, original)
	}

	t.Run("get unknown id", func(t *testing.T) {
		_, err := store.GetBill(ctx, 9999)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestIDsNotReused(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &models.Bill{Category: "gas", Period: "01-21", Amount: 100}
	if err := store.AddBill(ctx, first); err != nil {
		t.Fatalf("AddBill failed: %v", err)
	}
	if err := store.RemoveBill(ctx, first.ID); err != nil {
		t.Fatalf("RemoveBill failed: %v", err)
	}

	second := &models.Bill{Category: "gas", Period: "02-21", Amount: 100}
	if err := store.AddBill(ctx, second); err != nil {
		t.Fatalf("AddBill failed: %v", err)
	}
	if second.ID <= first.ID {
		t.Errorf("ID %d was reused after deleting %d", second.ID, first.ID)
	}
}

func TestFullyPaidInvariant(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("insert never trusts FullyPaid", func(t *testing.T) {
		bill := &models.Bill{Category: "gas", Period: "01-21", Amount: 100, User1Paid: true, FullyPaid: true}
		if err := store.AddBill(ctx, bill); err != nil {
			t.Fatalf("AddBill failed: %v", err)
		}
		got, err := store.GetBill(ctx, bill.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if got.FullyPaid {
			t.Error("FullyPaid stored true with only one flag set")
		}
	})

	t.Run("update recomputes FullyPaid", func(t *testing.T) {
		bill := &models.Bill{Category: "gas", Period: "01-21", Amount: 100}
		if err := store.AddBill(ctx, bill); err != nil {
			t.Fatalf("AddBill failed: %v", err)
		}

		bill.User1Paid = true
		bill.User2Paid = true
		bill.FullyPaid = false // stale; the store must recompute
		if err := store.UpdateBill(ctx, bill); err != nil {
			t.Fatalf("UpdateBill failed: %v", err)
		}

		got, err := store.GetBill(ctx, bill.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if !got.FullyPaid {
			t.Error("FullyPaid stored false with both flags set")
		}
	})

	t.Run("update unknown id", func(t *testing.T) {
		ghost := &models.Bill{ID: 9999, Category: "gas", Period: "01-21", Amount: 100}
		if err := store.UpdateBill(ctx, ghost); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestRemoveBill(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bill := &models.Bill{Category: "water", Period: "03-21", Amount: 5000}
	if err := store.AddBill(ctx, bill); err != nil {
		t.Fatalf("AddBill failed: %v", err)
	}

	t.Run("unknown id signals not found without side effects", func(t *testing.T) {
		before, err := store.ListBills(ctx)
		if err != nil {
			t.Fatalf("ListBills failed: %v", err)
		}

		if err := store.RemoveBill(ctx, 9999); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}

		after, err := store.ListBills(ctx)
		if err != nil {
			t.Fatalf("ListBills failed: %v", err)
		}
		if len(after) != len(before) {
			t.Errorf("ListBills length changed from %d to %d", len(before), len(after))
		}
	})

	t.Run("removes existing bill", func(t *testing.T) {
		if err := store.RemoveBill(ctx, bill.ID); err != nil {
			t.Fatalf("RemoveBill failed: %v", err)
		}
		if _, err := store.GetBill(ctx, bill.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after removal, got %v", err)
		}
	})
}

func TestListingAndCategories(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, b := range []models.Bill{
		{Category: "gas", Period: "01-21", Amount: 2000},
		{Category: "water", Period: "01-21", Amount: 5000},
		{Category: "gas", Period: "02-21", Amount: 2400},
		{Category: "gas", Period: "03-21", Amount: 2200},
	} {
		bill := b
		if err := store.AddBill(ctx, &bill); err != nil {
			t.Fatalf("AddBill failed: %v", err)
		}
	}

	t.Run("ListBills keeps insertion order", func(t *testing.T) {
		bills, err := store.ListBills(ctx)
		if err != nil {
			t.Fatalf("ListBills failed: %v", err)
		}
		if len(bills) != 4 {
			t.Fatalf("Expected 4 bills, got %d", len(bills))
		}
		for i := 1; i < len(bills); i++ {
			if bills[i].ID <= bills[i-1].ID {
				t.Errorf("Bills out of insertion order at index %d", i)
			}
		}
	})

	t.Run("ListByCategory filters and keeps order", func(t *testing.T) {
		bills, err := store.ListByCategory(ctx, "gas")
		if err != nil {
			t.Fatalf("ListByCategory failed: %v", err)
		}
		if len(bills) != 3 {
			t.Fatalf("Expected 3 gas bills, got %d", len(bills))
		}
		for _, b := range bills {
			if b.Category != "gas" {
				t.Errorf("Unexpected category %q", b.Category)
			}
		}
	})

	t.Run("Categories lists distinct present categories", func(t *testing.T) {
		cats, err := store.Categories(ctx)
		if err != nil {
			t.Fatalf("Categories failed: %v", err)
		}
		if len(cats) != 2 || cats[0] != "gas" || cats[1] != "water" {
			t.Errorf("Categories = %v, want [gas water]", cats)
		}
	})

	t.Run("RemoveCategory cascades", func(t *testing.T) {
		count, err := store.RemoveCategory(ctx, "gas")
		if err != nil {
			t.Fatalf("RemoveCategory failed: %v", err)
		}
		if count != 3 {
			t.Errorf("Expected 3 bills removed, got %d", count)
		}

		cats, err := store.Categories(ctx)
		if err != nil {
			t.Fatalf("Categories failed: %v", err)
		}
		if len(cats) != 1 || cats[0] != "water" {
			t.Errorf("Categories = %v, want [water]", cats)
		}

		bills, err := store.ListBills(ctx)
		if err != nil {
			t.Fatalf("ListBills failed: %v", err)
		}
		if len(bills) != 1 {
			t.Errorf("Expected 1 bill left, got %d", len(bills))
		}
	})
}

func TestTotalOwedScenario(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Initialize(ctx, "Alex", "Bo"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	parties, err := store.Parties(ctx)
	if err != nil {
		t.Fatalf("Parties failed: %v", err)
	}
	alex, bo := parties[0], parties[1]

	bill := &models.Bill{Category: "gas", Period: "04-21", Amount: 4000}
	if err := store.AddBill(ctx, bill); err != nil {
		t.Fatalf("AddBill failed: %v", err)
	}

	owedBy := func(p models.Party) int64 {
		t.Helper()
		owed, err := store.TotalOwed(ctx, p)
		if err != nil {
			t.Fatalf("TotalOwed failed: %v", err)
		}
		return owed
	}

	if owedBy(alex) != 2000 || owedBy(bo) != 2000 {
		t.Fatalf("After add: owed = (%d, %d), want (2000, 2000)", owedBy(alex), owedBy(bo))
	}

	// Alex pays their half.
	bill.MarkPaid(alex.ID)
	if err := store.UpdateBill(ctx, bill); err != nil {
		t.Fatalf("UpdateBill failed: %v", err)
	}
	if owedBy(alex) != 0 || owedBy(bo) != 2000 {
		t.Fatalf("After Alex pays: owed = (%d, %d), want (0, 2000)", owedBy(alex), owedBy(bo))
	}
	got, err := store.GetBill(ctx, bill.ID)
	if err != nil {
		t.Fatalf("GetBill failed: %v", err)
	}
	if got.FullyPaid {
		t.Error("Bill fully paid with only one share settled")
	}

	// Bo pays theirs.
	bill.MarkPaid(bo.ID)
	if err := store.UpdateBill(ctx, bill); err != nil {
		t.Fatalf("UpdateBill failed: %v", err)
	}
	if owedBy(alex) != 0 || owedBy(bo) != 0 {
		t.Fatalf("After both pay: owed = (%d, %d), want (0, 0)", owedBy(alex), owedBy(bo))
	}
	got, err = store.GetBill(ctx, bill.ID)
	if err != nil {
		t.Fatalf("GetBill failed: %v", err)
	}
	if !got.FullyPaid {
		t.Error("Bill not fully paid after both shares settled")
	}

	t.Run("fully paid bill never counts", func(t *testing.T) {
		paidBoth := &models.Bill{Category: "water", Period: "04-21", Amount: 6000, User1Paid: true, User2Paid: true}
		if err := store.AddBill(ctx, paidBoth); err != nil {
			t.Fatalf("AddBill failed: %v", err)
		}
		if owedBy(alex) != 0 || owedBy(bo) != 0 {
			t.Errorf("Paid-by-both bill changed totals: (%d, %d)", owedBy(alex), owedBy(bo))
		}
	})

	t.Run("odd amount splits without losing a unit", func(t *testing.T) {
		odd := &models.Bill{Category: "electric", Period: "05-21", Amount: 4001}
		if err := store.AddBill(ctx, odd); err != nil {
			t.Fatalf("AddBill failed: %v", err)
		}
		if got := owedBy(alex); got != 2001 {
			t.Errorf("Party 1 owes %d, want 2001", got)
		}
		if got := owedBy(bo); got != 2000 {
			t.Errorf("Party 2 owes %d, want 2000", got)
		}
	})
}

func TestUnpaidFor(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Initialize(ctx, "Alex", "Bo"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	parties, _ := store.Parties(ctx)
	alex := parties[0]

	for _, b := range []models.Bill{
		{Category: "gas", Period: "01-21", Amount: 2000, User1Paid: true},
		{Category: "gas", Period: "02-21", Amount: 2000},
		{Category: "water", Period: "01-21", Amount: 5000},
	} {
		bill := b
		if err := store.AddBill(ctx, &bill); err != nil {
			t.Fatalf("AddBill failed: %v", err)
		}
	}

	t.Run("restricted to category", func(t *testing.T) {
		bills, err := store.UnpaidFor(ctx, alex, "gas")
		if err != nil {
			t.Fatalf("UnpaidFor failed: %v", err)
		}
		if len(bills) != 1 || bills[0].Period != "02-21" {
			t.Errorf("UnpaidFor(gas) = %+v, want the single unpaid gas bill", bills)
		}
	})

	t.Run("all categories", func(t *testing.T) {
		bills, err := store.UnpaidFor(ctx, alex, "")
		if err != nil {
			t.Fatalf("UnpaidFor failed: %v", err)
		}
		if len(bills) != 2 {
			t.Errorf("Expected 2 unpaid bills across categories, got %d", len(bills))
		}
	})
}
