package service

import (
	"context"
	"fmt"
	"math/rand"

	"billsplit/internal/models"
	"billsplit/internal/storage"
)

// Seed initializes a throwaway ledger with two sample parties and a few
// months of utility bills. Debug mode runs against a seeded in-memory store
// instead of the durable file.
func Seed(ctx context.Context, store storage.Store) error {
	if err := store.Initialize(ctx, "Alice", "Bob"); err != nil {
		return fmt.Errorf("seed parties: %w", err)
	}

	periods := []string{"01-21", "02-21", "03-21", "04-21", "05-21"}
	period := func() string { return periods[rand.Intn(len(periods))] }

	bills := []models.Bill{
		{Category: "rent", Period: period(), Amount: 94000},
		{Category: "gas", Period: period(), Amount: 2000 + rand.Int63n(2000)},
		{Category: "gas", Period: period(), Amount: 2000 + rand.Int63n(2000)},
		{Category: "gas", Period: period(), Amount: 2000 + rand.Int63n(2000)},
		{Category: "water", Period: period(), Amount: 5000 + rand.Int63n(1000)},
		{Category: "electric", Period: period(), Amount: 7000 + rand.Int63n(1000), User2Paid: true},
	}

	for i := range bills {
		bills[i].Note = "sample data"
		if err := store.AddBill(ctx, &bills[i]); err != nil {
			return fmt.Errorf("seed bill: %w", err)
		}
	}
	return nil
}
