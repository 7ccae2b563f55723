// Package models defines the core domain models for billsplit.
//
// # Models
//
//   - Bill: one shared bill, its amount, per-party paid flags, and audit note
//   - Party: one of the exactly two people splitting the bills
//
// # Design Principles
//
//  1. **Two parties, fixed**: the ledger is initialized with exactly two
//     parties and they never change; every bill is owed by both.
//  2. **Derived, never trusted**: FullyPaid is recomputed from the two paid
//     flags on every mutation path; Sync exists so no write path can store a
//     FullyPaid that disagrees with the flags.
//  3. **Whole currency units**: amounts are int64 whole units (yen in the
//     original deployment); the spare unit of an odd split goes to party 1
//     so the two shares always sum to the amount.
package models
