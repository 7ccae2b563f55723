// Package calculator contains the split math for two-party bills.
package calculator

// Shares splits amount between the two parties.
//
// Amounts are whole currency units, so an odd amount cannot split evenly.
// Party 1 absorbs the spare unit: the two shares always sum to the amount
// and nothing is silently forgiven.
func Shares(amount int64) (party1, party2 int64) {
	half := amount / 2
	return amount - half, half
}

// Share returns one party's portion of amount.
func Share(amount int64, partyID int) int64 {
	p1, p2 := Shares(amount)
	if partyID == 1 {
		return p1
	}
	return p2
}
