package service

import "billsplit/internal/models"

// sayBill prints one bill record the way the original calculator did,
// naming both parties' payment status.
func (a *App) sayBill(b *models.Bill) {
	a.ctl.Say("")
	a.ctl.Say("Date: %s  A %s bill for %d yen.", b.Period, b.Category, b.Amount)
	a.ctl.Say("ID: %d       %s has %s and %s has %s.",
		b.ID,
		a.party1.Name, paidStatus(b.User1Paid),
		a.party2.Name, paidStatus(b.User2Paid))
	if b.Note != "" {
		a.ctl.Say("")
		a.ctl.Say("Notes: %s", b.Note)
	}
}

func (a *App) sayBills(bills []models.Bill) {
	for i := range bills {
		a.sayBill(&bills[i])
	}
}

func paidStatus(paid bool) string {
	if paid {
		return "paid"
	}
	return "not paid yet"
}
