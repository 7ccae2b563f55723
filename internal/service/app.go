// Package service composes the ledger store and the session controller into
// the interactive bill workflows.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"billsplit/internal/models"
	"billsplit/internal/session"
	"billsplit/internal/storage"
)

// App orchestrates the bill-addition, bill-removal, bill-payment and
// record-inspection workflows over a storage.Store, driven one state at a
// time by the session controller.
type App struct {
	store storage.Store
	ctl   *session.Controller

	// now is the clock used for audit-note timestamps; tests replace it.
	now func() time.Time

	party1 models.Party
	party2 models.Party
}

// New creates an App over the given store and controller.
func New(store storage.Store, ctl *session.Controller) *App {
	return &App{store: store, ctl: ctl, now: time.Now}
}

// Run drives the session until the user quits or a storage failure makes
// further writes unsafe.
func (a *App) Run(ctx context.Context) error {
	ok, err := a.ensureParties(ctx)
	if err != nil {
		return err
	}
	if ok {
		a.intro()
		st := session.Main()
		for st.Step != session.StepQuit {
			st, err = a.step(ctx, st)
			if err != nil {
				slog.Error("session aborted", "error", err)
				return err
			}
		}
	}
	a.ctl.Say("Closing program...")
	return nil
}

// ensureParties loads the two parties, prompting for names on first run.
// It returns false when the user quit during setup.
func (a *App) ensureParties(ctx context.Context) (bool, error) {
	parties, err := a.store.Parties(ctx)
	if err != nil {
		return false, err
	}

	if len(parties) == 0 {
		a.ctl.Say("Welcome! Let's set up your shared bill ledger.")
		var names [2]string
		for i := range names {
			for names[i] == "" {
				res := a.ctl.ReadLine(fmt.Sprintf("Enter person %d's name:", i+1))
				if res.Action == session.ActionQuit {
					return false, nil
				}
				names[i] = strings.TrimSpace(res.Text)
			}
		}
		if err := a.store.Initialize(ctx, names[0], names[1]); err != nil {
			return false, err
		}
		slog.Info("ledger initialized", "party1", names[0], "party2", names[1])
		parties, err = a.store.Parties(ctx)
		if err != nil {
			return false, err
		}
	}

	if len(parties) != 2 {
		return false, fmt.Errorf("ledger must hold exactly two parties, found %d", len(parties))
	}
	a.party1, a.party2 = parties[0], parties[1]
	return true, nil
}

func (a *App) intro() {
	a.ctl.Say("")
	a.ctl.Say("Welcome to %s and %s's utility calculator.", a.party1.Name, a.party2.Name)
	a.ctl.Say("Today is %s.", a.today())
}

// step runs one state and returns the next one.
func (a *App) step(ctx context.Context, st session.State) (session.State, error) {
	switch st.Step {
	case session.StepMainMenu:
		return a.mainMenu(ctx)
	case session.StepUtilityMenu:
		return a.utilityMenu(ctx, st)
	case session.StepUserPage:
		return a.userPage(ctx, st)
	case session.StepAddBill:
		return a.addBill(ctx, st)
	case session.StepRemoveBill:
		return a.removeBill(ctx, st)
	case session.StepPayBill:
		return a.payBill(ctx, st)
	case session.StepCheckUnpaid:
		return a.checkUnpaid(ctx, st)
	case session.StepRemoveUtility:
		return a.removeUtility(ctx, st)
	default:
		return session.Quit(), nil
	}
}

func (a *App) mainMenu(ctx context.Context) (session.State, error) {
	owed1, err := a.store.TotalOwed(ctx, a.party1)
	if err != nil {
		return session.Quit(), err
	}
	owed2, err := a.store.TotalOwed(ctx, a.party2)
	if err != nil {
		return session.Quit(), err
	}
	categories, err := a.store.Categories(ctx)
	if err != nil {
		return session.Quit(), err
	}

	a.ctl.Say("")
	a.ctl.Say("%s currently owes %d yen and %s currently owes %d yen.",
		a.party1.Name, owed1, a.party2.Name, owed2)
	a.ctl.Say("")
	a.ctl.Say("'add utility' - Enter a new utility and bill.")
	a.ctl.Say("'remove utility' - Remove a utility and all associated bills.")
	a.ctl.Say("'%s' - See information for %s.", a.party1.Name, a.party1.Name)
	a.ctl.Say("'%s' - See information for %s.", a.party2.Name, a.party2.Name)
	a.ctl.Say("")
	for _, cat := range categories {
		a.ctl.Say("'%s' - Access your %s record.", cat, cat)
	}
	a.ctl.Say("")
	a.ctl.Say("You can return to this page by entering 'main' at any point.")
	a.ctl.Say("You can also quit this program at any point by entering 'quit'.")

	acceptable := []string{"add utility", "remove utility",
		strings.ToLower(a.party1.Name), strings.ToLower(a.party2.Name)}
	acceptable = append(acceptable, categories...)

	res := a.ctl.Ask("", session.Rules{Acceptable: acceptable})
	if res.Action != session.ActionProceed {
		return follow(res), nil
	}

	switch res.Text {
	case "add utility":
		return a.addUtility()
	case "remove utility":
		return session.State{Step: session.StepRemoveUtility}, nil
	case strings.ToLower(a.party1.Name):
		return session.State{Step: session.StepUserPage, PartyID: a.party1.ID}, nil
	case strings.ToLower(a.party2.Name):
		return session.State{Step: session.StepUserPage, PartyID: a.party2.ID}, nil
	default:
		return session.State{Step: session.StepUtilityMenu, Category: res.Text, ShowRecord: true}, nil
	}
}

// addUtility solicits the new category name; the category itself comes into
// existence when its first bill is stored.
func (a *App) addUtility() (session.State, error) {
	res := a.ctl.ReadLine("What is the new utility called?")
	if res.Action != session.ActionProceed {
		return follow(res), nil
	}
	name := strings.ToLower(strings.TrimSpace(res.Text))
	if name == "" {
		return follow(a.ctl.Redirect("A utility needs a name.", session.Main())), nil
	}
	return session.State{Step: session.StepAddBill, Category: name}, nil
}

func (a *App) userPage(ctx context.Context, st session.State) (session.State, error) {
	party := a.party(st.PartyID)
	owed, err := a.store.TotalOwed(ctx, party)
	if err != nil {
		return session.Quit(), err
	}
	unpaid, err := a.store.UnpaidFor(ctx, party, "")
	if err != nil {
		return session.Quit(), err
	}

	a.ctl.Say("%s owes %d yen.", party.Name, owed)
	a.ctl.Say("Here are their unpaid bills:")
	a.sayBills(unpaid)
	return session.Main(), nil
}

func (a *App) utilityMenu(ctx context.Context, st session.State) (session.State, error) {
	if st.ShowRecord {
		bills, err := a.store.ListByCategory(ctx, st.Category)
		if err != nil {
			return session.Quit(), err
		}
		a.sayBills(bills)
	}

	a.ctl.Say("What would you like to do with %s?", st.Category)
	a.ctl.Say("")
	a.ctl.Say("'add bill' - Add a new bill.")
	a.ctl.Say("'check unpaid bills' - Check unpaid bills for a given utility.")
	a.ctl.Say("'pay bill' - Pay an outstanding bill.")
	a.ctl.Say("'remove bill' - Remove a bill.")

	menu := session.State{Step: session.StepUtilityMenu, Category: st.Category}
	res := a.ctl.Ask("", session.Rules{
		Acceptable: []string{"add bill", "check unpaid bills", "pay bill", "remove bill"},
		OnInvalid:  menu,
	})
	if res.Action != session.ActionProceed {
		return follow(res), nil
	}

	switch res.Text {
	case "add bill":
		return session.State{Step: session.StepAddBill, Category: st.Category}, nil
	case "check unpaid bills":
		return session.State{Step: session.StepCheckUnpaid, Category: st.Category}, nil
	case "pay bill":
		return session.State{Step: session.StepPayBill, Category: st.Category}, nil
	default:
		return session.State{Step: session.StepRemoveBill, Category: st.Category}, nil
	}
}

func (a *App) addBill(ctx context.Context, st session.State) (session.State, error) {
	here := session.State{Step: session.StepAddBill, Category: st.Category}

	a.ctl.Say("")
	a.ctl.Say("How much is the bill for?")
	res := a.ctl.Ask("Enter the amount in yen:", session.Rules{Integer: true, OnInvalid: here})
	if res.Action != session.ActionProceed {
		return follow(res), nil
	}
	if res.Number < 0 {
		return follow(a.ctl.Redirect("The amount cannot be negative.", here)), nil
	}
	amount := res.Number

	a.ctl.Say("What month(s) is this bill for?")
	a.ctl.Say("Enter the bill date like the following: '04-21' for April 2021.")
	a.ctl.Say("If the bill covers more than one month, list the dates with a ',' between them.")
	res = a.ctl.ReadLine("")
	if res.Action != session.ActionProceed {
		return follow(res), nil
	}
	period := res.Text

	res = a.ctl.Ask("Is there anything more you'd like to add?", session.Rules{Boolean: true, OnInvalid: here})
	if res.Action != session.ActionProceed {
		return follow(res), nil
	}

	bill := models.Bill{Category: st.Category, Period: period, Amount: amount}

	if res.Yes {
		res = a.ctl.Ask(fmt.Sprintf("Has %s paid?", a.party2.Name), session.Rules{Boolean: true, OnInvalid: here})
		if res.Action != session.ActionProceed {
			return follow(res), nil
		}
		bill.User2Paid = res.Yes

		res = a.ctl.Ask(fmt.Sprintf("Has %s paid?", a.party1.Name), session.Rules{Boolean: true, OnInvalid: here})
		if res.Action != session.ActionProceed {
			return follow(res), nil
		}
		bill.User1Paid = res.Yes

		res = a.ctl.ReadLine("Do you have any notes you'd like to make about this bill? (Press enter to skip)")
		if res.Action != session.ActionProceed {
			return follow(res), nil
		}
		bill.Note = res.Text
	}

	a.ctl.Say("Creating bill...")
	bill.Sync()
	if err := a.store.AddBill(ctx, &bill); err != nil {
		return session.Quit(), err
	}
	slog.Info("bill added", "id", bill.ID, "category", bill.Category, "amount", bill.Amount)

	a.ctl.Say("Bill has been successfully created and added to the %s bill record!", bill.Category)
	a.ctl.Say("Returning to main menu...")
	return session.Main(), nil
}

func (a *App) removeBill(ctx context.Context, st session.State) (session.State, error) {
	here := session.State{Step: session.StepRemoveBill, Category: st.Category}

	bills, err := a.store.ListByCategory(ctx, st.Category)
	if err != nil {
		return session.Quit(), err
	}
	if len(bills) == 0 {
		dest := session.State{Step: session.StepUtilityMenu, Category: st.Category}
		return follow(a.ctl.Redirect(fmt.Sprintf("There are no %s bills to remove.", st.Category), dest)), nil
	}
	a.sayBills(bills)

	a.ctl.Say("Which bill would you like to remove?")
	res := a.ctl.Ask("Input bill ID:", session.Rules{Integer: true, OnInvalid: here})
	if res.Action != session.ActionProceed {
		return follow(res), nil
	}

	bill := findBill(bills, res.Number)
	if bill == nil {
		return follow(a.ctl.Redirect("The input bill ID could not be found.", here)), nil
	}
	a.sayBill(bill)

	res = a.ctl.Ask("Will you remove this bill?", session.Rules{Boolean: true, OnInvalid: here})
	if res.Action != session.ActionProceed {
		return follow(res), nil
	}
	if !res.Yes {
		return follow(a.ctl.Redirect("", session.Main())), nil
	}

	if err := a.store.RemoveBill(ctx, bill.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return follow(a.ctl.Redirect("The input bill ID could not be found.", here)), nil
		}
		return session.Quit(), err
	}
	slog.Info("bill removed", "id", bill.ID, "category", bill.Category)
	return follow(a.ctl.Redirect("Bill removed.", session.Main())), nil
}

func (a *App) checkUnpaid(ctx context.Context, st session.State) (session.State, error) {
	bills, err := a.store.ListByCategory(ctx, st.Category)
	if err != nil {
		return session.Quit(), err
	}
	for i := range bills {
		if !bills[i].FullyPaid {
			a.sayBill(&bills[i])
		}
	}
	return session.State{Step: session.StepUtilityMenu, Category: st.Category}, nil
}

func (a *App) payBill(ctx context.Context, st session.State) (session.State, error) {
	here := session.State{Step: session.StepPayBill, Category: st.Category}

	a.ctl.Say("Who are you?")
	res := a.ctl.Ask(
		fmt.Sprintf("Enter '%s' or '%s'.", a.party1.Name, a.party2.Name),
		session.Rules{
			Acceptable: []string{strings.ToLower(a.party1.Name), strings.ToLower(a.party2.Name)},
			OnInvalid:  here,
		})
	if res.Action != session.ActionProceed {
		return follow(res), nil
	}
	party := a.party1
	if a.party2.Matches(res.Text) {
		party = a.party2
	}

	unpaid, err := a.store.UnpaidFor(ctx, party, st.Category)
	if err != nil {
		return session.Quit(), err
	}
	if len(unpaid) == 0 {
		a.ctl.Say("You don't have any bills to pay.")
		return follow(a.ctl.Redirect("", session.Main())), nil
	}
	a.sayBills(unpaid)

	a.ctl.Say("Which bill would you like to pay?")
	a.ctl.Say("You can pay multiple bills at once by entering multiple IDs separated by a space.")
	res = a.ctl.ReadLine("Enter the ID:")
	if res.Action != session.ActionProceed {
		return follow(res), nil
	}

	ids, err := parseIDs(res.Text)
	if err != nil {
		return follow(a.ctl.Redirect("Please enter an integer.", here)), nil
	}
	if len(ids) == 1 {
		return a.payOne(ctx, here, unpaid, party, ids[0])
	}
	return a.payMany(ctx, here, unpaid, party, ids)
}

func (a *App) payOne(ctx context.Context, here session.State, unpaid []models.Bill, party models.Party, id int64) (session.State, error) {
	bill := findBill(unpaid, id)
	if bill == nil {
		return follow(a.ctl.Redirect("The inputted bill ID could not be found.", here)), nil
	}

	a.sayBill(bill)
	a.ctl.Say("You owe %d yen.", bill.Share(party.ID))
	res := a.ctl.Ask("Will you pay your bill?", session.Rules{Boolean: true, OnInvalid: here})
	if res.Action != session.ActionProceed {
		return follow(res), nil
	}
	if !res.Yes {
		return follow(a.ctl.Redirect("", session.Main())), nil
	}

	if err := a.pay(ctx, bill, party); err != nil {
		return session.Quit(), err
	}
	if bill.FullyPaid {
		a.ctl.Say("This bill has been completely paid off!")
	}
	a.ctl.Say("You successfully paid your bill!")
	a.ctl.Say("Returning to main menu...")
	return session.Main(), nil
}

// payMany pays every matched id and reports every unmatched one; a bulk
// payment where nothing matched redirects like a single bad id.
func (a *App) payMany(ctx context.Context, here session.State, unpaid []models.Bill, party models.Party, ids []int64) (session.State, error) {
	paid := 0
	for _, id := range ids {
		bill := findBill(unpaid, id)
		if bill == nil {
			a.ctl.Say("No bill with ID %d could be found; skipping it.", id)
			continue
		}
		if err := a.pay(ctx, bill, party); err != nil {
			return session.Quit(), err
		}
		a.ctl.Say("You successfully paid your bill (ID:%d)!", bill.ID)
		if bill.FullyPaid {
			a.ctl.Say("This bill has been completely paid off!")
		}
		paid++
	}

	if paid == 0 {
		return follow(a.ctl.Redirect("The inputted bill ID could not be found.", here)), nil
	}
	a.ctl.Say("Returning to main menu...")
	return session.Main(), nil
}

// pay marks the party's share paid, appends the audit line, and persists.
func (a *App) pay(ctx context.Context, bill *models.Bill, party models.Party) error {
	bill.MarkPaid(party.ID)
	bill.AppendNote(fmt.Sprintf("%s paid %d for bill (ID %d) on %s, paying off their portion of the bill.",
		party.Name, bill.Share(party.ID), bill.ID, a.today()))
	if err := a.store.UpdateBill(ctx, bill); err != nil {
		return err
	}
	slog.Info("bill paid", "id", bill.ID, "party", party.Name, "fully_paid", bill.FullyPaid)
	return nil
}

func (a *App) removeUtility(ctx context.Context, st session.State) (session.State, error) {
	categories, err := a.store.Categories(ctx)
	if err != nil {
		return session.Quit(), err
	}
	if len(categories) == 0 {
		return follow(a.ctl.Redirect("There are no utilities to remove.", session.Main())), nil
	}

	a.ctl.Say("Which utility would you like to remove?")
	res := a.ctl.Ask(fmt.Sprintf("Enter one of: %s.", strings.Join(categories, ", ")),
		session.Rules{Acceptable: categories, Invalid: "That is not one of your utilities."})
	if res.Action != session.ActionProceed {
		return follow(res), nil
	}
	category := res.Text

	res = a.ctl.Ask(
		fmt.Sprintf("This will remove every %s bill. Are you sure?", category),
		session.Rules{Boolean: true})
	if res.Action != session.ActionProceed {
		return follow(res), nil
	}
	if !res.Yes {
		return follow(a.ctl.Redirect("", session.Main())), nil
	}

	count, err := a.store.RemoveCategory(ctx, category)
	if err != nil {
		return session.Quit(), err
	}
	slog.Info("category removed", "category", category, "bills", count)
	a.ctl.Say("Removed %s and its %d bill(s).", category, count)
	return session.Main(), nil
}

// party returns the party with the given id.
func (a *App) party(id int) models.Party {
	if id == a.party2.ID {
		return a.party2
	}
	return a.party1
}

func (a *App) today() string {
	return a.now().Format("January 2, 2006 at 3:04 PM")
}

// follow converts a non-proceed prompt result into the next state to run.
func follow(res session.Result) session.State {
	if res.Action == session.ActionQuit {
		return session.Quit()
	}
	return res.Next
}

// findBill returns the bill with the given id, or nil.
func findBill(bills []models.Bill, id int64) *models.Bill {
	for i := range bills {
		if bills[i].ID == id {
			return &bills[i]
		}
	}
	return nil
}

// parseIDs splits a space-separated id list.
func parseIDs(input string) ([]int64, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil, fmt.Errorf("no ids given")
	}
	ids := make([]int64, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bill id %q: %w", f, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
