// Package session drives the line-oriented conversation with the user.
//
// Navigation is modeled as explicit State values consumed by a driving loop
// rather than menu functions calling each other: a redirect is just the next
// State to run, so invalid input can re-enter the same step with the same
// context without growing the call stack.
package session

// Step identifies one workflow step of the interactive session.
type Step int

const (
	// StepMainMenu is the initial step and the universal fallback.
	StepMainMenu Step = iota
	StepUtilityMenu
	StepUserPage
	StepAddBill
	StepRemoveBill
	StepPayBill
	StepCheckUnpaid
	StepRemoveUtility
	// StepQuit terminates the session.
	StepQuit
)

// State is one position in the session: the step to run plus the context it
// carries. The zero value is the main menu.
type State struct {
	Step Step

	// Category scopes the step to one utility (AddBill, RemoveBill,
	// PayBill, CheckUnpaid, UtilityMenu).
	Category string

	// PartyID scopes StepUserPage to one party.
	PartyID int

	// ShowRecord tells StepUtilityMenu whether to print the category's
	// record before the menu.
	ShowRecord bool
}

// Main returns the main menu state.
func Main() State {
	return State{Step: StepMainMenu}
}

// Quit returns the terminal state.
func Quit() State {
	return State{Step: StepQuit}
}

// Label names the state's destination the way redirect messages refer to it.
func (s State) Label() string {
	switch s.Step {
	case StepUtilityMenu:
		return "utility menu"
	case StepUserPage:
		return "user page"
	case StepAddBill:
		return "bill addition"
	case StepRemoveBill:
		return "bill removal"
	case StepPayBill:
		return "bill payment"
	case StepCheckUnpaid:
		return "unpaid bills"
	case StepRemoveUtility:
		return "utility removal"
	default:
		return "main menu"
	}
}
