package session

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Reserved tokens recognized at every prompt before any validation runs.
const (
	tokenMain = "main"
	tokenBack = "back"
	tokenQuit = "quit"
)

// Action says what the caller should do with a prompt's Result.
type Action int

const (
	// ActionProceed: the input validated; use the value and continue.
	ActionProceed Action = iota

	// ActionRedirect: abandon the current step and run Result.Next instead.
	// Covers both validation failures (message already printed) and the
	// reserved "main"/"back" tokens.
	ActionRedirect

	// ActionQuit: terminate the session.
	ActionQuit
)

// Rules declares the constraints for one prompt. Checks apply in a fixed
// order: integer coercion, then membership in Acceptable, then the yes/no
// domain. The first failure redirects to OnInvalid with its carried context;
// the zero OnInvalid is the main menu.
type Rules struct {
	// Integer requires the input to parse as an integer.
	Integer bool

	// Boolean restricts the input to "yes" or "no".
	Boolean bool

	// Acceptable, when non-nil, is the explicit set of valid inputs.
	Acceptable []string

	// Invalid is the message printed when Acceptable rejects the input.
	// Empty means the generic "Please enter a valid input."
	Invalid string

	// OnInvalid is where a failed input redirects, carrying its context.
	OnInvalid State
}

// Result is the outcome of one prompt.
type Result struct {
	Action Action

	// Text is the case-folded input (ActionProceed).
	Text string

	// Number is the coerced value when Rules.Integer was set.
	Number int64

	// Yes is the coerced value when Rules.Boolean was set.
	Yes bool

	// Next is the state to run when Action is ActionRedirect.
	Next State
}

// Controller reads one line of input at a time and validates it against the
// rules of the current prompt. It is single-threaded and synchronous; the
// only blocking operation is the read itself, which blocks on the human.
type Controller struct {
	in  *bufio.Scanner
	out io.Writer
}

// New creates a Controller reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Controller {
	return &Controller{in: bufio.NewScanner(in), out: out}
}

// Say writes one line of conversation output.
func (c *Controller) Say(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Ask prints the prompt, reads one line, and applies rules in order.
// Reserved tokens win over everything: "main"/"back" reset to the main menu
// discarding the current flow's partial state, "quit" ends the session.
// End of input is treated as quit so a closed stdin cannot spin the loop.
func (c *Controller) Ask(prompt string, rules Rules) Result {
	if prompt != "" {
		c.Say("%s", prompt)
	}
	if rules.Boolean {
		c.Say("Enter 'yes' or 'no'.")
	}

	if !c.in.Scan() {
		return Result{Action: ActionQuit}
	}
	input := strings.ToLower(strings.TrimSpace(c.in.Text()))
	c.Say("****************************\n")

	switch input {
	case tokenMain, tokenBack:
		return Result{Action: ActionRedirect, Next: Main()}
	case tokenQuit:
		return Result{Action: ActionQuit}
	}

	res := Result{Action: ActionProceed, Text: input}

	if rules.Integer {
		n, err := strconv.ParseInt(input, 10, 64)
		if err != nil {
			return c.Redirect("Please enter an integer.", rules.OnInvalid)
		}
		res.Number = n
	}

	if rules.Acceptable != nil && !contains(rules.Acceptable, input) {
		msg := rules.Invalid
		if msg == "" {
			msg = "Please enter a valid input."
		}
		return c.Redirect(msg, rules.OnInvalid)
	}

	if rules.Boolean {
		if input != "yes" && input != "no" {
			return c.Redirect("Please enter 'yes' or 'no'.", rules.OnInvalid)
		}
		res.Yes = input == "yes"
	}

	return res
}

// ReadLine reads one free-text line without case folding or validation.
// Reserved tokens still apply, so "main" always escapes a flow even at a
// note or name prompt.
func (c *Controller) ReadLine(prompt string) Result {
	if prompt != "" {
		c.Say("%s", prompt)
	}
	if !c.in.Scan() {
		return Result{Action: ActionQuit}
	}
	input := strings.TrimSpace(c.in.Text())
	c.Say("****************************\n")

	switch strings.ToLower(input) {
	case tokenMain, tokenBack:
		return Result{Action: ActionRedirect, Next: Main()}
	case tokenQuit:
		return Result{Action: ActionQuit}
	}
	return Result{Action: ActionProceed, Text: input}
}

// Redirect prints the failure message and where the session is heading, then
// hands back the destination state. Every recoverable error goes through
// here so no error is ever silently swallowed.
func (c *Controller) Redirect(message string, dest State) Result {
	if message != "" {
		c.Say("%s", message)
	}
	c.Say("Returning to %s.\n", dest.Label())
	return Result{Action: ActionRedirect, Next: dest}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
