// Package prompt presents single-select lists and validated text inputs.
//
// Port is the capability the wizard consumes; Terminal implements it with
// one short-lived bubbletea program per prompt, so at most one prompt is ever
// pending.
package prompt

import (
	"context"
	"errors"
	"strings"
)

// Outcome is how a prompt was resolved.
type Outcome int

const (
	// Accepted means an item was picked or text was submitted.
	Accepted Outcome = iota
	// Back means the user asked for the previous prompt.
	Back
	// Cancelled means the prompt was dismissed.
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Back:
		return "back"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// ErrCancelled is returned by Busy when the user dismisses the spinner.
var ErrCancelled = errors.New("prompt: cancelled")

// Item is one entry of a choice list.
type Item struct {
	Label       string
	Value       string
	Description string
	Detail      string
	// Separator items are headings; they can never be picked.
	Separator bool
	// Picked renders the item with a selected marker.
	Picked bool
}

func (it Item) matches(query string) bool {
	for _, s := range []string{it.Label, it.Description, it.Detail, it.Value} {
		if strings.Contains(strings.ToLower(s), query) {
			return true
		}
	}
	return false
}

// Config tunes a single prompt.
type Config struct {
	Title       string
	Placeholder string
	Prompt      string
	// Default pre-fills an input, or pre-selects the list item whose Value
	// or Label equals it.
	Default string
	// Validate returns a message describing why text is not acceptable, or
	// "" when it is. Acceptance is disabled while it returns a message.
	Validate func(text string) string
	// AllowBack offers the "back" affordance.
	AllowBack bool
}

// Port presents prompts. Implementations resolve exactly one outcome per
// call and never have two prompts pending at once.
type Port interface {
	// Choose returns the index of the picked item. The index is only
	// meaningful when the outcome is Accepted.
	Choose(ctx context.Context, items []Item, cfg Config) (int, Outcome, error)
	// Input returns the submitted text.
	Input(ctx context.Context, cfg Config) (string, Outcome, error)
	// Busy shows msg while fn runs and returns fn's error.
	Busy(ctx context.Context, msg string, fn func(context.Context) error) error
	// Confirm asks a proceed/cancel question.
	Confirm(ctx context.Context, msg string) (bool, error)
}
