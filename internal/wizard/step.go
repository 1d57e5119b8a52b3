package wizard

import (
	"context"
	"fmt"

	"initializr/internal/dependency"
	"initializr/internal/metadata"
	"initializr/internal/prompt"
)

// Kind selects how a step prompts.
type Kind int

const (
	// Pick presents a single-select list of Options.
	Pick Kind = iota
	// Input presents a validated text field.
	Input
	// Dependencies runs the dependency toggle loop.
	Dependencies
)

func (k Kind) String() string {
	switch k {
	case Pick:
		return "pick"
	case Input:
		return "input"
	case Dependencies:
		return "dependencies"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Outcome is the result of executing one step.
type Outcome int

const (
	// Advance means the step was answered; it is pushed for "back".
	Advance Outcome = iota
	// Skip means the step resolved without prompting; it is not pushed.
	Skip
	// Retreat means the user asked for the previous step.
	Retreat
)

func (o Outcome) String() string {
	switch o {
	case Advance:
		return "advance"
	case Skip:
		return "skip"
	case Retreat:
		return "retreat"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Option is one value a Pick step offers.
type Option struct {
	Value string
	Label string
}

// Options is what a Pick step loads before prompting.
type Options struct {
	Items []Option
	// Default is pre-selected when the step has no remembered value.
	Default string
}

// ExistingFunc lists the dependency ids a project already declares. It runs
// each time the step is entered, after the record's service URL is known.
type ExistingFunc func(ctx context.Context, rec *Record) ([]string, error)

// Declared returns an ExistingFunc that always reports ids.
func Declared(ids ...string) ExistingFunc {
	return func(context.Context, *Record) ([]string, error) {
		return ids, nil
	}
}

// DependencySource configures a Dependencies step.
type DependencySource struct {
	// Catalog returns the dependencies valid for the record so far.
	Catalog func(ctx context.Context, rec *Record) ([]metadata.Dependency, error)
	// History remembers confirmed sets. Nil remembers nothing.
	History *dependency.History
	// Preselected ids start selected on the first visit.
	Preselected []string
	// Existing ids start selected on the first visit. With LockExisting
	// they start selected on every visit and cannot be removed.
	Existing     ExistingFunc
	LockExisting bool
}

// Step is one node of a chain. Kind tags which of the kind-specific fields
// are used; Set writes the answer into the record so the engine never needs
// to know which field a step owns.
type Step struct {
	// Name identifies the field the step fills, e.g. "GroupId".
	Name   string
	Kind   Kind
	Prompt prompt.Config

	// Resolve short-circuits the step when it returns ok.
	Resolve func(rec *Record) (value string, ok bool)
	// Set stores an answer.
	Set func(rec *Record, value string)

	// Pick steps.
	Load func(ctx context.Context, rec *Record) (Options, error)
	// Busy is shown while Load or Deps.Catalog runs. Empty runs without
	// a spinner.
	Busy string

	// Input steps.
	Initial  func(rec *Record, last string) string
	Validate func(text string) string

	// Dependencies steps.
	Deps *DependencySource

	next *Step
	last string
}

// Next returns the static successor, or nil for the terminal step.
func (s *Step) Next() *Step {
	return s.next
}

// Chain is a linear, acyclic sequence of steps built for one run.
type Chain struct {
	steps []*Step
}

// NewChain links steps in order. It rejects nil steps, a step listed twice,
// two steps with the same name, and steps whose kind-specific fields are
// missing.
func NewChain(steps ...*Step) (*Chain, error) {
	if len(steps) == 0 {
		return nil, &ChainError{Reason: "no steps"}
	}
	seen := map[*Step]bool{}
	names := map[string]bool{}
	for i, s := range steps {
		if s == nil {
			return nil, &ChainError{Reason: fmt.Sprintf("step %d is nil", i)}
		}
		if seen[s] || names[s.Name] {
			return nil, &ChainError{Reason: fmt.Sprintf("step %q appears twice", s.Name)}
		}
		seen[s], names[s.Name] = true, true
		if err := s.check(); err != nil {
			return nil, err
		}
	}
	for i, s := range steps {
		s.next = nil
		if i+1 < len(steps) {
			s.next = steps[i+1]
		}
	}
	return &Chain{steps: steps}, nil
}

func (s *Step) check() error {
	missing := func(field string) error {
		return &ChainError{Reason: fmt.Sprintf("%s step %q has no %s", s.Kind, s.Name, field)}
	}
	switch s.Kind {
	case Pick:
		if s.Load == nil {
			return missing("Load")
		}
	case Input:
	case Dependencies:
		if s.Deps == nil || s.Deps.Catalog == nil {
			return missing("Deps.Catalog")
		}
		return nil
	default:
		return &ChainError{Reason: fmt.Sprintf("step %q has unknown kind %d", s.Name, int(s.Kind))}
	}
	if s.Set == nil {
		return missing("Set")
	}
	return nil
}

// First returns the entry step.
func (c *Chain) First() *Step {
	return c.steps[0]
}

// Steps returns the steps in chain order.
func (c *Chain) Steps() []*Step {
	return c.steps
}

// Names returns the step names in chain order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.steps))
	for i, s := range c.steps {
		names[i] = s.Name
	}
	return names
}
