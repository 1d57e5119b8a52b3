package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"initializr/internal/dependency"
	"initializr/internal/metadata"
	"initializr/internal/prompt"
)

// Engine drives chains against a prompt port.
type Engine struct {
	prompt prompt.Port
	logger *log.Logger
}

// NewEngine returns an engine prompting through p.
func NewEngine(p prompt.Port, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{prompt: p, logger: logger}
}

// Run executes chain from its first step and returns rec once the terminal
// step completes. A dismissed prompt ends the run with *AbortedError; any
// other step failure ends it with that error. rec is never returned on
// failure.
func (e *Engine) Run(ctx context.Context, chain *Chain, rec *Record) (*Record, error) {
	if rec == nil {
		rec = &Record{}
	}
	logger := e.logger.With("op", uuid.NewString())
	logger.Debug("wizard started", "steps", strings.Join(chain.Names(), ","))

	var nav NavigationStack
	cur := chain.First()
	for cur != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		outcome, err := e.execute(ctx, cur, rec, nav.Len() > 0, logger)
		if err != nil {
			logger.Debug("step failed", "step", cur.Name, "err", err)
			return nil, err
		}
		logger.Debug("step finished", "step", cur.Name, "outcome", outcome)

		switch outcome {
		case Advance:
			nav.Push(cur)
			cur = cur.next
		case Skip:
			cur = cur.next
		case Retreat:
			prev, ok := nav.Pop()
			if !ok {
				return nil, &AbortedError{Field: cur.Name}
			}
			cur = prev
		}
	}
	logger.Debug("wizard completed")
	return rec, nil
}

func (e *Engine) execute(ctx context.Context, s *Step, rec *Record, allowBack bool, logger *log.Logger) (Outcome, error) {
	if s.Resolve != nil && s.Kind != Dependencies {
		if v, ok := s.Resolve(rec); ok {
			s.Set(rec, v)
			logger.Debug("step resolved from defaults", "step", s.Name, "value", v)
			return Skip, nil
		}
	}
	cfg := s.Prompt
	cfg.AllowBack = allowBack

	switch s.Kind {
	case Pick:
		return e.pick(ctx, s, rec, cfg)
	case Input:
		return e.input(ctx, s, rec, cfg, logger)
	case Dependencies:
		return e.dependencies(ctx, s, rec, cfg, logger)
	}
	return Advance, fmt.Errorf("wizard: step %q has unknown kind %d", s.Name, int(s.Kind))
}

// busy runs fn behind the step's spinner. A dismissed spinner aborts the
// step.
func (e *Engine) busy(ctx context.Context, s *Step, fn func(context.Context) error) error {
	var err error
	if s.Busy == "" {
		err = fn(ctx)
	} else {
		err = e.prompt.Busy(ctx, s.Busy, fn)
	}
	if errors.Is(err, prompt.ErrCancelled) {
		return &AbortedError{Field: s.Name}
	}
	return err
}

func (e *Engine) pick(ctx context.Context, s *Step, rec *Record, cfg prompt.Config) (Outcome, error) {
	var opts Options
	err := e.busy(ctx, s, func(ctx context.Context) error {
		var err error
		opts, err = s.Load(ctx, rec)
		return err
	})
	if err != nil {
		return Advance, fmt.Errorf("load %s options: %w", s.Name, err)
	}
	if len(opts.Items) == 0 {
		return Advance, fmt.Errorf("load %s options: none available", s.Name)
	}

	items := make([]prompt.Item, len(opts.Items))
	for i, o := range opts.Items {
		items[i] = prompt.Item{Label: o.Label, Value: o.Value}
	}
	cfg.Default = opts.Default
	if s.last != "" {
		cfg.Default = s.last
	}

	idx, outcome, err := e.prompt.Choose(ctx, items, cfg)
	if err != nil {
		return Advance, err
	}
	switch outcome {
	case prompt.Back:
		return Retreat, nil
	case prompt.Cancelled:
		return Advance, &AbortedError{Field: s.Name}
	}
	if idx < 0 || idx >= len(opts.Items) {
		return Advance, &AbortedError{Field: s.Name}
	}
	v := opts.Items[idx].Value
	s.last = v
	s.Set(rec, v)
	return Advance, nil
}

func (e *Engine) input(ctx context.Context, s *Step, rec *Record, cfg prompt.Config, logger *log.Logger) (Outcome, error) {
	cfg.Validate = s.Validate
	if s.Initial != nil {
		cfg.Default = s.Initial(rec, s.last)
	} else if s.last != "" {
		cfg.Default = s.last
	}

	for {
		text, outcome, err := e.prompt.Input(ctx, cfg)
		if err != nil {
			return Advance, err
		}
		switch outcome {
		case prompt.Back:
			return Retreat, nil
		case prompt.Cancelled:
			return Advance, &AbortedError{Field: s.Name}
		}
		text = strings.TrimSpace(text)
		if verr := s.validate(text); verr != nil {
			logger.Warn("invalid input", "step", s.Name, "err", verr)
			cfg.Default = text
			continue
		}
		s.last = text
		s.Set(rec, text)
		return Advance, nil
	}
}

func (s *Step) validate(text string) *ValidationError {
	if s.Validate == nil {
		return nil
	}
	if msg := s.Validate(text); msg != "" {
		return &ValidationError{Field: s.Name, Value: text, Message: msg}
	}
	return nil
}

// dependencies re-renders the selection after every toggle until the user
// confirms, picks the last-used set, goes back, or dismisses the list.
func (e *Engine) dependencies(ctx context.Context, s *Step, rec *Record, cfg prompt.Config, logger *log.Logger) (Outcome, error) {
	var (
		deps     []metadata.Dependency
		existing []string
	)
	err := e.busy(ctx, s, func(ctx context.Context) error {
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			deps, err = s.Deps.Catalog(ctx, rec)
			return err
		})
		if s.Deps.Existing != nil {
			g.Go(func() (err error) {
				existing, err = s.Deps.Existing(ctx, rec)
				return err
			})
		}
		return g.Wait()
	})
	if err != nil {
		return Advance, fmt.Errorf("load dependencies: %w", err)
	}

	sel := dependency.NewSelection(deps, logger)
	if s.Deps.LockExisting {
		sel.Lock(existing...)
	}
	switch {
	case s.last != "":
		sel.Select(dependency.SplitIDs(s.last)...)
	case len(existing) > 0:
		sel.Select(existing...)
	default:
		sel.Select(s.Deps.Preselected...)
	}

	lastUsed, err := s.Deps.History.Load(rec.BootVersion)
	if err != nil {
		logger.Warn("cannot read last used dependencies", "err", err)
		lastUsed = ""
	}

	for {
		choices := sel.Choices(lastUsed)
		items := make([]prompt.Item, len(choices))
		for i, c := range choices {
			items[i] = prompt.Item{
				Label:       c.Label,
				Value:       c.ID,
				Description: c.Description,
				Detail:      c.Detail,
				Separator:   c.Kind == dependency.Separator,
				Picked:      c.Selected,
			}
		}

		idx, outcome, err := e.prompt.Choose(ctx, items, cfg)
		if err != nil {
			return Advance, err
		}
		switch outcome {
		case prompt.Back:
			return Retreat, nil
		case prompt.Cancelled:
			return Advance, &AbortedError{Field: s.Name}
		}
		if idx < 0 || idx >= len(choices) {
			continue
		}

		picked := choices[idx]
		switch picked.Kind {
		case dependency.Toggle:
			sel.Toggle(picked.ID)
			cfg.Default = picked.ID
			continue
		case dependency.Separator:
			continue
		}

		rec.Dependencies = picked
		s.last = picked.ID
		logger.Debug("dependencies confirmed", "kind", picked.Kind, "ids", picked.ID)
		return Advance, nil
	}
}
