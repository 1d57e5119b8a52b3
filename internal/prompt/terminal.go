package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Terminal implements Port on a terminal.
type Terminal struct {
	opts []tea.ProgramOption
}

var _ Port = (*Terminal)(nil)

// NewTerminal returns a Port reading keys from in and rendering to out.
// Nil streams fall back to the process stdin and stdout.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	var opts []tea.ProgramOption
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return &Terminal{opts: opts}
}

func (t *Terminal) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, t.opts...)
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("prompt: %w", err)
	}
	return final, nil
}

// Choose implements Port.
func (t *Terminal) Choose(ctx context.Context, items []Item, cfg Config) (int, Outcome, error) {
	result, err := t.run(ctx, newChooseModel(items, cfg))
	if err != nil {
		return -1, Cancelled, err
	}
	final, ok := result.(chooseModel)
	if !ok {
		return -1, Cancelled, errors.New("prompt: unexpected model")
	}
	return final.chosen, final.outcome, nil
}

// Input implements Port.
func (t *Terminal) Input(ctx context.Context, cfg Config) (string, Outcome, error) {
	result, err := t.run(ctx, newInputModel(cfg))
	if err != nil {
		return "", Cancelled, err
	}
	final, ok := result.(inputModel)
	if !ok {
		return "", Cancelled, errors.New("prompt: unexpected model")
	}
	return final.input.Value(), final.outcome, nil
}

// Busy implements Port. Dismissing the spinner cancels the context passed to
// fn and returns ErrCancelled.
func (t *Terminal) Busy(ctx context.Context, msg string, fn func(context.Context) error) error {
	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	work := func() tea.Msg {
		return busyDoneMsg{err: fn(workCtx)}
	}
	result, err := t.run(ctx, newBusyModel(msg, work))
	if err != nil {
		return err
	}
	final, ok := result.(busyModel)
	if !ok {
		return errors.New("prompt: unexpected model")
	}
	if final.cancelled {
		return ErrCancelled
	}
	return final.err
}

// Confirm implements Port.
func (t *Terminal) Confirm(ctx context.Context, msg string) (bool, error) {
	return confirm(ctx, t, msg)
}

// confirm asks msg as a two-item list on any Port.
func confirm(ctx context.Context, p Port, msg string) (bool, error) {
	idx, outcome, err := p.Choose(ctx, []Item{
		{Label: "Proceed", Value: "proceed"},
		{Label: "Cancel", Value: "cancel"},
	}, Config{Title: msg})
	if err != nil {
		return false, err
	}
	return outcome == Accepted && idx == 0, nil
}
