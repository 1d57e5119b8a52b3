package main

import (
	"context"
	"strings"
	"testing"
)

// helpText calls the help function and returns the output as a string.
func helpText() string {
	var sb strings.Builder
	printUsage(&sb)
	return sb.String()
}

// longHelpText returns the long help for a named command.
func longHelpText(name string) string {
	var sb strings.Builder
	printCommandHelp(&sb, name)
	return sb.String()
}

func dispatchText(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var sb strings.Builder
	err := dispatch(context.Background(), args, &sb)
	return sb.String(), err
}

// TestHelpContainsAllCommands checks that the listing is derived from the
// commands slice.
func TestHelpContainsAllCommands(t *testing.T) {
	help := helpText()
	for _, cmd := range commands {
		if !strings.Contains(help, cmd.name) {
			t.Errorf("help output missing command %q", cmd.name)
		}
		if !strings.Contains(help, cmd.short) {
			t.Errorf("help output missing short description for %q", cmd.short)
		}
	}
}

func TestHelpContainsUsageHeader(t *testing.T) {
	help := helpText()
	if !strings.Contains(help, "Usage:") {
		t.Error("help output missing 'Usage:' header")
	}
	if !strings.Contains(help, "initializr") {
		t.Error("help output missing program name 'initializr'")
	}
}

func TestLongHelpForKnownCommands(t *testing.T) {
	for _, cmd := range commands {
		t.Run(cmd.name, func(t *testing.T) {
			out := longHelpText(cmd.name)
			if out == "" {
				t.Fatalf("printCommandHelp(%q) returned empty output", cmd.name)
			}
			if !strings.Contains(out, cmd.usage) {
				t.Errorf("long help for %q missing usage line %q\ngot: %s", cmd.name, cmd.usage, out)
			}
		})
	}
}

func TestLongHelpUnknownCommand(t *testing.T) {
	out := longHelpText("no-such-command")
	if !strings.Contains(out, "unknown") || !strings.Contains(out, "no-such-command") {
		t.Errorf("expected unknown-command message, got: %s", out)
	}
}

func TestDispatchHelpFlag(t *testing.T) {
	for _, flag := range []string{"--help", "-h"} {
		t.Run(flag, func(t *testing.T) {
			out, err := dispatchText(t, flag)
			if err != nil {
				t.Errorf("dispatch(%q) returned error: %v", flag, err)
			}
			if out != helpText() {
				t.Errorf("dispatch(%q) output differs from usage listing", flag)
			}
		})
	}
}

func TestDispatchNoArgs(t *testing.T) {
	out, err := dispatchText(t)
	if err != nil {
		t.Errorf("dispatch() with no args returned error: %v", err)
	}
	if !strings.Contains(out, "Commands:") {
		t.Errorf("expected usage listing, got: %s", out)
	}
}

func TestDispatchHelpSubcommand(t *testing.T) {
	for _, cmd := range commands {
		t.Run(cmd.name, func(t *testing.T) {
			out, err := dispatchText(t, "help", cmd.name)
			if err != nil {
				t.Errorf("dispatch(help %q) returned error: %v", cmd.name, err)
			}
			if !strings.Contains(out, cmd.usage) {
				t.Errorf("dispatch(help %q) missing usage line", cmd.name)
			}
		})
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	_, err := dispatchText(t, "no-such-command-xyz-abc")
	if err == nil {
		t.Fatal("expected error for unknown command, got nil")
	}
	if !strings.Contains(err.Error(), "unknown") {
		t.Errorf("expected 'unknown' in error, got: %s", err)
	}
}

// TestSubcommandBadArgsGivesUsage checks that every command validates its own
// arguments before prompting.
func TestSubcommandBadArgsGivesUsage(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cases := map[string][]string{
		"new":  {"new", "stray"},
		"add":  {"add"},
		"edit": {"edit", "a.xml", "b.xml"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := dispatchText(t, args...)
			if err == nil {
				t.Fatalf("dispatch(%v) should return error", args)
			}
			if strings.Contains(err.Error(), "unknown command") {
				t.Errorf("dispatch(%v) gave 'unknown command', expected usage error", args)
			}
			if !strings.Contains(err.Error(), "usage: initializr "+name) {
				t.Errorf("dispatch(%v) error lacks usage line: %v", args, err)
			}
		})
	}
}

func TestCommandsHaveRequiredFields(t *testing.T) {
	if len(commands) == 0 {
		t.Fatal("commands slice is empty")
	}
	for _, cmd := range commands {
		if cmd.name == "" {
			t.Error("command with empty name found")
		}
		if cmd.short == "" {
			t.Errorf("command %q has empty short description", cmd.name)
		}
		if cmd.usage == "" {
			t.Errorf("command %q has empty usage line", cmd.name)
		}
		if cmd.run == nil {
			t.Errorf("command %q has nil run func", cmd.name)
		}
	}
}
