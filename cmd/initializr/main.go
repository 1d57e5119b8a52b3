package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"

	"initializr/internal/wizard"
)

// command describes a CLI subcommand.
type command struct {
	name  string
	short string
	usage string
	long  string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{
		name:  "new",
		short: "Generate a new Spring Boot project",
		usage: "initializr new [-gradle] [-dir DIR] [-force]",
		long: `Walk through the project wizard, then download the generated project
from the selected Initializr service and unpack it into DIR/<artifactId>.

Flags:
  -gradle   generate a Gradle build instead of Maven
  -dir      parent directory for the project (default ".")
  -force    overwrite an existing project folder without asking

Press shift+tab to go back to the previous question, esc to cancel.
`,
		run: runNew,
	},
	{
		name:  "add",
		short: "Add starters to an existing pom.xml",
		usage: "initializr add <pom.xml>",
		long: `Read the platform version from the project's spring-boot-starter-parent
(following <relativePath> up the parent chain), let you pick more starters,
and insert the new <dependency>, BOM and <repository> entries into the file.
Starters already declared stay selected.
`,
		run: runAdd,
	},
	{
		name:  "edit",
		short: "Add or remove starters in an existing pom.xml",
		usage: "initializr edit <pom.xml>",
		long: `Like add, but starters already declared can be deselected, which removes
their <dependency> entries. Everything else in the file is left as written.
`,
		run: runEdit,
	},
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "initializr: Spring Initializr from the terminal\n\n")
	fmt.Fprintf(w, "Usage:\n  initializr <command> [arguments]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.name, cmd.short)
	}
	fmt.Fprintf(w, "\nRun 'initializr help <command>' for details on a specific command.\n")
}

func printCommandHelp(w io.Writer, name string) {
	for _, cmd := range commands {
		if cmd.name == name {
			fmt.Fprintf(w, "Usage: %s\n\n%s", cmd.usage, cmd.long)
			return
		}
	}
	fmt.Fprintf(w, "initializr: unknown command %q\n\nRun 'initializr help' for usage.\n", name)
}

func dispatch(ctx context.Context, args []string, w io.Writer) error {
	if len(args) == 0 || args[0] == "--help" || args[0] == "-h" {
		printUsage(w)
		return nil
	}
	if args[0] == "help" {
		if len(args) >= 2 {
			printCommandHelp(w, args[1])
		} else {
			printUsage(w)
		}
		return nil
	}
	for _, cmd := range commands {
		if cmd.name == args[0] {
			a, err := newApp(w)
			if err != nil {
				return err
			}
			return cmd.run(ctx, a, args[1:])
		}
	}
	return fmt.Errorf("unknown command %q\n\nRun 'initializr help' for usage.", args[0])
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := dispatch(ctx, os.Args[1:], os.Stdout)
	switch {
	case err == nil:
	case wizard.IsAborted(err):
		fmt.Fprintln(os.Stderr, "operation canceled")
	default:
		stop()
		log.Fatal(err)
	}
}
