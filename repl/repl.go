/*
Package repl provides the line-oriented command interpreter.

PURPOSE:
  Reads commands from an input stream, drives the calculation engine, and
  prints styled results/prompts. This is a thin I/O shim: every decision
  about validation, history, undo/redo, and persistence lives in calc.

COMMANDS:
  add, subtract, multiply, divide, power, root, modulus, int_divide,
  percent, abs_diff   Perform the named operation (prompts for operands)
  history             List recorded calculations
  clear               Clear history and both stacks
  undo / redo         Navigate snapshots
  save / load         Explicit persistence
  help                Command list
  exit                Save history and quit

SEE ALSO:
  - calc/engine.go: The engine this drives
  - cmd/calc/main.go: Wiring
*/
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/warp/calc-engine/calc"
	"github.com/warp/calc-engine/operations"
)

// Styles for terminal presentation.
var (
	styleBanner = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")) // cyan
	styleResult = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")) // green
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))             // red
	styleInfo   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))            // blue
)

// Repl drives the engine from a line-oriented input stream.
type Repl struct {
	engine *calc.Calculator
	in     *bufio.Scanner
	out    io.Writer
}

// New creates a REPL reading commands from in and writing to out.
func New(engine *calc.Calculator, in io.Reader, out io.Writer) *Repl {
	return &Repl{
		engine: engine,
		in:     bufio.NewScanner(in),
		out:    out,
	}
}

// Run processes commands until "exit" or end of input. History is saved
// on the way out either way.
func (r *Repl) Run() error {
	r.banner()

	for {
		fmt.Fprint(r.out, "\nEnter command: ")
		line, ok := r.readLine()
		if !ok {
			r.saveOnExit()
			return nil
		}

		command := strings.ToLower(strings.TrimSpace(line))
		switch {
		case command == "":
			continue
		case command == "exit":
			r.saveOnExit()
			fmt.Fprintln(r.out, "Goodbye!")
			return nil
		case command == "help":
			r.printHelp()
		case command == "history":
			r.printHistory()
		case command == "clear":
			r.engine.ClearHistory()
			fmt.Fprintln(r.out, styleInfo.Render("History cleared"))
		case command == "undo":
			if r.engine.Undo() {
				fmt.Fprintln(r.out, styleInfo.Render("Operation undone"))
			} else {
				fmt.Fprintln(r.out, "Nothing to undo")
			}
		case command == "redo":
			if r.engine.Redo() {
				fmt.Fprintln(r.out, styleInfo.Render("Operation redone"))
			} else {
				fmt.Fprintln(r.out, "Nothing to redo")
			}
		case command == "save":
			if err := r.engine.SaveHistory(context.Background()); err != nil {
				r.printError(err)
			} else {
				fmt.Fprintln(r.out, "History saved successfully.")
			}
		case command == "load":
			if err := r.engine.LoadHistory(context.Background()); err != nil {
				r.printError(err)
			} else {
				fmt.Fprintln(r.out, "History loaded successfully")
			}
		case operations.IsRegistered(command):
			r.performOperation(command)
		default:
			fmt.Fprintf(r.out, "Unknown command: '%s'. Type 'help' for available commands\n", command)
		}
	}
}

// performOperation prompts for two operands and runs the named strategy.
func (r *Repl) performOperation(name string) {
	op, err := operations.New(name)
	if err != nil {
		r.printError(err)
		return
	}

	fmt.Fprintln(r.out, "\nEnter numbers (or 'cancel' to abort):")

	fmt.Fprint(r.out, "First number: ")
	a, ok := r.readLine()
	if !ok || strings.TrimSpace(a) == "cancel" {
		fmt.Fprintln(r.out, "Operation cancelled")
		return
	}

	fmt.Fprint(r.out, "Second number: ")
	b, ok := r.readLine()
	if !ok || strings.TrimSpace(b) == "cancel" {
		fmt.Fprintln(r.out, "Operation cancelled")
		return
	}

	r.engine.SetOperation(op)
	result, err := r.engine.PerformOperation(strings.TrimSpace(a), strings.TrimSpace(b))
	if err != nil {
		r.printError(err)
		return
	}

	fmt.Fprintf(r.out, "\n%s\n", styleResult.Render(fmt.Sprintf("Result: %s", result)))
}

func (r *Repl) printHistory() {
	history := r.engine.History()
	if len(history) == 0 {
		fmt.Fprintln(r.out, "No calculations in history")
		return
	}
	fmt.Fprintln(r.out, "\nCalculation History:")
	for i, c := range history {
		fmt.Fprintf(r.out, "%d. %s\n", i+1, c)
	}
}

func (r *Repl) printHelp() {
	fmt.Fprintln(r.out, "\nAvailable commands:")
	fmt.Fprintf(r.out, "  %s - Perform calculations\n", strings.Join(operations.Names(), ", "))
	fmt.Fprintln(r.out, "  history - Show calculation history")
	fmt.Fprintln(r.out, "  clear - Clear calculation history")
	fmt.Fprintln(r.out, "  undo - Undo the last calculation")
	fmt.Fprintln(r.out, "  redo - Redo the last undone calculation")
	fmt.Fprintln(r.out, "  save - Save calculation history to file")
	fmt.Fprintln(r.out, "  load - Load calculation history from file")
	fmt.Fprintln(r.out, "  exit - Exit the calculator")
}

func (r *Repl) banner() {
	line := strings.Repeat("=", 50)
	fmt.Fprintln(r.out, styleBanner.Render(line))
	fmt.Fprintln(r.out, styleBanner.Render("Welcome to the Advanced Calculator"))
	fmt.Fprintln(r.out, styleBanner.Render(line))
	fmt.Fprintln(r.out, "Type 'help' for available commands")
}

func (r *Repl) saveOnExit() {
	if err := r.engine.SaveHistory(context.Background()); err != nil {
		fmt.Fprintf(r.out, "%s\n", styleError.Render(fmt.Sprintf("Warning: could not save history: %v", err)))
		return
	}
	fmt.Fprintln(r.out, "History saved successfully.")
}

func (r *Repl) printError(err error) {
	var verr *calc.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(r.out, "%s\n", styleError.Render(fmt.Sprintf("Error: %s", verr.Message)))
		return
	}
	fmt.Fprintf(r.out, "%s\n", styleError.Render(fmt.Sprintf("Error: %v", err)))
}

func (r *Repl) readLine() (string, bool) {
	if !r.in.Scan() {
		return "", false
	}
	return r.in.Text(), true
}
