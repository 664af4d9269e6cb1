package gate

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/prompt-eval/evaluator/internal/evaluator"
	"github.com/prompt-eval/evaluator/internal/model"
)

// Console is the production Gate: it prints the upcoming prompt version
// and blocks on stdin until the operator answers. There is deliberately
// no timeout; reconfiguring the system under test takes however long it
// takes.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

func NewConsole() *Console {
	return &Console{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// NewConsoleWith wires explicit streams, used by tests.
func NewConsoleWith(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

func (c *Console) NextDirective(version model.PromptVersion, first bool) (evaluator.Directive, error) {
	heading := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.FgHiBlack)

	fmt.Fprintln(c.out, strings.Repeat("=", 70))
	if first {
		heading.Fprintf(c.out, "PROMPT SETUP: %s\n", version.Name)
		fmt.Fprintln(c.out, "Set up the initial prompt in the assistant's configuration.")
	} else {
		heading.Fprintf(c.out, "PROMPT CHANGE REQUIRED: %s\n", version.Name)
		fmt.Fprintln(c.out, "Update the assistant's prompt to the next version.")
	}
	fmt.Fprintf(c.out, "Version: %s\n", version.Version)
	if version.Description != "" {
		fmt.Fprintf(c.out, "Description: %s\n", version.Description)
	}
	dim.Fprintln(c.out, "Press ENTER to continue, or type 'skip' / 'quit'.")
	fmt.Fprintln(c.out, strings.Repeat("=", 70))

	for {
		fmt.Fprint(c.out, "> ")
		line, err := c.in.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				// Operator's terminal is gone; treat as an abort.
				return evaluator.Abort, nil
			}
			return evaluator.Abort, fmt.Errorf("failed to read directive: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return evaluator.Proceed, nil
		case "skip":
			return evaluator.Skip, nil
		case "quit":
			return evaluator.Abort, nil
		default:
			color.New(color.FgYellow).Fprintln(c.out, "Press ENTER to continue, or type 'skip' or 'quit'.")
		}
	}
}
