package evaluator

import "github.com/prompt-eval/evaluator/internal/model"

// Directive is the operator's decision at a prompt-version gate.
type Directive int

const (
	// Proceed evaluates the presented version.
	Proceed Directive = iota
	// Skip omits the presented version from the session entirely.
	Skip
	// Abort terminates the session, keeping everything already recorded.
	Abort
)

func (d Directive) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case Skip:
		return "skip"
	case Abort:
		return "abort"
	default:
		return "unknown"
	}
}

// Gate is the human synchronization point before each prompt version.
// NextDirective blocks, without timeout, until the operator decides; the
// operator may take arbitrary real-world time to reconfigure the system
// under test.
type Gate interface {
	NextDirective(version model.PromptVersion, first bool) (Directive, error)
}

// GateFunc adapts a function to the Gate interface; tests script gates
// this way.
type GateFunc func(version model.PromptVersion, first bool) (Directive, error)

func (f GateFunc) NextDirective(version model.PromptVersion, first bool) (Directive, error) {
	return f(version, first)
}
