// Package engine provides a sandboxed Lisp surface over the slicing
// kernel. It wraps zygomys; every evaluation runs in a fresh sandbox
// with the slicing builtins installed and returns the sections the
// script produced.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/lamella/pkg/slicer"
	zygo "github.com/glycerine/zygomys/zygo"
)

// Section is one recorded slicing result: the points a slice-segment,
// slice-triangle or cross-section call produced at a given height.
// Cross-section points are concatenated in triangle-index order.
type Section struct {
	Height float64
	Points []slicer.Point
}

// EvalError represents a non-fatal error encountered during
// evaluation, such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter. It is safe for concurrent
// use; each call to Evaluate creates a fresh sandboxed environment
// for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	tolerance  float64
}

// NewEngine creates an Engine whose builtins use
// slicer.DefaultTolerance unless a script overrides it per call.
func NewEngine() *Engine {
	return &Engine{tolerance: slicer.DefaultTolerance}
}

// NewEngineWithTolerance creates an Engine with a custom default
// tolerance for the slicing builtins.
func NewEngineWithTolerance(tol float64) *Engine {
	return &Engine{tolerance: tol}
}

// Evaluate runs source and returns the sections it recorded.
//
// Return semantics:
//   - On success: sections + nil errors + nil error
//   - On parse/eval failure: nil + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): nil + nil + error
func (e *Engine) Evaluate(source string) ([]Section, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		sections, evalErrs, err := e.evaluate(source)
		ch <- evalResult{sections: sections, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) ([]Section, []EvalError, error) {
	// Empty source is a valid program that records nothing.
	if strings.TrimSpace(source) == "" {
		return nil, nil, nil
	}

	// Sandbox mode keeps user code away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	rec := &recorder{tol: e.tolerance}
	registerBuiltins(env, rec)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	return rec.sections, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalError values,
// extracting line information from the message where possible.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, pat := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := pat.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
