/*
Package errsink is the diagnostic collector shared by the lexer,
parser, and resolver.

The reference jlox implementation keeps a process-global `hadError`
flag that every stage pokes directly. Here that flag is replaced by an
explicit Sink value, constructed once per run and passed down to each
stage, aggregated with hashicorp/go-multierror so the CLI can print
every diagnostic from a run instead of only the first.
*/
package errsink

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Sink accumulates compile-time diagnostics (lex, parse, and resolve
// errors) and tracks whether a runtime error separately reached the
// top level. Both flags drive the CLI's exit-code mapping (§6).
type Sink struct {
	compile *multierror.Error
	runtime error
}

// New returns an empty Sink ready to collect diagnostics for one run.
func New() *Sink {
	return &Sink{}
}

// Report records a compile-time diagnostic at the given line, with an
// optional "where" clause describing the offending token
// (empty, " at end", or " at '<lexeme>'" per §6).
func (s *Sink) Report(line int, where, message string) {
	s.compile = multierror.Append(s.compile, fmt.Errorf("[line %d] Error%s: %s", line, where, message))
}

// ReportRuntime records the single runtime error that unwound to the
// top level. Only the first call has an effect; a runtime error aborts
// the run, so there is never more than one.
func (s *Sink) ReportRuntime(err error) {
	if s.runtime == nil {
		s.runtime = err
	}
}

// HadError reports whether any compile-time diagnostic was recorded.
func (s *Sink) HadError() bool {
	return s.compile != nil && s.compile.Len() > 0
}

// HadRuntimeError reports whether a runtime error reached the top level.
func (s *Sink) HadRuntimeError() bool {
	return s.runtime != nil
}

// Errors returns every compile-time diagnostic recorded so far, in
// report order.
func (s *Sink) Errors() []error {
	if s.compile == nil {
		return nil
	}
	return s.compile.Errors
}

// RuntimeError returns the runtime error that reached the top level, if any.
func (s *Sink) RuntimeError() error {
	return s.runtime
}

// Reset clears both flags so a Sink can be reused across REPL prompts;
// both reset together here, since each REPL entry is evaluated
// independently of the last.
func (s *Sink) Reset() {
	s.compile = nil
	s.runtime = nil
}
