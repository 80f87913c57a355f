/*
Package replloop implements the interactive Read-Eval-Print Loop: a
banner/prompt/line configuration, readline-backed input with history,
and per-line panic recovery so one bad line never kills the session.
*/
package replloop

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"

	"github.com/loxlang/golox/runner"
)

var (
	errColor  = color.New(color.FgRed)
	bannerClr = color.New(color.FgGreen)
	lineClr   = color.New(color.FgBlue)
	infoClr   = color.New(color.FgCyan)
)

const banner = `  _
 | |    _____  __
 | |   / _ \ \/ /
 | |__| (_) >  <
 |_____\___/_/\_\
`

const separator = "----------------------------------------------------------------"

// Repl is one interactive session's fixed configuration.
type Repl struct {
	Prompt string
	Logger hclog.Logger
}

// New builds a Repl with the default "lox> " prompt.
func New(logger hclog.Logger) *Repl {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Repl{Prompt: "lox> ", Logger: logger}
}

func (r *Repl) printBanner(out io.Writer) {
	lineClr.Fprintln(out, separator)
	bannerClr.Fprintln(out, banner)
	lineClr.Fprintln(out, separator)
	infoClr.Fprintln(out, "Type Lox statements and press enter. Ctrl+D to exit.")
	lineClr.Fprintln(out, separator)
}

// Start runs the REPL loop, reading lines from in and writing program
// output and diagnostics to out, until EOF (Ctrl+D). The compile-error
// flag is implicitly reset every prompt because each RunREPLLine call
// uses a fresh errsink.Sink; only declared variables/functions/classes
// persist across lines, carried by the one long-lived runner.Runner.
func (r *Repl) Start(in io.Reader, out io.Writer) {
	r.printBanner(out)

	rl, err := readline.NewEx(&readline.Config{
		Prompt: r.Prompt,
		Stdin:  io.NopCloser(in),
		Stdout: out,
	})
	if err != nil {
		errColor.Fprintf(out, "readline init failed: %v\n", err)
		return
	}
	defer rl.Close()

	rt := runner.New(r.Logger, out)

	for {
		line, err := rl.Readline()
		if err != nil {
			out.Write([]byte("Goodbye!\n"))
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		rl.SaveHistory(line)
		r.evalLine(rt, out, line)
	}
}

// evalLine recovers from any panic that escapes the pipeline, so a
// single malformed line reports an error instead of killing the
// session.
func (r *Repl) evalLine(rt *runner.Runner, out io.Writer, line string) {
	defer func() {
		if rec := recover(); rec != nil {
			errColor.Fprintf(out, "[internal error] %v\n", rec)
		}
	}()

	res := rt.RunREPLLine(line)
	for _, e := range res.Errors {
		errColor.Fprintln(out, e.Error())
	}
}
