/*
Command lox is the Lox interpreter's entry point: zero args starts the
REPL, one arg runs a file.
*/
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"

	"github.com/loxlang/golox/replloop"
	"github.com/loxlang/golox/runner"
)

const (
	exitOK           = 0
	exitCompileError = 65
	exitRuntimeError = 70
	exitUsageError   = 64
)

var errColor = color.New(color.FgRed)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := newLogger()

	// --verbose is consumed by newLogger and is not a script path.
	var rest []string
	for _, a := range args {
		if a != "--verbose" {
			rest = append(rest, a)
		}
	}

	switch len(rest) {
	case 0:
		replloop.New(logger).Start(os.Stdin, os.Stdout)
		return exitOK
	case 1:
		return runFile(logger, rest[0])
	default:
		errColor.Fprintln(os.Stderr, "Usage: lox [script]")
		return exitUsageError
	}
}

func runFile(logger hclog.Logger, path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		errColor.Fprintf(os.Stderr, "Could not read file '%s': %v\n", path, err)
		return exitUsageError
	}

	rt := runner.New(logger, os.Stdout)
	res := rt.Run(string(src))

	for _, e := range res.Errors {
		errColor.Fprintln(os.Stderr, e.Error())
	}

	switch {
	case res.CompileError:
		return exitCompileError
	case res.RuntimeError:
		return exitRuntimeError
	default:
		return exitOK
	}
}

// newLogger builds the named "lox" logger every component shares,
// raised from its default Warn level by LOX_LOG or --verbose.
func newLogger() hclog.Logger {
	level := hclog.LevelFromString(os.Getenv("LOX_LOG"))
	if level == hclog.NoLevel {
		level = hclog.Warn
	}
	for _, a := range os.Args[1:] {
		if a == "--verbose" {
			level = hclog.Trace
		}
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "lox",
		Level:  level,
		Output: os.Stderr,
	})
}
