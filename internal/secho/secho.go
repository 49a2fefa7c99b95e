// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package secho provides the injectable "info logger" every core component
// accepts, so library code never writes to stdout/stderr directly.
package secho

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Level identifies the severity of a logged message.
type Level int

const (
	// LevelVerbose is extra detail only shown with -v.
	LevelVerbose Level = iota
	// LevelInfo is normal, always-shown progress messages.
	LevelInfo
	// LevelWarn is a recoverable problem (a skipped clone, a stale file ref).
	LevelWarn
	// LevelError is a fatal condition being reported on the way out.
	LevelError
)

// Func is the callback signature every component is injected with.
type Func func(level Level, format string, args ...any)

// Logger is the default secho.Func implementation: colored, level-gated
// output to a writer, matching the CLI's --verbose/--quiet flags.
type Logger struct {
	Out     io.Writer
	Verbose bool
	Quiet   bool
	Color   bool
}

// New builds a Logger writing to stderr, auto-detecting TTY color support.
func New() *Logger {
	return &Logger{
		Out:   os.Stderr,
		Color: isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
	}
}

// Log implements Func.
func (l *Logger) Log(level Level, format string, args ...any) {
	if l == nil || l.Out == nil {
		return
	}
	if level == LevelVerbose && !l.Verbose {
		return
	}
	if l.Quiet && level < LevelError {
		return
	}

	msg := fmt.Sprintf(format, args...)
	prefix, c := prefixFor(level)
	if l.Color {
		fmt.Fprintln(l.Out, c.Sprint(prefix)+msg)
		return
	}
	fmt.Fprintln(l.Out, prefix+msg)
}

func prefixFor(level Level) (string, *color.Color) {
	switch level {
	case LevelVerbose:
		return "", color.New(color.FgHiBlack)
	case LevelWarn:
		return "warning: ", color.New(color.FgYellow)
	case LevelError:
		return "error: ", color.New(color.FgRed, color.Bold)
	default:
		return "", color.New(color.FgCyan)
	}
}

// Nop is a Func that discards every message, used as a safe default and in
// tests that don't care about logging output.
func Nop(Level, string, ...any) {}
