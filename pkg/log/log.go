// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	modeWidth   = 10 // Width for write mode
	statusWidth = 12 // Width for status text
)

// 🎯 FileOperation represents a rewritten file for logging
type FileOperation struct {
	Path         string // Input path
	Output       string // Output path
	Status       string // Operation status
	IsNew        bool   // Whether the output did not exist before
	IsModified   bool   // Whether any rule changed the content
	IsFailed     bool   // Whether the file failed
	InPlace      bool   // Whether the input was overwritten
	Replacements int    // Number of replacements made
}

// 📦 BatchOperation represents a config driven run over several files
type BatchOperation struct {
	Config string // Config file path
	Jobs   int    // Number of expanded jobs
	Async  bool   // Whether jobs run concurrently
}

// 🎯 Logger writes human readable lines to the console and mirrors them into zerolog
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *BatchOperation
	operations []FileOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.IsNew:
		symbol = '✓'
		symbolColor = color.FgGreen
	case op.IsModified:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	mode := "copy"
	modeColor := color.FgBlue
	if op.InPlace {
		mode = "in-place"
		modeColor = color.FgCyan
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(modeColor).Sprint(fmt.Sprintf("%-*s", modeWidth, mode)),
		fmt.Sprintf("%-*s", statusWidth, op.Status))
}

// 📝 LogFileOperation logs a rewritten file
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	l.zlog.Info().
		Str("file", op.Path).
		Str("output", op.Output).
		Str("status", op.Status).
		Bool("is_new", op.IsNew).
		Bool("is_modified", op.IsModified).
		Bool("is_failed", op.IsFailed).
		Bool("in_place", op.InPlace).
		Int("replacements", op.Replacements).
		Msg("file operation")
}

// 📝 StartBatch starts a new batch operation
func (l *Logger) StartBatch(ctx context.Context, op BatchOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Config),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%d files", op.Jobs))

	l.zlog.Info().
		Str("config", op.Config).
		Int("jobs", op.Jobs).
		Bool("async", op.Async).
		Msg("starting batch")
}

// 📝 EndBatch ends the current batch operation and returns the files it logged
func (l *Logger) EndBatch(ctx context.Context) []FileOperation {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return nil
	}

	ops := l.operations
	l.zlog.Info().
		Str("config", l.currentOp.Config).
		Int("files", len(ops)).
		Msg("batch complete")

	l.currentOp = nil
	l.operations = nil
	return ops
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("dumpfix")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Print logs an undecorated line
func (l *Logger) Print(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, msg)
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "%s %s\n", color.New(color.FgGreen).Sprint("✓"), msg)
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "%s %s\n", color.New(color.FgRed).Sprint("✗"), msg)
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Printf logs a formatted undecorated line
func (l *Logger) Printf(format string, args ...interface{}) {
	l.Print(fmt.Sprintf(format, args...))
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
