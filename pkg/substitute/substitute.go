// Package substitute reads a text file, applies ordered literal replacements and writes the
// result to an output path, which may be the input path itself.
package substitute

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/dumpfix/pkg/text"
	"gitlab.com/tozd/go/errors"
)

const defaultFileMode fs.FileMode = 0o644

// Options configures a single substitution run
type Options struct {
	// Input is the file to read
	Input string

	// Output is the file to write, equal to Input for an in-place edit
	Output string

	// Rules are applied in order, each one exactly once
	Rules []text.ReplacementRule

	// Atomic writes through a temp file renamed over Output
	Atomic bool

	// Backup copies an existing Output to Output+".bak" before overwriting it
	Backup bool

	// Replacer defaults to text.NewSimpleTextReplacer
	Replacer text.TextReplacer
}

// Result describes a finished run
type Result struct {
	Input        string
	Output       string
	InPlace      bool
	Rules        []text.RuleResult
	Replacements int
	Modified     bool
	BytesRead    int
	BytesWritten int
	BackupPath   string
}

// Rule returns the report for the named rule
func (r *Result) Rule(name string) (text.RuleResult, bool) {
	for _, rr := range r.Rules {
		if rr.Rule.Name == name {
			return rr, true
		}
	}
	return text.RuleResult{}, false
}

// Apply runs the read, transform and write pipeline. Nothing is written unless the input was
// read, decoded and transformed successfully. When only the write fails, the returned Result
// still carries the rule reports.
func Apply(ctx context.Context, opts Options) (*Result, error) {
	logger := zerolog.Ctx(ctx).With().Str("input", opts.Input).Str("output", opts.Output).Logger()

	if opts.Input == "" {
		return nil, errors.Errorf("%w: empty path", ErrNotFound)
	}
	if opts.Output == "" {
		return nil, errors.Errorf("%w: empty output path", ErrWrite)
	}

	replacer := opts.Replacer
	if replacer == nil {
		replacer = text.NewSimpleTextReplacer()
	}
	if err := replacer.ValidateRules(opts.Rules); err != nil {
		return nil, errors.Errorf("%w: %v", ErrInvalidRule, err)
	}

	content, err := os.ReadFile(opts.Input)
	if err != nil {
		return nil, fileError(ErrNotFound, opts.Input, err)
	}
	if !utf8.Valid(content) {
		return nil, fileError(ErrEncoding, opts.Input, errors.New("content is not valid UTF-8"))
	}
	logger.Debug().Int("bytes", len(content)).Msg("read input")

	replaced, err := replacer.ReplaceText(ctx, bytes.NewReader(content), opts.Rules)
	if err != nil {
		return nil, errors.Errorf("replacing text: %w", err)
	}

	for _, rr := range replaced.Rules {
		logger.Debug().
			Str("rule", rr.Rule.String()).
			Int("found", rr.Found).
			Int("resulting", rr.Resulting).
			Msg("applied rule")
	}

	result := &Result{
		Input:        opts.Input,
		Output:       opts.Output,
		InPlace:      samePath(opts.Input, opts.Output),
		Rules:        replaced.Rules,
		Replacements: replaced.ReplacementCount,
		Modified:     replaced.WasModified,
		BytesRead:    len(content),
	}

	if opts.Backup {
		result.BackupPath, err = backupFile(opts.Output)
		if err != nil {
			return result, fileError(ErrWrite, opts.Output, err)
		}
	}

	// writes follow symlinks so an in-place edit fixes the linked file, not the link
	target := opts.Output
	if resolved, err := filepath.EvalSymlinks(opts.Output); err == nil {
		target = resolved
	}

	write := writeFile
	if opts.Atomic {
		write = writeFileAtomic
	}
	if err := write(target, replaced.ModifiedContent); err != nil {
		return result, fileError(ErrWrite, opts.Output, err)
	}
	result.BytesWritten = len(replaced.ModifiedContent)

	logger.Debug().
		Int("replacements", result.Replacements).
		Int("bytes", result.BytesWritten).
		Bool("in_place", result.InPlace).
		Msg("wrote output")

	return result, nil
}

// modeOf returns the permissions of an existing file, or the default for a new one
func modeOf(path string) fs.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return defaultFileMode
	}
	return info.Mode().Perm()
}

func writeFile(path string, content []byte) error {
	if err := os.WriteFile(path, content, modeOf(path)); err != nil {
		return errors.Errorf("writing file: %w", err)
	}
	return nil
}

// writeFileAtomic writes to a temp file next to path and renames it into place
func writeFileAtomic(path string, content []byte) error {
	mode := modeOf(path)

	// the rename below would replace a read-only target
	if f, err := os.OpenFile(path, os.O_WRONLY, 0); err == nil {
		f.Close()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return errors.Errorf("opening target: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return errors.Errorf("setting temp file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// backupFile copies path to path+".bak", returning "" when there is nothing to back up
func backupFile(path string) (string, error) {
	source, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", errors.Errorf("opening file for backup: %w", err)
	}
	defer source.Close()

	backupPath := path + ".bak"
	destination, err := os.OpenFile(backupPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, modeOf(path))
	if err != nil {
		return "", errors.Errorf("creating backup: %w", err)
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return "", errors.Errorf("copying backup: %w", err)
	}
	if err := destination.Close(); err != nil {
		return "", errors.Errorf("closing backup: %w", err)
	}
	return backupPath, nil
}

func samePath(a, b string) bool {
	if a == b {
		return true
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
