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
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T, w io.Writer) *Logger {
	return New(w, zerolog.New(zerolog.NewTestWriter(t)))
}

func TestLogger(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_batch_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.StartBatch(context.Background(), BatchOperation{
					Config: ".dumpfix.yaml",
					Jobs:   3,
				})
			},
			wantLogs: []string{
				"◆ .dumpfix.yaml • 3 files",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("Error: boom")
				logger.Success("Successfully fixed dump.sql")
				logger.Print(`Found 5 occurrences of Dep\'t`)
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"✗ Error: boom",
				"✓ Successfully fixed dump.sql",
				`Found 5 occurrences of Dep\'t`,
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
				logger.Printf("Output: %s", "out.sql")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"✗ error test",
				"✓ success test",
				"Output: out.sql",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("fixing dumps")
			},
			wantLogs: []string{
				"dumpfix • fixing dumps",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := newTestLogger(t, buf)

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := newTestLogger(t, io.Discard)

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestBatchCollectsOperations(t *testing.T) {
	logger := newTestLogger(t, io.Discard)
	ctx := context.Background()

	assert.Nil(t, logger.EndBatch(ctx), "no batch started")

	logger.StartBatch(ctx, BatchOperation{Config: "c.hcl", Jobs: 2})
	logger.LogFileOperation(ctx, FileOperation{Path: "a.sql", Status: "fixed"})
	logger.LogFileOperation(ctx, FileOperation{Path: "b.sql", Status: "unchanged"})

	ops := logger.EndBatch(ctx)
	require.Len(t, ops, 2)
	assert.Equal(t, "a.sql", ops[0].Path)
	assert.Equal(t, "b.sql", ops[1].Path)
}

func TestFileOperationFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	line := func(symbol, path, mode, status string) string {
		return fmt.Sprintf("%s %-35s %-10s %s", symbol, path, mode, status)
	}

	tests := []struct {
		name string
		op   FileOperation
		want string
	}{
		{
			name: "new_copy",
			op: FileOperation{
				Path:   "meair-postgres-final.sql",
				Status: "created",
				IsNew:  true,
			},
			want: line("✓", "meair-postgres-final.sql", "copy", "created"),
		},
		{
			name: "modified_in_place",
			op: FileOperation{
				Path:       "meair-postgres.sql",
				Status:     "fixed",
				IsModified: true,
				InPlace:    true,
			},
			want: line("⟳", "meair-postgres.sql", "in-place", "fixed"),
		},
		{
			name: "failed",
			op: FileOperation{
				Path:     "missing.sql",
				Status:   "error",
				IsFailed: true,
				InPlace:  true,
			},
			want: line("✗", "missing.sql", "in-place", "error"),
		},
		{
			name: "unchanged",
			op: FileOperation{
				Path:    "clean.sql",
				Status:  "unchanged",
				InPlace: true,
			},
			want: line("-", "clean.sql", "in-place", "unchanged"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := newTestLogger(t, buf)

			logger.LogFileOperation(context.Background(), tt.op)

			output := strings.TrimSpace(buf.String())
			assert.Equal(t, tt.want, output, "formatted output should match")
		})
	}
}
