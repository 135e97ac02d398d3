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

package operation

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/dumpfix/pkg/config"
	"github.com/walteh/dumpfix/pkg/rules"
	"github.com/walteh/dumpfix/pkg/substitute"
	"github.com/walteh/dumpfix/pkg/text"
)

// 🔧 MockReplacer is a mock implementation of the text.TextReplacer interface
type MockReplacer struct {
	mock.Mock
}

func (m *MockReplacer) ReplaceText(ctx context.Context, content io.Reader, r []text.ReplacementRule) (*text.ReplacementResult, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	result := m.Called(string(data), r)
	if res := result.Get(0); res != nil {
		return res.(*text.ReplacementResult), result.Error(1)
	}
	return nil, result.Error(1)
}

func (m *MockReplacer) ValidateRules(r []text.ReplacementRule) error {
	return m.Called(r).Error(0)
}

func setup(t *testing.T) (context.Context, *zerolog.Logger, string) {
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background()), &logger, t.TempDir()
}

func write(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRunner_Run(t *testing.T) {
	for _, async := range []bool{false, true} {
		name := "sync"
		if async {
			name = "async"
		}
		t.Run(name, func(t *testing.T) {
			ctx, logger, dir := setup(t)

			a := write(t, filepath.Join(dir, "a.sql"), `('Dep\'t'), ('Dep\'t')`)
			b := write(t, filepath.Join(dir, "b.sql"), `('O''Brien')`)
			bOut := filepath.Join(dir, "b-fixed.sql")

			jobs := []Job{
				{Input: a, Output: a, Rules: rules.Apostrophe()},
				{Input: b, Output: bOut, Rules: rules.Normalize()},
			}

			outcomes, err := NewRunner(logger, async, true).Run(ctx, jobs)
			require.NoError(t, err)
			require.Len(t, outcomes, 2)

			assert.Equal(t, a, outcomes[0].Job.Input)
			assert.True(t, outcomes[0].Result.InPlace)
			assert.Equal(t, 2, outcomes[0].Result.Replacements)
			assert.Equal(t, `('Dep''t'), ('Dep''t')`, read(t, a))

			assert.False(t, outcomes[1].Result.InPlace)
			assert.Equal(t, `('O'Brien')`, read(t, bOut))
			assert.Equal(t, `('O''Brien')`, read(t, b))
		})
	}
}

func TestRunner_StopsOnFirstFailure(t *testing.T) {
	ctx, logger, dir := setup(t)

	missing := filepath.Join(dir, "missing.sql")
	later := write(t, filepath.Join(dir, "later.sql"), "''")

	jobs := []Job{
		{Input: missing, Output: missing, Rules: rules.Normalize()},
		{Input: later, Output: later, Rules: rules.Normalize()},
	}

	outcomes, err := NewRunner(logger, false, true).Run(ctx, jobs)
	require.Error(t, err)
	assert.ErrorIs(t, err, substitute.ErrNotFound)
	assert.Contains(t, err.Error(), "job 0")

	require.Len(t, outcomes, 1)
	assert.Error(t, outcomes[0].Err)
	assert.Equal(t, "''", read(t, later), "later jobs must not run")
}

func TestRunner_AsyncReportsFailure(t *testing.T) {
	ctx, logger, dir := setup(t)

	missing := filepath.Join(dir, "missing.sql")
	jobs := []Job{
		{Input: missing, Output: filepath.Join(dir, "out.sql"), Rules: rules.Normalize()},
	}

	_, err := NewRunner(logger, true, true).Run(ctx, jobs)
	require.Error(t, err)
	assert.ErrorIs(t, err, substitute.ErrNotFound)
}

func TestRunner_Cancelled(t *testing.T) {
	_, logger, dir := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := write(t, filepath.Join(dir, "a.sql"), "''")
	outcomes, err := NewRunner(logger, false, true).Run(ctx, []Job{{Input: a, Output: a, Rules: rules.Normalize()}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, outcomes)
	assert.Equal(t, "''", read(t, a))
}

func TestRunner_UsesReplacer(t *testing.T) {
	ctx, logger, dir := setup(t)
	in := write(t, filepath.Join(dir, "in.sql"), "abc")
	out := filepath.Join(dir, "out.sql")

	replacer := &MockReplacer{}
	replacer.On("ValidateRules", rules.Normalize()).Return(nil)
	replacer.On("ReplaceText", "abc", rules.Normalize()).Return(&text.ReplacementResult{
		WasModified:     true,
		OriginalContent: []byte("abc"),
		ModifiedContent: []byte("xyz"),
	}, nil)

	runner := NewRunner(logger, false, false).WithReplacer(replacer)
	outcomes, err := runner.Run(ctx, []Job{{Input: in, Output: out, Rules: rules.Normalize()}})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	assert.Equal(t, "xyz", read(t, out))
	replacer.AssertExpectations(t)
}

func TestValidateJobs(t *testing.T) {
	tests := []struct {
		name    string
		jobs    []Job
		wantErr string
	}{
		{
			name: "distinct",
			jobs: []Job{
				{Input: "a.sql", Output: "a.sql"},
				{Input: "b.sql", Output: "b-fixed.sql"},
			},
		},
		{
			name: "shared_output",
			jobs: []Job{
				{Input: "a.sql", Output: "out.sql"},
				{Input: "b.sql", Output: "./out.sql"},
			},
			wantErr: "jobs 0 and 1 both write",
		},
		{
			name: "output_is_other_input",
			jobs: []Job{
				{Input: "a.sql", Output: "a.sql"},
				{Input: "b.sql", Output: "a.sql"},
			},
			wantErr: "both write",
		},
		{
			name: "chained",
			jobs: []Job{
				{Input: "a.sql", Output: "b.sql"},
				{Input: "b.sql", Output: "c.sql"},
			},
			wantErr: "job 0 writes b.sql which is the input of job 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJobs(tt.jobs)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConflict)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestJobsFromConfig(t *testing.T) {
	ctx, _, dir := setup(t)
	write(t, filepath.Join(dir, "dumps", "a.sql"), "")
	write(t, filepath.Join(dir, "dumps", "legacy", "b.sql"), "")
	cfgPath := write(t, filepath.Join(dir, ".dumpfix.yaml"), strings.TrimSpace(`
rules:
  - preset: apostrophe
  - preset: normalize
    files: "dumps/legacy/**"
jobs:
  - glob: "dumps/**/*.sql"
`))

	cfg, err := config.Load(ctx, cfgPath)
	require.NoError(t, err)

	jobs, err := JobsFromConfig(ctx, cfg)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, filepath.Join(dir, "dumps", "a.sql"), jobs[0].Input)
	assert.Equal(t, []text.ReplacementRule{rules.DepartmentApostrophe}, jobs[0].Rules)
	assert.True(t, jobs[0].InPlace())

	assert.Equal(t, filepath.Join(dir, "dumps", "legacy", "b.sql"), jobs[1].Input)
	require.Len(t, jobs[1].Rules, 2)
	assert.Equal(t, rules.CollapseDoubledQuotes.FromText, jobs[1].Rules[1].FromText)
}
