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

package status

import (
	"os"

	"github.com/walteh/dumpfix/pkg/operation"
)

// 📊 FileStatus represents what a run did to a file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusCreated              // Output did not exist before the run
	StatusModified             // At least one rule changed the content
	StatusUnchanged            // No rule matched
	StatusFailed               // The job returned an error
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📸 Tracker snapshots which outputs exist before a run
type Tracker struct {
	existed map[string]bool
}

// 🏭 NewTracker records the current existence of every job output
func NewTracker(jobs []operation.Job) *Tracker {
	t := &Tracker{existed: make(map[string]bool, len(jobs))}
	for _, j := range jobs {
		_, err := os.Stat(j.Output)
		t.existed[j.Output] = err == nil
	}
	return t
}

// 🔍 Classify maps an outcome to a FileStatus
func (t *Tracker) Classify(o operation.Outcome) FileStatus {
	switch {
	case o.Err != nil || o.Result == nil:
		return StatusFailed
	case !t.existed[o.Job.Output]:
		return StatusCreated
	case o.Result.Modified:
		return StatusModified
	default:
		return StatusUnchanged
	}
}
