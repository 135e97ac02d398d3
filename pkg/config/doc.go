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

// Package config loads batch run definitions for dumpfix.
//
//	            +-------------+
//	            |   Config    |
//	            | rules, jobs |
//	            +------+------+
//	                   |
//	      +------------+------------+
//	      |            |            |
//	+-----+----+ +-----+----+ +-----+----+
//	|   YAML   | |   JSON   | |   HCL    |
//	|  Parser  | |  Parser  | |  Parser  |
//	+----------+ +----------+ +----------+
//
// 🎯 Purpose:
//   - Declares ordered replacement rules, either presets or literal from/to pairs
//   - Declares jobs: a single input (optionally with an output) or a glob with an optional suffix
//   - Expands jobs into input/output targets relative to the config file
//
// 🔄 Flow:
//  1. Pick a parser from the file extension (.dumpfix tries YAML then HCL)
//  2. Decode with unknown fields rejected
//  3. Validate rules and jobs
//  4. Expand presets with ReplacementRules and files with Targets
//
// 🔍 Example (YAML):
//
//	rules:
//	  - preset: apostrophe
//	  - name: backtick-quotes
//	    from: "`"
//	    to: "\""
//	    files: "*.sql"
//	jobs:
//	  - input: meair-postgres-final.sql
//	    output: meair-postgres-final-fixed.sql
//	  - glob: "dumps/**/*.sql"
//	    suffix: -fixed
//
// 🔍 Example (HCL):
//
//	rule {
//	  preset = preset.normalize
//	}
//
//	job {
//	  glob   = "dumps/**/*.sql"
//	  suffix = "-fixed"
//	}
package config
