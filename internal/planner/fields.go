// Copyright 2024 Streamwise Tech Co., Ltd.
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

package planner

import (
	"fmt"

	"github.com/streamwise-io/streamwise/pkg/ast"
)

// Reserved field names shared with the front-end and the executor.
const (
	// TimestampField is the event-time column. Every join input carries
	// exactly one; the rewritten join output carries exactly one.
	TimestampField = "_timestamp"
	// UpdatingMetaField marks a subplan as producing change-stream
	// records rather than append-only rows.
	UpdatingMetaField = "_updating_meta"
)

// KeyQualifier is the synthetic relation the materialized join-key
// columns live under.
const KeyQualifier = ast.StreamName("_arroyo")

func keyFieldName(i int) string {
	return fmt.Sprintf("_key_%d", i)
}
