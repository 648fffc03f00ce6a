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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamwise-io/streamwise/internal/xsql"
	"github.com/streamwise-io/streamwise/pkg/ast"
)

// The merged timestamp is the element-wise maximum of the two inherited
// timestamps, preferring the non-NULL operand when only one side is
// present.
func TestMergedTimestampSemantics(t *testing.T) {
	jp := equiJoin(t, src("A"), src("B"), ast.INNER_JOIN)
	res, err := rewrite(t, jp)
	require.NoError(t, err)

	proj, ok := res.(*ExtensionPlan).Node().Input().(*ProjectPlan)
	require.True(t, ok)
	fields := proj.Fields()
	merged := fields[len(fields)-1]
	require.Equal(t, TimestampField, merged.Name)
	require.Equal(t, ast.StreamName("A"), merged.StreamName)

	tests := []struct {
		name  string
		left  map[string]interface{}
		right map[string]interface{}
		want  interface{}
	}{
		{
			name:  "left greater",
			left:  map[string]interface{}{"_timestamp": int64(10)},
			right: map[string]interface{}{"_timestamp": int64(7)},
			want:  int64(10),
		},
		{
			name:  "right greater",
			left:  map[string]interface{}{"_timestamp": int64(3)},
			right: map[string]interface{}{"_timestamp": int64(9)},
			want:  int64(9),
		},
		{
			name:  "equal picks left",
			left:  map[string]interface{}{"_timestamp": int64(5)},
			right: map[string]interface{}{"_timestamp": int64(5)},
			want:  int64(5),
		},
		{
			name:  "left null",
			left:  map[string]interface{}{},
			right: map[string]interface{}{"_timestamp": int64(5)},
			want:  int64(5),
		},
		{
			name:  "right null",
			left:  map[string]interface{}{"_timestamp": int64(4)},
			right: map[string]interface{}{},
			want:  int64(4),
		},
		{
			name:  "both null",
			left:  map[string]interface{}{},
			right: map[string]interface{}{},
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := &xsql.JoinTuple{}
			row.AddTuple(&xsql.Tuple{Emitter: "A", Message: tt.left})
			row.AddTuple(&xsql.Tuple{Emitter: "B", Message: tt.right})
			v := &xsql.ValuerEval{Valuer: row}
			got := v.Eval(merged.Expr)
			if e, ok := got.(error); ok {
				t.Fatalf("eval error: %v", e)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
