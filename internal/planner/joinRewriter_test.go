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
	"time"

	"github.com/gdexlab/go-render/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamwise-io/streamwise/internal/conf"
	"github.com/streamwise-io/streamwise/pkg/ast"
	"github.com/streamwise-io/streamwise/pkg/cast"
	"github.com/streamwise-io/streamwise/pkg/errorx"
	"github.com/streamwise-io/streamwise/pkg/schema"
)

const testTTL = 15 * time.Minute

func testOptions() *conf.PlanningConf {
	return &conf.PlanningConf{JoinStateTTL: cast.DurationConf(testTTL)}
}

func srcSchema(name ast.StreamName, extra ...*schema.Field) *schema.Schema {
	fields := []*schema.Field{
		{StreamName: name, Name: "k", Type: schema.BIGINT},
		{StreamName: name, Name: "v", Type: schema.STRINGS, Nullable: true},
		{StreamName: name, Name: TimestampField, Type: schema.DATETIME, Metadata: map[string]string{"watermark": "event"}},
	}
	return schema.New(append(fields, extra...)...)
}

func src(name ast.StreamName, extra ...*schema.Field) *DataSourcePlan {
	return NewDataSourcePlan(name, srcSchema(name, extra...))
}

func windowed(p LogicalPlan, w *WindowDescriptor) LogicalPlan {
	return NewWindowPlan(p, w)
}

func equiJoin(t *testing.T, left, right LogicalPlan, joinType ast.JoinType) *JoinPlan {
	t.Helper()
	on := []ast.OnPair{{
		Left:  &ast.FieldRef{StreamName: "A", Name: "k"},
		Right: &ast.FieldRef{StreamName: "B", Name: "k"},
	}}
	jp, err := NewJoinPlan(left, right, on, nil, joinType, ast.JOIN_CONSTRAINT_ON, false)
	require.NoError(t, err)
	return jp
}

func rewrite(t *testing.T, p LogicalPlan) (LogicalPlan, error) {
	t.Helper()
	return RewriteWith(p, DefaultWindowOracle(), testOptions())
}

func TestRewriteUpdatingJoin(t *testing.T) {
	jp := equiJoin(t, src("A"), src("B"), ast.INNER_JOIN)
	res, err := rewrite(t, jp)
	require.NoError(t, err)

	ext, ok := res.(*ExtensionPlan)
	require.True(t, ok, "expect an extension root, got %T", res)
	sj, ok := ext.Node().(*StreamJoinExtension)
	require.True(t, ok, "expect a stream join extension, got %T", ext.Node())
	assert.False(t, sj.IsInstant())
	require.NotNil(t, sj.TTL())
	assert.Equal(t, testTTL, *sj.TTL())

	proj, ok := sj.Input().(*ProjectPlan)
	require.True(t, ok, "expect a timestamp merge projection, got %T", sj.Input())
	join, ok := proj.Children()[0].(*JoinPlan)
	require.True(t, ok, "expect the rebuilt join, got %T", proj.Children()[0])

	// both join inputs are trimmed key calculations keyed on the single
	// ON expression
	sides := []string{"left", "right"}
	origins := []*schema.Schema{srcSchema("A"), srcSchema("B")}
	for i, child := range join.Children() {
		cExt, ok := child.(*ExtensionPlan)
		require.True(t, ok, "expect key calculation on %s side, got %T", sides[i], child)
		kc, ok := cExt.Node().(*KeyCalculationExtension)
		require.True(t, ok)
		assert.Equal(t, sides[i], kc.Side())
		assert.Equal(t, []int{0}, kc.KeyIndices())
		assert.True(t, kc.Trimmed())

		keyed := kc.Input().Schema()
		require.Equal(t, origins[i].Len()+1, keyed.Len())
		assert.Equal(t, KeyQualifier, keyed.Fields[0].StreamName)
		assert.Equal(t, "_key_0", keyed.Fields[0].Name)
		assert.Equal(t, schema.BIGINT, keyed.Fields[0].Type)
		// the tail is the original input schema, column for column
		assert.True(t, schema.New(keyed.Fields[1:]...).Equal(origins[i]),
			"keyed tail mismatch on %s side: %s", sides[i], keyed.String())
		// the reported schema hides the key prefix
		assert.True(t, kc.Schema().Equal(origins[i]))
	}

	// two timestamps before the merge, one after
	assert.Len(t, join.Schema().FieldsNamed(TimestampField), 2)
	out := res.Schema()
	require.Len(t, out.FieldsNamed(TimestampField), 1)
	last := out.Fields[out.Len()-1]
	assert.Equal(t, TimestampField, last.Name)
	assert.Equal(t, ast.StreamName("A"), last.StreamName)
	assert.Equal(t, map[string]string{"watermark": "event"}, last.Metadata)
}

func TestRewriteInstantJoin(t *testing.T) {
	w := TumblingWindow(time.Minute)
	jp := equiJoin(t, windowed(src("A"), w), windowed(src("B"), w), ast.INNER_JOIN)
	res, err := rewrite(t, jp)
	require.NoError(t, err)

	ext := res.(*ExtensionPlan)
	sj := ext.Node().(*StreamJoinExtension)
	assert.True(t, sj.IsInstant())
	assert.Nil(t, sj.TTL())
	assert.Len(t, res.Schema().FieldsNamed(TimestampField), 1)
}

func TestRewriteRejections(t *testing.T) {
	w := TumblingWindow(time.Minute)
	updating := &schema.Field{Name: UpdatingMetaField, Type: schema.BOOLEAN}
	tests := []struct {
		name string
		plan func(t *testing.T) LogicalPlan
		code errorx.ErrorCode
		msg  string
	}{
		{
			name: "session windows",
			plan: func(t *testing.T) LogicalPlan {
				s := SessionWindow(30 * time.Second)
				return equiJoin(t, windowed(src("A"), s), windowed(src("B"), s), ast.INNER_JOIN)
			},
			code: errorx.UnsupportedJoinShape,
			msg:  "session windows",
		},
		{
			name: "mixed windowing left windowed",
			plan: func(t *testing.T) LogicalPlan {
				return equiJoin(t, windowed(src("A"), w), src("B"), ast.INNER_JOIN)
			},
			code: errorx.UnsupportedJoinShape,
			msg:  "mixed windowing",
		},
		{
			name: "mixed windowing right windowed",
			plan: func(t *testing.T) LogicalPlan {
				return equiJoin(t, src("A"), windowed(src("B"), w), ast.INNER_JOIN)
			},
			code: errorx.UnsupportedJoinShape,
			msg:  "mixed windowing",
		},
		{
			name: "mismatched windows",
			plan: func(t *testing.T) LogicalPlan {
				return equiJoin(t, windowed(src("A"), TumblingWindow(time.Minute)),
					windowed(src("B"), TumblingWindow(2*time.Minute)), ast.INNER_JOIN)
			},
			code: errorx.UnsupportedJoinShape,
			msg:  "mixed windowing",
		},
		{
			name: "non-inner unwindowed",
			plan: func(t *testing.T) LogicalPlan {
				return equiJoin(t, src("A"), src("B"), ast.LEFT_JOIN)
			},
			code: errorx.UnsupportedJoinShape,
			msg:  "non-inner joins without windows",
		},
		{
			name: "updating left input",
			plan: func(t *testing.T) LogicalPlan {
				return equiJoin(t, src("A", updating), src("B"), ast.INNER_JOIN)
			},
			code: errorx.UnsupportedUpdatingInput,
			msg:  "updating left side",
		},
		{
			name: "updating right input",
			plan: func(t *testing.T) LogicalPlan {
				return equiJoin(t, src("A"), src("B", updating), ast.INNER_JOIN)
			},
			code: errorx.UnsupportedUpdatingInput,
			msg:  "updating right side",
		},
		{
			name: "non-ON constraint",
			plan: func(t *testing.T) LogicalPlan {
				jp, err := NewJoinPlan(src("A"), src("B"), nil, nil,
					ast.INNER_JOIN, ast.JOIN_CONSTRAINT_USING, false)
				require.NoError(t, err)
				return jp
			},
			code: errorx.UnsupportedJoinShape,
			msg:  "join constraint other than ON",
		},
		{
			name: "null equals null",
			plan: func(t *testing.T) LogicalPlan {
				jp, err := NewJoinPlan(src("A"), src("B"),
					[]ast.OnPair{{
						Left:  &ast.FieldRef{StreamName: "A", Name: "k"},
						Right: &ast.FieldRef{StreamName: "B", Name: "k"},
					}}, nil, ast.INNER_JOIN, ast.JOIN_CONSTRAINT_ON, true)
				require.NoError(t, err)
				return jp
			},
			code: errorx.UnsupportedJoinShape,
			msg:  "null = null",
		},
		{
			name: "updating join without equijoin condition",
			plan: func(t *testing.T) LogicalPlan {
				jp, err := NewJoinPlan(src("A"), src("B"), nil,
					&ast.BinaryExpr{
						OP:  ast.GT,
						LHS: &ast.FieldRef{StreamName: "A", Name: "k"},
						RHS: &ast.FieldRef{StreamName: "B", Name: "k"},
					}, ast.INNER_JOIN, ast.JOIN_CONSTRAINT_ON, false)
				require.NoError(t, err)
				return jp
			},
			code: errorx.MissingEquijoin,
			msg:  "equijoin condition",
		},
		{
			name: "missing timestamp fields",
			plan: func(t *testing.T) LogicalPlan {
				bare := func(name ast.StreamName) *DataSourcePlan {
					return NewDataSourcePlan(name, schema.New(
						&schema.Field{StreamName: name, Name: "k", Type: schema.BIGINT},
					))
				}
				return equiJoin(t, bare("A"), bare("B"), ast.INNER_JOIN)
			},
			code: errorx.MalformedTimestamps,
			msg:  "two timestamp fields",
		},
		{
			name: "key expression not in input schema",
			plan: func(t *testing.T) LogicalPlan {
				jp, err := NewJoinPlan(src("A"), src("B"),
					[]ast.OnPair{{
						Left:  &ast.FieldRef{StreamName: "A", Name: "nope"},
						Right: &ast.FieldRef{StreamName: "B", Name: "k"},
					}}, nil, ast.INNER_JOIN, ast.JOIN_CONSTRAINT_ON, false)
				require.NoError(t, err)
				return jp
			},
			code: errorx.UpstreamConstruction,
			msg:  "not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rewrite(t, tt.plan(t))
			require.Error(t, err)
			assert.Equal(t, tt.code, errorx.CodeOf(err), "unexpected code for %v", err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestRewriteMultiKeyJoin(t *testing.T) {
	on := []ast.OnPair{
		{Left: &ast.FieldRef{StreamName: "A", Name: "k"}, Right: &ast.FieldRef{StreamName: "B", Name: "k"}},
		{Left: &ast.FieldRef{StreamName: "A", Name: "v"}, Right: &ast.FieldRef{StreamName: "B", Name: "v"}},
	}
	jp, err := NewJoinPlan(src("A"), src("B"), on, nil, ast.INNER_JOIN, ast.JOIN_CONSTRAINT_ON, false)
	require.NoError(t, err)
	res, err := rewrite(t, jp)
	require.NoError(t, err)

	join := res.(*ExtensionPlan).Node().Input().(*ProjectPlan).Children()[0].(*JoinPlan)
	for _, child := range join.Children() {
		kc := child.(*ExtensionPlan).Node().(*KeyCalculationExtension)
		assert.Equal(t, []int{0, 1}, kc.KeyIndices())
		keyed := kc.Input().Schema()
		assert.Equal(t, "_key_0", keyed.Fields[0].Name)
		assert.Equal(t, "_key_1", keyed.Fields[1].Name)
		// key order follows the ON pair order
		assert.Equal(t, schema.BIGINT, keyed.Fields[0].Type)
		assert.Equal(t, schema.STRINGS, keyed.Fields[1].Type)
	}
}

func TestRewriteNestedJoins(t *testing.T) {
	inner := equiJoin(t, src("A"), src("B"), ast.INNER_JOIN)
	outer, err := NewJoinPlan(inner, src("C"),
		[]ast.OnPair{{
			Left:  &ast.FieldRef{StreamName: "A", Name: "k"},
			Right: &ast.FieldRef{StreamName: "C", Name: "k"},
		}}, nil, ast.INNER_JOIN, ast.JOIN_CONSTRAINT_ON, false)
	require.NoError(t, err)

	res, err := rewrite(t, outer)
	require.NoError(t, err)

	// both levels end up as updating stream joins and the top carries a
	// single timestamp
	top := res.(*ExtensionPlan).Node().(*StreamJoinExtension)
	assert.False(t, top.IsInstant())
	require.NotNil(t, top.TTL())
	require.Len(t, res.Schema().FieldsNamed(TimestampField), 1)

	join := top.Input().(*ProjectPlan).Children()[0].(*JoinPlan)
	leftKeyed := join.Children()[0].(*ExtensionPlan).Node().(*KeyCalculationExtension)
	_, ok := leftKeyed.Input().(*ProjectPlan).Children()[0].(*ExtensionPlan)
	assert.True(t, ok, "the nested join should stay rewritten under the outer key calculation")
}

// countKeyCalculations counts the key-calculation layers in a tree. A
// rewritten single join has exactly two, one per input.
func countKeyCalculations(p LogicalPlan) int {
	n := 0
	if ep, ok := p.(*ExtensionPlan); ok {
		if _, ok := ep.Node().(*KeyCalculationExtension); ok {
			n++
		}
	}
	for _, c := range p.Children() {
		n += countKeyCalculations(c)
	}
	return n
}

func TestRewriteIdempotent(t *testing.T) {
	jp := equiJoin(t, src("A"), src("B"), ast.INNER_JOIN)
	once, err := rewrite(t, jp)
	require.NoError(t, err)
	require.Equal(t, 2, countKeyCalculations(once))
	// snapshot before the second pass: SetChildren mutates in place, so
	// comparing renders taken after both passes would miss a re-keying
	snapshot := render.AsCode(once)

	twice, err := rewrite(t, once)
	require.NoError(t, err)
	assert.Same(t, once, twice)
	assert.Equal(t, 2, countKeyCalculations(twice))
	assert.Equal(t, snapshot, render.AsCode(twice))

	// same when the rewritten join sits below an untouched node
	filtered := NewFilterPlan(once, &ast.BinaryExpr{
		OP:  ast.GT,
		LHS: &ast.FieldRef{StreamName: "A", Name: "k"},
		RHS: &ast.IntegerLiteral{Val: 10},
	})
	res, err := rewrite(t, filtered)
	require.NoError(t, err)
	assert.Equal(t, 2, countKeyCalculations(res))
	assert.Same(t, once, res.Children()[0])
}

func TestRewriteNoJoinPassthrough(t *testing.T) {
	p := NewFilterPlan(src("A"), &ast.BinaryExpr{
		OP:  ast.GT,
		LHS: &ast.FieldRef{StreamName: "A", Name: "k"},
		RHS: &ast.IntegerLiteral{Val: 10},
	})
	res, err := rewrite(t, p)
	require.NoError(t, err)
	assert.Same(t, LogicalPlan(p), res)
}
