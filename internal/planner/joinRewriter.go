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
	"time"

	"github.com/streamwise-io/streamwise/internal/conf"
	"github.com/streamwise-io/streamwise/pkg/ast"
	"github.com/streamwise-io/streamwise/pkg/errorx"
	"github.com/streamwise-io/streamwise/pkg/schema"
)

// JoinRewriter turns relational joins into the keyed, timestamped form
// the streaming executor runs. Each accepted join becomes a stream-join
// extension whose inputs are key-calculation extensions and whose
// output carries a single merged event-time column.
type JoinRewriter struct {
	oracle  WindowOracle
	options *conf.PlanningConf
}

func NewJoinRewriter(oracle WindowOracle, options *conf.PlanningConf) *JoinRewriter {
	return &JoinRewriter{oracle: oracle, options: options}
}

// Rewrite runs the pass bottom-up over the whole plan. Non-join nodes
// pass through; any rejection aborts the pass. Stream-join extensions
// produced by an earlier run are terminal, so running the pass over its
// own output changes nothing.
func (jr *JoinRewriter) Rewrite(p LogicalPlan) (LogicalPlan, error) {
	np, _, err := transformUp(p, isRewrittenJoin, jr.rewriteNode)
	return np, err
}

// isRewrittenJoin reports whether p is a stream-join extension. The
// traversal must not descend into one: the join beneath it is already
// keyed, and re-keying would stack key projections and leave the merge
// projection referencing timestamp columns its input no longer has.
func isRewrittenJoin(p LogicalPlan) bool {
	ep, ok := p.(*ExtensionPlan)
	if !ok {
		return false
	}
	_, ok = ep.Node().(*StreamJoinExtension)
	return ok
}

func (jr *JoinRewriter) rewriteNode(p LogicalPlan) (LogicalPlan, bool, error) {
	j, ok := p.(*JoinPlan)
	if !ok {
		return p, false, nil
	}
	isInstant, err := jr.checkJoinWindowing(j)
	if err != nil {
		return nil, false, err
	}
	if j.JoinConstraint() != ast.JOIN_CONSTRAINT_ON {
		return nil, false, errorx.NewPlanError(errorx.UnsupportedJoinShape,
			"can't handle join constraint other than ON")
	}
	if j.NullEqualsNull() {
		return nil, false, errorx.NewPlanError(errorx.UnsupportedJoinShape,
			"can't handle joins with null = null equality")
	}
	if err := checkUpdating(j.Left(), j.Right()); err != nil {
		return nil, false, err
	}
	if len(j.On()) == 0 && !isInstant {
		return nil, false, errorx.NewPlanError(errorx.MissingEquijoin,
			"updating joins must include an equijoin condition")
	}

	leftExprs := make([]ast.Expr, 0, len(j.On()))
	rightExprs := make([]ast.Expr, 0, len(j.On()))
	for _, pair := range j.On() {
		leftExprs = append(leftExprs, pair.Left)
		rightExprs = append(rightExprs, pair.Right)
	}

	leftInput, err := jr.createJoinKeyPlan(j.Left(), leftExprs, "left")
	if err != nil {
		return nil, false, err
	}
	rightInput, err := jr.createJoinKeyPlan(j.Right(), rightExprs, "right")
	if err != nil {
		return nil, false, err
	}
	rewritten, err := NewJoinPlan(leftInput, rightInput, j.On(), j.Filter(),
		j.JoinType(), ast.JOIN_CONSTRAINT_ON, false)
	if err != nil {
		return nil, false, err
	}

	merged, err := jr.postJoinTimestampProjection(rewritten)
	if err != nil {
		return nil, false, err
	}

	// only non-instant (updating) joins have a TTL
	var ttl *time.Duration
	if !isInstant {
		d := time.Duration(jr.options.JoinStateTTL)
		ttl = &d
	}
	ext := NewExtensionPlan(NewStreamJoinExtension(merged, isInstant, ttl))
	conf.Log.Debugf("rewrote %s join into %s", j.JoinType(), ext.ExplainInfo())
	return ext, true, nil
}

// checkJoinWindowing classifies a join as instant (both sides share the
// same non-session window) or updating (neither side windowed, inner
// only). Everything else is rejected.
func (jr *JoinRewriter) checkJoinWindowing(j *JoinPlan) (bool, error) {
	leftWindow, err := jr.oracle.WindowOf(j.Left())
	if err != nil {
		return false, err
	}
	rightWindow, err := jr.oracle.WindowOf(j.Right())
	if err != nil {
		return false, err
	}
	switch {
	case leftWindow == nil && rightWindow == nil:
		if j.JoinType() == ast.INNER_JOIN {
			return false, nil
		}
		return false, errorx.NewPlanError(errorx.UnsupportedJoinShape,
			"can't handle non-inner joins without windows")
	case leftWindow == nil:
		return false, errorx.NewPlanError(errorx.UnsupportedJoinShape,
			"can't handle mixed windowing between left (non-windowed) and right (windowed)")
	case rightWindow == nil:
		return false, errorx.NewPlanError(errorx.UnsupportedJoinShape,
			"can't handle mixed windowing between left (windowed) and right (non-windowed)")
	case !leftWindow.Equal(rightWindow):
		return false, errorx.NewPlanError(errorx.UnsupportedJoinShape,
			"can't handle mixed windowing between left and right")
	case leftWindow.IsSession():
		return false, errorx.NewPlanError(errorx.UnsupportedJoinShape,
			"can't handle session windows in joins")
	default:
		return true, nil
	}
}

func checkUpdating(left, right LogicalPlan) error {
	if left.Schema().HasFieldNamed(UpdatingMetaField) {
		return errorx.NewPlanError(errorx.UnsupportedUpdatingInput,
			"can't handle updating left side of join")
	}
	if right.Schema().HasFieldNamed(UpdatingMetaField) {
		return errorx.NewPlanError(errorx.UnsupportedUpdatingInput,
			"can't handle updating right side of join")
	}
	return nil
}

// createJoinKeyPlan wraps one join input in a projection that prepends
// the key expressions as _key_{i} columns under the _arroyo qualifier,
// followed by every input column unchanged, and marks the result as a
// key calculation.
func (jr *JoinRewriter) createJoinKeyPlan(input LogicalPlan, keyExprs []ast.Expr, side string) (LogicalPlan, error) {
	in := input.Schema()
	fields := make([]ast.Field, 0, len(keyExprs)+in.Len())
	for i, e := range keyExprs {
		fields = append(fields, ast.Field{
			Expr:       e,
			StreamName: KeyQualifier,
			Name:       keyFieldName(i),
		})
	}
	for _, f := range in.Fields {
		fields = append(fields, ast.Field{
			Expr:       f.Ref(),
			StreamName: f.StreamName,
			Name:       f.Name,
		})
	}
	projection, err := NewProjectPlan(input, fields)
	if err != nil {
		return nil, err
	}
	keyIndices := make([]int, len(keyExprs))
	for i := range keyIndices {
		keyIndices[i] = i
	}
	return NewExtensionPlan(NewKeyCalculationExtension(projection, keyIndices, side, true)), nil
}

// postJoinTimestampProjection collapses the two inherited _timestamp
// columns of a joined schema into a single trailing one. The merged
// value is the larger of the two timestamps, preferring the non-NULL
// operand when only one side matched; this keeps the output event time
// an upper bound of both contributing rows so watermarks stay monotone.
func (jr *JoinRewriter) postJoinTimestampProjection(input LogicalPlan) (LogicalPlan, error) {
	joined := input.Schema()
	timestampFields := joined.FieldsNamed(TimestampField)
	if len(timestampFields) != 2 {
		return nil, errorx.NewPlanError(errorx.MalformedTimestamps,
			"join must have two timestamp fields, got %d", len(timestampFields))
	}

	outFields := make([]*schema.Field, 0, joined.Len()-1)
	fields := make([]ast.Field, 0, joined.Len()-1)
	for _, f := range joined.Fields {
		if f.Name == TimestampField {
			continue
		}
		outFields = append(outFields, f.Clone())
		fields = append(fields, ast.Field{
			Expr:       f.Ref(),
			StreamName: f.StreamName,
			Name:       f.Name,
		})
	}

	leftTs := timestampFields[0]
	rightTs := timestampFields[1]
	leftCol := leftTs.Ref()
	rightCol := rightTs.Ref()
	// CASE (left >= right) WHEN true THEN left WHEN false THEN right
	// ELSE coalesce(left, right) END. The else branch resolves the
	// comparisons NULL cannot decide.
	maxTimestamp := &ast.CaseExpr{
		Value: &ast.BinaryExpr{OP: ast.GTE, LHS: leftCol, RHS: rightCol},
		WhenClauses: []*ast.WhenClause{
			{Expr: &ast.BooleanLiteral{Val: true}, Result: leftCol},
			{Expr: &ast.BooleanLiteral{Val: false}, Result: rightCol},
		},
		ElseClause: &ast.Call{Name: "coalesce", Args: []ast.Expr{leftCol, rightCol}},
	}
	fields = append(fields, ast.Field{
		Expr:       maxTimestamp,
		StreamName: leftTs.StreamName,
		Name:       leftTs.Name,
	})
	outFields = append(outFields, leftTs.Clone())

	return NewProjectPlanWithSchema(input, fields, schema.New(outFields...))
}
