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
	"strings"

	"github.com/streamwise-io/streamwise/pkg/ast"
	"github.com/streamwise-io/streamwise/pkg/errorx"
	"github.com/streamwise-io/streamwise/pkg/schema"
)

// JoinPlan combines two inputs on ON-clause equalities plus an optional
// residual filter. Children are [left, right].
type JoinPlan struct {
	baseLogicalPlan
	on             []ast.OnPair
	filter         ast.Expr
	joinType       ast.JoinType
	joinConstraint ast.JoinConstraint
	nullEqualsNull bool
	schema         *schema.Schema
}

func (p JoinPlan) Init() *JoinPlan {
	p.baseLogicalPlan.self = &p
	return &p
}

// NewJoinPlan derives the join schema from the two input schemas and
// the join type.
func NewJoinPlan(left, right LogicalPlan, on []ast.OnPair, filter ast.Expr,
	joinType ast.JoinType, constraint ast.JoinConstraint, nullEqualsNull bool,
) (*JoinPlan, error) {
	s, err := schema.BuildJoinSchema(left.Schema(), right.Schema(), joinType)
	if err != nil {
		return nil, errorx.NewPlanError(errorx.UpstreamConstruction, "build join schema: %v", err)
	}
	p := JoinPlan{
		on:             on,
		filter:         filter,
		joinType:       joinType,
		joinConstraint: constraint,
		nullEqualsNull: nullEqualsNull,
		schema:         s,
	}.Init()
	p.SetChildren([]LogicalPlan{left, right})
	return p, nil
}

func (p *JoinPlan) Left() LogicalPlan {
	return p.children[0]
}

func (p *JoinPlan) Right() LogicalPlan {
	return p.children[1]
}

func (p *JoinPlan) On() []ast.OnPair {
	return p.on
}

func (p *JoinPlan) Filter() ast.Expr {
	return p.filter
}

func (p *JoinPlan) JoinType() ast.JoinType {
	return p.joinType
}

func (p *JoinPlan) JoinConstraint() ast.JoinConstraint {
	return p.joinConstraint
}

func (p *JoinPlan) NullEqualsNull() bool {
	return p.nullEqualsNull
}

func (p *JoinPlan) Schema() *schema.Schema {
	return p.schema
}

func (p *JoinPlan) ExplainInfo() string {
	conds := make([]string, 0, len(p.on))
	for _, pair := range p.on {
		conds = append(conds, pair.String())
	}
	info := "Join{ type:" + p.joinType.String() + ", on:[" + strings.Join(conds, " AND ") + "]"
	if p.filter != nil {
		info += ", filter:" + p.filter.String()
	}
	return info + " }"
}
