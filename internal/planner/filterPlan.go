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
	"github.com/streamwise-io/streamwise/pkg/ast"
	"github.com/streamwise-io/streamwise/pkg/schema"
)

// FilterPlan drops rows not matching the condition; the schema passes
// through unchanged.
type FilterPlan struct {
	baseLogicalPlan
	condition ast.Expr
}

func (p FilterPlan) Init() *FilterPlan {
	p.baseLogicalPlan.self = &p
	return &p
}

func NewFilterPlan(child LogicalPlan, condition ast.Expr) *FilterPlan {
	p := FilterPlan{condition: condition}.Init()
	p.SetChildren([]LogicalPlan{child})
	return p
}

func (p *FilterPlan) Schema() *schema.Schema {
	return p.children[0].Schema()
}

func (p *FilterPlan) ExplainInfo() string {
	return "Filter{ condition:" + p.condition.String() + " }"
}
