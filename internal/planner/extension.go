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

import "github.com/streamwise-io/streamwise/pkg/schema"

// ExtensionNode is an implementer-defined node carried by an
// ExtensionPlan. Downstream passes dispatch on the concrete type.
type ExtensionNode interface {
	Name() string
	Input() LogicalPlan
	SetInput(input LogicalPlan)
	Schema() *schema.Schema
	ExplainInfo() string
}

// ExtensionPlan wraps an opaque extension node into the plan tree. The
// node's input is exposed as the single child so generic traversals
// descend into it.
type ExtensionPlan struct {
	baseLogicalPlan
	node ExtensionNode
}

func (p ExtensionPlan) Init() *ExtensionPlan {
	p.baseLogicalPlan.self = &p
	return &p
}

func NewExtensionPlan(node ExtensionNode) *ExtensionPlan {
	p := ExtensionPlan{node: node}.Init()
	p.baseLogicalPlan.children = []LogicalPlan{node.Input()}
	return p
}

func (p *ExtensionPlan) Node() ExtensionNode {
	return p.node
}

func (p *ExtensionPlan) SetChildren(children []LogicalPlan) {
	p.baseLogicalPlan.SetChildren(children)
	if len(children) == 1 {
		p.node.SetInput(children[0])
	}
}

func (p *ExtensionPlan) Schema() *schema.Schema {
	return p.node.Schema()
}

func (p *ExtensionPlan) ExplainInfo() string {
	return p.node.ExplainInfo()
}
