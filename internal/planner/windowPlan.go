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

// WindowPlan assigns rows of its input to time windows. The schema
// passes through; downstream operators learn the window shape via the
// window oracle.
type WindowPlan struct {
	baseLogicalPlan
	window *WindowDescriptor
}

func (p WindowPlan) Init() *WindowPlan {
	p.baseLogicalPlan.self = &p
	return &p
}

func NewWindowPlan(child LogicalPlan, window *WindowDescriptor) *WindowPlan {
	p := WindowPlan{window: window}.Init()
	p.SetChildren([]LogicalPlan{child})
	return p
}

func (p *WindowPlan) Window() *WindowDescriptor {
	return p.window
}

func (p *WindowPlan) Schema() *schema.Schema {
	return p.children[0].Schema()
}

func (p *WindowPlan) ExplainInfo() string {
	return "Window{ window:" + p.window.String() + " }"
}
