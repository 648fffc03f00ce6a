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

// transformUp rewrites a plan bottom-up: children first, then the node
// itself through fn. fn reports whether it replaced the node; the
// second return aggregates over the whole subtree. A subtree for which
// prune reports true is returned untouched, fn included.
func transformUp(p LogicalPlan, prune func(LogicalPlan) bool, fn func(LogicalPlan) (LogicalPlan, bool, error)) (LogicalPlan, bool, error) {
	if prune != nil && prune(p) {
		return p, false, nil
	}
	children := p.Children()
	changed := false
	if len(children) > 0 {
		newChildren := make([]LogicalPlan, 0, len(children))
		for _, child := range children {
			nc, c, err := transformUp(child, prune, fn)
			if err != nil {
				return nil, false, err
			}
			changed = changed || c
			newChildren = append(newChildren, nc)
		}
		if changed {
			p.SetChildren(newChildren)
		}
	}
	np, c, err := fn(p)
	if err != nil {
		return nil, false, err
	}
	return np, changed || c, nil
}
