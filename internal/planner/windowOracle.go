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

import "github.com/streamwise-io/streamwise/pkg/errorx"

// WindowOracle reports the window a subplan's output is grouped by, or
// nil for unwindowed subplans. Implementations must be deterministic.
type WindowOracle interface {
	WindowOf(p LogicalPlan) (*WindowDescriptor, error)
}

// windowDetector is the default oracle. It finds the nearest window
// assignment below the given plan, looking through filters, projections
// and extension wrappers. A stream-join extension reports the window of
// its rewritten inner plan, so nested joins classify against the
// rewritten child rather than the raw join it replaced.
type windowDetector struct{}

func DefaultWindowOracle() WindowOracle {
	return &windowDetector{}
}

func (d *windowDetector) WindowOf(p LogicalPlan) (*WindowDescriptor, error) {
	switch p := p.(type) {
	case *WindowPlan:
		return p.Window(), nil
	case *DataSourcePlan:
		return nil, nil
	case *JoinPlan:
		// A bare join only has a well-defined window when both inputs
		// agree, so inspect both rather than trusting the left side.
		leftWindow, err := d.WindowOf(p.Left())
		if err != nil {
			return nil, err
		}
		rightWindow, err := d.WindowOf(p.Right())
		if err != nil {
			return nil, err
		}
		if (leftWindow == nil) != (rightWindow == nil) ||
			(leftWindow != nil && !leftWindow.Equal(rightWindow)) {
			return nil, errorx.NewPlanError(errorx.UnsupportedJoinShape,
				"can't handle mixed windowing between join inputs")
		}
		return leftWindow, nil
	default:
		children := p.Children()
		if len(children) == 0 {
			return nil, nil
		}
		return d.WindowOf(children[0])
	}
}
