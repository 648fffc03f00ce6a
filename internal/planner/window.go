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
	"time"
)

type WindowType int

const (
	TUMBLING_WINDOW WindowType = iota
	SLIDING_WINDOW
	SESSION_WINDOW
)

var windowTypeNames = map[WindowType]string{
	TUMBLING_WINDOW: "tumbling",
	SLIDING_WINDOW:  "sliding",
	SESSION_WINDOW:  "session",
}

func (wt WindowType) String() string {
	return windowTypeNames[wt]
}

// WindowDescriptor identifies the window a subplan's rows are grouped
// by. Two subplans may only be joined instantly when their descriptors
// are equal.
type WindowDescriptor struct {
	Type WindowType
	// Length is the window size; Interval the slide for sliding
	// windows; Gap the inactivity gap for session windows.
	Length   time.Duration
	Interval time.Duration
	Gap      time.Duration
}

func (w *WindowDescriptor) IsSession() bool {
	return w.Type == SESSION_WINDOW
}

func (w *WindowDescriptor) Equal(other *WindowDescriptor) bool {
	if w == nil || other == nil {
		return w == other
	}
	return *w == *other
}

func (w *WindowDescriptor) String() string {
	switch w.Type {
	case SLIDING_WINDOW:
		return fmt.Sprintf("sliding(%v, %v)", w.Length, w.Interval)
	case SESSION_WINDOW:
		return fmt.Sprintf("session(%v)", w.Gap)
	default:
		return fmt.Sprintf("tumbling(%v)", w.Length)
	}
}

// TumblingWindow returns the descriptor of a tumbling window of the
// given size.
func TumblingWindow(length time.Duration) *WindowDescriptor {
	return &WindowDescriptor{Type: TUMBLING_WINDOW, Length: length}
}

func SlidingWindow(length, interval time.Duration) *WindowDescriptor {
	return &WindowDescriptor{Type: SLIDING_WINDOW, Length: length, Interval: interval}
}

func SessionWindow(gap time.Duration) *WindowDescriptor {
	return &WindowDescriptor{Type: SESSION_WINDOW, Gap: gap}
}
