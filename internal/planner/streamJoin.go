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

	"github.com/streamwise-io/streamwise/pkg/schema"
)

// StreamJoinExtension carries a rewritten join subtree for the
// streaming executor. An instant join releases state at window close;
// an updating join retains buffered rows for TTL.
type StreamJoinExtension struct {
	input     LogicalPlan
	isInstant bool
	// ttl is set iff the join is not instant
	ttl *time.Duration
}

func NewStreamJoinExtension(input LogicalPlan, isInstant bool, ttl *time.Duration) *StreamJoinExtension {
	return &StreamJoinExtension{input: input, isInstant: isInstant, ttl: ttl}
}

func (n *StreamJoinExtension) Name() string {
	return "StreamJoin"
}

func (n *StreamJoinExtension) Input() LogicalPlan {
	return n.input
}

func (n *StreamJoinExtension) SetInput(input LogicalPlan) {
	n.input = input
}

func (n *StreamJoinExtension) IsInstant() bool {
	return n.isInstant
}

func (n *StreamJoinExtension) TTL() *time.Duration {
	return n.ttl
}

func (n *StreamJoinExtension) Schema() *schema.Schema {
	return n.input.Schema()
}

func (n *StreamJoinExtension) ExplainInfo() string {
	if n.ttl != nil {
		return fmt.Sprintf("StreamJoin{ instant:%t, ttl:%v }", n.isInstant, *n.ttl)
	}
	return fmt.Sprintf("StreamJoin{ instant:%t }", n.isInstant)
}
