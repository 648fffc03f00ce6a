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

	"github.com/streamwise-io/streamwise/pkg/schema"
)

// KeyCalculationExtension marks a projection whose leading columns are
// materialized join keys. KeyIndices are positions into the projection
// output; the executor partitions the stream by these columns.
//
// When trimmed, the key columns stay physically materialized but are
// hidden from the schema this node reports upward, so schema inference
// above the join never sees the synthetic _key columns.
type KeyCalculationExtension struct {
	input      LogicalPlan
	keyIndices []int
	// side is "left" or "right", for diagnostics only
	side    string
	trimmed bool
	schema  *schema.Schema
}

func NewKeyCalculationExtension(input LogicalPlan, keyIndices []int, side string, trimmed bool) *KeyCalculationExtension {
	n := &KeyCalculationExtension{
		input:      input,
		keyIndices: keyIndices,
		side:       side,
		trimmed:    trimmed,
	}
	n.computeSchema()
	return n
}

func (n *KeyCalculationExtension) Name() string {
	return "KeyCalculation"
}

func (n *KeyCalculationExtension) Input() LogicalPlan {
	return n.input
}

func (n *KeyCalculationExtension) SetInput(input LogicalPlan) {
	n.input = input
	n.computeSchema()
}

func (n *KeyCalculationExtension) KeyIndices() []int {
	return n.keyIndices
}

func (n *KeyCalculationExtension) Side() string {
	return n.side
}

func (n *KeyCalculationExtension) Trimmed() bool {
	return n.trimmed
}

func (n *KeyCalculationExtension) Schema() *schema.Schema {
	return n.schema
}

func (n *KeyCalculationExtension) computeSchema() {
	in := n.input.Schema()
	if !n.trimmed {
		n.schema = in
		return
	}
	keys := make(map[int]bool, len(n.keyIndices))
	for _, i := range n.keyIndices {
		keys[i] = true
	}
	fields := make([]*schema.Field, 0, in.Len()-len(keys))
	for i, f := range in.Fields {
		if keys[i] {
			continue
		}
		fields = append(fields, f.Clone())
	}
	n.schema = schema.New(fields...)
}

func (n *KeyCalculationExtension) ExplainInfo() string {
	return fmt.Sprintf("KeyCalculation{ side:%s, keys:%v, trimmed:%t }", n.side, n.keyIndices, n.trimmed)
}
