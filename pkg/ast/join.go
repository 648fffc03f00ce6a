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

package ast

type JoinType int

const (
	LEFT_JOIN JoinType = iota
	INNER_JOIN
	RIGHT_JOIN
	FULL_JOIN
	LEFT_SEMI_JOIN
	RIGHT_SEMI_JOIN
	LEFT_ANTI_JOIN
	RIGHT_ANTI_JOIN
)

var joinTypeNames = map[JoinType]string{
	LEFT_JOIN:       "left",
	INNER_JOIN:      "inner",
	RIGHT_JOIN:      "right",
	FULL_JOIN:       "full",
	LEFT_SEMI_JOIN:  "left semi",
	RIGHT_SEMI_JOIN: "right semi",
	LEFT_ANTI_JOIN:  "left anti",
	RIGHT_ANTI_JOIN: "right anti",
}

func (jt JoinType) String() string {
	return joinTypeNames[jt]
}

type JoinConstraint int

const (
	JOIN_CONSTRAINT_ON JoinConstraint = iota
	JOIN_CONSTRAINT_USING
	JOIN_CONSTRAINT_NONE
)

func (jc JoinConstraint) String() string {
	switch jc {
	case JOIN_CONSTRAINT_ON:
		return "on"
	case JOIN_CONSTRAINT_USING:
		return "using"
	default:
		return "none"
	}
}

// OnPair is one equality of the ON clause: left expression over the left
// input, right expression over the right input. The pair order is
// significant; key columns are materialized in this order.
type OnPair struct {
	Left  Expr
	Right Expr
}

func (op OnPair) String() string {
	return op.Left.String() + " = " + op.Right.String()
}
