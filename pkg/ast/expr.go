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

import (
	"fmt"
	"strings"
)

type Node interface {
	node()
}

type Expr interface {
	Node
	expr()
	String() string
}

type Literal interface {
	Expr
	literal()
}

type StreamName string

func (sn *StreamName) node() {}

const DefaultStream = StreamName("$$default")

type BooleanLiteral struct {
	Val bool
}

type IntegerLiteral struct {
	Val int64
}

type NumberLiteral struct {
	Val float64
}

type StringLiteral struct {
	Val string
}

func (bl *BooleanLiteral) expr()    {}
func (bl *BooleanLiteral) literal() {}
func (bl *BooleanLiteral) node()    {}
func (bl *BooleanLiteral) String() string {
	return fmt.Sprintf("%t", bl.Val)
}

func (il *IntegerLiteral) expr()    {}
func (il *IntegerLiteral) literal() {}
func (il *IntegerLiteral) node()    {}
func (il *IntegerLiteral) String() string {
	return fmt.Sprintf("%d", il.Val)
}

func (nl *NumberLiteral) expr()    {}
func (nl *NumberLiteral) literal() {}
func (nl *NumberLiteral) node()    {}
func (nl *NumberLiteral) String() string {
	return fmt.Sprintf("%v", nl.Val)
}

func (sl *StringLiteral) expr()    {}
func (sl *StringLiteral) literal() {}
func (sl *StringLiteral) node()    {}
func (sl *StringLiteral) String() string {
	return sl.Val
}

// FieldRef is a reference to a column of a stream. StreamName is the
// qualifier; DefaultStream means the reference was not qualified and
// resolves against whichever input carries the name.
type FieldRef struct {
	StreamName StreamName
	Name       string
}

func (fr *FieldRef) expr() {}
func (fr *FieldRef) node() {}
func (fr *FieldRef) String() string {
	if fr.StreamName == "" || fr.StreamName == DefaultStream {
		return fr.Name
	}
	return string(fr.StreamName) + "." + fr.Name
}

type BinaryExpr struct {
	OP  Token
	LHS Expr
	RHS Expr
}

func (be *BinaryExpr) expr() {}
func (be *BinaryExpr) node() {}
func (be *BinaryExpr) String() string {
	return be.LHS.String() + " " + be.OP.String() + " " + be.RHS.String()
}

type WhenClause struct {
	// The condition expression
	Expr   Expr
	Result Expr
}

func (w *WhenClause) expr() {}
func (w *WhenClause) node() {}
func (w *WhenClause) String() string {
	return "WHEN " + w.Expr.String() + " THEN " + w.Result.String()
}

type CaseExpr struct {
	// The compare value expression. It can be a value expression or nil.
	// When it is nil, the WhenClause Expr must be a logical(comparison) expression
	Value       Expr
	WhenClauses []*WhenClause
	ElseClause  Expr
}

func (c *CaseExpr) expr() {}
func (c *CaseExpr) node() {}
func (c *CaseExpr) String() string {
	sb := strings.Builder{}
	sb.WriteString("CASE")
	if c.Value != nil {
		sb.WriteString(" " + c.Value.String())
	}
	for _, w := range c.WhenClauses {
		sb.WriteString(" " + w.String())
	}
	if c.ElseClause != nil {
		sb.WriteString(" ELSE " + c.ElseClause.String())
	}
	sb.WriteString(" END")
	return sb.String()
}

type Call struct {
	Name string
	Args []Expr
}

func (c *Call) expr()    {}
func (c *Call) literal() {}
func (c *Call) node()    {}
func (c *Call) String() string {
	args := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		args = append(args, a.String())
	}
	return c.Name + "(" + strings.Join(args, ", ") + ")"
}

// Field is one output column of a projection: an expression together
// with the qualified name it is exposed under. StreamName may be empty
// for unqualified output columns.
type Field struct {
	Expr       Expr
	StreamName StreamName
	Name       string
}

func (f *Field) node() {}
func (f *Field) String() string {
	n := f.Name
	if f.StreamName != "" && f.StreamName != DefaultStream {
		n = string(f.StreamName) + "." + n
	}
	if fr, ok := f.Expr.(*FieldRef); ok && fr.StreamName == f.StreamName && fr.Name == f.Name {
		return n
	}
	return f.Expr.String() + " AS " + n
}
