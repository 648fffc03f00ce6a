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
	"strings"

	"github.com/streamwise-io/streamwise/pkg/ast"
	"github.com/streamwise-io/streamwise/pkg/errorx"
	"github.com/streamwise-io/streamwise/pkg/schema"
)

// ProjectPlan computes one output column per field expression.
type ProjectPlan struct {
	baseLogicalPlan
	fields []ast.Field
	schema *schema.Schema
}

func (p ProjectPlan) Init() *ProjectPlan {
	p.baseLogicalPlan.self = &p
	return &p
}

// NewProjectPlan derives the output schema from the field expressions.
// Column references must resolve against the child schema; references
// keep the type, nullability and metadata of the resolved column.
func NewProjectPlan(child LogicalPlan, fields []ast.Field) (*ProjectPlan, error) {
	in := child.Schema()
	out := make([]*schema.Field, 0, len(fields))
	for i := range fields {
		f, err := inferField(in, &fields[i])
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	s := schema.New(out...)
	if err := s.Validate(); err != nil {
		return nil, errorx.NewPlanError(errorx.UpstreamConstruction, "build projection: %v", err)
	}
	p := ProjectPlan{fields: fields, schema: s}.Init()
	p.SetChildren([]LogicalPlan{child})
	return p, nil
}

// NewProjectPlanWithSchema uses the given output schema instead of
// deriving one. The caller owns schema correctness; only arity and
// duplicate names are checked.
func NewProjectPlanWithSchema(child LogicalPlan, fields []ast.Field, s *schema.Schema) (*ProjectPlan, error) {
	if len(fields) != s.Len() {
		return nil, errorx.NewPlanError(errorx.UpstreamConstruction,
			"build projection: %d expressions for %d schema columns", len(fields), s.Len())
	}
	if err := s.Validate(); err != nil {
		return nil, errorx.NewPlanError(errorx.UpstreamConstruction, "build projection: %v", err)
	}
	p := ProjectPlan{fields: fields, schema: s}.Init()
	p.SetChildren([]LogicalPlan{child})
	return p, nil
}

func (p *ProjectPlan) Schema() *schema.Schema {
	return p.schema
}

func (p *ProjectPlan) Fields() []ast.Field {
	return p.fields
}

func (p *ProjectPlan) ExplainInfo() string {
	cols := make([]string, 0, len(p.fields))
	for i := range p.fields {
		cols = append(cols, p.fields[i].String())
	}
	return "Project{ fields:[" + strings.Join(cols, ", ") + "] }"
}

func inferField(in *schema.Schema, f *ast.Field) (*schema.Field, error) {
	if fr, ok := f.Expr.(*ast.FieldRef); ok {
		src, found := in.Field(fr.StreamName, fr.Name)
		if !found {
			return nil, errorx.NewPlanError(errorx.UpstreamConstruction,
				"build projection: field %s not found in input schema", fr.String())
		}
		out := src.Clone()
		out.StreamName = f.StreamName
		out.Name = f.Name
		return out, nil
	}
	return &schema.Field{
		StreamName: f.StreamName,
		Name:       f.Name,
		Type:       inferType(in, f.Expr),
		Nullable:   true,
	}, nil
}

func inferType(in *schema.Schema, e ast.Expr) schema.DataType {
	switch e := e.(type) {
	case *ast.FieldRef:
		if src, found := in.Field(e.StreamName, e.Name); found {
			return src.Type
		}
		return schema.UNKNOWN
	case *ast.IntegerLiteral:
		return schema.BIGINT
	case *ast.NumberLiteral:
		return schema.FLOAT
	case *ast.StringLiteral:
		return schema.STRINGS
	case *ast.BooleanLiteral:
		return schema.BOOLEAN
	case *ast.BinaryExpr:
		if e.OP.IsOperator() {
			return schema.BOOLEAN
		}
		return schema.UNKNOWN
	case *ast.CaseExpr:
		if len(e.WhenClauses) > 0 {
			return inferType(in, e.WhenClauses[0].Result)
		}
		return schema.UNKNOWN
	case *ast.Call:
		if len(e.Args) > 0 {
			return inferType(in, e.Args[0])
		}
		return schema.UNKNOWN
	default:
		return schema.UNKNOWN
	}
}
