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

package schema

import (
	"fmt"
	"strings"

	"github.com/streamwise-io/streamwise/pkg/ast"
)

type DataType int

const (
	UNKNOWN DataType = iota
	BIGINT
	FLOAT
	STRINGS
	DATETIME
	BOOLEAN
)

var dataTypeNames = map[DataType]string{
	UNKNOWN:  "unknown",
	BIGINT:   "bigint",
	FLOAT:    "float",
	STRINGS:  "string",
	DATETIME: "datetime",
	BOOLEAN:  "boolean",
}

func (dt DataType) String() string {
	return dataTypeNames[dt]
}

// Field is one column of a plan schema, qualified by the stream it
// originates from.
type Field struct {
	StreamName ast.StreamName
	Name       string
	Type       DataType
	Nullable   bool
	Metadata   map[string]string
}

func (f *Field) Ref() *ast.FieldRef {
	return &ast.FieldRef{StreamName: f.StreamName, Name: f.Name}
}

func (f *Field) QualifiedName() string {
	if f.StreamName == "" || f.StreamName == ast.DefaultStream {
		return f.Name
	}
	return string(f.StreamName) + "." + f.Name
}

func (f *Field) Clone() *Field {
	nf := &Field{
		StreamName: f.StreamName,
		Name:       f.Name,
		Type:       f.Type,
		Nullable:   f.Nullable,
	}
	if f.Metadata != nil {
		nf.Metadata = make(map[string]string, len(f.Metadata))
		for k, v := range f.Metadata {
			nf.Metadata[k] = v
		}
	}
	return nf
}

func (f *Field) Equal(other *Field) bool {
	if f.StreamName != other.StreamName || f.Name != other.Name ||
		f.Type != other.Type || f.Nullable != other.Nullable {
		return false
	}
	if len(f.Metadata) != len(other.Metadata) {
		return false
	}
	for k, v := range f.Metadata {
		if ov, ok := other.Metadata[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Schema is the ordered column list a plan node exposes.
type Schema struct {
	Fields []*Field
}

func New(fields ...*Field) *Schema {
	return &Schema{Fields: fields}
}

func (s *Schema) Len() int {
	return len(s.Fields)
}

func (s *Schema) Clone() *Schema {
	fields := make([]*Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		fields = append(fields, f.Clone())
	}
	return &Schema{Fields: fields}
}

func (s *Schema) Equal(other *Schema) bool {
	if len(s.Fields) != len(other.Fields) {
		return false
	}
	for i, f := range s.Fields {
		if !f.Equal(other.Fields[i]) {
			return false
		}
	}
	return true
}

// HasFieldNamed reports whether any column carries the given
// unqualified name, regardless of its stream qualifier.
func (s *Schema) HasFieldNamed(name string) bool {
	for _, f := range s.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// FieldsNamed returns all columns with the given unqualified name in
// schema order.
func (s *Schema) FieldsNamed(name string) []*Field {
	var fields []*Field
	for _, f := range s.Fields {
		if f.Name == name {
			fields = append(fields, f)
		}
	}
	return fields
}

// Field resolves a qualified reference. An empty or default qualifier
// matches the first column with the name.
func (s *Schema) Field(streamName ast.StreamName, name string) (*Field, bool) {
	for _, f := range s.Fields {
		if f.Name != name {
			continue
		}
		if streamName == "" || streamName == ast.DefaultStream || f.StreamName == streamName {
			return f, true
		}
	}
	return nil, false
}

// Validate rejects schemas with duplicate qualified column names. Plan
// construction calls this on every derived schema.
func (s *Schema) Validate() error {
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		qn := f.QualifiedName()
		if seen[qn] {
			return fmt.Errorf("duplicate qualified field name %s", qn)
		}
		seen[qn] = true
	}
	return nil
}

func (s *Schema) String() string {
	cols := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		cols = append(cols, f.QualifiedName()+":"+f.Type.String())
	}
	return "[" + strings.Join(cols, ", ") + "]"
}

func nullableCopy(fields []*Field) []*Field {
	out := make([]*Field, 0, len(fields))
	for _, f := range fields {
		nf := f.Clone()
		nf.Nullable = true
		out = append(out, nf)
	}
	return out
}

func cloneFields(fields []*Field) []*Field {
	out := make([]*Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Clone())
	}
	return out
}

// BuildJoinSchema derives the output schema of a join from its two
// input schemas. Outer joins widen the nullability of the side that may
// not match; semi and anti joins expose a single side only.
func BuildJoinSchema(left, right *Schema, joinType ast.JoinType) (*Schema, error) {
	var fields []*Field
	switch joinType {
	case ast.INNER_JOIN:
		fields = append(cloneFields(left.Fields), cloneFields(right.Fields)...)
	case ast.LEFT_JOIN:
		fields = append(cloneFields(left.Fields), nullableCopy(right.Fields)...)
	case ast.RIGHT_JOIN:
		fields = append(nullableCopy(left.Fields), cloneFields(right.Fields)...)
	case ast.FULL_JOIN:
		fields = append(nullableCopy(left.Fields), nullableCopy(right.Fields)...)
	case ast.LEFT_SEMI_JOIN, ast.LEFT_ANTI_JOIN:
		fields = cloneFields(left.Fields)
	case ast.RIGHT_SEMI_JOIN, ast.RIGHT_ANTI_JOIN:
		fields = cloneFields(right.Fields)
	default:
		return nil, fmt.Errorf("unknown join type %d", joinType)
	}
	s := &Schema{Fields: fields}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
