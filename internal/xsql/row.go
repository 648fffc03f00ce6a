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

package xsql

// Valuer is the interface that wraps the Value() method.
type Valuer interface {
	// Value returns the value and existence flag for a given key and
	// the stream it is qualified with. An empty table matches any
	// stream.
	Value(key, table string) (interface{}, bool)
}

// Tuple is a row of a single stream.
type Tuple struct {
	Emitter string
	Message map[string]interface{}
}

func (t *Tuple) Value(key, table string) (interface{}, bool) {
	if table != "" && table != t.Emitter {
		return nil, false
	}
	v, ok := t.Message[key]
	return v, ok
}

// JoinTuple is a row merged from the two sides of a join. Unqualified
// lookups resolve left to right.
type JoinTuple struct {
	Tuples []*Tuple
}

func (jt *JoinTuple) AddTuple(t *Tuple) {
	jt.Tuples = append(jt.Tuples, t)
}

func (jt *JoinTuple) Value(key, table string) (interface{}, bool) {
	for _, t := range jt.Tuples {
		if v, ok := t.Value(key, table); ok {
			return v, ok
		}
	}
	return nil, false
}
