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

import (
	"fmt"
	"time"

	"github.com/streamwise-io/streamwise/pkg/ast"
)

// ValuerEval evaluates an expression against one or more valuers.
type ValuerEval struct {
	Valuer Valuer
}

// Eval evaluates an expression and returns a value. A nil result is the
// SQL NULL; errors are returned as error values.
func (v *ValuerEval) Eval(expr ast.Expr) interface{} {
	if expr == nil {
		return nil
	}
	switch expr := expr.(type) {
	case *ast.BinaryExpr:
		return v.evalBinaryExpr(expr)
	case *ast.IntegerLiteral:
		return expr.Val
	case *ast.NumberLiteral:
		return expr.Val
	case *ast.StringLiteral:
		return expr.Val
	case *ast.BooleanLiteral:
		return expr.Val
	case *ast.FieldRef:
		table := ""
		if expr.StreamName != "" && expr.StreamName != ast.DefaultStream {
			table = string(expr.StreamName)
		}
		val, _ := v.Valuer.Value(expr.Name, table)
		return val
	case *ast.Call:
		return v.evalCall(expr)
	case *ast.CaseExpr:
		return v.evalCase(expr)
	default:
		return fmt.Errorf("unsupported expression %v", expr)
	}
}

func (v *ValuerEval) evalBinaryExpr(expr *ast.BinaryExpr) interface{} {
	lhs := v.Eval(expr.LHS)
	if e, ok := lhs.(error); ok {
		return e
	}
	rhs := v.Eval(expr.RHS)
	if e, ok := rhs.(error); ok {
		return e
	}
	return simpleDataEval(lhs, rhs, expr.OP)
}

func (v *ValuerEval) evalCall(expr *ast.Call) interface{} {
	switch expr.Name {
	case "coalesce":
		for _, arg := range expr.Args {
			val := v.Eval(arg)
			if e, ok := val.(error); ok {
				return e
			}
			if val != nil {
				return val
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown function %s", expr.Name)
	}
}

func (v *ValuerEval) evalCase(expr *ast.CaseExpr) interface{} {
	if expr.Value != nil { // compare value to all when clause
		ev := v.Eval(expr.Value)
		if e, ok := ev.(error); ok {
			return e
		}
		for _, w := range expr.WhenClauses {
			wv := v.Eval(w.Expr)
			switch r := simpleDataEval(ev, wv, ast.EQ).(type) {
			case error:
				return fmt.Errorf("evaluate case expression error: %s", r)
			case bool:
				if r {
					return v.Eval(w.Result)
				}
			}
		}
	} else {
		for _, w := range expr.WhenClauses {
			switch r := v.Eval(w.Expr).(type) {
			case error:
				return fmt.Errorf("evaluate case expression error: %s", r)
			case bool:
				if r {
					return v.Eval(w.Result)
				}
			}
		}
	}
	if expr.ElseClause != nil {
		return v.Eval(expr.ElseClause)
	}
	return nil
}

// simpleDataEval compares or combines two scalar values. NULL operands
// propagate: any comparison against NULL is NULL, never false.
func simpleDataEval(lhs, rhs interface{}, op ast.Token) interface{} {
	if lhs == nil || rhs == nil {
		return nil
	}
	switch op {
	case ast.AND:
		lb, lok := lhs.(bool)
		rb, rok := rhs.(bool)
		if !lok || !rok {
			return fmt.Errorf("AND requires boolean operands, got %T and %T", lhs, rhs)
		}
		return lb && rb
	case ast.OR:
		lb, lok := lhs.(bool)
		rb, rok := rhs.(bool)
		if !lok || !rok {
			return fmt.Errorf("OR requires boolean operands, got %T and %T", lhs, rhs)
		}
		return lb || rb
	}
	cmp, err := compare(lhs, rhs)
	if err != nil {
		return err
	}
	switch op {
	case ast.EQ:
		return cmp == 0
	case ast.NEQ:
		return cmp != 0
	case ast.LT:
		return cmp < 0
	case ast.LTE:
		return cmp <= 0
	case ast.GT:
		return cmp > 0
	case ast.GTE:
		return cmp >= 0
	default:
		return fmt.Errorf("unsupported operator %s", op)
	}
}

func compare(lhs, rhs interface{}) (int, error) {
	switch l := lhs.(type) {
	case int:
		return compareFloat(float64(l), rhs)
	case int64:
		return compareFloat(float64(l), rhs)
	case float64:
		return compareFloat(l, rhs)
	case string:
		r, ok := rhs.(string)
		if !ok {
			return 0, fmt.Errorf("cannot compare string with %T", rhs)
		}
		switch {
		case l < r:
			return -1, nil
		case l > r:
			return 1, nil
		default:
			return 0, nil
		}
	case bool:
		r, ok := rhs.(bool)
		if !ok {
			return 0, fmt.Errorf("cannot compare bool with %T", rhs)
		}
		switch {
		case l == r:
			return 0, nil
		case l:
			return 1, nil
		default:
			return -1, nil
		}
	case time.Time:
		r, ok := rhs.(time.Time)
		if !ok {
			return 0, fmt.Errorf("cannot compare datetime with %T", rhs)
		}
		return l.Compare(r), nil
	default:
		return 0, fmt.Errorf("cannot compare %T with %T", lhs, rhs)
	}
}

func compareFloat(l float64, rhs interface{}) (int, error) {
	var r float64
	switch x := rhs.(type) {
	case int:
		r = float64(x)
	case int64:
		r = float64(x)
	case float64:
		r = x
	default:
		return 0, fmt.Errorf("cannot compare number with %T", rhs)
	}
	switch {
	case l < r:
		return -1, nil
	case l > r:
		return 1, nil
	default:
		return 0, nil
	}
}
