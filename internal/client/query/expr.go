package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is a composable short-query expression rendered as Lua.
type Expr interface {
	String() string
}

// Cond compares a document field to a value. Field may be a dotted path.
type Cond struct {
	Field string
	Op    string
	Value any
}

// Where starts a condition on field.
func Where(field string) Field { return Field(field) }

// Field builds conditions on a document field.
type Field string

func (f Field) Eq(v any) Cond  { return Cond{Field: string(f), Op: "==", Value: v} }
func (f Field) Ne(v any) Cond  { return Cond{Field: string(f), Op: "~=", Value: v} }
func (f Field) Gt(v any) Cond  { return Cond{Field: string(f), Op: ">", Value: v} }
func (f Field) Gte(v any) Cond { return Cond{Field: string(f), Op: ">=", Value: v} }
func (f Field) Lt(v any) Cond  { return Cond{Field: string(f), Op: "<", Value: v} }
func (f Field) Lte(v any) Cond { return Cond{Field: string(f), Op: "<=", Value: v} }

func (c Cond) String() string {
	return fmt.Sprintf("doc.%s %s %s", c.Field, c.Op, luaValue(c.Value))
}

type logical struct {
	op    string
	exprs []Expr
}

// And matches when every expression matches.
func And(exprs ...Expr) Expr { return logical{op: "and", exprs: exprs} }

// Or matches when any expression matches.
func Or(exprs ...Expr) Expr { return logical{op: "or", exprs: exprs} }

func (l logical) String() string {
	parts := make([]string, 0, len(l.exprs))
	for _, e := range l.exprs {
		parts = append(parts, e.String())
	}
	return "(" + strings.Join(parts, " "+l.op+" ") + ")"
}

type not struct {
	expr Expr
}

// Not negates e.
func Not(e Expr) Expr { return not{expr: e} }

func (n not) String() string {
	return "not (" + n.expr.String() + ")"
}

func luaValue(v any) string {
	switch value := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(value)
	case bool:
		return strconv.FormatBool(value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case fmt.Stringer:
		return strconv.Quote(value.String())
	default:
		return fmt.Sprint(value)
	}
}
