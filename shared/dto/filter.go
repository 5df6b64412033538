package dto

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorLike      = "like"
	FilterOperatorIn        = "in"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreaterEq = "greater_eq"
	FilterPlainQuery        = "plain"
	FilterIsNotNull         = "is_not_null"
	FilterIsNull            = "is_null"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

// comparisons are the operators that bind a single named argument.
var comparisons = map[string]string{
	FilterOperatorEq:        "=",
	FilterOperatorNotEq:     "!=",
	FilterOperatorLessEq:    "<=",
	FilterOperatorGreaterEq: ">=",
}

// Clause renders a fragment of a WHERE clause with sqlx named arguments.
type Clause interface {
	GetWhereClause() (string, map[string]any)
}

type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq like in not_eq less_eq greater_eq plain is_null is_not_null"`
	Table    string
}

// Eq is the common case: table.field = value, with the argument named after both.
func Eq(table, field string, value any) Filter {
	return Filter{ArgName: argName(table, field), Field: field, Value: value, Operator: FilterOperatorEq, Table: table}
}

func argName(table, field string) string {
	if table == "" {
		return field
	}

	return table + "_" + field
}

func (f Filter) column() string {
	if f.Table == "" {
		return f.Field
	}

	return f.Table + "." + f.Field
}

func (f Filter) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	column := f.column()

	name := f.ArgName
	if name == "" {
		name = f.Field
	}

	if op, ok := comparisons[f.Operator]; ok {
		args[name] = f.Value

		return fmt.Sprintf("%s %s :%s", column, op, name), args
	}

	switch f.Operator {
	case FilterOperatorLike:
		args[name] = fmt.Sprintf("%%%v%%", f.Value)

		return fmt.Sprintf("LOWER(%s) LIKE LOWER(:%s)", column, name), args
	case FilterOperatorIn:
		val := reflect.ValueOf(f.Value)
		if val.Kind() != reflect.Slice && val.Kind() != reflect.Array {
			return fmt.Sprintf("%s IN (%v)", column, f.Value), args
		}

		if val.Len() == 0 {
			return "1 = 0", args
		}

		placeholders := make([]string, val.Len())

		for i := range val.Len() {
			key := fmt.Sprintf("%s_%d", name, i)
			args[key] = val.Index(i).Interface()
			placeholders[i] = ":" + key
		}

		return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")), args
	case FilterPlainQuery:
		query, _ := f.Value.(string)

		return "(" + query + ")", args
	case FilterIsNotNull:
		return column + " IS NOT NULL", args
	case FilterIsNull:
		return column + " IS NULL", args
	}

	return "", args
}

// FilterGroup joins its clauses with Operator. Groups nest.
type FilterGroup struct {
	Filters  []Clause
	Operator string
}

func And(clauses ...Clause) FilterGroup {
	return FilterGroup{Operator: FilterGroupOperatorAnd, Filters: clauses}
}

func (f FilterGroup) Add(clauses ...Clause) FilterGroup {
	f.Filters = append(f.Filters, clauses...)

	return f
}

func (f FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	parts := make([]string, 0, len(f.Filters))

	for _, clause := range f.Filters {
		if clause == nil {
			continue
		}

		where, arg := clause.GetWhereClause()
		if where == "" {
			continue
		}

		parts = append(parts, where)
		maps.Copy(args, arg)
	}

	if len(parts) == 0 {
		return "", args
	}

	operator := f.Operator
	if operator == "" {
		operator = FilterGroupOperatorAnd
	}

	return "(" + strings.Join(parts, " "+operator+" ") + ")", args
}
