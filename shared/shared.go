package shared

import (
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"fmt"
	"math"
	"salon/shared/dto"
	"sort"
	"strings"
)

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return FilterEq(table, fieldID, id)
}

// FilterEq builds an AND group of equality filters from field/value pairs.
func FilterEq(table string, pairs ...any) dto.FilterGroup {
	group := dto.And()

	for i := 0; i+1 < len(pairs); i += 2 {
		field, _ := pairs[i].(string)
		group = group.Add(dto.Eq(table, field, pairs[i+1]))
	}

	return group
}

// BuildCacheKey joins a prefix and its parts with ":".
func BuildCacheKey(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}

	return prefix + ":" + strings.Join(parts, ":")
}

// BuildCacheKeyWithQuery derives a stable key from the paging params and the rendered filter.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	var builder strings.Builder

	fmt.Fprintf(&builder, "%d|%d|%s|%s|%s", params.Page, params.Limit, params.SortBy, params.SortDir, where)

	for _, k := range keys {
		fmt.Fprintf(&builder, "|%s=%v", k, args[k])
	}

	sum := sha1.Sum([]byte(builder.String())) //nolint:gosec

	return BuildCacheKey(prefix, hex.EncodeToString(sum[:]))
}

// FilterIn matches field against any of values. An empty list matches nothing.
func FilterIn(table, field string, values []string) dto.FilterGroup {
	return dto.And(dto.Filter{
		ArgName:  table + "_" + field,
		Field:    field,
		Value:    values,
		Operator: dto.FilterOperatorIn,
		Table:    table,
	})
}
