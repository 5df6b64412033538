package dto

import (
	"net/http"
	"salon/shared/constant"
	"slices"
	"strconv"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

// QueryParams carries paging and ordering for list endpoints. SortBy is rendered into ORDER BY
// verbatim, so handlers must pass it through RestrictSort before use.
type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest reads page, limit, sort_by and sort_dir. With withDefaults, a missing or
// non-positive page or limit falls back to the package defaults.
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	values := r.URL.Query()

	q.Page = positive(values.Get(constant.RequestParamPage), q.Page)
	q.Limit = positive(values.Get(constant.RequestParamLimit), q.Limit)

	if sortBy := values.Get(constant.RequestParamSortBy); sortBy != "" {
		q.SortBy = sortBy
	}

	if dir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); dir == SortDirAsc || dir == SortDirDesc {
		q.SortDir = dir
	}

	if !withDefaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

func positive(raw string, fallback int) int {
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}

	return fallback
}

// RestrictSort drops SortBy unless it is one of the allowed columns.
func (q *QueryParams) RestrictSort(allowed ...string) {
	if q.SortBy != "" && !slices.Contains(allowed, q.SortBy) {
		q.SortBy = ""
	}
}

// Window returns the LIMIT and OFFSET to apply. A zero limit means unbounded.
func (q QueryParams) Window() (limit, offset int) {
	if q.Limit <= 0 {
		return 0, 0
	}

	if q.Page > 1 {
		offset = (q.Page - 1) * q.Limit
	}

	return q.Limit, offset
}

// Ordering renders the ORDER BY clause, or "" when no sort column is set.
func (q QueryParams) Ordering() string {
	if q.SortBy == "" {
		return ""
	}

	dir := q.SortDir
	if dir != SortDirDesc {
		dir = SortDirAsc
	}

	return "ORDER BY " + q.SortBy + " " + dir
}
