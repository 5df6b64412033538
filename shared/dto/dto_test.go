package dto_test

import (
	"net/http/httptest"
	"salon/shared/constant"
	"salon/shared/dto"
	"salon/shared/model"
	"salon/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	created := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

	t.Run("never modified", func(t *testing.T) {
		var metadata dto.Metadata

		metadata.FromModel(model.Metadata{CreatedAt: created, CreatedBy: "staff-1"})

		assert.Equal(t, timezone.Format(created, constant.DateFormat), metadata.CreatedAt)
		assert.Equal(t, "staff-1", metadata.CreatedBy)
		assert.Empty(t, metadata.ModifiedAt)
		assert.Empty(t, metadata.ModifiedBy)
	})

	t.Run("modified", func(t *testing.T) {
		var metadata dto.Metadata

		metadata.FromModel(model.Metadata{
			CreatedAt:  created,
			CreatedBy:  "staff-1",
			ModifiedAt: created.Add(time.Hour),
			ModifiedBy: "client-1",
		})

		assert.Equal(t, timezone.Format(created.Add(time.Hour), constant.DateFormat), metadata.ModifiedAt)
		assert.Equal(t, "client-1", metadata.ModifiedBy)
	})
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		withDefaults bool
		expected     dto.QueryParams
	}{
		{
			name:     "all parameters",
			query:    "?page=2&limit=20&sort_by=name&sort_dir=asc",
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "name", SortDir: dto.SortDirAsc},
		},
		{
			name:         "defaults",
			withDefaults: true,
			expected:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "no defaults",
			expected: dto.QueryParams{},
		},
		{
			name:         "garbage page and limit",
			query:        "?page=abc&limit=-10",
			withDefaults: true,
			expected:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:         "zero page",
			query:        "?page=0&limit=5",
			withDefaults: true,
			expected:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: 5},
		},
		{
			name:     "unknown sort direction is ignored",
			query:    "?sort_by=capacity&sort_dir=sideways",
			expected: dto.QueryParams{SortBy: "capacity"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var params dto.QueryParams

			params.FromRequest(httptest.NewRequest("GET", "/v1/rooms/"+tt.query, nil), tt.withDefaults)

			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestQueryParams_RestrictSort(t *testing.T) {
	tests := []struct {
		name   string
		sortBy string
		want   string
	}{
		{name: "allowed column kept", sortBy: "name", want: "name"},
		{name: "unknown column dropped", sortBy: "name; DROP TABLE rooms", want: ""},
		{name: "empty stays empty", sortBy: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := dto.QueryParams{SortBy: tt.sortBy, SortDir: dto.SortDirAsc}
			q.RestrictSort("name", "capacity")

			assert.Equal(t, tt.want, q.SortBy)
		})
	}
}

func TestQueryParams_WindowAndOrdering(t *testing.T) {
	tests := []struct {
		name       string
		params     dto.QueryParams
		wantLimit  int
		wantOffset int
		wantOrder  string
	}{
		{name: "unbounded", params: dto.QueryParams{}, wantOrder: ""},
		{name: "first page", params: dto.QueryParams{Page: 1, Limit: 10}, wantLimit: 10},
		{name: "third page", params: dto.QueryParams{Page: 3, Limit: 10}, wantLimit: 10, wantOffset: 20},
		{name: "limit without page", params: dto.QueryParams{Limit: 5}, wantLimit: 5},
		{name: "sort defaults to ascending", params: dto.QueryParams{SortBy: "name"}, wantOrder: "ORDER BY name ASC"},
		{name: "descending", params: dto.QueryParams{SortBy: "created_at", SortDir: dto.SortDirDesc}, wantOrder: "ORDER BY created_at DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := tt.params.Window()

			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantOrder, tt.params.Ordering())
		})
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "equality",
			filter:    dto.Eq("reservations", "status", "scheduled"),
			wantWhere: "reservations.status = :reservations_status",
			wantArgs:  map[string]any{"reservations_status": "scheduled"},
		},
		{
			name:      "not equal",
			filter:    dto.Filter{ArgName: "exclude_id", Field: "id", Value: "r1", Operator: dto.FilterOperatorNotEq, Table: "reservations"},
			wantWhere: "reservations.id != :exclude_id",
			wantArgs:  map[string]any{"exclude_id": "r1"},
		},
		{
			name:      "like",
			filter:    dto.Filter{Field: "name", Value: "Hall", Operator: dto.FilterOperatorLike, Table: "rooms"},
			wantWhere: "LOWER(rooms.name) LIKE LOWER(:name)",
			wantArgs:  map[string]any{"name": "%Hall%"},
		},
		{
			name:      "in",
			filter:    dto.Filter{ArgName: "ids", Field: "id", Value: []string{"a", "b"}, Operator: dto.FilterOperatorIn},
			wantWhere: "id IN (:ids_0, :ids_1)",
			wantArgs:  map[string]any{"ids_0": "a", "ids_1": "b"},
		},
		{
			name:      "empty in matches nothing",
			filter:    dto.Filter{Field: "id", Value: []string{}, Operator: dto.FilterOperatorIn},
			wantWhere: "1 = 0",
			wantArgs:  map[string]any{},
		},
		{
			name:      "plain query",
			filter:    dto.Filter{Operator: dto.FilterPlainQuery, Value: "reservation_date + start_time <= now()"},
			wantWhere: "(reservation_date + start_time <= now())",
			wantArgs:  map[string]any{},
		},
		{
			name:      "is null",
			filter:    dto.Filter{Field: "client_id", Operator: dto.FilterIsNull, Table: "reservations"},
			wantWhere: "reservations.client_id IS NULL",
			wantArgs:  map[string]any{},
		},
		{
			name:      "unknown operator renders nothing",
			filter:    dto.Filter{Field: "id", Operator: "between"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	slot := dto.And(
		dto.Eq("reservations", "room_id", "r1"),
		dto.FilterGroup{
			Operator: dto.FilterGroupOperatorOr,
			Filters: []dto.Clause{
				dto.Eq("reservations", "status", "scheduled"),
				dto.Filter{Field: "client_id", Operator: dto.FilterIsNull, Table: "reservations"},
			},
		},
		dto.Filter{Field: "id", Operator: "between"},
	)

	where, args := slot.GetWhereClause()

	assert.Equal(t,
		"(reservations.room_id = :reservations_room_id AND (reservations.status = :reservations_status OR reservations.client_id IS NULL))",
		where)
	assert.Equal(t, map[string]any{"reservations_room_id": "r1", "reservations_status": "scheduled"}, args)

	where, args = dto.And().GetWhereClause()
	assert.Empty(t, where)
	assert.Empty(t, args)
}
