package shared_test

import (
	"salon/shared"
	"salon/shared/dto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{"zero total returns 1", 0, 10, 1},
		{"zero limit returns 1", 100, 0, 1},
		{"negative limit returns 1", 100, -5, 1},
		{"exact division", 100, 10, 10},
		{"division with remainder", 101, 10, 11},
		{"single item", 1, 10, 1},
		{"limit greater than total", 5, 10, 1},
		{"large numbers", 1000000, 7, 142858},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestFilterByID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		fieldID string
		table   string
		arg     string
	}{
		{"with table", "123", "id", "reservations", "reservations_id"},
		{"without table", "456", "id", "", "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group := shared.FilterByID(tt.id, tt.fieldID, tt.table)

			assert.Equal(t, dto.FilterGroupOperatorAnd, group.Operator)
			assert.Len(t, group.Filters, 1)

			filter, ok := group.Filters[0].(dto.Filter)
			assert.True(t, ok)
			assert.Equal(t, tt.fieldID, filter.Field)
			assert.Equal(t, tt.id, filter.Value)
			assert.Equal(t, dto.FilterOperatorEq, filter.Operator)
			assert.Equal(t, tt.table, filter.Table)
			assert.Equal(t, tt.arg, filter.ArgName)
		})
	}
}

func TestFilterEq(t *testing.T) {
	group := shared.FilterEq("reservations", "room_id", "r1", "reservation_date", "2025-01-06")

	where, args := group.GetWhereClause()

	assert.Equal(t,
		"(reservations.room_id = :reservations_room_id AND reservations.reservation_date = :reservations_reservation_date)",
		where)
	assert.Equal(t, map[string]any{
		"reservations_room_id":          "r1",
		"reservations_reservation_date": "2025-01-06",
	}, args)
}

func TestFilterEq_OddPairsIgnoresTrailingField(t *testing.T) {
	group := shared.FilterEq("clients", "user_id", "u1", "dangling")

	assert.Len(t, group.Filters, 1)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "catalog:providers", shared.BuildCacheKey("catalog:providers"))
	assert.Equal(t, "catalog:providers:svc-1", shared.BuildCacheKey("catalog:providers", "svc-1"))
	assert.Equal(t, "a:b:c", shared.BuildCacheKey("a", "b", "c"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}

	first := shared.BuildCacheKeyWithQuery("reservations", params, shared.FilterEq("reservations", "client_id", "c1"))
	again := shared.BuildCacheKeyWithQuery("reservations", params, shared.FilterEq("reservations", "client_id", "c1"))
	other := shared.BuildCacheKeyWithQuery("reservations", params, shared.FilterEq("reservations", "client_id", "c2"))
	nextPage := shared.BuildCacheKeyWithQuery("reservations", dto.QueryParams{Page: 2, Limit: 10},
		shared.FilterEq("reservations", "client_id", "c1"))

	assert.Equal(t, first, again)
	assert.NotEqual(t, first, other)
	assert.NotEqual(t, first, nextPage)
	assert.Contains(t, first, "reservations:")
}

func TestFilterIn(t *testing.T) {
	group := shared.FilterIn("rooms", "id", []string{"r1", "r2"})

	where, args := group.GetWhereClause()

	assert.Equal(t, "(rooms.id IN (:rooms_id_0, :rooms_id_1))", where)
	assert.Equal(t, map[string]any{"rooms_id_0": "r1", "rooms_id_1": "r2"}, args)

	where, args = shared.FilterIn("rooms", "id", nil).GetWhereClause()

	assert.Equal(t, "(1 = 0)", where)
	assert.Empty(t, args)
}
