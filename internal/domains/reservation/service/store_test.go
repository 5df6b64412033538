package service_test

import (
	"context"
	"salon/infras/postgres"
	"salon/internal/domains/reservation/model"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	gModel "salon/shared/model"
	"salon/shared/timezone"
	"sort"
	"sync"
	"time"
)

// memStore is an in-memory reservation store. WithTx holds a single lock for the whole
// callback, which gives the same serialization the room row lock gives in Postgres.
type memStore struct {
	tx   sync.Mutex
	mu   sync.Mutex
	rows map[string]model.Reservation

	// insertErr and updateErr stand in for the driver rejecting a write.
	insertErr error
	updateErr error
	// replicaReads counts reads that could have gone to the read endpoint.
	replicaReads int
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]model.Reservation{}}
}

func (m *memStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.tx.Lock()
	defer m.tx.Unlock()

	m.mu.Lock()
	snapshot := make(map[string]model.Reservation, len(m.rows))
	for id, row := range m.rows {
		snapshot[id] = row
	}
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.rows = snapshot
		m.mu.Unlock()

		return err
	}

	return nil
}

func (m *memStore) Insert(_ context.Context, reservation model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.insertErr != nil {
		return m.insertErr
	}

	m.rows[reservation.ID] = reservation

	return nil
}

func (m *memStore) Get(ctx context.Context, filter gDto.FilterGroup, _ ...string) (model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.read(ctx)

	id, _ := filterValue(filter, model.FieldID)

	return m.rows[id.(string)], nil
}

func (m *memStore) Update(_ context.Context, req map[string]any, filter gDto.FilterGroup) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.updateErr != nil {
		return 0, m.updateErr
	}

	id, _ := filterValue(filter, model.FieldID)

	row, ok := m.rows[id.(string)]
	if !ok {
		return 0, nil
	}

	if status, ok := filterValue(filter, model.FieldStatus); ok && row.Status != status {
		return 0, nil
	}

	for field, value := range req {
		switch field {
		case model.FieldProviderID:
			row.ProviderID = value.(string)
		case model.FieldServiceID:
			row.ServiceID = value.(string)
		case model.FieldRoomID:
			row.RoomID = value.(string)
		case model.FieldDate:
			row.Date, _ = timezone.Parse(constant.DayFormat, value.(string))
		case model.FieldStartTime:
			row.StartTime = value.(gModel.TimeOfDay)
		case constant.FieldModifiedAt:
			row.ModifiedAt = value.(time.Time)
		case constant.FieldModifiedBy:
			row.ModifiedBy = value.(string)
		}
	}

	m.rows[row.ID] = row

	return 1, nil
}

func (m *memStore) Delete(_ context.Context, filter gDto.FilterGroup) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, _ := filterValue(filter, model.FieldID)
	if _, ok := m.rows[id.(string)]; !ok {
		return 0, nil
	}

	delete(m.rows, id.(string))

	return 1, nil
}

func (m *memStore) CountAtSlot(_ context.Context, roomID string, date time.Time, start gModel.TimeOfDay, excludeID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0

	for _, row := range m.rows {
		if row.ID == excludeID {
			continue
		}

		if row.RoomID == roomID && sameDay(row.Date, date) && row.StartTime == start {
			count++
		}
	}

	return count, nil
}

func (m *memStore) StartTimes(ctx context.Context, roomID string, date time.Time) ([]gModel.TimeOfDay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.read(ctx)

	starts := []gModel.TimeOfDay{}

	for _, row := range m.rows {
		if row.RoomID == roomID && sameDay(row.Date, date) {
			starts = append(starts, row.StartTime)
		}
	}

	return starts, nil
}

func (m *memStore) CompleteElapsed(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0

	for id, row := range m.rows {
		if row.Scheduled() && !timezone.At(row.Date, row.StartTime.Duration()).After(now) {
			row.Status = model.StatusCompleted
			m.rows[id] = row
			count++
		}
	}

	return count, nil
}

func (m *memStore) GetVisits(ctx context.Context, _ gDto.QueryParams, filter gDto.FilterGroup) ([]model.Visit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.read(ctx)

	visits := []model.Visit{}

	for _, row := range m.matching(filter) {
		visits = append(visits, model.Visit{
			ID:        row.ID,
			ClientID:  row.ClientID,
			Date:      row.Date,
			StartTime: row.StartTime,
			Status:    row.Status,
		})
	}

	return visits, nil
}

func (m *memStore) CountVisits(ctx context.Context, filter gDto.FilterGroup) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.read(ctx)

	return len(m.matching(filter)), nil
}

func (m *memStore) read(ctx context.Context) {
	if !postgres.ReadsPrimary(ctx) {
		m.replicaReads++
	}
}

func (m *memStore) matching(filter gDto.FilterGroup) []model.Reservation {
	clientID, byClient := filterValue(filter, model.FieldClientID)

	rows := []model.Reservation{}

	for _, row := range m.rows {
		if byClient && (row.ClientID == nil || *row.ClientID != clientID) {
			continue
		}

		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	return rows
}

func (m *memStore) all() []model.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.matching(gDto.FilterGroup{})
}

func filterValue(group gDto.FilterGroup, field string) (any, bool) {
	for _, f := range group.Filters {
		if filter, ok := f.(gDto.Filter); ok && filter.Field == field && filter.Operator == gDto.FilterOperatorEq {
			return filter.Value, true
		}
	}

	return nil, false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}
