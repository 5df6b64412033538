package model_test

import (
	"encoding/json"
	"salon/shared/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    model.TimeOfDay
		wantErr bool
	}{
		{"hours and minutes", "09:30", model.NewTimeOfDay(9, 30), false},
		{"with seconds", "17:05:00", model.NewTimeOfDay(17, 5), false},
		{"padded", " 08:00 ", model.NewTimeOfDay(8, 0), false},
		{"midnight", "00:00", 0, false},
		{"garbage", "nine", 0, true},
		{"out of range", "25:00", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.ParseTimeOfDay(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidTimeOfDay)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDay_String(t *testing.T) {
	assert.Equal(t, "09:05", model.NewTimeOfDay(9, 5).String())
	assert.Equal(t, "23:59", model.NewTimeOfDay(23, 59).String())
	assert.Equal(t, "00:00", model.TimeOfDay(0).String())
}

func TestTimeOfDay_Value(t *testing.T) {
	value, err := model.NewTimeOfDay(9, 30).Value()
	require.NoError(t, err)
	assert.Equal(t, "09:30:00", value)

	_, err = model.TimeOfDay(25 * time.Hour).Value()
	assert.ErrorIs(t, err, model.ErrInvalidTimeOfDay)
}

func TestTimeOfDay_Scan(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    model.TimeOfDay
		wantErr bool
	}{
		{"time value from driver", time.Date(0, 1, 1, 10, 30, 0, 0, time.UTC), model.NewTimeOfDay(10, 30), false},
		{"bytes", []byte("11:00:00"), model.NewTimeOfDay(11, 0), false},
		{"string", "12:15", model.NewTimeOfDay(12, 15), false},
		{"unsupported", 42, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got model.TimeOfDay

			err := got.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDay_JSON(t *testing.T) {
	payload, err := json.Marshal(struct {
		Start model.TimeOfDay `json:"start"`
	}{model.NewTimeOfDay(9, 0)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"09:00"}`, string(payload))

	var decoded model.TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`"14:45"`), &decoded))
	assert.Equal(t, model.NewTimeOfDay(14, 45), decoded)

	assert.Error(t, json.Unmarshal([]byte(`14`), &decoded))
}
