package storage

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want string
	}{
		{"time", time.Date(2024, 1, 31, 17, 45, 0, 0, time.UTC), "2024-01-31"},
		{"bytes", []byte("2024-02-29"), "2024-02-29"},
		{"string", "2023-12-01", "2023-12-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestDate_ScanNull(t *testing.T) {
	d := NewDate(2024, 1, 1)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
}

func TestDate_ScanUnsupported(t *testing.T) {
	var d Date
	assert.Error(t, d.Scan(42))
}

func TestDate_UnmarshalJSON(t *testing.T) {
	var v struct {
		Day Date `json:"day"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"day":"2024-03-05"}`), &v))
	assert.Equal(t, "2024-03-05", v.Day.String())

	require.NoError(t, json.Unmarshal([]byte(`{"day":"2024-03-05T10:00:00Z"}`), &v))
	assert.Equal(t, "2024-03-05", v.Day.String())

	assert.Error(t, json.Unmarshal([]byte(`{"day":"05.03.2024"}`), &v))
}
