package httpx_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivaahaverse/vivaah/internal/http/httpx"
)

func TestDate_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{name: "DateOnly", in: `"2024-06-01"`, want: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{name: "RFC3339", in: `"2024-06-01T18:30:00+05:30"`, want: time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC)},
		{name: "EpochMillis", in: `1717200000000`, want: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Null", in: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d httpx.Date
			require.NoError(t, json.Unmarshal([]byte(tt.in), &d))
			assert.True(t, tt.want.Equal(d.Time), "got %v", d.Time)
		})
	}
}

func TestDate_RFC3339KeepsLocalDay(t *testing.T) {
	var d httpx.Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-06-01T00:30:00+05:30"`), &d))

	assert.Equal(t, 1, d.Day())
}

func TestDate_UnmarshalInvalid(t *testing.T) {
	var d httpx.Date

	assert.Error(t, json.Unmarshal([]byte(`"01/06/2024"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`true`), &d))
}

func TestDate_Marshal(t *testing.T) {
	b, err := json.Marshal(struct {
		Start httpx.Date `json:"start"`
		End   httpx.Date `json:"end"`
	}{Start: httpx.Date{Time: time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC)}})
	require.NoError(t, err)

	assert.JSONEq(t, `{"start":"2024-06-01","end":null}`, string(b))
}
