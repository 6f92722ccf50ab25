package entry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationOpenEntryMeasuresToNow(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	e := New("work", start, "build")

	assert.True(t, e.Open())
	assert.Equal(t, 90*time.Minute, e.Duration(start.Add(90*time.Minute)))

	end := start.Add(time.Hour)
	e.End = &end
	assert.False(t, e.Open())
	assert.Equal(t, time.Hour, e.Duration(start.Add(5*time.Hour)))
}

func TestJSONOmitsIdentity(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	e := New("work", start, "")
	e.ID = "abc"
	e.Rev = "1-x"

	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "abc")
	assert.NotContains(t, string(b), "\"end\"")
	assert.Contains(t, string(b), `"type":"timepouch"`)

	var back Entry
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Start.Equal(start))
	assert.Nil(t, back.End)
}

func TestParseTime(t *testing.T) {
	now := time.Date(2024, 3, 14, 17, 30, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-01T08:15:00Z", time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC)},
		{"2024-03-01 08:15", time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC)},
		{"2024-03-01 08:15:30", time.Date(2024, 3, 1, 8, 15, 30, 0, time.UTC)},
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"09:45", time.Date(2024, 3, 14, 9, 45, 0, 0, time.UTC)},
		{" 09:45:10 ", time.Date(2024, 3, 14, 9, 45, 10, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTime(tt.in, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
		})
	}

	_, err := ParseTime("yesterday-ish", now)
	assert.Error(t, err)
	_, err = ParseTime("", now)
	assert.Error(t, err)
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 3, 14, 1, 0, 0, 0, time.UTC)
	assert.True(t, SameDay(a, a.Add(2*time.Hour)))
	assert.False(t, SameDay(a, a.Add(24*time.Hour)))

	// b is compared in a's location.
	east := time.FixedZone("east", 5*60*60)
	assert.False(t, SameDay(a, a.Add(-2*time.Hour).In(east)))
	assert.True(t, SameDay(a.In(east), a.Add(-2*time.Hour)))
}
