package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestNormalizeRange_SwapsInvertedDates(t *testing.T) {
	r := NormalizeRange(date(2024, 5, 10), date(2024, 5, 1))
	require.NotNil(t, r)
	assert.Equal(t, *date(2024, 5, 1), r.Start)
	assert.Equal(t, *date(2024, 5, 10), r.End)
}

func TestNormalizeRange_SingleDateBecomesPoint(t *testing.T) {
	r := NormalizeRange(date(2024, 5, 10), nil)
	require.NotNil(t, r)
	assert.Equal(t, r.Start, r.End)
	assert.True(t, r.IsPoint())

	r = NormalizeRange(nil, date(2024, 5, 10))
	require.NotNil(t, r)
	assert.Equal(t, *date(2024, 5, 10), r.Start)
	assert.Equal(t, r.Start, r.End)
}

func TestNormalizeRange_BothAbsent(t *testing.T) {
	assert.Nil(t, NormalizeRange(nil, nil))
}

func TestNormalizeRange_Ordered(t *testing.T) {
	r := NormalizeRange(date(2024, 5, 1), date(2024, 5, 10))
	require.NotNil(t, r)
	assert.Equal(t, *date(2024, 5, 1), r.Start)
	assert.Equal(t, *date(2024, 5, 10), r.End)
	assert.False(t, r.IsPoint())
}

func TestDateRange_String(t *testing.T) {
	r := DateRange{Start: *date(2024, 5, 1), End: *date(2024, 5, 10)}
	assert.Equal(t, "2024-05-01 → 2024-05-10", r.String())

	point := DateRange{Start: *date(2024, 5, 1), End: *date(2024, 5, 1)}
	assert.Equal(t, "2024-05-01", point.String())
}

func TestParseCellDate(t *testing.T) {
	tests := []struct {
		in   string
		want *time.Time
	}{
		{"2024-05-10", date(2024, 5, 10)},
		{"10/05/2024", date(2024, 5, 10)},
		{"2024-05-10 00:00:00", date(2024, 5, 10)},
		{" 2024-05-10 ", date(2024, 5, 10)},
		{"", nil},
		{"n/a", nil},
		{"amanhã", nil},
	}
	for _, tt := range tests {
		got := ParseCellDate(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, "input %q", tt.in)
			continue
		}
		require.NotNil(t, got, "input %q", tt.in)
		assert.Equal(t, *tt.want, *got, "input %q", tt.in)
	}
}

func TestParseCellDate_SerialNumber(t *testing.T) {
	// 45292 days after the 1900-system epoch is 2024-01-01.
	got := ParseCellDate("45292")
	require.NotNil(t, got)
	assert.Equal(t, *date(2024, 1, 1), *got)
}
