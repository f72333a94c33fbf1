package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPreviousMonth(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantYear  int
		wantMonth int
	}{
		{"mid year", time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC), 2024, 5},
		{"january wraps", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), 2023, 12},
		{"end of march", time.Date(2024, time.March, 31, 23, 0, 0, 0, time.UTC), 2024, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, month := PreviousMonth(tt.now)
			assert.Equal(t, tt.wantYear, year)
			assert.Equal(t, tt.wantMonth, month)
		})
	}
}

func TestFormatISO(t *testing.T) {
	ts := time.Date(2024, time.February, 29, 23, 59, 59, 999_000_000, time.UTC)
	assert.Equal(t, "2024-02-29T23:59:59.999Z", FormatISO(ts))

	ist := time.FixedZone("IST", 5*3600+1800)
	assert.Equal(t, "2024-02-01T00:00:00.000+05:30", FormatISO(time.Date(2024, 2, 1, 0, 0, 0, 0, ist)))
}

func TestMonthHelpers(t *testing.T) {
	assert.Equal(t, "2024-03", MonthKey(2024, 3))
	assert.Equal(t, "March", MonthName(3))
	assert.Equal(t, "", MonthName(13))
}
