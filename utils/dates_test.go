package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDueLabel(t *testing.T) {
	now := time.Date(2024, 5, 10, 18, 0, 0, 0, time.UTC)
	tests := []struct {
		due  time.Time
		want string
	}{
		{now.Add(-time.Hour), "Today"},
		{time.Date(2024, 5, 11, 1, 0, 0, 0, time.UTC), "Tomorrow"},
		{time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC), "3 days"},
		{time.Date(2024, 5, 9, 23, 0, 0, 0, time.UTC), "Yesterday"},
		{time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC), "4 days overdue"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, DueLabel(tt.due, now))
		})
	}
}

func TestBeginningOfDay(t *testing.T) {
	got := BeginningOfDay(time.Date(2024, 5, 10, 18, 45, 3, 9, time.UTC))
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, 2, DaysBetween(got, got.Add(49*time.Hour)))
}
