package branches

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	b := Branch{ID: " bliss-pune ", Name: "Blissful Abodes Pune"}
	require.NoError(t, b.Normalize(now))
	assert.Equal(t, BranchID("bliss-pune"), b.ID)
	assert.Equal(t, StatusActive, b.Status)
	assert.Equal(t, DefaultCheckInTime, b.CheckInTime)
	assert.Equal(t, DefaultCheckOutTime, b.CheckOutTime)
	assert.Equal(t, "INR", b.StartingPrice.Currency)
	assert.Equal(t, now, b.CreatedAt)
}

func TestNormalizeRejects(t *testing.T) {
	tests := []struct {
		name   string
		branch Branch
	}{
		{"missing name", Branch{ID: "X"}},
		{"missing id", Branch{Name: "X"}},
		{"bad clock", Branch{ID: "X", Name: "X", CheckInTime: "2pm"}},
		{"unknown status", Branch{ID: "X", Name: "X", Status: "closed"}},
		{"negative rooms", Branch{ID: "X", Name: "X", TotalRooms: -1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := tc.branch
			assert.ErrorIs(t, b.Normalize(time.Now()), ErrInvalidBranch)
		})
	}
}

func TestIndianBranches(t *testing.T) {
	list := IndianBranches(time.Now())
	require.Len(t, list, 5)
	seen := map[BranchID]bool{}
	for i := range list {
		b := list[i]
		require.NoError(t, b.Normalize(time.Now()))
		assert.Equal(t, list[i].ID, b.ID, "defaults are already normalized")
		assert.False(t, seen[b.ID])
		seen[b.ID] = true
	}
	assert.Equal(t, int64(480000), list[2].StartingPrice.Amount)
	assert.True(t, Filter{City: "bangalore"}.Matches(&list[2]))
	assert.False(t, Filter{Status: StatusInactive}.Matches(&list[2]))
}
