package service_test

import (
	"testing"

	"github.com/limbo/companion/internal/service"
	"github.com/limbo/companion/pkg/entity"
	"github.com/stretchr/testify/assert"
)

func entriesFor(days ...int) []entity.DailyEntry {
	entries := make([]entity.DailyEntry, 0, len(days))
	for _, d := range days {
		entries = append(entries, entity.DailyEntry{Date: daysAgo(d), Mood: entity.MoodGood})
	}
	return entries
}

func TestCalculateStreak(t *testing.T) {
	testCases := []struct {
		Desc    string
		Entries []entity.DailyEntry
		Streak  int
	}{
		{Desc: "empty history", Entries: nil, Streak: 0},
		{Desc: "today only", Entries: entriesFor(0), Streak: 1},
		{Desc: "three consecutive days", Entries: entriesFor(0, 1, 2), Streak: 3},
		{Desc: "gap after today", Entries: entriesFor(0, 3), Streak: 1},
		{Desc: "gap in the middle", Entries: entriesFor(0, 1, 3, 4), Streak: 2},
		{Desc: "nothing today", Entries: entriesFor(1, 2, 3), Streak: 0},
		{Desc: "malformed date stops the walk", Entries: append(entriesFor(0), entity.DailyEntry{Date: "yesterday"}), Streak: 1},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			assert.Equal(t, tc.Streak, service.CalculateStreak(tc.Entries, fixedNow))
		})
	}
}
