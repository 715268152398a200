package entity_test

import (
	"testing"
	"time"

	"github.com/limbo/companion/pkg/entity"
	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	testCases := []struct {
		XP    int
		Level int
	}{
		{XP: 0, Level: 1},
		{XP: 99, Level: 1},
		{XP: 100, Level: 2},
		{XP: 250, Level: 3},
		{XP: -5, Level: 1},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.Level, entity.Level(tc.XP), "xp %d", tc.XP)
	}
}

func TestNormalize(t *testing.T) {
	p := entity.UserProgress{TotalXP: 250, PetBond: 140, Level: 42}
	p.Normalize()
	assert.Equal(t, 3, p.Level)
	assert.Equal(t, 100, p.PetBond)

	p = entity.UserProgress{TotalXP: -10, PetBond: -3}
	p.Normalize()
	assert.Equal(t, 0, p.TotalXP)
	assert.Equal(t, 0, p.PetBond)
	assert.Equal(t, 1, p.Level)
}

func TestBondFace(t *testing.T) {
	assert.Equal(t, "😊", entity.BondFace(81))
	assert.Equal(t, "🙂", entity.BondFace(80))
	assert.Equal(t, "😐", entity.BondFace(41))
	assert.Equal(t, "😕", entity.BondFace(21))
	assert.Equal(t, "😢", entity.BondFace(20))
	assert.Equal(t, "😢", entity.BondFace(0))
}

func TestMoods(t *testing.T) {
	for _, m := range entity.Moods() {
		assert.True(t, m.Valid())
	}
	assert.False(t, entity.Mood("ecstatic").Valid())
	assert.False(t, entity.Mood("").Valid())
}

func TestDailyEntryTasks(t *testing.T) {
	e := entity.DailyEntry{Date: "2026-10-14"}
	e.AddTask(entity.TaskHydration)
	e.AddTask(entity.TaskHydration)
	e.AddTask(entity.TaskJournaling)
	assert.Equal(t, []string{entity.TaskHydration, entity.TaskJournaling}, e.TasksCompleted)
	assert.True(t, e.HasTask(entity.TaskJournaling))
	assert.False(t, e.HasTask(entity.TaskBreathing))

	day, err := e.Day()
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), day)
}

func TestFindTask(t *testing.T) {
	task, ok := entity.FindTask(entity.TaskBreathing)
	assert.True(t, ok)
	assert.Equal(t, 10, task.XP)
	_, ok = entity.FindTask("unknown")
	assert.False(t, ok)
	assert.Len(t, entity.Tasks(), 3)
}

func TestStamps(t *testing.T) {
	ts := time.Date(2026, 10, 14, 23, 30, 5, 123000000, time.FixedZone("UTC+2", 2*60*60))
	assert.Equal(t, "2026-10-14", entity.DateKey(ts))
	assert.Equal(t, "2026-10-14T21:30:05.123Z", entity.CheckInStamp(ts))
}
