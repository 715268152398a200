package service

import (
	"math"
	"time"

	"github.com/limbo/companion/pkg/entity"
)

const day = 24 * time.Hour

// CalculateStreak counts leading entries whose distance from now in whole
// days equals their index. entries must be sorted most recent first.
func CalculateStreak(entries []entity.DailyEntry, now time.Time) int {
	streak := 0
	for i, entry := range entries {
		date, err := entry.Day()
		if err != nil {
			break
		}
		daysDiff := int(math.Floor(float64(now.Sub(date)) / float64(day)))
		if daysDiff != i {
			break
		}
		streak++
	}
	return streak
}
