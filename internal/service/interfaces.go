package service

import (
	"context"

	"github.com/limbo/companion/pkg/entity"
)

type StorageServiceI interface {
	// Loads saved progress. Reports false on missing or unreadable record
	GetUserProgress(ctx context.Context) (*entity.UserProgress, bool)
	// Overwrites saved progress, level recomputed. Never fails to the caller
	SaveUserProgress(ctx context.Context, progress entity.UserProgress)
	// One-time latch, true only on the first call after install
	IsFirstLaunch(ctx context.Context) bool
	GetTodayEntry(ctx context.Context) (*entity.DailyEntry, bool)
	// Upserts by date, keeps 30 most recent entries
	SaveTodayEntry(ctx context.Context, entry entity.DailyEntry)
	GetAllEntries(ctx context.Context) []entity.DailyEntry
	CalculateStreak(ctx context.Context) int
	// Wipes everything, next launch behaves like a fresh install
	ClearAll(ctx context.Context)
}

var _ StorageServiceI = (*StorageService)(nil)
