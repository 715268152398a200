package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	errorvalues "github.com/limbo/companion/internal/error_values"
	"github.com/limbo/companion/internal/repository"
	"github.com/limbo/companion/pkg/entity"
	"github.com/limbo/companion/pkg/logger"
	"go.uber.org/zap"
)

// Storage keys. KeyMoodHistory is reserved and never read or written.
const (
	KeyUserProgress = "user_progress"
	KeyMoodHistory  = "mood_history"
	KeyDailyEntries = "daily_entries"
	KeyFirstLaunch  = "first_launch"
)

// HistoryLimit is how many daily entries are retained.
const HistoryLimit = 30

type StorageService struct {
	store repository.KVStore
	log   *logger.Logger
	now   func() time.Time
}

type Option func(*StorageService)

func WithClock(now func() time.Time) Option {
	return func(ss *StorageService) {
		ss.now = now
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(ss *StorageService) {
		ss.log = log
	}
}

func NewStorageService(store repository.KVStore, opts ...Option) *StorageService {
	if store == nil {
		zap.L().Fatal("provided nil store")
	}
	ss := &StorageService{
		store: store,
		log:   logger.NewNop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(ss)
	}
	ss.log = ss.log.With("service", "StorageService")
	return ss
}

// GetUserProgress reports false when the record is missing, unreadable or corrupted.
func (ss *StorageService) GetUserProgress(ctx context.Context) (*entity.UserProgress, bool) {
	data, err := ss.store.Get(ctx, KeyUserProgress)
	if err != nil {
		if !errors.Is(err, errorvalues.ErrKeyNotFound) {
			ss.log.Error("error loading user progress", "error", err)
		}
		return nil, false
	}
	if data == "" {
		return nil, false
	}
	var progress *entity.UserProgress
	if err = sonic.UnmarshalString(data, &progress); err != nil {
		ss.log.Error("error decoding user progress", "error", err)
		return nil, false
	}
	// a stored null is the same as no record
	if progress == nil {
		return nil, false
	}
	progress.Normalize()
	return progress, true
}

// SaveUserProgress overwrites the progress record. Failures are only logged.
func (ss *StorageService) SaveUserProgress(ctx context.Context, progress entity.UserProgress) {
	progress.Normalize()
	data, err := sonic.MarshalString(progress)
	if err != nil {
		ss.log.Error("error encoding user progress", "error", err)
		return
	}
	if err = ss.store.Set(ctx, KeyUserProgress, data); err != nil {
		ss.log.Error("error saving user progress", "error", err)
		return
	}
	ss.log.Debug("user progress saved", "xp", progress.TotalXP, "bond", progress.PetBond)
}

// IsFirstLaunch latches the first_launch sentinel. It is true only for the
// first call after install (or after ClearAll).
func (ss *StorageService) IsFirstLaunch(ctx context.Context) bool {
	value, err := ss.store.Get(ctx, KeyFirstLaunch)
	if err != nil && !errors.Is(err, errorvalues.ErrKeyNotFound) {
		ss.log.Error("error checking if first launch", "error", err)
		return false
	}
	if value != "" {
		return false
	}
	if err = ss.store.Set(ctx, KeyFirstLaunch, uuid.NewString()); err != nil {
		ss.log.Error("error checking if first launch", "error", err)
		return false
	}
	return true
}

func (ss *StorageService) GetTodayEntry(ctx context.Context) (*entity.DailyEntry, bool) {
	today := entity.DateKey(ss.now())
	entries := ss.GetAllEntries(ctx)
	idx := slices.IndexFunc(entries, func(e entity.DailyEntry) bool {
		return e.Date == today
	})
	if idx < 0 {
		return nil, false
	}
	return &entries[idx], true
}

// SaveTodayEntry upserts entry by date and keeps the HistoryLimit most recent
// entries, newest first.
func (ss *StorageService) SaveTodayEntry(ctx context.Context, entry entity.DailyEntry) {
	entry.TasksCompleted = dedupTasks(entry.TasksCompleted)
	if err := ValidateDailyEntry(&entry); err != nil {
		ss.log.Error("error saving daily entry", "date", entry.Date, "error", err)
		return
	}
	entries := ss.GetAllEntries(ctx)
	idx := slices.IndexFunc(entries, func(e entity.DailyEntry) bool {
		return e.Date == entry.Date
	})
	if idx >= 0 {
		entries[idx] = entry
	} else {
		entries = append(entries, entry)
	}
	// ISO dates order lexicographically
	slices.SortStableFunc(entries, func(a, b entity.DailyEntry) int {
		return strings.Compare(b.Date, a.Date)
	})
	if len(entries) > HistoryLimit {
		entries = entries[:HistoryLimit]
	}
	data, err := sonic.MarshalString(entries)
	if err != nil {
		ss.log.Error("error encoding daily entries", "error", err)
		return
	}
	if err = ss.store.Set(ctx, KeyDailyEntries, data); err != nil {
		ss.log.Error("error saving daily entry", "date", entry.Date, "error", err)
	}
}

// GetAllEntries never returns nil.
func (ss *StorageService) GetAllEntries(ctx context.Context) []entity.DailyEntry {
	data, err := ss.store.Get(ctx, KeyDailyEntries)
	if err != nil {
		if !errors.Is(err, errorvalues.ErrKeyNotFound) {
			ss.log.Error("error getting all entries", "error", err)
		}
		return []entity.DailyEntry{}
	}
	if data == "" {
		return []entity.DailyEntry{}
	}
	var entries []entity.DailyEntry
	if err = sonic.UnmarshalString(data, &entries); err != nil {
		ss.log.Error("error decoding daily entries", "error", err)
		return []entity.DailyEntry{}
	}
	if entries == nil {
		return []entity.DailyEntry{}
	}
	return entries
}

func (ss *StorageService) CalculateStreak(ctx context.Context) int {
	return CalculateStreak(ss.GetAllEntries(ctx), ss.now())
}

// ClearAll wipes every key, the next launch behaves like a fresh install.
func (ss *StorageService) ClearAll(ctx context.Context) {
	if err := ss.store.Clear(ctx); err != nil {
		ss.log.Error("error clearing storage", "error", err)
		return
	}
	ss.log.Info("storage cleared")
}

func dedupTasks(tasks []string) []string {
	result := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if !slices.Contains(result, t) {
			result = append(result, t)
		}
	}
	return result
}
