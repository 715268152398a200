package entity

import (
	"slices"
	"time"
)

const (
	// Bond never leaves this range
	MinBond = 0
	MaxBond = 100

	XPPerLevel = 100
	// DateLayout is the calendar key of a daily entry
	DateLayout = "2006-01-02"
	// CheckInLayout is ISO-8601 with milliseconds, like JS Date.toISOString
	CheckInLayout = "2006-01-02T15:04:05.000Z07:00"
)

type UserProgress struct {
	UserName      string `json:"userName"`
	PetName       string `json:"petName"`
	TotalXP       int    `json:"totalXP"`
	CurrentStreak int    `json:"currentStreak"`
	LastCheckIn   string `json:"lastCheckIn"`
	PetBond       int    `json:"petBond"`
	Level         int    `json:"level"`
}

// Normalize clamps bond and xp into their ranges and recomputes Level.
func (p *UserProgress) Normalize() {
	p.PetBond = ClampBond(p.PetBond)
	if p.TotalXP < 0 {
		p.TotalXP = 0
	}
	p.Level = Level(p.TotalXP)
}

type Mood string

const (
	MoodGreat    Mood = "great"
	MoodGood     Mood = "good"
	MoodOkay     Mood = "okay"
	MoodBad      Mood = "bad"
	MoodTerrible Mood = "terrible"
)

var moods = []Mood{MoodGreat, MoodGood, MoodOkay, MoodBad, MoodTerrible}

func (m Mood) Valid() bool {
	return slices.Contains(moods, m)
}

func Moods() []Mood {
	return slices.Clone(moods)
}

// DailyEntry is one calendar day of history. Mood stays empty until the
// user checks in for that date.
type DailyEntry struct {
	Date           string   `json:"date" validate:"required,datetime=2006-01-02"`
	Mood           Mood     `json:"mood,omitempty" validate:"omitempty,oneof=great good okay bad terrible"`
	TasksCompleted []string `json:"tasksCompleted" validate:"dive,required"`
	XPEarned       int      `json:"xpEarned" validate:"gte=0"`
}

// Day parses the entry date in UTC.
func (e DailyEntry) Day() (time.Time, error) {
	return time.Parse(DateLayout, e.Date)
}

// HasTask reports whether task id was already completed on that date
func (e DailyEntry) HasTask(id string) bool {
	return slices.Contains(e.TasksCompleted, id)
}

// AddTask appends the task id once.
func (e *DailyEntry) AddTask(id string) {
	if !e.HasTask(id) {
		e.TasksCompleted = append(e.TasksCompleted, id)
	}
}

type Task struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	XP    int    `json:"xp"`
}

const (
	TaskHydration  = "hydration"
	TaskBreathing  = "breathing"
	TaskJournaling = "journaling"
)

var tasks = []Task{
	{ID: TaskHydration, Title: "Drink Water", XP: 5},
	{ID: TaskBreathing, Title: "Take 5 Deep Breaths", XP: 10},
	{ID: TaskJournaling, Title: "Write in Journal", XP: 15},
}

func Tasks() []Task {
	return slices.Clone(tasks)
}

func FindTask(id string) (Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Level is derived from total xp and never stored as truth.
func Level(totalXP int) int {
	if totalXP < 0 {
		totalXP = 0
	}
	return totalXP/XPPerLevel + 1
}

func ClampBond(bond int) int {
	return min(max(bond, MinBond), MaxBond)
}

// BondFace picks the rock's face for the current bond.
func BondFace(bond int) string {
	switch {
	case bond > 80:
		return "😊"
	case bond > 60:
		return "🙂"
	case bond > 40:
		return "😐"
	case bond > 20:
		return "😕"
	default:
		return "😢"
	}
}

func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func CheckInStamp(t time.Time) string {
	return t.UTC().Format(CheckInLayout)
}
