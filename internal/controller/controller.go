package controller

import (
	"context"
	"strings"
	"sync"
	"time"

	errorvalues "github.com/limbo/companion/internal/error_values"
	"github.com/limbo/companion/internal/service"
	"github.com/limbo/companion/pkg/entity"
	"github.com/limbo/companion/pkg/logger"
	"go.uber.org/zap"
)

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseOnboarding
	PhaseActive
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseOnboarding:
		return "onboarding"
	case PhaseActive:
		return "active"
	default:
		return "unknown"
	}
}

type Step int

const (
	StepUserName Step = 1
	StepPetName  Step = 2
)

// Reward rules
const (
	petBondGain  = 10
	petXPGain    = 5
	taskBondGain = 5
)

// State is a read-only view for the presentation layer.
type State struct {
	Phase    Phase
	Step     Step
	UserName string
	PetName  string
	XP       int
	Bond     int
	Level    int
	Face     string
}

type Controller struct {
	storage service.StorageServiceI
	log     *logger.Logger
	now     func() time.Time
	queue   *saveQueue

	mu      sync.Mutex
	started bool
	closed  bool
	phase   Phase
	step    Step

	// onboarding inputs, trimmed on completion
	draftUserName string
	draftPetName  string

	userName string
	petName  string
	xp       int
	bond     int
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

func New(storage service.StorageServiceI, opts ...Option) *Controller {
	if storage == nil {
		zap.L().Fatal("provided nil storage service")
	}
	c := &Controller{
		storage: storage,
		log:     logger.NewNop(),
		now:     time.Now,
		phase:   PhaseLoading,
		step:    StepUserName,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "controller")
	c.queue = newSaveQueue(storage.SaveUserProgress)
	return c
}

// Start loads saved progress exactly once. Missing or unreadable progress
// starts onboarding.
func (c *Controller) Start(ctx context.Context) Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return c.phase
	}
	c.started = true
	progress, ok := c.storage.GetUserProgress(ctx)
	if !ok {
		c.log.Info("no saved progress, starting onboarding")
		c.enterOnboarding()
		return c.phase
	}
	c.userName = progress.UserName
	c.petName = progress.PetName
	c.xp = progress.TotalXP
	c.bond = progress.PetBond
	c.phase = PhaseActive
	c.log.Info("progress restored", "xp", c.xp, "bond", c.bond, "level", entity.Level(c.xp))
	return c.phase
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := State{
		Phase: c.phase,
		XP:    c.xp,
		Bond:  c.bond,
		Level: entity.Level(c.xp),
		Face:  entity.BondFace(c.bond),
	}
	if c.phase == PhaseOnboarding {
		s.Step = c.step
		s.UserName = c.draftUserName
		s.PetName = c.draftPetName
		return s
	}
	s.UserName = c.userName
	s.PetName = c.petName
	return s
}

func (c *Controller) SetUserName(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkStep(StepUserName); err != nil {
		return err
	}
	c.draftUserName = name
	return nil
}

// Next moves from the user name step to the pet name step.
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkStep(StepUserName); err != nil {
		return err
	}
	if err := service.ValidateUserName(c.draftUserName); err != nil {
		return err
	}
	c.step = StepPetName
	return nil
}

// Back returns to the user name step keeping what was entered there.
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkStep(StepPetName); err != nil {
		return err
	}
	c.step = StepUserName
	return nil
}

func (c *Controller) SetPetName(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkStep(StepPetName); err != nil {
		return err
	}
	c.draftPetName = name
	return nil
}

// Complete finishes onboarding and issues the first save.
func (c *Controller) Complete() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkStep(StepPetName); err != nil {
		return err
	}
	if err := service.ValidateUserName(c.draftUserName); err != nil {
		return err
	}
	if err := service.ValidatePetName(c.draftPetName); err != nil {
		return err
	}
	c.userName = strings.TrimSpace(c.draftUserName)
	c.petName = strings.TrimSpace(c.draftPetName)
	c.draftUserName, c.draftPetName = "", ""
	c.phase = PhaseActive
	c.log.Info("onboarding completed", "user", c.userName, "pet", c.petName)
	c.persist()
	return nil
}

// CompleteOnboarding runs the whole wizard in one call.
func (c *Controller) CompleteOnboarding(userName, petName string) error {
	if err := c.SetUserName(userName); err != nil {
		return err
	}
	if err := c.Next(); err != nil {
		return err
	}
	if err := c.SetPetName(petName); err != nil {
		return err
	}
	return c.Complete()
}

func (c *Controller) PetRock() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkActive(); err != nil {
		return err
	}
	c.bond = entity.ClampBond(c.bond + petBondGain)
	c.xp += petXPGain
	c.persist()
	return nil
}

func (c *Controller) CompleteTask(xp int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkActive(); err != nil {
		return err
	}
	if xp <= 0 {
		return errorvalues.ErrInvalidTaskXP
	}
	c.award(xp)
	return nil
}

// CompleteNamedTask awards a catalogue task and records it on today's entry.
func (c *Controller) CompleteNamedTask(ctx context.Context, taskID string) (entity.Task, error) {
	task, ok := entity.FindTask(taskID)
	if !ok {
		return entity.Task{}, errorvalues.ErrUnknownTask
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkActive(); err != nil {
		return entity.Task{}, err
	}
	c.award(task.XP)
	entry := c.todayEntry(ctx)
	entry.AddTask(task.ID)
	entry.XPEarned += task.XP
	c.storage.SaveTodayEntry(ctx, entry)
	return task, nil
}

// CheckIn records today's mood.
func (c *Controller) CheckIn(ctx context.Context, mood entity.Mood) error {
	if !mood.Valid() {
		return errorvalues.ErrInvalidMood
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkActive(); err != nil {
		return err
	}
	entry := c.todayEntry(ctx)
	entry.Mood = mood
	c.storage.SaveTodayEntry(ctx, entry)
	return nil
}

// RenamePet sets the pet name as typed, the widget owns validation.
func (c *Controller) RenamePet(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkActive(); err != nil {
		return err
	}
	if name == c.petName {
		return nil
	}
	c.petName = name
	c.persist()
	return nil
}

func (c *Controller) Streak(ctx context.Context) int {
	return c.storage.CalculateStreak(ctx)
}

func (c *Controller) History(ctx context.Context) []entity.DailyEntry {
	return c.storage.GetAllEntries(ctx)
}

// Reset wipes storage and restarts onboarding. Queued saves are dropped so
// they cannot resurrect the old progress.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errorvalues.ErrControllerClosed
	}
	if err := c.queue.discard(ctx); err != nil {
		return err
	}
	c.storage.ClearAll(ctx)
	c.userName, c.petName = "", ""
	c.xp, c.bond = 0, 0
	c.started = true
	c.enterOnboarding()
	c.log.Info("progress reset")
	return nil
}

// Flush waits for the latest snapshot to reach storage.
func (c *Controller) Flush(ctx context.Context) error {
	return c.queue.flush(ctx)
}

// Close writes the pending snapshot and stops the writer.
func (c *Controller) Close(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return c.queue.close(ctx)
}

func (c *Controller) enterOnboarding() {
	c.phase = PhaseOnboarding
	c.step = StepUserName
	c.draftUserName, c.draftPetName = "", ""
}

func (c *Controller) award(xp int) {
	c.xp += xp
	c.bond = entity.ClampBond(c.bond + taskBondGain)
	c.persist()
}

func (c *Controller) todayEntry(ctx context.Context) entity.DailyEntry {
	if entry, ok := c.storage.GetTodayEntry(ctx); ok {
		return *entry
	}
	return entity.DailyEntry{
		Date:           entity.DateKey(c.now()),
		TasksCompleted: []string{},
	}
}

// persist enqueues a full snapshot of the current state. Caller holds mu.
func (c *Controller) persist() {
	progress := entity.UserProgress{
		UserName:      c.userName,
		PetName:       c.petName,
		TotalXP:       c.xp,
		CurrentStreak: 0,
		LastCheckIn:   entity.CheckInStamp(c.now()),
		PetBond:       c.bond,
		Level:         entity.Level(c.xp),
	}
	if !c.queue.enqueue(progress) {
		c.log.Warn("save dropped, controller closed")
	}
}

func (c *Controller) checkActive() error {
	if c.closed {
		return errorvalues.ErrControllerClosed
	}
	if c.phase != PhaseActive {
		return errorvalues.ErrNotActive
	}
	return nil
}

func (c *Controller) checkStep(step Step) error {
	if c.closed {
		return errorvalues.ErrControllerClosed
	}
	if c.phase != PhaseOnboarding {
		return errorvalues.ErrNotOnboarding
	}
	if c.step != step {
		return errorvalues.ErrWrongStep
	}
	return nil
}
