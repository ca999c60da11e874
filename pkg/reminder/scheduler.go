package reminder

import (
	"context"
	"log/slog"
	"time"
)

// announcePrefix softens the interruption when a reminder fires.
const announcePrefix = "Excuse me, I have a reminder for you. "

// Speaker reads reminder announcements aloud.
type Speaker interface {
	Say(ctx context.Context, text string) error
}

// Scheduler checks the store once a minute and announces reminders
// whose time of day matches the current minute. Daily reminders fire
// every day; one-shot reminders fire only while never announced.
type Scheduler struct {
	store   *Store
	speaker Speaker
	now     func() time.Time
	logger  *slog.Logger
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithClock overrides the time source.
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.now = now }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) { s.logger = logger }
}

// NewScheduler creates a scheduler over the store and speaker.
func NewScheduler(store *Store, speaker Speaker, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		store:   store,
		speaker: speaker,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "reminder.scheduler")
	return s
}

// Run checks for due reminders once a minute until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	s.logger.Info("reminder scheduler started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.CheckOnce(ctx)
		}
	}
}

// CheckOnce announces every reminder due at the current minute.
// Announcement failures are logged, never fatal: a reminder the
// listener did not hear should not stop the next one.
func (s *Scheduler) CheckOnce(ctx context.Context) {
	nowHHMM := s.now().Format("15:04")

	tasks, err := s.store.Active(ctx)
	if err != nil {
		s.logger.Error("fetching reminders failed", "error", err)
		return
	}

	for _, task := range tasks {
		if task.Time != nowHHMM {
			continue
		}
		if !task.RepeatDaily && task.LastRun.Valid {
			continue
		}
		s.announce(ctx, task)
	}
}

func (s *Scheduler) announce(ctx context.Context, task Task) {
	if err := s.speaker.Say(ctx, announcePrefix+task.Message); err != nil {
		s.logger.Error("announcing reminder failed", "task_id", task.ID, "error", err)
		return
	}
	if err := s.store.MarkAnnounced(ctx, task.ID); err != nil {
		s.logger.Error("recording announcement failed", "task_id", task.ID, "error", err)
		return
	}
	s.logger.Info("announced reminder", "task_id", task.ID, "time", task.Time)
}
