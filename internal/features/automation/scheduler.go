package automation

import (
	"context"
	"fmt"
	"time"

	"go-charity/internal/features/notification"
	"go-charity/internal/features/task"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// overdueSchedule runs the sweep every hour on the hour.
const overdueSchedule = "0 * * * *"

// OverdueScheduler periodically scans for tasks past their due date that
// are still open and notifies their assignees.
type OverdueScheduler struct {
	TaskRepo            task.TaskRepository
	NotificationService notification.NotificationService
	Logger              *zap.Logger

	scheduler *cron.Cron
}

func NewOverdueScheduler(
	taskRepo task.TaskRepository,
	notificationService notification.NotificationService,
	logger *zap.Logger,
) *OverdueScheduler {
	return &OverdueScheduler{
		TaskRepo:            taskRepo,
		NotificationService: notificationService,
		Logger:              logger,
	}
}

func (s *OverdueScheduler) Start() error {
	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc(overdueSchedule, s.sweep); err != nil {
		return fmt.Errorf("failed to schedule overdue sweep: %w", err)
	}
	s.scheduler.Start()
	s.Logger.Info("overdue sweep scheduled", zap.String("schedule", overdueSchedule))
	return nil
}

func (s *OverdueScheduler) Stop() {
	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
}

func (s *OverdueScheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	tasks, err := s.TaskRepo.FindOverdue(ctx, now)
	if err != nil {
		s.Logger.Error("overdue sweep failed", zap.Error(err))
		return
	}

	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		message := fmt.Sprintf("Task %q was due %s", t.Title, t.DueDate.Format("2006-01-02"))
		link := "/tasks/" + t.ID.Hex()
		if err := s.NotificationService.Notify(ctx, t.AssignedTo, "Task overdue", message, notification.NotificationTypeOverdue, link); err != nil {
			s.Logger.Warn("overdue notification failed",
				zap.String("task", t.ID.Hex()),
				zap.Error(err))
		}
	}

	if len(tasks) > 0 {
		s.Logger.Info("overdue sweep finished", zap.Int("tasks", len(tasks)))
	}
}
