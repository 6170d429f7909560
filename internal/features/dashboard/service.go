package dashboard

import (
	"context"
	"time"

	common_models "go-charity/internal/common/models"
	"go-charity/internal/features/rbac"
	"go-charity/internal/features/task"

	"go.mongodb.org/mongo-driver/bson"
)

// TaskStatistics is the dashboard aggregate: counts per workflow state
// plus how many open tasks are past due. Always computed fresh.
type TaskStatistics struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Submitted  int64 `json:"submitted"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
	Overdue    int64 `json:"overdue"`
	Total      int64 `json:"total"`
}

type DashboardService interface {
	GetTaskStatistics(ctx context.Context, actor common_models.Actor) (*TaskStatistics, error)
}

type DashboardServiceImpl struct {
	TaskRepo task.TaskRepository
}

func NewDashboardService(taskRepo task.TaskRepository) DashboardService {
	return &DashboardServiceImpl{TaskRepo: taskRepo}
}

func (s *DashboardServiceImpl) GetTaskStatistics(ctx context.Context, actor common_models.Actor) (*TaskStatistics, error) {
	// Managers see system-wide numbers, everyone else only their own
	// assignments. No capability error here: the scope narrows instead.
	match := bson.M{}
	if !rbac.IsManager(actor.Role) {
		match["assigned_to"] = actor.ID
	}

	counts, err := s.TaskRepo.CountByStatus(ctx, match)
	if err != nil {
		return nil, err
	}

	overdue, err := s.TaskRepo.CountOverdue(ctx, match, time.Now())
	if err != nil {
		return nil, err
	}

	stats := &TaskStatistics{
		Pending:    counts[task.StatusPending],
		InProgress: counts[task.StatusInProgress],
		Submitted:  counts[task.StatusSubmitted],
		Completed:  counts[task.StatusCompleted],
		Cancelled:  counts[task.StatusCancelled],
		Overdue:    overdue,
	}
	stats.Total = stats.Pending + stats.InProgress + stats.Submitted + stats.Completed + stats.Cancelled

	return stats, nil
}
