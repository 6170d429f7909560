package task

import (
	"context"
	"errors"
	"time"

	"go-charity/internal/common/errs"
	common_models "go-charity/internal/common/models"
	"go-charity/internal/features/rbac"
	"go-charity/internal/features/user"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EventSink receives every successfully appended activity entry. The
// automation feature implements it to fan events out into notifications;
// the adapter is wired in main to avoid an import cycle.
type EventSink interface {
	TaskEvent(ctx context.Context, t *Task, entry ActivityEntry)
}

// CreateTaskInput carries everything needed to open a task.
type CreateTaskInput struct {
	Title          string
	Description    string
	Category       string
	Tags           []string
	Priority       TaskPriority
	AssignedTo     string
	FormFields     []FormField
	EstimatedHours float64
	DueDate        *time.Time
	Attachments    []Attachment
}

// TaskService is the workflow core: capability-gated task creation, the
// status state machine, response submission, review, and the two list
// views. All permission checks happen before any storage write.
type TaskService interface {
	CreateTask(ctx context.Context, actor common_models.Actor, input CreateTaskInput) (*Task, error)
	GetTask(ctx context.Context, actor common_models.Actor, id string) (*Task, error)

	ListTasks(ctx context.Context, actor common_models.Actor, f Filter, opts ListOptions) ([]Task, PageMeta, error)
	ListMyTasks(ctx context.Context, actor common_models.Actor, f Filter, opts ListOptions) ([]Task, PageMeta, error)

	StartTask(ctx context.Context, actor common_models.Actor, id string) (*Task, error)
	SubmitResponse(ctx context.Context, actor common_models.Actor, id string, response map[string]interface{}, actualHours float64) (*Task, error)
	ReviewAndComplete(ctx context.Context, actor common_models.Actor, id string, comment string) (*Task, error)
	CancelTask(ctx context.Context, actor common_models.Actor, id string, comment string) (*Task, error)
	UpdateStatus(ctx context.Context, actor common_models.Actor, id string, to TaskStatus, comment string) (*Task, error)

	AddAttachment(ctx context.Context, actor common_models.Actor, id string, att Attachment, toResponse bool) error
}

type TaskServiceImpl struct {
	Repo     TaskRepository
	UserRepo user.UserRepository
	Events   EventSink
	Logger   *zap.Logger
}

func NewTaskService(repo TaskRepository, userRepo user.UserRepository, events EventSink, logger *zap.Logger) TaskService {
	return &TaskServiceImpl{
		Repo:     repo,
		UserRepo: userRepo,
		Events:   events,
		Logger:   logger,
	}
}

func newEntry(actor common_models.Actor, action ActivityAction, comment string) ActivityEntry {
	return ActivityEntry{
		ID:              uuid.NewString(),
		Action:          action,
		PerformedBy:     actor.ID,
		PerformedByName: actor.Name,
		PerformedByRole: actor.Role,
		Comment:         comment,
		Timestamp:       time.Now(),
	}
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, actor common_models.Actor, input CreateTaskInput) (*Task, error) {
	if !rbac.HasPermission(actor.Role, rbac.CanCreateTasks) {
		return nil, &errs.PermissionDenied{Role: string(actor.Role), Capability: string(rbac.CanCreateTasks)}
	}

	assigneeID, err := primitive.ObjectIDFromHex(input.AssignedTo)
	if err != nil {
		return nil, &errs.ValidationError{Fields: []string{"assigned_to"}}
	}

	t := &Task{
		Title:          input.Title,
		Description:    input.Description,
		Category:       input.Category,
		Tags:           input.Tags,
		Priority:       input.Priority,
		Status:         StatusPending,
		AssignedBy:     actor.ID,
		AssignedByName: actor.Name,
		AssignedTo:     assigneeID,
		FormFields:     input.FormFields,
		EstimatedHours: input.EstimatedHours,
		DueDate:        input.DueDate,
		Attachments:    input.Attachments,
	}

	if bad := ValidateNew(t); len(bad) > 0 {
		return nil, &errs.ValidationError{Fields: bad}
	}

	assignee, err := s.UserRepo.FindByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &errs.NotFound{Resource: "user", ID: input.AssignedTo}
		}
		return nil, err
	}
	if !assignee.Active {
		return nil, &errs.ValidationError{Fields: []string{"assigned_to"}}
	}
	t.AssignedToName = assignee.Name
	t.AssignedToRole = assignee.Role

	created := newEntry(actor, ActionCreated, "")
	assigned := newEntry(actor, ActionAssigned, "")
	assigned.Metadata = map[string]interface{}{
		"assigned_to":      assignee.ID.Hex(),
		"assigned_to_name": assignee.Name,
	}
	t.Activity = []ActivityEntry{created, assigned}

	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.emit(ctx, t, assigned)

	return t, nil
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, actor common_models.Actor, id string) (*Task, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.canView(actor, t) {
		return nil, &errs.PermissionDenied{Role: string(actor.Role)}
	}

	// Reads by someone who is neither assignee nor creator leave a VIEWED
	// mark on the trail. A failed append never fails the read.
	if actor.ID != t.AssignedTo && actor.ID != t.AssignedBy {
		entry := newEntry(actor, ActionViewed, "")
		if appendErr := s.Repo.AppendActivity(ctx, t.ID, entry); appendErr != nil {
			s.Logger.Warn("viewed entry append failed",
				zap.String("task", t.ID.Hex()),
				zap.Error(appendErr))
		} else {
			t.Activity = append(t.Activity, entry)
		}
	}

	return t, nil
}

func (s *TaskServiceImpl) ListTasks(ctx context.Context, actor common_models.Actor, f Filter, opts ListOptions) ([]Task, PageMeta, error) {
	if !rbac.HasPermission(actor.Role, rbac.CanViewAllTasks) {
		return nil, PageMeta{}, &errs.PermissionDenied{Role: string(actor.Role), Capability: string(rbac.CanViewAllTasks)}
	}
	return s.list(ctx, BuildFilter(f), opts)
}

func (s *TaskServiceImpl) ListMyTasks(ctx context.Context, actor common_models.Actor, f Filter, opts ListOptions) ([]Task, PageMeta, error) {
	// The assignee view is implicitly scoped to the requester; assignee
	// and creator filters are not honored here.
	f.AssignedTo = ""
	f.AssignedBy = ""
	query := BuildFilter(f)
	query["assigned_to"] = actor.ID
	return s.list(ctx, query, opts)
}

func (s *TaskServiceImpl) list(ctx context.Context, query bson.M, opts ListOptions) ([]Task, PageMeta, error) {
	opts = opts.Normalize()
	tasks, total, err := s.Repo.FindAll(ctx, query, opts.Page, opts.Limit, SortKey(opts.SortBy), opts.SortOrder)
	if err != nil {
		return nil, PageMeta{}, err
	}
	return tasks, NewPageMeta(total, opts), nil
}

func (s *TaskServiceImpl) StartTask(ctx context.Context, actor common_models.Actor, id string) (*Task, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.ID != t.AssignedTo && actor.ID != t.AssignedBy {
		return nil, &errs.PermissionDenied{Role: string(actor.Role)}
	}
	if !CanTransition(t.Status, StatusInProgress) {
		return nil, &errs.InvalidStateTransition{From: string(t.Status), To: string(StatusInProgress)}
	}

	entry := newEntry(actor, ActionInProgress, "")
	return s.transition(ctx, t.ID, []TaskStatus{StatusPending}, StatusInProgress,
		bson.M{"status": StatusInProgress}, entry)
}

func (s *TaskServiceImpl) SubmitResponse(ctx context.Context, actor common_models.Actor, id string, response map[string]interface{}, actualHours float64) (*Task, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only the assignee submits.
	if actor.ID != t.AssignedTo {
		return nil, &errs.PermissionDenied{Role: string(actor.Role)}
	}
	if !CanTransition(t.Status, StatusSubmitted) {
		return nil, &errs.InvalidStateTransition{From: string(t.Status), To: string(StatusSubmitted)}
	}

	if missing := MissingRequired(t.FormFields, response); len(missing) > 0 {
		return nil, &errs.ValidationError{Fields: missing}
	}

	now := time.Now()
	set := bson.M{
		"status":            StatusSubmitted,
		"employee_response": response,
		"submitted_at":      now,
	}
	if actualHours > 0 {
		set["actual_hours"] = actualHours
	}

	entry := newEntry(actor, ActionSubmitted, "")
	return s.transition(ctx, t.ID, []TaskStatus{StatusPending, StatusInProgress}, StatusSubmitted, set, entry)
}

func (s *TaskServiceImpl) ReviewAndComplete(ctx context.Context, actor common_models.Actor, id string, comment string) (*Task, error) {
	if !rbac.HasPermission(actor.Role, rbac.CanAssignTasks) {
		return nil, &errs.PermissionDenied{Role: string(actor.Role), Capability: string(rbac.CanAssignTasks)}
	}

	t, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(t.Status, StatusCompleted) {
		return nil, &errs.InvalidStateTransition{From: string(t.Status), To: string(StatusCompleted)}
	}

	// The review mark and the completion ride the same conditional update
	// so the trail can never show one without the other.
	reviewed := newEntry(actor, ActionReviewed, comment)
	completed := newEntry(actor, ActionCompleted, "")

	return s.transition(ctx, t.ID, []TaskStatus{StatusSubmitted}, StatusCompleted,
		bson.M{"status": StatusCompleted, "completed_at": time.Now()}, reviewed, completed)
}

func (s *TaskServiceImpl) CancelTask(ctx context.Context, actor common_models.Actor, id string, comment string) (*Task, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := actor.ID == t.AssignedTo ||
		actor.ID == t.AssignedBy ||
		rbac.HasPermission(actor.Role, rbac.CanAssignTasks)
	if !allowed {
		return nil, &errs.PermissionDenied{Role: string(actor.Role)}
	}
	if !CanTransition(t.Status, StatusCancelled) {
		return nil, &errs.InvalidStateTransition{From: string(t.Status), To: string(StatusCancelled)}
	}

	entry := newEntry(actor, ActionCancelled, comment)
	return s.transition(ctx, t.ID, []TaskStatus{StatusPending, StatusInProgress}, StatusCancelled,
		bson.M{"status": StatusCancelled}, entry)
}

// UpdateStatus is the generic status endpoint surface. Submission goes
// through SubmitResponse because it carries the form payload.
func (s *TaskServiceImpl) UpdateStatus(ctx context.Context, actor common_models.Actor, id string, to TaskStatus, comment string) (*Task, error) {
	switch to {
	case StatusInProgress:
		return s.StartTask(ctx, actor, id)
	case StatusCompleted:
		return s.ReviewAndComplete(ctx, actor, id, comment)
	case StatusCancelled:
		return s.CancelTask(ctx, actor, id, comment)
	case StatusSubmitted:
		return nil, &errs.ValidationError{Fields: []string{"status"}}
	default:
		return nil, &errs.ValidationError{Fields: []string{"status"}}
	}
}

func (s *TaskServiceImpl) AddAttachment(ctx context.Context, actor common_models.Actor, id string, att Attachment, toResponse bool) error {
	t, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	field := "attachments"
	if toResponse {
		// Response files belong to the assignee and only while the task
		// is still open for work.
		if actor.ID != t.AssignedTo {
			return &errs.PermissionDenied{Role: string(actor.Role)}
		}
		if t.Status.Terminal() || t.Status == StatusSubmitted {
			return &errs.InvalidStateTransition{From: string(t.Status), To: string(t.Status)}
		}
		field = "response_attachments"
	} else {
		if actor.ID != t.AssignedBy {
			return &errs.PermissionDenied{Role: string(actor.Role)}
		}
		if t.Status.Terminal() {
			return &errs.InvalidStateTransition{From: string(t.Status), To: string(t.Status)}
		}
	}

	return s.Repo.PushAttachment(ctx, t.ID, field, att)
}

func (s *TaskServiceImpl) find(ctx context.Context, id string) (*Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, &errs.NotFound{Resource: "task", ID: id}
	}
	t, err := s.Repo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &errs.NotFound{Resource: "task", ID: id}
		}
		return nil, err
	}
	return t, nil
}

func (s *TaskServiceImpl) canView(actor common_models.Actor, t *Task) bool {
	return rbac.HasPermission(actor.Role, rbac.CanViewAllTasks) ||
		actor.ID == t.AssignedTo ||
		actor.ID == t.AssignedBy
}

// transition runs the conditional update and maps a no-match to the right
// domain error: the guard held at read time, so a vanished match means
// either the document is gone or a concurrent writer got there first.
func (s *TaskServiceImpl) transition(ctx context.Context, id primitive.ObjectID, from []TaskStatus, to TaskStatus, set bson.M, entries ...ActivityEntry) (*Task, error) {
	err := s.Repo.Transition(ctx, id, from, set, entries...)
	if err != nil {
		if !errors.Is(err, ErrNoMatch) {
			return nil, err
		}
		current, findErr := s.Repo.FindByID(ctx, id)
		if findErr != nil {
			if errors.Is(findErr, mongo.ErrNoDocuments) {
				return nil, &errs.NotFound{Resource: "task", ID: id.Hex()}
			}
			return nil, findErr
		}
		if CanTransition(current.Status, to) {
			return nil, &errs.Conflict{Reason: "task changed concurrently, retry with fresh state"}
		}
		return nil, &errs.InvalidStateTransition{From: string(current.Status), To: string(to)}
	}

	t, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		s.emit(ctx, t, entry)
	}

	return t, nil
}

func (s *TaskServiceImpl) emit(ctx context.Context, t *Task, entry ActivityEntry) {
	if s.Events == nil {
		return
	}
	s.Events.TaskEvent(ctx, t, entry)
}
