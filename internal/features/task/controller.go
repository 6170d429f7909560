package task

import (
	"strconv"
	"strings"
	"time"

	"go-charity/internal/common/errs"
	common_models "go-charity/internal/common/models"
	"go-charity/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type TaskController struct {
	TaskService TaskService
	validate    *validator.Validate
}

func NewTaskController(taskService TaskService) *TaskController {
	return &TaskController{
		TaskService: taskService,
		validate:    validator.New(),
	}
}

type CreateTaskRequest struct {
	Title          string      `json:"title" validate:"required,max=200"`
	Description    string      `json:"description" validate:"required,max=2000"`
	Category       string      `json:"category,omitempty"`
	Tags           []string    `json:"tags,omitempty"`
	Priority       string      `json:"priority" validate:"required,oneof=low medium high urgent"`
	AssignedTo     string      `json:"assigned_to" validate:"required"`
	FormFields     []FormField `json:"form_fields,omitempty"`
	EstimatedHours float64     `json:"estimated_hours,omitempty"`
	DueDate        *time.Time  `json:"due_date,omitempty"`
}

type SubmitResponseRequest struct {
	Response    map[string]interface{} `json:"response" validate:"required"`
	ActualHours float64                `json:"actual_hours,omitempty"`
}

type UpdateStatusRequest struct {
	Status  string `json:"status" validate:"required"`
	Comment string `json:"comment,omitempty"`
}

type ReviewRequest struct {
	Comment string `json:"comment,omitempty"`
}

func actorFromCtx(c *fiber.Ctx) (common_models.Actor, error) {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return common_models.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "no identity in context")
	}
	return common_models.ActorFromClaims(claims)
}

// FilterFromQuery reads the shared task filter parameters off the query
// string. The report export reuses it so filters behave identically in
// both places.
func FilterFromQuery(c *fiber.Ctx) Filter {
	f := Filter{
		Status:     TaskStatus(c.Query("status")),
		Priority:   TaskPriority(c.Query("priority")),
		AssignedTo: c.Query("assigned_to"),
		AssignedBy: c.Query("assigned_by"),
		Category:   c.Query("category"),
		Search:     c.Query("search"),
	}
	if tags := c.Query("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				f.Tags = append(f.Tags, tag)
			}
		}
	}
	if from := c.Query("created_from"); from != "" {
		if ts, err := time.Parse(time.RFC3339, from); err == nil {
			f.CreatedFrom = &ts
		}
	}
	if to := c.Query("created_to"); to != "" {
		if ts, err := time.Parse(time.RFC3339, to); err == nil {
			f.CreatedTo = &ts
		}
	}
	return f
}

func optionsFromQuery(c *fiber.Ctx) ListOptions {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "10"), 10, 64)
	return ListOptions{
		Page:      page,
		Limit:     limit,
		SortBy:    c.Query("sort_by", "createdAt"),
		SortOrder: c.Query("order", "desc"),
	}
}

func (ctrl *TaskController) CreateTask(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	t, err := ctrl.TaskService.CreateTask(c.Context(), actor, CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Tags:           req.Tags,
		Priority:       TaskPriority(req.Priority),
		AssignedTo:     req.AssignedTo,
		FormFields:     req.FormFields,
		EstimatedHours: req.EstimatedHours,
		DueDate:        req.DueDate,
	})
	if err != nil {
		return c.Status(errs.StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": t})
}

// ListTasks is the manager view: every task in the system, filterable.
func (ctrl *TaskController) ListTasks(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	tasks, meta, err := ctrl.TaskService.ListTasks(c.Context(), actor, FilterFromQuery(c), optionsFromQuery(c))
	if err != nil {
		return c.Status(errs.StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"data": tasks, "meta": meta})
}

// ListMyTasks is the assignee view, implicitly scoped to the requester.
func (ctrl *TaskController) ListMyTasks(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	tasks, meta, err := ctrl.TaskService.ListMyTasks(c.Context(), actor, FilterFromQuery(c), optionsFromQuery(c))
	if err != nil {
		return c.Status(errs.StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"data": tasks, "meta": meta})
}

func (ctrl *TaskController) GetTask(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	t, err := ctrl.TaskService.GetTask(c.Context(), actor, c.Params("id"))
	if err != nil {
		return c.Status(errs.StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"data": t})
}

func (ctrl *TaskController) StartTask(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	t, err := ctrl.TaskService.StartTask(c.Context(), actor, c.Params("id"))
	if err != nil {
		return c.Status(errs.StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"data": t})
}

func (ctrl *TaskController) SubmitResponse(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	var req SubmitResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	t, err := ctrl.TaskService.SubmitResponse(c.Context(), actor, c.Params("id"), req.Response, req.ActualHours)
	if err != nil {
		return c.Status(errs.StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"data": t})
}

func (ctrl *TaskController) ReviewAndComplete(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	t, err := ctrl.TaskService.ReviewAndComplete(c.Context(), actor, c.Params("id"), req.Comment)
	if err != nil {
		return c.Status(errs.StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"data": t})
}

func (ctrl *TaskController) UpdateStatus(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	t, err := ctrl.TaskService.UpdateStatus(c.Context(), actor, c.Params("id"), TaskStatus(req.Status), req.Comment)
	if err != nil {
		return c.Status(errs.StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"data": t})
}
