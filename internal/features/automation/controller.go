package automation

import (
	"go-charity/internal/common/errs"
	common_models "go-charity/internal/common/models"
	"go-charity/internal/features/rbac"
	"go-charity/internal/features/task"
	"go-charity/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ruleID(c *fiber.Ctx) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Params("id"))
}

type AutomationController struct {
	AutomationService AutomationService
	validate          *validator.Validate
}

func NewAutomationController(automationService AutomationService) *AutomationController {
	return &AutomationController{
		AutomationService: automationService,
		validate:          validator.New(),
	}
}

type RuleRequest struct {
	Name           string   `json:"name" validate:"required"`
	Description    string   `json:"description,omitempty"`
	Trigger        string   `json:"trigger" validate:"required"`
	Condition      string   `json:"condition,omitempty"`
	NotifyAssignee bool     `json:"notify_assignee"`
	NotifyCreator  bool     `json:"notify_creator"`
	NotifyRoles    []string `json:"notify_roles,omitempty"`
	Message        string   `json:"message,omitempty"`
	Active         bool     `json:"active"`
}

type SetActiveRequest struct {
	Active bool `json:"active"`
}

func actorFromCtx(c *fiber.Ctx) (common_models.Actor, error) {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return common_models.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "no identity in context")
	}
	return common_models.ActorFromClaims(claims)
}

func (req *RuleRequest) toRule() *Rule {
	roles := make([]rbac.Role, 0, len(req.NotifyRoles))
	for _, r := range req.NotifyRoles {
		roles = append(roles, rbac.Role(r))
	}
	return &Rule{
		Name:           req.Name,
		Description:    req.Description,
		Trigger:        task.ActivityAction(req.Trigger),
		Condition:      req.Condition,
		NotifyAssignee: req.NotifyAssignee,
		NotifyCreator:  req.NotifyCreator,
		NotifyRoles:    roles,
		Message:        req.Message,
		Active:         req.Active,
	}
}

func (ctrl *AutomationController) CreateRule(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	var req RuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rule := req.toRule()
	if err := ctrl.AutomationService.CreateRule(c.Context(), actor, rule); err != nil {
		return c.Status(errs.StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": rule})
}

func (ctrl *AutomationController) ListRules(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	rules, err := ctrl.AutomationService.ListRules(c.Context(), actor)
	if err != nil {
		return c.Status(errs.StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"data": rules})
}

func (ctrl *AutomationController) UpdateRule(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	var req RuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rule := req.toRule()
	oid, err := ruleID(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	rule.ID = oid

	if err := ctrl.AutomationService.UpdateRule(c.Context(), actor, rule); err != nil {
		return c.Status(errs.StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"data": rule})
}

func (ctrl *AutomationController) SetRuleActive(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	var req SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := ctrl.AutomationService.SetRuleActive(c.Context(), actor, c.Params("id"), req.Active); err != nil {
		return c.Status(errs.StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "rule updated"})
}

func (ctrl *AutomationController) DeleteRule(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	if err := ctrl.AutomationService.DeleteRule(c.Context(), actor, c.Params("id")); err != nil {
		return c.Status(errs.StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "rule deleted"})
}
