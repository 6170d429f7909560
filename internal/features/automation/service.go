package automation

import (
	"context"
	"fmt"
	"time"

	"go-charity/internal/common/errs"
	common_models "go-charity/internal/common/models"
	"go-charity/internal/features/audit"
	"go-charity/internal/features/notification"
	"go-charity/internal/features/rbac"
	"go-charity/internal/features/task"
	"go-charity/internal/features/user"

	"github.com/d5/tengo/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AutomationService owns the notification rules and implements the task
// event sink: every appended activity entry is matched against the
// active rules for its action.
type AutomationService interface {
	TaskEvent(ctx context.Context, t *task.Task, entry task.ActivityEntry)

	CreateRule(ctx context.Context, actor common_models.Actor, rule *Rule) error
	ListRules(ctx context.Context, actor common_models.Actor) ([]Rule, error)
	UpdateRule(ctx context.Context, actor common_models.Actor, rule *Rule) error
	SetRuleActive(ctx context.Context, actor common_models.Actor, id string, active bool) error
	DeleteRule(ctx context.Context, actor common_models.Actor, id string) error
}

type AutomationServiceImpl struct {
	Repo                RuleRepository
	UserRepo            user.UserRepository
	NotificationService notification.NotificationService
	AuditService        audit.AuditService
	Logger              *zap.Logger
}

func NewAutomationService(
	repo RuleRepository,
	userRepo user.UserRepository,
	notificationService notification.NotificationService,
	auditService audit.AuditService,
	logger *zap.Logger,
) AutomationService {
	return &AutomationServiceImpl{
		Repo:                repo,
		UserRepo:            userRepo,
		NotificationService: notificationService,
		AuditService:        auditService,
		Logger:              logger,
	}
}

// TaskEvent evaluates the rules for the entry's action and fans passing
// ones out into notifications. Failures are logged, never propagated:
// notification dispatch must not affect the task operation that emitted
// the event.
func (s *AutomationServiceImpl) TaskEvent(ctx context.Context, t *task.Task, entry task.ActivityEntry) {
	rules, err := s.Repo.FindActiveByTrigger(ctx, entry.Action)
	if err != nil {
		s.Logger.Warn("rule lookup failed",
			zap.String("action", string(entry.Action)),
			zap.Error(err))
		return
	}

	for _, rule := range rules {
		pass, err := evalCondition(rule.Condition, t)
		if err != nil {
			s.Logger.Warn("rule condition failed",
				zap.String("rule", rule.Name),
				zap.Error(err))
			continue
		}
		if !pass {
			continue
		}
		s.dispatch(ctx, &rule, t, entry)
	}
}

// evalCondition runs the rule's script with the task's fields bound as
// variables. The script's last expression must evaluate to a boolean
// stored in "pass", e.g. `pass := priority == "urgent" && overdue`.
func evalCondition(condition string, t *task.Task) (bool, error) {
	if condition == "" {
		return true, nil
	}

	script := tengo.NewScript([]byte(condition))

	tags := make([]interface{}, len(t.Tags))
	for i, tag := range t.Tags {
		tags[i] = tag
	}

	_ = script.Add("status", string(t.Status))
	_ = script.Add("priority", string(t.Priority))
	_ = script.Add("category", t.Category)
	_ = script.Add("tags", tags)
	_ = script.Add("overdue", t.Overdue(time.Now()))

	compiled, err := script.Compile()
	if err != nil {
		return false, fmt.Errorf("failed to compile condition: %w", err)
	}
	if err := compiled.Run(); err != nil {
		return false, fmt.Errorf("failed to run condition: %w", err)
	}

	pass := compiled.Get("pass")
	if pass.IsUndefined() {
		return false, fmt.Errorf("condition did not set pass")
	}
	return pass.Bool(), nil
}

func (s *AutomationServiceImpl) dispatch(ctx context.Context, rule *Rule, t *task.Task, entry task.ActivityEntry) {
	message := rule.Message
	if message == "" {
		message = fmt.Sprintf("%s: %s", entry.Action, t.Title)
	}
	link := "/tasks/" + t.ID.Hex()

	recipients := make(map[primitive.ObjectID]bool)
	if rule.NotifyAssignee {
		recipients[t.AssignedTo] = true
	}
	if rule.NotifyCreator {
		recipients[t.AssignedBy] = true
	}
	for _, role := range rule.NotifyRoles {
		users, err := s.UserRepo.FindAll(ctx, roleFilter(role))
		if err != nil {
			s.Logger.Warn("recipient lookup failed", zap.String("role", string(role)), zap.Error(err))
			continue
		}
		for _, u := range users {
			recipients[u.ID] = true
		}
	}

	// The actor already knows what they just did.
	delete(recipients, entry.PerformedBy)

	for userID := range recipients {
		if err := s.NotificationService.Notify(ctx, userID, rule.Name, message, notification.NotificationTypeTask, link); err != nil {
			s.Logger.Warn("notification dispatch failed",
				zap.String("user", userID.Hex()),
				zap.Error(err))
		}
	}
}

func (s *AutomationServiceImpl) CreateRule(ctx context.Context, actor common_models.Actor, rule *Rule) error {
	if !rbac.HasPermission(actor.Role, rbac.CanManageAutomations) {
		return &errs.PermissionDenied{Role: string(actor.Role), Capability: string(rbac.CanManageAutomations)}
	}
	if bad := validateRule(rule); len(bad) > 0 {
		return &errs.ValidationError{Fields: bad}
	}
	if err := s.Repo.Create(ctx, rule); err != nil {
		return err
	}
	s.auditRuleChange(ctx, actor, rule.ID.Hex(), map[string]audit.Change{
		"rule": {New: rule},
	})
	return nil
}

func (s *AutomationServiceImpl) ListRules(ctx context.Context, actor common_models.Actor) ([]Rule, error) {
	if !rbac.HasPermission(actor.Role, rbac.CanManageAutomations) {
		return nil, &errs.PermissionDenied{Role: string(actor.Role), Capability: string(rbac.CanManageAutomations)}
	}
	return s.Repo.FindAll(ctx)
}

func (s *AutomationServiceImpl) UpdateRule(ctx context.Context, actor common_models.Actor, rule *Rule) error {
	if !rbac.HasPermission(actor.Role, rbac.CanManageAutomations) {
		return &errs.PermissionDenied{Role: string(actor.Role), Capability: string(rbac.CanManageAutomations)}
	}
	if bad := validateRule(rule); len(bad) > 0 {
		return &errs.ValidationError{Fields: bad}
	}
	old, _ := s.Repo.FindByID(ctx, rule.ID)
	if err := s.Repo.Update(ctx, rule); err != nil {
		return err
	}
	s.auditRuleChange(ctx, actor, rule.ID.Hex(), map[string]audit.Change{
		"rule": {Old: old, New: rule},
	})
	return nil
}

func (s *AutomationServiceImpl) SetRuleActive(ctx context.Context, actor common_models.Actor, id string, active bool) error {
	if !rbac.HasPermission(actor.Role, rbac.CanManageAutomations) {
		return &errs.PermissionDenied{Role: string(actor.Role), Capability: string(rbac.CanManageAutomations)}
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &errs.NotFound{Resource: "rule", ID: id}
	}
	return s.Repo.SetActive(ctx, oid, active)
}

func (s *AutomationServiceImpl) DeleteRule(ctx context.Context, actor common_models.Actor, id string) error {
	if !rbac.HasPermission(actor.Role, rbac.CanManageAutomations) {
		return &errs.PermissionDenied{Role: string(actor.Role), Capability: string(rbac.CanManageAutomations)}
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &errs.NotFound{Resource: "rule", ID: id}
	}
	old, _ := s.Repo.FindByID(ctx, oid)
	if err := s.Repo.Delete(ctx, oid); err != nil {
		return err
	}
	s.auditRuleChange(ctx, actor, id, map[string]audit.Change{
		"rule": {Old: old, New: "DELETED"},
	})
	return nil
}

// auditRuleChange records a rule mutation. The mutation stands either
// way; a failed append is only logged.
func (s *AutomationServiceImpl) auditRuleChange(ctx context.Context, actor common_models.Actor, ruleID string, changes map[string]audit.Change) {
	if err := s.AuditService.LogChange(ctx, actor, audit.AuditActionRule, "automations", ruleID, changes); err != nil {
		s.Logger.Warn("rule audit append failed",
			zap.String("rule", ruleID),
			zap.Error(err))
	}
}

func validateRule(rule *Rule) []string {
	var bad []string
	if rule.Name == "" {
		bad = append(bad, "name")
	}
	if rule.Trigger == "" {
		bad = append(bad, "trigger")
	}
	if !rule.NotifyAssignee && !rule.NotifyCreator && len(rule.NotifyRoles) == 0 {
		bad = append(bad, "recipients")
	}
	if rule.Condition != "" {
		if _, err := tengo.NewScript([]byte(rule.Condition)).Compile(); err != nil {
			bad = append(bad, "condition")
		}
	}
	return bad
}

func roleFilter(role rbac.Role) bson.M {
	return bson.M{"role": role, "active": true}
}
