package user

import (
	"context"
	"errors"
	"strings"

	"go-charity/internal/common/errs"
	common_models "go-charity/internal/common/models"
	"go-charity/internal/features/audit"
	"go-charity/internal/features/rbac"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// UserService defines user-side business logic. Every mutating operation
// checks capability before touching storage.
type UserService interface {
	CreateUser(ctx context.Context, actor common_models.Actor, name, email, password string, role rbac.Role, department string) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context, actor common_models.Actor) ([]User, error)

	// GetAvailableUsers lists active users for the assignment picker.
	GetAvailableUsers(ctx context.Context, actor common_models.Actor) ([]User, error)

	UpdateUserRole(ctx context.Context, actor common_models.Actor, id string, role rbac.Role) error
	SetUserActive(ctx context.Context, actor common_models.Actor, id string, active bool) error
}

type UserServiceImpl struct {
	Repo         UserRepository
	AuditService audit.AuditService
}

func NewUserService(repo UserRepository, auditService audit.AuditService) UserService {
	return &UserServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, actor common_models.Actor, name, email, password string, role rbac.Role, department string) (*User, error) {
	if !rbac.HasPermission(actor.Role, rbac.CanManageUsers) {
		return nil, &errs.PermissionDenied{Role: string(actor.Role), Capability: string(rbac.CanManageUsers)}
	}

	var bad []string
	if strings.TrimSpace(name) == "" {
		bad = append(bad, "name")
	}
	if strings.TrimSpace(email) == "" {
		bad = append(bad, "email")
	}
	if len(password) < 8 {
		bad = append(bad, "password")
	}
	if !role.Valid() {
		bad = append(bad, "role")
	}
	if len(bad) > 0 {
		return nil, &errs.ValidationError{Fields: bad}
	}

	// The creator must be allowed to hand out the requested role.
	if !rbac.CanAssignRole(actor.Role, role) {
		return nil, &errs.PermissionDenied{Role: string(actor.Role)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Role:         role,
		Department:   department,
		Active:       true,
		PasswordHash: string(hash),
	}

	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}

	// The user exists at this point; a failed audit append degrades
	// the call instead of undoing it.
	if auditErr := s.AuditService.LogChange(ctx, actor, audit.AuditActionCreate, "users", u.ID.Hex(), map[string]audit.Change{
		"email": {Old: nil, New: u.Email},
		"role":  {Old: nil, New: u.Role},
	}); auditErr != nil {
		return u, &errs.AuditDegraded{Err: auditErr}
	}

	return u, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, &errs.NotFound{Resource: "user", ID: id}
	}

	u, err := s.Repo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &errs.NotFound{Resource: "user", ID: id}
		}
		return nil, err
	}
	return u, nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, actor common_models.Actor) ([]User, error) {
	if !rbac.HasPermission(actor.Role, rbac.CanManageUsers) {
		return nil, &errs.PermissionDenied{Role: string(actor.Role), Capability: string(rbac.CanManageUsers)}
	}
	return s.Repo.FindAll(ctx, bson.M{})
}

func (s *UserServiceImpl) GetAvailableUsers(ctx context.Context, actor common_models.Actor) ([]User, error) {
	if !rbac.HasPermission(actor.Role, rbac.CanCreateTasks) {
		return nil, &errs.PermissionDenied{Role: string(actor.Role), Capability: string(rbac.CanCreateTasks)}
	}
	return s.Repo.FindAll(ctx, bson.M{"active": true})
}

func (s *UserServiceImpl) UpdateUserRole(ctx context.Context, actor common_models.Actor, id string, role rbac.Role) error {
	if !rbac.HasPermission(actor.Role, rbac.CanManageUsers) {
		return &errs.PermissionDenied{Role: string(actor.Role), Capability: string(rbac.CanManageUsers)}
	}
	if !role.Valid() {
		return &errs.ValidationError{Fields: []string{"role"}}
	}

	target, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	// Seniority gates both directions: the actor must outrank the role
	// being granted and the role the target currently holds.
	if !rbac.CanAssignRole(actor.Role, role) || !rbac.CanAssignRole(actor.Role, target.Role) {
		return &errs.PermissionDenied{Role: string(actor.Role)}
	}

	if err := s.Repo.UpdateRole(ctx, target.ID, role); err != nil {
		return err
	}

	if auditErr := s.AuditService.LogChange(ctx, actor, audit.AuditActionRoleChange, "users", id, map[string]audit.Change{
		"role": {Old: target.Role, New: role},
	}); auditErr != nil {
		return &errs.AuditDegraded{Err: auditErr}
	}

	return nil
}

func (s *UserServiceImpl) SetUserActive(ctx context.Context, actor common_models.Actor, id string, active bool) error {
	if !rbac.HasPermission(actor.Role, rbac.CanManageUsers) {
		return &errs.PermissionDenied{Role: string(actor.Role), Capability: string(rbac.CanManageUsers)}
	}

	target, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Repo.SetActive(ctx, target.ID, active); err != nil {
		return err
	}

	action := audit.AuditActionDeactivate
	if active {
		action = audit.AuditActionActivate
	}
	if auditErr := s.AuditService.LogChange(ctx, actor, action, "users", id, map[string]audit.Change{
		"active": {Old: target.Active, New: active},
	}); auditErr != nil {
		return &errs.AuditDegraded{Err: auditErr}
	}

	return nil
}
