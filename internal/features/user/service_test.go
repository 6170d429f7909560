package user

import (
	"context"
	"errors"
	"testing"

	"go-charity/internal/common/errs"
	common_models "go-charity/internal/common/models"
	"go-charity/internal/features/audit"
	"go-charity/internal/features/rbac"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeUserRepo struct {
	users map[primitive.ObjectID]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	stored := *u
	f.users[u.ID] = &stored
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserRepo) FindAll(ctx context.Context, filter bson.M) ([]User, error) {
	var out []User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id primitive.ObjectID, role rbac.Role) error {
	u, ok := f.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.Role = role
	return nil
}

func (f *fakeUserRepo) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	u, ok := f.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.Active = active
	return nil
}

// fakeAuditService counts appends and fails on demand.
type fakeAuditService struct {
	failWith error
	appended int
}

func (f *fakeAuditService) LogChange(ctx context.Context, actor common_models.Actor, action audit.AuditAction, module string, recordID string, changes map[string]audit.Change) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.appended++
	return nil
}

func (f *fakeAuditService) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]audit.AuditLog, error) {
	return nil, nil
}

func adminActor() common_models.Actor {
	return common_models.Actor{ID: primitive.NewObjectID(), Name: "Admin", Role: rbac.RoleSuperAdmin}
}

func TestCreateUserWritesAudit(t *testing.T) {
	repo := newFakeUserRepo()
	auditSvc := &fakeAuditService{}
	svc := NewUserService(repo, auditSvc)

	u, err := svc.CreateUser(context.Background(), adminActor(), "Amina", "amina@charity.dev", "charity123", rbac.RoleFieldOfficer, "Field Ops")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u == nil || u.ID.IsZero() {
		t.Fatal("expected a persisted user with an id")
	}
	if auditSvc.appended != 1 {
		t.Fatalf("expected 1 audit append, got %d", auditSvc.appended)
	}
}

func TestCreateUserAuditFailureIsSurfaced(t *testing.T) {
	repo := newFakeUserRepo()
	auditSvc := &fakeAuditService{failWith: errors.New("audit store down")}
	svc := NewUserService(repo, auditSvc)

	u, err := svc.CreateUser(context.Background(), adminActor(), "Amina", "amina@charity.dev", "charity123", rbac.RoleFieldOfficer, "Field Ops")
	if u == nil {
		t.Fatal("the created user must still be returned")
	}
	var degraded *errs.AuditDegraded
	if !errors.As(err, &degraded) {
		t.Fatalf("expected AuditDegraded, got %v", err)
	}
	if _, findErr := repo.FindByID(context.Background(), u.ID); findErr != nil {
		t.Fatal("the user write must stand despite the audit failure")
	}
}

func TestSetUserActiveAuditFailureIsSurfaced(t *testing.T) {
	repo := newFakeUserRepo()
	target := &User{Name: "Amina", Email: "amina@charity.dev", Role: rbac.RoleFieldOfficer, Active: true}
	if err := repo.Create(context.Background(), target); err != nil {
		t.Fatal(err)
	}

	auditSvc := &fakeAuditService{failWith: errors.New("audit store down")}
	svc := NewUserService(repo, auditSvc)

	err := svc.SetUserActive(context.Background(), adminActor(), target.ID.Hex(), false)
	var degraded *errs.AuditDegraded
	if !errors.As(err, &degraded) {
		t.Fatalf("expected AuditDegraded, got %v", err)
	}
	got, _ := repo.FindByID(context.Background(), target.ID)
	if got.Active {
		t.Fatal("the deactivation must stand despite the audit failure")
	}
}

func TestUpdateUserRoleAuditFailureIsSurfaced(t *testing.T) {
	repo := newFakeUserRepo()
	target := &User{Name: "Amina", Email: "amina@charity.dev", Role: rbac.RoleFieldOfficer, Active: true}
	if err := repo.Create(context.Background(), target); err != nil {
		t.Fatal(err)
	}

	auditSvc := &fakeAuditService{failWith: errors.New("audit store down")}
	svc := NewUserService(repo, auditSvc)

	err := svc.UpdateUserRole(context.Background(), adminActor(), target.ID.Hex(), rbac.RoleProgramManager)
	var degraded *errs.AuditDegraded
	if !errors.As(err, &degraded) {
		t.Fatalf("expected AuditDegraded, got %v", err)
	}
	got, _ := repo.FindByID(context.Background(), target.ID)
	if got.Role != rbac.RoleProgramManager {
		t.Fatal("the role change must stand despite the audit failure")
	}
}
