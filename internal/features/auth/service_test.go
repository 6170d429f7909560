package auth

import (
	"context"
	"errors"
	"testing"

	common_models "go-charity/internal/common/models"
	"go-charity/internal/features/audit"
	"go-charity/internal/features/rbac"
	"go-charity/internal/features/user"
	"go-charity/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byEmail map[string]*user.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error { return nil }

func (f *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*user.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return u, nil
}

func (f *fakeUserRepo) FindAll(ctx context.Context, filter bson.M) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id primitive.ObjectID, role rbac.Role) error {
	return nil
}

func (f *fakeUserRepo) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	return nil
}

type failingAuditService struct{}

func (failingAuditService) LogChange(ctx context.Context, actor common_models.Actor, action audit.AuditAction, module string, recordID string, changes map[string]audit.Change) error {
	return errors.New("audit store down")
}

func (failingAuditService) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]audit.AuditLog, error) {
	return nil, nil
}

func TestLoginSucceedsWhenAuditAppendFails(t *testing.T) {
	utils.SetSecret("test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("charity123"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	repo := &fakeUserRepo{byEmail: map[string]*user.User{
		"amina@charity.dev": {
			ID:           primitive.NewObjectID(),
			Name:         "Amina",
			Email:        "amina@charity.dev",
			Role:         rbac.RoleFieldOfficer,
			Active:       true,
			PasswordHash: string(hash),
		},
	}}

	svc := NewAuthService(repo, failingAuditService{}, zap.NewNop())

	token, u, err := svc.Login(context.Background(), "amina@charity.dev", "charity123")
	if err != nil {
		t.Fatalf("login must not fail on a degraded audit trail: %v", err)
	}
	if token == "" || u == nil {
		t.Fatal("expected a token and the authenticated user")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	utils.SetSecret("test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("charity123"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	repo := &fakeUserRepo{byEmail: map[string]*user.User{
		"amina@charity.dev": {
			ID:           primitive.NewObjectID(),
			Email:        "amina@charity.dev",
			Role:         rbac.RoleFieldOfficer,
			Active:       true,
			PasswordHash: string(hash),
		},
	}}

	svc := NewAuthService(repo, failingAuditService{}, zap.NewNop())

	if _, _, err := svc.Login(context.Background(), "amina@charity.dev", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
