package auth

import (
	"context"
	"errors"
	"strings"

	common_models "go-charity/internal/common/models"
	"go-charity/internal/features/audit"
	"go-charity/internal/features/user"
	"go-charity/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService authenticates provisioned accounts. There is no
// self-registration; accounts come from admins or the seeder.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *user.User, error)
}

type AuthServiceImpl struct {
	UserRepo     user.UserRepository
	AuditService audit.AuditService
	Logger       *zap.Logger
}

func NewAuthService(userRepo user.UserRepository, auditService audit.AuditService, logger *zap.Logger) AuthService {
	return &AuthServiceImpl{
		UserRepo:     userRepo,
		AuditService: auditService,
		Logger:       logger,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	u, err := s.UserRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !u.Active {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(u.ID, u.Name, string(u.Role))
	if err != nil {
		return "", nil, err
	}

	// A failed login audit must not lock the user out.
	actor := common_models.Actor{ID: u.ID, Name: u.Name, Role: u.Role}
	if auditErr := s.AuditService.LogChange(ctx, actor, audit.AuditActionLogin, "users", u.ID.Hex(), nil); auditErr != nil {
		s.Logger.Warn("login audit append failed",
			zap.String("user", u.ID.Hex()),
			zap.Error(auditErr))
	}

	return token, u, nil
}
