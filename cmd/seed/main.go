package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	common_models "go-charity/internal/common/models"
	"go-charity/internal/config"
	"go-charity/internal/database"
	"go-charity/internal/features/rbac"
	"go-charity/internal/features/task"
	"go-charity/internal/features/user"
	"go-charity/internal/logger"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const seedPassword = "charity123"

// Seed creates one account per role plus a demo task so a fresh
// database is immediately usable.
func Seed(
	lc fx.Lifecycle,
	userRepo user.UserRepository,
	taskRepo task.TaskRepository,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("Seeding database...")

				hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
				if err != nil {
					logger.Fatal("Failed to hash seed password", zap.Error(err))
				}

				accounts := make(map[rbac.Role]*user.User, len(rbac.AllRoles))
				for _, role := range rbac.AllRoles {
					email := emailForRole(role)

					existing, err := userRepo.FindByEmail(ctx, email)
					if err == nil {
						logger.Info("User exists, skipping", zap.String("email", email))
						accounts[role] = existing
						continue
					}

					u := &user.User{
						Name:         nameForRole(role),
						Email:        email,
						Role:         role,
						Department:   "Operations",
						Active:       true,
						PasswordHash: string(hash),
					}
					if err := userRepo.Create(ctx, u); err != nil {
						logger.Fatal("Failed to create user", zap.String("email", email), zap.Error(err))
					}
					accounts[role] = u
					logger.Info("User created", zap.String("email", email), zap.String("role", string(role)))
				}

				seedDemoTask(ctx, taskRepo, accounts, logger)

				logger.Info("Seeding complete")
			}()
			return nil
		},
	})
}

func seedDemoTask(ctx context.Context, taskRepo task.TaskRepository, accounts map[rbac.Role]*user.User, logger *zap.Logger) {
	manager := accounts[rbac.RoleProgramManager]
	officer := accounts[rbac.RoleFieldOfficer]
	if manager == nil || officer == nil {
		return
	}

	existing, _, err := taskRepo.FindAll(ctx, bson.M{"assigned_to": officer.ID}, 1, 1, "createdAt", "desc")
	if err == nil && len(existing) > 0 {
		logger.Info("Demo task exists, skipping")
		return
	}

	actor := common_models.Actor{ID: manager.ID, Name: manager.Name, Role: manager.Role}
	due := time.Now().AddDate(0, 0, 7)

	now := time.Now()
	entry := task.ActivityEntry{
		ID:              uuid.NewString(),
		Action:          task.ActionCreated,
		PerformedBy:     actor.ID,
		PerformedByName: actor.Name,
		PerformedByRole: actor.Role,
		Timestamp:       now,
	}
	demo := &task.Task{
		Title:          "Distribute winter aid packages",
		Description:    "Visit the northern district and distribute the allocated aid packages. Record each delivery in the response form.",
		Category:       "field",
		Tags:           []string{"aid", "winter"},
		Priority:       task.PriorityHigh,
		Status:         task.StatusPending,
		AssignedBy:     manager.ID,
		AssignedByName: manager.Name,
		AssignedTo:     officer.ID,
		AssignedToName: officer.Name,
		AssignedToRole: officer.Role,
		DueDate:        &due,
		FormFields: []task.FormField{
			{ID: "packages_delivered", Label: "Packages delivered", Type: task.FieldTypeNumber, Required: true},
			{ID: "notes", Label: "Delivery notes", Type: task.FieldTypeTextArea, Required: false},
		},
		Activity: []task.ActivityEntry{entry},
	}

	if err := taskRepo.Create(ctx, demo); err != nil {
		logger.Error("Failed to create demo task", zap.Error(err))
		return
	}
	logger.Info("Demo task created", zap.String("title", demo.Title))
}

func emailForRole(role rbac.Role) string {
	slug := strings.ToLower(strings.ReplaceAll(string(role), "_", "."))
	return fmt.Sprintf("%s@charity.dev", slug)
}

func nameForRole(role rbac.Role) string {
	parts := strings.Split(strings.ToLower(string(role)), "_")
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			user.NewUserRepository,
			task.NewTaskRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
