package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-charity/internal/common/api"
	"go-charity/internal/config"
	"go-charity/internal/database"
	"go-charity/internal/features/audit"
	"go-charity/internal/features/auth"
	"go-charity/internal/features/automation"
	"go-charity/internal/features/dashboard"
	"go-charity/internal/features/file"
	"go-charity/internal/features/notification"
	"go-charity/internal/features/report"
	"go-charity/internal/features/system"
	"go-charity/internal/features/task"
	"go-charity/internal/features/user"
	"go-charity/internal/logger"
	"go-charity/internal/middleware"
	"go-charity/pkg/utils"

	_ "go-charity/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d routes\n", len(routes))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// @title           Charity Tasks API
// @version         1.0
// @description     Task management core for a charity platform.

// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			// Repositories
			user.NewUserRepository,
			task.NewTaskRepository,
			audit.NewAuditRepository,
			notification.NewNotificationRepository,
			automation.NewRuleRepository,
			file.NewFileRepository,

			// Services
			audit.NewAuditService,
			auth.NewAuthService,
			user.NewUserService,
			task.NewTaskService,
			dashboard.NewDashboardService,
			notification.NewHub,
			notification.NewNotificationService,
			automation.NewAutomationService,
			automation.NewOverdueScheduler,
			file.NewFileService,
			report.NewReportService,

			// Interface adapters to break circular dependencies
			func(s automation.AutomationService) task.EventSink { return s },

			// Controllers
			auth.NewAuthController,
			user.NewUserController,
			task.NewTaskController,
			dashboard.NewDashboardController,
			audit.NewAuditController,
			notification.NewNotificationController,
			automation.NewAutomationController,
			file.NewFileController,
			report.NewReportController,

			// API routes
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(task.NewTaskApi),
			AsRoute(dashboard.NewDashboardApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(automation.NewAutomationApi),
			AsRoute(file.NewFileApi),
			AsRoute(report.NewReportApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, scheduler *automation.OverdueScheduler) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return scheduler.Start()
					},
					OnStop: func(ctx context.Context) error {
						scheduler.Stop()
						return nil
					},
				})
			},
		),
	)

	app.Run()
}
