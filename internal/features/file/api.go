package file

import (
	"go-charity/internal/config"
	"go-charity/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type FileApi struct {
	controller *FileController
	config     *config.Config
}

func NewFileApi(controller *FileController, cfg *config.Config) *FileApi {
	return &FileApi{
		controller: controller,
		config:     cfg,
	}
}

func (h *FileApi) Setup(app *fiber.App) {
	app.Post("/api/upload", middleware.AuthMiddleware(h.config.SkipAuth), h.controller.UploadFile)
	app.Get("/api/files/task/:taskId", middleware.AuthMiddleware(h.config.SkipAuth), h.controller.GetFilesByTask)
	app.Get("/api/files/:id/download", middleware.AuthMiddleware(h.config.SkipAuth), h.controller.DownloadFile)
	app.Delete("/api/files/:id", middleware.AuthMiddleware(h.config.SkipAuth), h.controller.DeleteFile)

	app.Static(h.config.FSURL, h.config.FSPath)
}
