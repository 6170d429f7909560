package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-charity/internal/common/errs"
	common_models "go-charity/internal/common/models"
	"go-charity/internal/config"
	"go-charity/internal/features/audit"
	"go-charity/internal/features/task"
	"go-charity/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type FileController struct {
	UploadDir    string
	FileService  FileService
	TaskService  task.TaskService
	AuditService audit.AuditService
	Config       *config.Config
}

func NewFileController(fileService FileService, taskService task.TaskService, auditService audit.AuditService, cfg *config.Config) *FileController {
	if _, err := os.Stat(cfg.FSPath); os.IsNotExist(err) {
		os.MkdirAll(cfg.FSPath, 0755)
	}
	return &FileController{
		UploadDir:    cfg.FSPath,
		FileService:  fileService,
		TaskService:  taskService,
		AuditService: auditService,
		Config:       cfg,
	}
}

func actorFromCtx(c *fiber.Ctx) (common_models.Actor, error) {
	claims, ok := middleware.ClaimsFromCtx(c)
	if !ok {
		return common_models.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "no identity in context")
	}
	return common_models.ActorFromClaims(claims)
}

// UploadFile godoc
// @Summary Upload file
// @Description Upload a file and attach it to a task
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param task_id formData string false "Task ID"
// @Param to_response formData boolean false "Attach to the response instead of the brief"
// @Param description formData string false "File Description"
// @Success 201 {object} File
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/upload [post]
func (ctrl *FileController) UploadFile(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	formFile, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Error retrieving file",
		})
	}

	taskID := c.FormValue("task_id")
	toResponse := c.FormValue("to_response") == "true"
	description := c.FormValue("description")
	mimeType := formFile.Header.Get("Content-Type")

	if err := ctrl.FileService.ValidateUpload(c.UserContext(), taskID, formFile.Size, mimeType); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	originalName := filepath.Base(formFile.Filename)
	uniqueName := fmt.Sprintf("%d_%s", time.Now().UnixNano(), originalName)
	uniqueName = strings.ReplaceAll(uniqueName, " ", "_")

	dstPath := filepath.Join(ctrl.UploadDir, uniqueName)

	if err := c.SaveFile(formFile, dstPath); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error saving file to disk",
		})
	}

	fileRecord := &File{
		OriginalFilename: originalName,
		Path:             dstPath,
		URL:              ctrl.Config.FSURL + "/" + uniqueName,
		Size:             formFile.Size,
		MimeType:         mimeType,
		TaskID:           taskID,
		UploadedBy:       actor.ID,
		StorageType:      "local",
		Description:      description,
		CreatedAt:        time.Now(),
	}

	if err := ctrl.FileService.SaveFile(c.UserContext(), fileRecord); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error saving file metadata",
		})
	}

	if taskID != "" {
		att := task.Attachment{
			ID:           uuid.NewString(),
			Filename:     originalName,
			URL:          fileRecord.URL,
			UploadedBy:   actor.ID,
			UploaderName: actor.Name,
			Size:         formFile.Size,
			MimeType:     mimeType,
			UploadedAt:   time.Now(),
		}
		if err := ctrl.TaskService.AddAttachment(c.UserContext(), actor, taskID, att, toResponse); err != nil {
			return c.Status(errs.StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
		}
	}

	// The upload already stands; a failed audit append degrades the
	// response instead of failing it.
	if auditErr := ctrl.AuditService.LogChange(c.UserContext(), actor, audit.AuditActionUpload, "files", fileRecord.ID.Hex(), map[string]audit.Change{
		"file": {New: fileRecord.OriginalFilename},
	}); auditErr != nil {
		degraded := &errs.AuditDegraded{Err: auditErr}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fileRecord, "warning": degraded.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fileRecord})
}

// GetFilesByTask godoc
// @Summary List task files
// @Description Get all files attached to a task
// @Tags files
// @Produce json
// @Param taskId path string true "Task ID"
// @Success 200 {array} File
// @Failure 500 {object} map[string]interface{}
// @Router /api/files/task/{taskId} [get]
func (ctrl *FileController) GetFilesByTask(c *fiber.Ctx) error {
	files, err := ctrl.FileService.GetFilesByTask(c.UserContext(), c.Params("taskId"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error retrieving files",
		})
	}

	return c.JSON(fiber.Map{"data": files})
}

// DownloadFile godoc
// @Summary Download file
// @Description Download a file by ID
// @Tags files
// @Param id path string true "File ID"
// @Success 200 {file} file "File content"
// @Failure 404 {object} map[string]interface{}
// @Router /api/files/{id}/download [get]
func (ctrl *FileController) DownloadFile(c *fiber.Ctx) error {
	file, err := ctrl.FileService.GetFile(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "File not found",
		})
	}

	return c.Download(file.Path, file.OriginalFilename)
}

// DeleteFile godoc
// @Summary Delete file
// @Description Delete a file by ID
// @Tags files
// @Param id path string true "File ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/files/{id} [delete]
func (ctrl *FileController) DeleteFile(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	if err := ctrl.FileService.DeleteFile(c.UserContext(), c.Params("id"), actor.ID); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "File deleted successfully",
	})
}
