package report

import (
	"context"
	"fmt"
	"time"

	"go-charity/internal/common/errs"
	common_models "go-charity/internal/common/models"
	"go-charity/internal/features/rbac"
	"go-charity/internal/features/task"

	"github.com/xuri/excelize/v2"
)

// exportLimit caps a single export; beyond this, narrow the filter.
const exportLimit = 10000

var exportColumns = []string{
	"Title", "Status", "Priority", "Category", "Assignee", "Created By",
	"Due Date", "Created", "Submitted", "Completed", "Estimated Hours", "Actual Hours",
}

type ReportService interface {
	ExportTasks(ctx context.Context, actor common_models.Actor, f task.Filter) ([]byte, string, error)
}

type ReportServiceImpl struct {
	TaskRepo task.TaskRepository
}

func NewReportService(taskRepo task.TaskRepository) ReportService {
	return &ReportServiceImpl{TaskRepo: taskRepo}
}

// ExportTasks renders the filtered task list as an xlsx workbook. Actors
// without the view-all capability only export their own assignments.
func (s *ReportServiceImpl) ExportTasks(ctx context.Context, actor common_models.Actor, f task.Filter) ([]byte, string, error) {
	if !rbac.HasPermission(actor.Role, rbac.CanExportReports) {
		return nil, "", &errs.PermissionDenied{Role: string(actor.Role), Capability: string(rbac.CanExportReports)}
	}

	query := task.BuildFilter(f)
	if !rbac.HasPermission(actor.Role, rbac.CanViewAllTasks) {
		query["assigned_to"] = actor.ID
	}

	tasks, _, err := s.TaskRepo.FindAll(ctx, query, 1, exportLimit, "createdAt", "desc")
	if err != nil {
		return nil, "", err
	}

	data, err := s.buildWorkbook(tasks)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("tasks_%s.xlsx", time.Now().Format("2006-01-02"))
	return data, filename, nil
}

func (s *ReportServiceImpl) buildWorkbook(tasks []task.Task) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Tasks"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, t := range tasks {
		row := []interface{}{
			t.Title,
			string(t.Status),
			string(t.Priority),
			t.Category,
			t.AssignedToName,
			t.AssignedByName,
			formatDate(t.DueDate),
			t.CreatedAt.Format("2006-01-02 15:04:05"),
			formatDate(t.SubmittedAt),
			formatDate(t.CompletedAt),
			t.EstimatedHours,
			t.ActualHours,
		}
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	for i := range exportColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
