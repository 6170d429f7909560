package task

import (
	"strings"
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from TaskStatus
		to   TaskStatus
		want bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusSubmitted, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusInProgress, StatusSubmitted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusPending, false},
		{StatusInProgress, StatusCompleted, false},
		{StatusSubmitted, StatusCompleted, true},
		{StatusSubmitted, StatusCancelled, false},
		{StatusSubmitted, StatusInProgress, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusCompleted, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTerminalStatesHaveNoEdges(t *testing.T) {
	for status, next := range transitions {
		if status.Terminal() && len(next) != 0 {
			t.Errorf("terminal status %s has outgoing transitions %v", status, next)
		}
		if !status.Terminal() && len(next) == 0 {
			t.Errorf("non-terminal status %s has no outgoing transitions", status)
		}
	}
}

func TestPriorityRankOrdering(t *testing.T) {
	ordered := []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Errorf("Rank(%s) = %d not below Rank(%s) = %d",
				ordered[i-1], ordered[i-1].Rank(), ordered[i], ordered[i].Rank())
		}
	}
	if TaskPriority("critical").Valid() {
		t.Error("unknown priority reported valid")
	}
}

func TestValidateNew(t *testing.T) {
	valid := func() *Task {
		return &Task{
			Title:       "Distribute aid",
			Description: "Visit the district and distribute packages",
			Priority:    PriorityHigh,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Task)
		want   []string
	}{
		{
			name:   "valid task",
			mutate: func(*Task) {},
			want:   nil,
		},
		{
			name:   "blank title",
			mutate: func(task *Task) { task.Title = "   " },
			want:   []string{"title"},
		},
		{
			name:   "title too long",
			mutate: func(task *Task) { task.Title = strings.Repeat("x", 201) },
			want:   []string{"title"},
		},
		{
			name:   "missing description",
			mutate: func(task *Task) { task.Description = "" },
			want:   []string{"description"},
		},
		{
			name:   "bad priority",
			mutate: func(task *Task) { task.Priority = "severe" },
			want:   []string{"priority"},
		},
		{
			name: "duplicate form field id",
			mutate: func(task *Task) {
				task.FormFields = []FormField{
					{ID: "count", Label: "Count", Type: FieldTypeNumber},
					{ID: "count", Label: "Count again", Type: FieldTypeNumber},
				}
			},
			want: []string{"form_fields.count"},
		},
		{
			name: "unknown field type",
			mutate: func(task *Task) {
				task.FormFields = []FormField{
					{ID: "photo", Label: "Photo", Type: "image"},
				}
			},
			want: []string{"form_fields[0].type"},
		},
		{
			name: "select without options",
			mutate: func(task *Task) {
				task.FormFields = []FormField{
					{ID: "region", Label: "Region", Type: FieldTypeSelect},
				}
			},
			want: []string{"form_fields[0].options"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := valid()
			tt.mutate(task)
			got := ValidateNew(task)
			if len(got) != len(tt.want) {
				t.Fatalf("ValidateNew() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ValidateNew()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMissingRequired(t *testing.T) {
	fields := []FormField{
		{ID: "packages", Label: "Packages", Type: FieldTypeNumber, Required: true},
		{ID: "summary", Label: "Summary", Type: FieldTypeTextArea, Required: true},
		{ID: "notes", Label: "Notes", Type: FieldTypeText, Required: false},
	}

	tests := []struct {
		name     string
		response map[string]interface{}
		want     []string
	}{
		{
			name:     "all answered",
			response: map[string]interface{}{"packages": 12, "summary": "done"},
			want:     nil,
		},
		{
			name:     "one absent",
			response: map[string]interface{}{"packages": 12},
			want:     []string{"summary"},
		},
		{
			name:     "nil counts as missing",
			response: map[string]interface{}{"packages": nil, "summary": "done"},
			want:     []string{"packages"},
		},
		{
			name:     "blank string counts as missing",
			response: map[string]interface{}{"packages": 12, "summary": "   "},
			want:     []string{"summary"},
		},
		{
			name:     "optional field may be absent",
			response: map[string]interface{}{"packages": 1, "summary": "ok"},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MissingRequired(fields, tt.response)
			if len(got) != len(tt.want) {
				t.Fatalf("MissingRequired() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("MissingRequired()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name   string
		due    *time.Time
		status TaskStatus
		want   bool
	}{
		{"no due date", nil, StatusPending, false},
		{"past due pending", &past, StatusPending, true},
		{"past due in progress", &past, StatusInProgress, true},
		{"past due submitted", &past, StatusSubmitted, false},
		{"past due completed", &past, StatusCompleted, false},
		{"past due cancelled", &past, StatusCancelled, false},
		{"future due pending", &future, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{DueDate: tt.due, Status: tt.status}
			if got := task.Overdue(now); got != tt.want {
				t.Errorf("Overdue() = %v, want %v", got, tt.want)
			}
		})
	}
}
