package task

import (
	"strconv"
	"strings"
	"time"

	"go-charity/internal/features/rbac"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStatus is a task's workflow state.
type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusSubmitted  TaskStatus = "SUBMITTED"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusCancelled  TaskStatus = "CANCELLED"
)

// transitions is the task state graph. COMPLETED and CANCELLED are
// terminal.
var transitions = map[TaskStatus][]TaskStatus{
	StatusPending:    {StatusInProgress, StatusSubmitted, StatusCancelled},
	StatusInProgress: {StatusSubmitted, StatusCancelled},
	StatusSubmitted:  {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether from -> to is an edge of the state graph.
func CanTransition(from, to TaskStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s TaskStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s TaskStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// TaskPriority represents the priority level of a task
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// Rank returns the numeric weight stored alongside the priority so that
// sorting by priority orders low < medium < high < urgent instead of
// lexicographically. Unknown priorities rank lowest.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	default:
		return 0
	}
}

func (p TaskPriority) Valid() bool {
	return p.Rank() > 0
}

// ActivityAction tags an activity log entry.
type ActivityAction string

const (
	ActionCreated    ActivityAction = "CREATED"
	ActionAssigned   ActivityAction = "ASSIGNED"
	ActionViewed     ActivityAction = "VIEWED"
	ActionInProgress ActivityAction = "IN_PROGRESS"
	ActionSubmitted  ActivityAction = "SUBMITTED"
	ActionReviewed   ActivityAction = "REVIEWED"
	ActionCompleted  ActivityAction = "COMPLETED"
	ActionCancelled  ActivityAction = "CANCELLED"
)

// FormFieldType is the input type of a dynamic form field.
type FormFieldType string

const (
	FieldTypeText     FormFieldType = "text"
	FieldTypeTextArea FormFieldType = "textarea"
	FieldTypeNumber   FormFieldType = "number"
	FieldTypeEmail    FormFieldType = "email"
	FieldTypeDate     FormFieldType = "date"
	FieldTypeSelect   FormFieldType = "select"
	FieldTypeCheckbox FormFieldType = "checkbox"
	FieldTypeRadio    FormFieldType = "radio"
	FieldTypeFile     FormFieldType = "file"
)

var formFieldTypes = map[FormFieldType]bool{
	FieldTypeText:     true,
	FieldTypeTextArea: true,
	FieldTypeNumber:   true,
	FieldTypeEmail:    true,
	FieldTypeDate:     true,
	FieldTypeSelect:   true,
	FieldTypeCheckbox: true,
	FieldTypeRadio:    true,
	FieldTypeFile:     true,
}

// FormField is one typed field of the form the assignee fills in before
// submitting. Fields keep their declared order.
type FormField struct {
	ID       string        `json:"id" bson:"id"`
	Label    string        `json:"label" bson:"label"`
	Type     FormFieldType `json:"type" bson:"type"`
	Required bool          `json:"required" bson:"required"`
	Options  []string      `json:"options,omitempty" bson:"options,omitempty"`
}

// Attachment is a stored-file descriptor recorded on a task, either
// supplied by the creator or attached to the assignee's response.
type Attachment struct {
	ID           string             `json:"id" bson:"id"`
	Filename     string             `json:"filename" bson:"filename"`
	URL          string             `json:"url" bson:"url"`
	UploadedBy   primitive.ObjectID `json:"uploaded_by" bson:"uploaded_by"`
	UploaderName string             `json:"uploader_name" bson:"uploader_name"`
	Size         int64              `json:"size" bson:"size"`
	MimeType     string             `json:"mime_type" bson:"mime_type"`
	UploadedAt   time.Time          `json:"uploaded_at" bson:"uploaded_at"`
}

// ActivityEntry is one record of the append-only per-task audit trail.
// Entries are never mutated or removed once written.
type ActivityEntry struct {
	ID              string                 `json:"id" bson:"id"`
	Action          ActivityAction         `json:"action" bson:"action"`
	PerformedBy     primitive.ObjectID     `json:"performed_by" bson:"performed_by"`
	PerformedByName string                 `json:"performed_by_name" bson:"performed_by_name"`
	PerformedByRole rbac.Role              `json:"performed_by_role" bson:"performed_by_role"`
	Comment         string                 `json:"comment,omitempty" bson:"comment,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	Timestamp       time.Time              `json:"timestamp" bson:"timestamp"`
}

// Task is the central workflow entity.
type Task struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Category    string             `json:"category,omitempty" bson:"category,omitempty"`
	Tags        []string           `json:"tags,omitempty" bson:"tags,omitempty"`

	Priority     TaskPriority `json:"priority" bson:"priority"`
	PriorityRank int          `json:"-" bson:"priority_rank"`

	Status TaskStatus `json:"status" bson:"status"`

	// Assignment
	AssignedBy     primitive.ObjectID `json:"assigned_by" bson:"assigned_by"`
	AssignedByName string             `json:"assigned_by_name" bson:"assigned_by_name"`
	AssignedTo     primitive.ObjectID `json:"assigned_to" bson:"assigned_to"`
	AssignedToName string             `json:"assigned_to_name" bson:"assigned_to_name"`
	AssignedToRole rbac.Role          `json:"assigned_to_role" bson:"assigned_to_role"`

	// Dynamic form
	FormFields       []FormField            `json:"form_fields,omitempty" bson:"form_fields,omitempty"`
	EmployeeResponse map[string]interface{} `json:"employee_response,omitempty" bson:"employee_response,omitempty"`

	// Attachments
	Attachments         []Attachment `json:"attachments,omitempty" bson:"attachments,omitempty"`
	ResponseAttachments []Attachment `json:"response_attachments,omitempty" bson:"response_attachments,omitempty"`

	EstimatedHours float64    `json:"estimated_hours,omitempty" bson:"estimated_hours,omitempty"`
	ActualHours    float64    `json:"actual_hours,omitempty" bson:"actual_hours,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty" bson:"due_date,omitempty"`

	Activity []ActivityEntry `json:"activity" bson:"activity"`

	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty" bson:"submitted_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// Overdue reports whether the task is past due and still open.
func (t *Task) Overdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	if t.Status != StatusPending && t.Status != StatusInProgress {
		return false
	}
	return t.DueDate.Before(now)
}

const (
	maxTitleLen       = 200
	maxDescriptionLen = 2000
)

// ValidateNew checks the descriptive fields and form schema of a task
// about to be created. It returns the offending field names.
func ValidateNew(t *Task) []string {
	var bad []string

	if l := len(strings.TrimSpace(t.Title)); l == 0 || l > maxTitleLen {
		bad = append(bad, "title")
	}
	if l := len(strings.TrimSpace(t.Description)); l == 0 || l > maxDescriptionLen {
		bad = append(bad, "description")
	}
	if !t.Priority.Valid() {
		bad = append(bad, "priority")
	}
	bad = append(bad, validateFormSchema(t.FormFields)...)

	return bad
}

func validateFormSchema(fields []FormField) []string {
	var bad []string
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		switch {
		case strings.TrimSpace(f.ID) == "":
			bad = append(bad, "form_fields["+strconv.Itoa(i)+"].id")
		case seen[f.ID]:
			bad = append(bad, "form_fields."+f.ID)
		default:
			seen[f.ID] = true
		}
		if !formFieldTypes[f.Type] {
			bad = append(bad, "form_fields["+strconv.Itoa(i)+"].type")
		}
		if (f.Type == FieldTypeSelect || f.Type == FieldTypeRadio) && len(f.Options) == 0 {
			bad = append(bad, "form_fields["+strconv.Itoa(i)+"].options")
		}
	}
	return bad
}

// MissingRequired returns the ids of required form fields the response
// does not answer. A nil, absent, or blank-string value counts as missing.
func MissingRequired(fields []FormField, response map[string]interface{}) []string {
	var missing []string
	for _, f := range fields {
		if !f.Required {
			continue
		}
		v, ok := response[f.ID]
		if !ok || v == nil {
			missing = append(missing, f.ID)
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			missing = append(missing, f.ID)
		}
	}
	return missing
}

