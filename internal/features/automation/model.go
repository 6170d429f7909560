package automation

import (
	"time"

	"go-charity/internal/features/rbac"
	"go-charity/internal/features/task"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rule routes task activity events into notifications. Trigger selects the
// activity action; an optional condition script narrows matches further.
type Rule struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name        string              `json:"name" bson:"name"`
	Description string              `json:"description,omitempty" bson:"description,omitempty"`

	Trigger task.ActivityAction `json:"trigger" bson:"trigger"`

	// Condition is a boolean expression evaluated against the task with
	// status, priority, category, tags and overdue bound as variables.
	// Empty means the rule always fires.
	Condition string `json:"condition,omitempty" bson:"condition,omitempty"`

	// Recipients
	NotifyAssignee bool        `json:"notify_assignee" bson:"notify_assignee"`
	NotifyCreator  bool        `json:"notify_creator" bson:"notify_creator"`
	NotifyRoles    []rbac.Role `json:"notify_roles,omitempty" bson:"notify_roles,omitempty"`

	Message string `json:"message,omitempty" bson:"message,omitempty"`

	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
