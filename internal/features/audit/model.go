package audit

import (
	"time"

	"go-charity/internal/features/rbac"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditAction string

const (
	AuditActionCreate     AuditAction = "CREATE"
	AuditActionUpdate     AuditAction = "UPDATE"
	AuditActionRoleChange AuditAction = "ROLE_CHANGE"
	AuditActionActivate   AuditAction = "ACTIVATE"
	AuditActionDeactivate AuditAction = "DEACTIVATE"
	AuditActionLogin      AuditAction = "LOGIN"
	AuditActionUpload     AuditAction = "UPLOAD"
	AuditActionRule       AuditAction = "RULE"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

// AuditLog is one append-only platform-level audit record. Task workflow
// history lives on the task document itself; this collection covers the
// mutations around it (accounts, roles, uploads, rules).
type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action    AuditAction        `bson:"action" json:"action"`
	Module    string             `bson:"module" json:"module"`
	RecordID  string             `bson:"record_id" json:"record_id"`
	ActorID   string             `bson:"actor_id" json:"actor_id"`
	ActorName string             `bson:"actor_name" json:"actor_name"`
	ActorRole rbac.Role          `bson:"actor_role" json:"actor_role"`
	Changes   map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
