package user

import (
	"time"

	"go-charity/internal/features/rbac"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a platform account. Identity is immutable; the role may only
// be changed by a strictly senior actor.
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	Role         rbac.Role          `json:"role" bson:"role"`
	Department   string             `json:"department,omitempty" bson:"department,omitempty"`
	Active       bool               `json:"active" bson:"active"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}
