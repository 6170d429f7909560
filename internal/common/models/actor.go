package models

import (
	"go-charity/internal/features/rbac"
	"go-charity/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the already-authenticated caller a service operation runs on
// behalf of. The auth layer verifies identity; services only authorize.
type Actor struct {
	ID   primitive.ObjectID
	Name string
	Role rbac.Role
}

// ActorFromClaims converts validated JWT claims into an Actor.
func ActorFromClaims(claims *utils.UserClaims) (Actor, error) {
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return Actor{}, err
	}
	return Actor{
		ID:   id,
		Name: claims.Name,
		Role: rbac.Role(claims.Role),
	}, nil
}
