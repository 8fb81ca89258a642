// Package repository holds one repository per collection. Identifiers
// are ObjectID hex strings stored as plain string _ids; malformed ids
// are rejected before any query runs.
package repository

import (
	"roadmap-service/internal/apperror"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newID() string {
	return primitive.NewObjectID().Hex()
}

func validateID(id, what string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return apperror.BadRequest("invalid " + what + " id")
	}
	return nil
}
