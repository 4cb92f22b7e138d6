package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive" // ObjectID generation
)

// NewID returns a fresh 24 character hex identifier
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether s is a 24 character hex identifier
func IsValidID(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}
