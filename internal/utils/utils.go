package utils

import (
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// IsObjectID reports whether s is a 24 character hex Mongo ObjectID.
func IsObjectID(s string) bool {
	_, err := bson.ObjectIDFromHex(s)
	return err == nil
}

// NewID returns a fresh ObjectID in hex form.
func NewID() string {
	return bson.NewObjectID().Hex()
}

// NormalizeEmail trims and lowercases an email address before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsMongoDuplicateKey reports whether error is a MongoDB unique index violation (code 11000).
func IsMongoDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
