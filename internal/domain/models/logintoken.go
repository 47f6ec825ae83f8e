// internal/domain/models/logintoken.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoginToken is a single-use, time-limited bearer token for passwordless
// sign-in: issued → consumed | expired. The plaintext token never touches
// storage; TokenHash is a bcrypt hash and TokenLookup a SHA-256 digest
// used for the indexed lookup. A TTL index on ExpiresAt prunes stale
// documents.
type LoginToken struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"user_id"`
	TokenHash   string             `bson:"token_hash"`
	TokenLookup string             `bson:"token_lookup"`
	ExpiresAt   time.Time          `bson:"expires_at"` // TTL index field
	Used        bool               `bson:"used"`
	UsedAt      *time.Time         `bson:"used_at,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
}
