// internal/app/store/logintokens/logintokenstore.go
package logintokenstore

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/leadrelay/leadrelay/internal/domain/models"
)

const (
	// TokenLength is the magic link token size in bytes (32 bytes = 64 hex chars).
	TokenLength = 32
	// DefaultExpiry is how long a magic link stays valid.
	DefaultExpiry = 15 * time.Minute
	// BcryptCost for hashing tokens.
	BcryptCost = 10
)

// Consume failure messages are user-facing verbatim: the sign-in page
// shows err.Error() to the visitor.
var (
	ErrInvalidOrUsed = errors.New("Invalid or used")
	ErrExpired       = errors.New("Expired")
)

// Store manages single-use magic link tokens.
type Store struct {
	c      *mongo.Collection
	expiry time.Duration
}

// New creates a Store with the specified expiry duration.
// If expiry is 0 or negative, DefaultExpiry (15 minutes) is used.
func New(db *mongo.Database, expiry time.Duration) *Store {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Store{
		c:      db.Collection("login_tokens"),
		expiry: expiry,
	}
}

// Expiry returns the configured token lifetime.
func (s *Store) Expiry() time.Duration {
	return s.expiry
}

// Issue mints a token for the user and returns the plain text to embed
// in the magic link. Only a bcrypt hash is stored; token_lookup is a
// sha256 digest used to find the record without a collection scan.
// Outstanding tokens for the user are invalidated first.
func (s *Store) Issue(ctx context.Context, userID primitive.ObjectID) (string, error) {
	token := generateToken()
	hash, err := bcrypt.GenerateFromPassword([]byte(token), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash token: %w", err)
	}

	// One live token per user.
	_, _ = s.c.DeleteMany(ctx, bson.M{"user_id": userID, "used": false})

	now := time.Now().UTC()
	record := models.LoginToken{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		TokenHash:   string(hash),
		TokenLookup: lookupKey(token),
		ExpiresAt:   now.Add(s.expiry),
		Used:        false,
		CreatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, record); err != nil {
		return "", fmt.Errorf("insert login token: %w", err)
	}
	return token, nil
}

// Consume validates and spends a token, returning the owning user's ID.
// Returns ErrInvalidOrUsed for unknown, spent, or mismatched tokens and
// ErrExpired for timed-out ones. The used:false guard on the final
// update makes consumption single-shot under concurrent clicks.
func (s *Store) Consume(ctx context.Context, token string) (primitive.ObjectID, error) {
	var record models.LoginToken
	err := s.c.FindOne(ctx, bson.M{"token_lookup": lookupKey(token)}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return primitive.NilObjectID, ErrInvalidOrUsed
		}
		return primitive.NilObjectID, err
	}

	if record.Used {
		return primitive.NilObjectID, ErrInvalidOrUsed
	}
	if time.Now().After(record.ExpiresAt) {
		return primitive.NilObjectID, ErrExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(record.TokenHash), []byte(token)) != nil {
		return primitive.NilObjectID, ErrInvalidOrUsed
	}

	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": record.ID, "used": false},
		bson.M{"$set": bson.M{"used": true, "used_at": now}})
	if err != nil {
		return primitive.NilObjectID, err
	}
	if res.ModifiedCount == 0 {
		// Lost the race to another consumer.
		return primitive.NilObjectID, ErrInvalidOrUsed
	}
	return record.UserID, nil
}

// DeleteExpiredUsed removes spent and timed-out tokens. The TTL index
// on expires_at also reaps expired records; this sweep catches used
// ones before their TTL fires.
func (s *Store) DeleteExpiredUsed(ctx context.Context) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"used": true},
		bson.M{"expires_at": bson.M{"$lt": time.Now().UTC()}},
	}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func lookupKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// generateToken returns a random hex token for magic links.
// Panics if the system's cryptographic random number generator fails.
func generateToken() string {
	b := make([]byte, TokenLength)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand.Read failed: " + err.Error())
	}
	return hex.EncodeToString(b)
}
