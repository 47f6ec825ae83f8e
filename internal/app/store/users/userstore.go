// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leadrelay/leadrelay/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateUser = errors.New("a user with this email already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.FullNameCI = text.Fold(u.FullName)
	if u.Status == "" {
		u.Status = "active"
	}
	if u.Memberships == nil {
		u.Memberships = []models.Membership{}
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, u)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUser
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&u)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Update modifies a user's mutable profile fields and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, u models.User) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if u.FullName != "" {
		set["full_name"] = u.FullName
		set["full_name_ci"] = text.Fold(u.FullName)
	}
	if u.Email != "" {
		set["email"] = strings.ToLower(strings.TrimSpace(u.Email))
	}
	if u.Status != "" {
		set["status"] = u.Status
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateUser
		}
		return err
	}
	return nil
}

// UpsertMembership replaces the user's membership in m.CompanyID, or
// appends it when none exists. One membership per (user, company).
func (s *Store) UpsertMembership(ctx context.Context, userID primitive.ObjectID, m models.Membership) error {
	now := time.Now().UTC()
	m.UpdatedAt = now
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}

	// Replace in place when the membership already exists.
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, "memberships.company_id": m.CompanyID},
		bson.M{"$set": bson.M{
			"memberships.$": m,
			"updated_at":    now,
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	res, err = s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$push": bson.M{"memberships": m},
			"$set":  bson.M{"updated_at": now},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RemoveMembership deletes the user's membership in the company.
func (s *Store) RemoveMembership(ctx context.Context, userID, companyID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$pull": bson.M{"memberships": bson.M{"company_id": companyID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// BumpSessionEpoch increments the user's session epoch and returns the
// new value. Cookies minted under older epochs stop validating, so this
// invalidates every other session for the user.
func (s *Store) BumpSessionEpoch(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	var u models.User
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$inc": bson.M{"session_epoch": 1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err != nil {
		return 0, err
	}
	return u.SessionEpoch, nil
}

// TouchLastReceived records when the user last received a lead in the
// company, consumed by the upstream distributor's fairness ordering.
func (s *Store) TouchLastReceived(ctx context.Context, userID, companyID primitive.ObjectID, at time.Time) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, "memberships.company_id": companyID},
		bson.M{"$set": bson.M{
			"memberships.$.last_received_at": at.UTC(),
			"updated_at":                     time.Now().UTC(),
		}})
	return err
}

// ListByCompany returns users holding a membership in the company.
func (s *Store) ListByCompany(ctx context.Context, companyID primitive.ObjectID) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{"memberships.company_id": companyID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Find returns users matching the given filter with optional find options.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.User, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Fetcher adapts the store to the session layer's user lookup.
type Fetcher struct {
	store *Store
}

// NewFetcher returns a Fetcher backed by the users collection.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{store: New(db)}
}

// FetchByID loads the user for session validation.
func (f *Fetcher) FetchByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return f.store.GetByID(ctx, id)
}
