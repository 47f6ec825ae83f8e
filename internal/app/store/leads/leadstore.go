// internal/app/store/leads/leadstore.go
package leadstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leadrelay/leadrelay/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var (
	// ErrDuplicateLead fires on the (number_e164, working_day) unique
	// index: the same phone number was already submitted today, by anyone.
	ErrDuplicateLead = errors.New("a lead with this number already exists for the working day")

	ErrInvalidStatus = errors.New("invalid lead status")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("leads")}
}

func (s *Store) Create(ctx context.Context, lead models.Lead) (models.Lead, error) {
	now := time.Now().UTC()
	lead.ID = primitive.NewObjectID()
	if lead.Status == "" {
		lead.Status = models.LeadPending
	}
	lead.CreatedAt = now
	lead.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, lead)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Lead{}, ErrDuplicateLead
		}
		return models.Lead{}, err
	}
	return lead, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Lead, error) {
	var lead models.Lead
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&lead)
	if err != nil {
		return models.Lead{}, err
	}
	return lead, nil
}

// UpdateStatus transitions a lead, normalizing legacy status spellings.
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	normalized := models.ParseLeadStatus(status)
	if normalized == "" {
		return ErrInvalidStatus
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"lead_status": normalized,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Assign records the distributor's placement of a lead.
func (s *Store) Assign(ctx context.Context, id, companyID, userID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"assigned_company_id": companyID,
		"assigned_to":         userID,
		"lead_status":         models.LeadAssigned,
		"updated_at":          time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListForCompany returns the company's leads for a working day, newest
// first. An empty status means all statuses. Leads count for a company
// when it is the source or the assigned destination.
func (s *Store) ListForCompany(ctx context.Context, companyID primitive.ObjectID, workingDay, status string) ([]models.Lead, error) {
	filter := bson.M{
		"working_day": workingDay,
		"$or": bson.A{
			bson.M{"source_company_id": companyID},
			bson.M{"assigned_company_id": companyID},
		},
	}
	if status != "" {
		normalized := models.ParseLeadStatus(status)
		if normalized == "" {
			return nil, ErrInvalidStatus
		}
		filter["lead_status"] = normalized
	}
	return s.find(ctx, filter)
}

// ListForUser returns the leads a non-privileged user may see for a
// working day: those they submitted or were assigned.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID, workingDay string) ([]models.Lead, error) {
	return s.find(ctx, bson.M{
		"working_day": workingDay,
		"$or": bson.A{
			bson.M{"submitted_by": userID},
			bson.M{"assigned_to": userID},
		},
	})
}

// CountByStatus returns per-status lead counts for a company and day.
func (s *Store) CountByStatus(ctx context.Context, companyID primitive.ObjectID, workingDay string) (map[string]int64, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"working_day": workingDay,
			"$or": bson.A{
				bson.M{"source_company_id": companyID},
				bson.M{"assigned_company_id": companyID},
			},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$lead_status",
			"count": bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := make(map[string]int64)
	for cur.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Status] = row.Count
	}
	return counts, cur.Err()
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Lead, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var leads []models.Lead
	if err := cur.All(ctx, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}
