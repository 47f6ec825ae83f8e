// internal/app/store/screenshots/screenshotstore.go
package screenshotstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leadrelay/leadrelay/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

// ErrAlreadyReviewed is returned when a reviewer races another on the
// same screenshot; the first review wins.
var ErrAlreadyReviewed = errors.New("screenshot already reviewed")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("screenshots")}
}

func (s *Store) Create(ctx context.Context, shot models.Screenshot) (models.Screenshot, error) {
	shot.ID = primitive.NewObjectID()
	shot.Reviewed = false
	shot.ReviewedBy = nil
	shot.ReviewedAt = nil
	shot.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, shot); err != nil {
		return models.Screenshot{}, err
	}
	return shot, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Screenshot, error) {
	var shot models.Screenshot
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&shot)
	if err != nil {
		return models.Screenshot{}, err
	}
	return shot, nil
}

// Review marks the screenshot reviewed. The reviewed:false guard makes
// the operation single-shot under concurrent reviewers.
func (s *Store) Review(ctx context.Context, id, reviewerID primitive.ObjectID) (models.Screenshot, error) {
	now := time.Now().UTC()
	var shot models.Screenshot
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "reviewed": false},
		bson.M{"$set": bson.M{
			"reviewed":    true,
			"reviewed_by": reviewerID,
			"reviewed_at": now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&shot)
	if err == mongo.ErrNoDocuments {
		// Either missing or already reviewed; look again to distinguish.
		if lookErr := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); lookErr == nil {
			return models.Screenshot{}, ErrAlreadyReviewed
		}
		return models.Screenshot{}, mongo.ErrNoDocuments
	}
	if err != nil {
		return models.Screenshot{}, err
	}
	return shot, nil
}

// ListByCompanyDay returns a company's screenshots for a working day,
// newest first. reviewed filters when non-nil.
func (s *Store) ListByCompanyDay(ctx context.Context, companyID primitive.ObjectID, workingDay string, reviewed *bool) ([]models.Screenshot, error) {
	filter := bson.M{
		"company_id":  companyID,
		"working_day": workingDay,
	}
	if reviewed != nil {
		filter["reviewed"] = *reviewed
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var shots []models.Screenshot
	if err := cur.All(ctx, &shots); err != nil {
		return nil, err
	}
	return shots, nil
}

// ListByLead returns every screenshot attached to a lead.
func (s *Store) ListByLead(ctx context.Context, leadID primitive.ObjectID) ([]models.Screenshot, error) {
	cur, err := s.c.Find(ctx, bson.M{"lead_id": leadID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var shots []models.Screenshot
	if err := cur.All(ctx, &shots); err != nil {
		return nil, err
	}
	return shots, nil
}
