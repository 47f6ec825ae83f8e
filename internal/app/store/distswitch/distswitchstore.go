// internal/app/store/distswitch/distswitchstore.go
package distswitchstore

import (
	"context"
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

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("distribution_switches")}
}

// filterFor scopes to one switch document. companyID nil means the
// global switch for the day.
func filterFor(companyID *primitive.ObjectID, workingDay string) bson.M {
	filter := bson.M{"working_day": workingDay}
	if companyID != nil {
		filter["company_id"] = *companyID
	} else {
		filter["company_id"] = bson.M{"$exists": false}
	}
	return filter
}

// Upsert sets the switch for (companyID, workingDay), creating the
// document if the day has none yet.
func (s *Store) Upsert(ctx context.Context, companyID *primitive.ObjectID, workingDay string, enabled bool, updatedBy primitive.ObjectID) (models.DistributionSwitch, error) {
	now := time.Now().UTC()
	set := bson.M{
		"enabled":    enabled,
		"updated_by": updatedBy,
		"updated_at": now,
	}
	setOnInsert := bson.M{
		"_id":         primitive.NewObjectID(),
		"working_day": workingDay,
		"created_at":  now,
	}
	if companyID != nil {
		setOnInsert["company_id"] = *companyID
	}

	var sw models.DistributionSwitch
	err := s.c.FindOneAndUpdate(ctx,
		filterFor(companyID, workingDay),
		bson.M{"$set": set, "$setOnInsert": setOnInsert},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&sw)
	if err != nil {
		return models.DistributionSwitch{}, err
	}
	return sw, nil
}

// Get returns the switch for (companyID, workingDay), or
// mongo.ErrNoDocuments when none has been set.
func (s *Store) Get(ctx context.Context, companyID *primitive.ObjectID, workingDay string) (models.DistributionSwitch, error) {
	var sw models.DistributionSwitch
	err := s.c.FindOne(ctx, filterFor(companyID, workingDay)).Decode(&sw)
	if err != nil {
		return models.DistributionSwitch{}, err
	}
	return sw, nil
}

// Effective resolves whether distribution runs for the company on the
// day: the company switch wins, then the global switch, then the
// default of enabled.
func (s *Store) Effective(ctx context.Context, companyID primitive.ObjectID, workingDay string) (bool, error) {
	sw, err := s.Get(ctx, &companyID, workingDay)
	if err == nil {
		return sw.Enabled, nil
	}
	if err != mongo.ErrNoDocuments {
		return false, err
	}

	sw, err = s.Get(ctx, nil, workingDay)
	if err == nil {
		return sw.Enabled, nil
	}
	if err != mongo.ErrNoDocuments {
		return false, err
	}
	return true, nil
}

// CarryForward copies every switch from fromDay to toDay, skipping
// scopes already set on toDay. Runs at the working-day cutover so a
// company paused yesterday stays paused until someone flips it back.
func (s *Store) CarryForward(ctx context.Context, fromDay, toDay string) (int64, error) {
	cur, err := s.c.Find(ctx, bson.M{"working_day": fromDay})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var switches []models.DistributionSwitch
	if err := cur.All(ctx, &switches); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	var copied int64
	for _, sw := range switches {
		setOnInsert := bson.M{
			"_id":         primitive.NewObjectID(),
			"working_day": toDay,
			"enabled":     sw.Enabled,
			"updated_by":  sw.UpdatedBy,
			"created_at":  now,
			"updated_at":  now,
		}
		if sw.CompanyID != nil {
			setOnInsert["company_id"] = *sw.CompanyID
		}
		res, err := s.c.UpdateOne(ctx,
			filterFor(sw.CompanyID, toDay),
			bson.M{"$setOnInsert": setOnInsert},
			options.Update().SetUpsert(true))
		if err != nil {
			return copied, err
		}
		if res.UpsertedCount > 0 {
			copied++
		}
	}
	return copied, nil
}
