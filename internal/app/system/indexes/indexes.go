// internal/app/system/indexes/indexes.go

// Package indexes declares every MongoDB index the service relies on.
// EnsureAll runs at startup before the HTTP listener opens; uniqueness
// guarantees (one lead per number per working day, one switch per
// company per day) live here, not in application code.
package indexes

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureAll creates all indexes, collecting per-collection failures.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var errs []error

	ensure := func(coll string, models []mongo.IndexModel) {
		_, err := db.Collection(coll).Indexes().CreateMany(ctx, models)
		if err != nil {
			errs = append(errs, fmt.Errorf("ensure %s indexes: %w", coll, err))
		}
	}

	ensure("users", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "memberships.company_id", Value: 1}},
		},
	})

	ensure("companies", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})

	ensure("leads", []mongo.IndexModel{
		{
			// One lead per phone number per working day, across all companies.
			Keys: bson.D{
				{Key: "number_e164", Value: 1},
				{Key: "working_day", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "source_company_id", Value: 1},
				{Key: "working_day", Value: 1},
				{Key: "lead_status", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "submitted_by", Value: 1}, {Key: "working_day", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "assigned_to", Value: 1}, {Key: "working_day", Value: 1}},
		},
	})

	ensure("screenshots", []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "company_id", Value: 1},
				{Key: "working_day", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "lead_id", Value: 1}},
		},
	})

	ensure("distribution_switches", []mongo.IndexModel{
		{
			// Per-company switch, one per day. The global switch has no
			// company_id; the partial filter keeps it out of this index.
			Keys: bson.D{
				{Key: "company_id", Value: 1},
				{Key: "working_day", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "company_id", Value: bson.D{{Key: "$exists", Value: true}}}}),
		},
		{
			// Global switch, one per day.
			Keys: bson.D{{Key: "working_day", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "company_id", Value: bson.D{{Key: "$exists", Value: false}}}}),
		},
	})

	ensure("login_tokens", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
		{
			Keys: bson.D{{Key: "token_lookup", Value: 1}},
		},
	})

	if len(errs) > 0 {
		return fmt.Errorf("index creation failed: %v", errs)
	}
	return nil
}
