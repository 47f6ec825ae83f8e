// internal/app/store/companies/companystore.go
package companystore

import (
	"context"
	"errors"
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

var ErrDuplicateCompany = errors.New("a company with this name or code already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("companies")}
}

func (s *Store) Create(ctx context.Context, company models.Company) (models.Company, error) {
	now := time.Now().UTC()
	company.ID = primitive.NewObjectID()
	company.NameCI = text.Fold(company.Name)
	if company.Status == "" {
		company.Status = "active"
	}
	if company.RoleMode == "" {
		company.RoleMode = models.RoleModeHybrid
	}
	company.CreatedAt = now
	company.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, company)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Company{}, ErrDuplicateCompany
		}
		return models.Company{}, err
	}
	return company, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Company, error) {
	var company models.Company
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&company)
	if err != nil {
		return models.Company{}, err
	}
	return company, nil
}

func (s *Store) GetByCode(ctx context.Context, code string) (models.Company, error) {
	var company models.Company
	err := s.c.FindOne(ctx, bson.M{"code": code}).Decode(&company)
	if err != nil {
		return models.Company{}, err
	}
	return company, nil
}

// Update modifies a company's mutable fields and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, company models.Company) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if company.Name != "" {
		set["name"] = company.Name
		set["name_ci"] = text.Fold(company.Name)
	}
	if company.Code != "" {
		set["code"] = company.Code
	}
	if company.Status != "" {
		set["status"] = company.Status
	}
	if company.RoleMode != "" {
		set["role_mode"] = company.RoleMode
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateCompany
		}
		return err
	}
	return nil
}

// Delete removes a company by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// SetRoleMode changes one company's role mode.
func (s *Store) SetRoleMode(ctx context.Context, id primitive.ObjectID, mode string) error {
	if !models.ValidRoleMode(mode) {
		return errors.New("invalid role mode: " + mode)
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"role_mode":  mode,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetRoleModeByCodes sets the role mode for every company whose code is in
// codes. Used by the rolemodefix backfill tool. Returns matched and
// modified counts so the operator can see how many records already had
// the target mode.
func (s *Store) SetRoleModeByCodes(ctx context.Context, codes []string, mode string) (matched, modified int64, err error) {
	if !models.ValidRoleMode(mode) {
		return 0, 0, errors.New("invalid role mode: " + mode)
	}
	if len(codes) == 0 {
		return 0, 0, nil
	}
	res, err := s.c.UpdateMany(ctx,
		bson.M{"code": bson.M{"$in": codes}},
		bson.M{"$set": bson.M{
			"role_mode":  mode,
			"updated_at": time.Now().UTC(),
		}})
	if err != nil {
		return 0, 0, err
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

// BackfillRoleMode sets role_mode on every company missing one. Returns
// the number of companies updated.
func (s *Store) BackfillRoleMode(ctx context.Context, mode string) (int64, error) {
	if !models.ValidRoleMode(mode) {
		return 0, errors.New("invalid role mode: " + mode)
	}
	res, err := s.c.UpdateMany(ctx,
		bson.M{"$or": bson.A{
			bson.M{"role_mode": bson.M{"$exists": false}},
			bson.M{"role_mode": ""},
		}},
		bson.M{"$set": bson.M{
			"role_mode":  mode,
			"updated_at": time.Now().UTC(),
		}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Find returns companies matching the given filter with optional find options.
// The caller is responsible for building the filter and options (pagination, sorting).
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Company, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var companies []models.Company
	if err := cur.All(ctx, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

// Count returns the number of companies matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
