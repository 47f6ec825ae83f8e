package screenshotstore_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	screenshotstore "github.com/leadrelay/leadrelay/internal/app/store/screenshots"
	"github.com/leadrelay/leadrelay/internal/domain/models"
	"github.com/leadrelay/leadrelay/internal/testutil"
)

func fixture(companyID primitive.ObjectID, workingDay string) models.Screenshot {
	return models.Screenshot{
		LeadID:     primitive.NewObjectID(),
		CompanyID:  companyID,
		UploaderID: primitive.NewObjectID(),
		Product:    "widget",
		WorkingDay: workingDay,
		FileURL:    "https://files.example.com/shot.png",
	}
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := screenshotstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	shot, err := store.Create(ctx, fixture(primitive.NewObjectID(), "2025-09-12"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if shot.ID.IsZero() {
		t.Error("expected generated ID")
	}
	if shot.Reviewed {
		t.Error("new screenshots must start unreviewed")
	}
}

func TestStore_Review(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := screenshotstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	shot, err := store.Create(ctx, fixture(primitive.NewObjectID(), "2025-09-12"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	reviewerID := primitive.NewObjectID()
	got, err := store.Review(ctx, shot.ID, reviewerID)
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if !got.Reviewed {
		t.Error("expected reviewed=true")
	}
	if got.ReviewedBy == nil || *got.ReviewedBy != reviewerID {
		t.Errorf("reviewed_by: got %v", got.ReviewedBy)
	}
	if got.ReviewedAt == nil {
		t.Error("expected reviewed_at")
	}
}

func TestStore_Review_SecondReviewerLoses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := screenshotstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	shot, err := store.Create(ctx, fixture(primitive.NewObjectID(), "2025-09-12"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := store.Review(ctx, shot.ID, primitive.NewObjectID()); err != nil {
		t.Fatalf("first Review failed: %v", err)
	}

	_, err = store.Review(ctx, shot.ID, primitive.NewObjectID())
	if err != screenshotstore.ErrAlreadyReviewed {
		t.Errorf("expected ErrAlreadyReviewed, got %v", err)
	}
}

func TestStore_Review_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := screenshotstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Review(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_ListByCompanyDay(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := screenshotstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	companyID := primitive.NewObjectID()

	reviewed, err := store.Create(ctx, fixture(companyID, "2025-09-12"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, fixture(companyID, "2025-09-12")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	// Other company and other day: excluded.
	if _, err := store.Create(ctx, fixture(primitive.NewObjectID(), "2025-09-12")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, fixture(companyID, "2025-09-13")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Review(ctx, reviewed.ID, primitive.NewObjectID()); err != nil {
		t.Fatalf("Review failed: %v", err)
	}

	all, err := store.ListByCompanyDay(ctx, companyID, "2025-09-12", nil)
	if err != nil {
		t.Fatalf("ListByCompanyDay failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 screenshots, got %d", len(all))
	}

	pendingOnly := false
	pending, err := store.ListByCompanyDay(ctx, companyID, "2025-09-12", &pendingOnly)
	if err != nil {
		t.Fatalf("ListByCompanyDay (pending) failed: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("expected 1 pending screenshot, got %d", len(pending))
	}
}

func TestStore_ListByLead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := screenshotstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leadID := primitive.NewObjectID()
	shot := fixture(primitive.NewObjectID(), "2025-09-12")
	shot.LeadID = leadID
	if _, err := store.Create(ctx, shot); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, fixture(primitive.NewObjectID(), "2025-09-12")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.ListByLead(ctx, leadID)
	if err != nil {
		t.Fatalf("ListByLead failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 screenshot, got %d", len(got))
	}
}
