package distswitchstore_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	distswitchstore "github.com/leadrelay/leadrelay/internal/app/store/distswitch"
	"github.com/leadrelay/leadrelay/internal/testutil"
)

func TestStore_UpsertAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := distswitchstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	companyID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()

	sw, err := store.Upsert(ctx, &companyID, "2025-09-12", false, adminID)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if sw.Enabled {
		t.Error("expected enabled=false")
	}
	if sw.CompanyID == nil || *sw.CompanyID != companyID {
		t.Errorf("company_id: got %v", sw.CompanyID)
	}

	// Flip it back on; must update in place, not create a second doc.
	sw2, err := store.Upsert(ctx, &companyID, "2025-09-12", true, adminID)
	if err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}
	if sw2.ID != sw.ID {
		t.Error("expected the same document on re-upsert")
	}
	if !sw2.Enabled {
		t.Error("expected enabled=true after flip")
	}
}

func TestStore_Get_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := distswitchstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	companyID := primitive.NewObjectID()
	_, err := store.Get(ctx, &companyID, "2025-09-12")
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_Effective_DefaultEnabled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := distswitchstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	on, err := store.Effective(ctx, primitive.NewObjectID(), "2025-09-12")
	if err != nil {
		t.Fatalf("Effective failed: %v", err)
	}
	if !on {
		t.Error("distribution should default to enabled")
	}
}

func TestStore_Effective_GlobalOverridesDefault(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := distswitchstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	adminID := primitive.NewObjectID()
	if _, err := store.Upsert(ctx, nil, "2025-09-12", false, adminID); err != nil {
		t.Fatalf("Upsert global failed: %v", err)
	}

	on, err := store.Effective(ctx, primitive.NewObjectID(), "2025-09-12")
	if err != nil {
		t.Fatalf("Effective failed: %v", err)
	}
	if on {
		t.Error("global off should disable companies without their own switch")
	}
}

func TestStore_Effective_CompanyOverridesGlobal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := distswitchstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	companyID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()

	if _, err := store.Upsert(ctx, nil, "2025-09-12", false, adminID); err != nil {
		t.Fatalf("Upsert global failed: %v", err)
	}
	if _, err := store.Upsert(ctx, &companyID, "2025-09-12", true, adminID); err != nil {
		t.Fatalf("Upsert company failed: %v", err)
	}

	on, err := store.Effective(ctx, companyID, "2025-09-12")
	if err != nil {
		t.Fatalf("Effective failed: %v", err)
	}
	if !on {
		t.Error("company switch should win over the global switch")
	}
}

func TestStore_CarryForward(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := distswitchstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pausedCo := primitive.NewObjectID()
	presetCo := primitive.NewObjectID()
	adminID := primitive.NewObjectID()

	if _, err := store.Upsert(ctx, &pausedCo, "2025-09-12", false, adminID); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if _, err := store.Upsert(ctx, nil, "2025-09-12", true, adminID); err != nil {
		t.Fatalf("Upsert global failed: %v", err)
	}
	// presetCo already has tomorrow's switch; carry-forward must not clobber it.
	if _, err := store.Upsert(ctx, &presetCo, "2025-09-12", false, adminID); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if _, err := store.Upsert(ctx, &presetCo, "2025-09-13", true, adminID); err != nil {
		t.Fatalf("Upsert preset failed: %v", err)
	}

	copied, err := store.CarryForward(ctx, "2025-09-12", "2025-09-13")
	if err != nil {
		t.Fatalf("CarryForward failed: %v", err)
	}
	if copied != 2 {
		t.Errorf("expected 2 copied (paused company + global), got %d", copied)
	}

	on, err := store.Effective(ctx, pausedCo, "2025-09-13")
	if err != nil {
		t.Fatalf("Effective failed: %v", err)
	}
	if on {
		t.Error("paused company should remain paused after cutover")
	}

	sw, err := store.Get(ctx, &presetCo, "2025-09-13")
	if err != nil {
		t.Fatalf("Get preset failed: %v", err)
	}
	if !sw.Enabled {
		t.Error("pre-set switch for the new day must not be overwritten")
	}
}
