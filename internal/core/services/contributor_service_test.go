package services

import (
	"context"
	"errors"
	"testing"

	"agritoken-exchange/internal/adapters/persistence/models"
	"agritoken-exchange/internal/core/domain"
)

func TestSetRateUpsertsSingleRow(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(db)
	contributors := newTestContributorService(db)
	ctx := context.Background()

	mustRegister(t, auth, contributorInput("meera", 8))

	if err := contributors.SetRate(ctx, "meera", 12.5); err != nil {
		t.Fatalf("set rate: %v", err)
	}
	if err := contributors.SetRate(ctx, "meera", 10); err != nil {
		t.Fatalf("second set rate: %v", err)
	}

	// Repeated updates overwrite the single row instead of stacking
	var rows int64
	if err := db.Model(&models.ContributorRate{}).Where("contributor_username = ?", "meera").Count(&rows).Error; err != nil {
		t.Fatalf("count rates: %v", err)
	}
	if rows != 1 {
		t.Errorf("expected 1 rate row, got %d", rows)
	}

	rate, err := contributors.SelectContributor(ctx, "meera")
	if err != nil {
		t.Fatalf("select contributor: %v", err)
	}
	if rate.PreferredRate != 10 {
		t.Errorf("expected latest rate 10, got %v", rate.PreferredRate)
	}
}

func TestSetRateOutOfRange(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(db)
	contributors := newTestContributorService(db)
	ctx := context.Background()

	mustRegister(t, auth, contributorInput("meera", 8))

	for _, rate := range []float64{-0.5, 20.01, 100} {
		if err := contributors.SetRate(ctx, "meera", rate); !errors.Is(err, domain.ErrRateOutOfRange) {
			t.Errorf("rate %v: expected ErrRateOutOfRange, got %v", rate, err)
		}
	}

	// Boundary values are accepted
	for _, rate := range []float64{0, 20} {
		if err := contributors.SetRate(ctx, "meera", rate); err != nil {
			t.Errorf("rate %v: expected success, got %v", rate, err)
		}
	}
}

func TestSetRateRequiresContributorRole(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(db)
	contributors := newTestContributorService(db)
	ctx := context.Background()

	mustRegister(t, auth, farmerInput("ravi"))

	if err := contributors.SetRate(ctx, "ravi", 10); !errors.Is(err, domain.ErrContributorNotFound) {
		t.Errorf("farmer: expected ErrContributorNotFound, got %v", err)
	}
	if err := contributors.SetRate(ctx, "ghost", 10); !errors.Is(err, domain.ErrContributorNotFound) {
		t.Errorf("unknown user: expected ErrContributorNotFound, got %v", err)
	}
}

func TestListContributorsOrdered(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(db)
	contributors := newTestContributorService(db)
	ctx := context.Background()

	// Registered out of order; farmers never appear in the listing
	mustRegister(t, auth, contributorInput("carol", 11))
	mustRegister(t, auth, contributorInput("alice", 7.5))
	mustRegister(t, auth, farmerInput("ravi"))
	mustRegister(t, auth, contributorInput("bob", 9))

	listings, err := contributors.ListContributors(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"alice", "bob", "carol"}
	if len(listings) != len(want) {
		t.Fatalf("expected %d listings, got %d", len(want), len(listings))
	}
	for i, username := range want {
		if listings[i].ContributorUsername != username {
			t.Errorf("position %d: expected %s, got %s", i, username, listings[i].ContributorUsername)
		}
	}
	if listings[0].PreferredRate != 7.5 {
		t.Errorf("expected alice's rate 7.5, got %v", listings[0].PreferredRate)
	}
}

func TestListContributorsEmpty(t *testing.T) {
	db := setupTestDB(t)
	contributors := newTestContributorService(db)

	listings, err := contributors.ListContributors(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("expected empty listing, got %d entries", len(listings))
	}
}

func TestSelectContributorUnknown(t *testing.T) {
	db := setupTestDB(t)
	contributors := newTestContributorService(db)

	if _, err := contributors.SelectContributor(context.Background(), "ghost"); !errors.Is(err, domain.ErrContributorNotFound) {
		t.Errorf("expected ErrContributorNotFound, got %v", err)
	}
}
