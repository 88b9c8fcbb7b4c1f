package repository

import (
	"errors"
	"testing"

	"github.com/hejmarcin29/panel-firma-sub007/internal/models"
	"github.com/hejmarcin29/panel-firma-sub007/internal/testutil"

	"gorm.io/gorm"
)

func TestGetAuthoritativePrefersAccepted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewQuoteRepository(db)
	client := testutil.SeedClient(t, db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, db, client.ID, models.StatusLead)

	first := &models.Quote{MontageID: montage.ID, Number: "OF/2026/1", Status: models.QuoteSent}
	second := &models.Quote{MontageID: montage.ID, Number: "OF/2026/2", Status: models.QuoteAccepted}
	if err := db.Create(first).Error; err != nil {
		t.Fatalf("Failed to seed quote: %v", err)
	}
	if err := db.Create(second).Error; err != nil {
		t.Fatalf("Failed to seed quote: %v", err)
	}

	quote, err := repo.GetAuthoritative(montage.ID)
	if err != nil {
		t.Fatalf("GetAuthoritative failed: %v", err)
	}
	if quote.ID != second.ID {
		t.Errorf("Expected accepted quote %d, got %d", second.ID, quote.ID)
	}
}

func TestGetAuthoritativeFallsBackToFirstQuote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewQuoteRepository(db)
	client := testutil.SeedClient(t, db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, db, client.ID, models.StatusLead)

	only := &models.Quote{MontageID: montage.ID, Number: "OF/2026/1", Status: models.QuoteDraft}
	if err := db.Create(only).Error; err != nil {
		t.Fatalf("Failed to seed quote: %v", err)
	}

	quote, err := repo.GetAuthoritative(montage.ID)
	if err != nil {
		t.Fatalf("GetAuthoritative failed: %v", err)
	}
	if quote.ID != only.ID {
		t.Errorf("Expected fallback quote %d, got %d", only.ID, quote.ID)
	}
}

func TestGetAuthoritativeWithoutQuotes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewQuoteRepository(db)

	if _, err := repo.GetAuthoritative(123); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected record not found, got %v", err)
	}
}
