package services

import (
	"testing"

	"github.com/hejmarcin29/panel-firma-sub007/internal/apperrors"
	"github.com/hejmarcin29/panel-firma-sub007/internal/models"
	"github.com/hejmarcin29/panel-firma-sub007/internal/testutil"
)

func TestCreateQuoteDefaultsAndTotals(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.SeedClient(t, env.db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, env.db, client.ID, models.StatusLead)

	quote, err := env.quotes.CreateQuote(montage.ID, &CreateQuoteInput{
		Items: []CreateQuoteItem{
			{Name: "Panele dąb", Quantity: 10, Unit: "m2", UnitPriceNet: 20},
			{Name: "Transport", UnitPriceNet: 50},
		},
	}, officeActor())
	if err != nil {
		t.Fatalf("CreateQuote failed: %v", err)
	}

	if quote.Status != models.QuoteDraft {
		t.Errorf("Expected draft, got %s", quote.Status)
	}
	if quote.TotalNet != 250 {
		t.Errorf("Expected total net 250, got %v", quote.TotalNet)
	}

	transport := quote.Items[1]
	if transport.Quantity != 1 || transport.Unit != "szt" || transport.VatRate != 23 {
		t.Errorf("Expected defaults qty=1 unit=szt vat=23, got %+v", transport)
	}
	if transport.TotalNet != 50 {
		t.Errorf("Expected line net 50, got %v", transport.TotalNet)
	}
}

func TestCreateQuoteValidations(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.SeedClient(t, env.db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, env.db, client.ID, models.StatusLead)

	if _, err := env.quotes.CreateQuote(montage.ID, &CreateQuoteInput{}, officeActor()); !apperrors.IsValidation(err) {
		t.Errorf("Expected validation error for empty quote, got %v", err)
	}
	input := &CreateQuoteInput{Items: []CreateQuoteItem{{Name: "Panele"}}}
	if _, err := env.quotes.CreateQuote(999, input, officeActor()); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found for missing montage, got %v", err)
	}
	if _, err := env.quotes.CreateQuote(montage.ID, input, installerActor(10)); !apperrors.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for installer, got %v", err)
	}
}

func TestAcceptDemotesOtherAcceptedQuote(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.SeedClient(t, env.db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, env.db, client.ID, models.StatusLead)

	input := &CreateQuoteInput{Items: []CreateQuoteItem{{Name: "Panele", UnitPriceNet: 100}}}
	first, err := env.quotes.CreateQuote(montage.ID, input, officeActor())
	if err != nil {
		t.Fatalf("CreateQuote failed: %v", err)
	}
	second, err := env.quotes.CreateQuote(montage.ID, input, officeActor())
	if err != nil {
		t.Fatalf("CreateQuote failed: %v", err)
	}

	if _, err := env.quotes.Accept(first.ID, officeActor()); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if _, err := env.quotes.Accept(second.ID, officeActor()); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	var accepted []models.Quote
	env.db.Where("montage_id = ? AND status = ?", montage.ID, models.QuoteAccepted).Find(&accepted)
	if len(accepted) != 1 || accepted[0].ID != second.ID {
		t.Errorf("Expected only quote %d accepted, got %+v", second.ID, accepted)
	}

	demoted, err := env.quotes.GetQuote(first.ID)
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if demoted.Status != models.QuoteSent {
		t.Errorf("Expected first quote demoted to sent, got %s", demoted.Status)
	}
}

func TestAcceptIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.SeedClient(t, env.db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, env.db, client.ID, models.StatusLead)

	quote, err := env.quotes.CreateQuote(montage.ID, &CreateQuoteInput{
		Items: []CreateQuoteItem{{Name: "Panele", UnitPriceNet: 100}},
	}, officeActor())
	if err != nil {
		t.Fatalf("CreateQuote failed: %v", err)
	}

	if _, err := env.quotes.Accept(quote.ID, officeActor()); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	again, err := env.quotes.Accept(quote.ID, officeActor())
	if err != nil {
		t.Fatalf("Second accept failed: %v", err)
	}
	if again.Status != models.QuoteAccepted {
		t.Errorf("Expected accepted, got %s", again.Status)
	}
}

func TestQuoteTransitions(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.SeedClient(t, env.db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, env.db, client.ID, models.StatusLead)

	quote, err := env.quotes.CreateQuote(montage.ID, &CreateQuoteInput{
		Items: []CreateQuoteItem{{Name: "Panele", UnitPriceNet: 100}},
	}, officeActor())
	if err != nil {
		t.Fatalf("CreateQuote failed: %v", err)
	}

	// Rejecting a draft is not allowed; it has to be sent first.
	if _, err := env.quotes.Reject(quote.ID, officeActor()); !apperrors.IsInvalidState(err) {
		t.Errorf("Expected invalid state rejecting a draft, got %v", err)
	}

	sent, err := env.quotes.MarkSent(quote.ID, officeActor())
	if err != nil {
		t.Fatalf("MarkSent failed: %v", err)
	}
	if sent.Status != models.QuoteSent {
		t.Errorf("Expected sent, got %s", sent.Status)
	}
	if _, err := env.quotes.MarkSent(quote.ID, officeActor()); !apperrors.IsInvalidState(err) {
		t.Errorf("Expected invalid state sending twice, got %v", err)
	}

	rejected, err := env.quotes.Reject(quote.ID, officeActor())
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if rejected.Status != models.QuoteRejected {
		t.Errorf("Expected rejected, got %s", rejected.Status)
	}
}
