package services

import (
	"testing"

	"github.com/hejmarcin29/panel-firma-sub007/internal/apperrors"
	"github.com/hejmarcin29/panel-firma-sub007/internal/models"
	"github.com/hejmarcin29/panel-firma-sub007/internal/testutil"
)

func TestRequestAdvance(t *testing.T) {
	env := newTestEnv(t)
	installer := testutil.SeedUser(t, env.db, 10, "Piotr Montażysta", []string{models.RoleInstaller})

	advance, err := env.advances.Request(500, "zakup podkładu", installerActor(installer.ID))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if advance.Status != models.AdvancePending {
		t.Errorf("Expected pending, got %s", advance.Status)
	}
	if advance.InstallerID != installer.ID {
		t.Errorf("Expected installer %d, got %d", installer.ID, advance.InstallerID)
	}

	if _, err := env.advances.Request(0, "", installerActor(installer.ID)); !apperrors.IsValidation(err) {
		t.Errorf("Expected validation error for zero amount, got %v", err)
	}
	if _, err := env.advances.Request(-50, "", installerActor(installer.ID)); !apperrors.IsValidation(err) {
		t.Errorf("Expected validation error for negative amount, got %v", err)
	}
	if _, err := env.advances.Request(100, "", officeActor()); !apperrors.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for office, got %v", err)
	}
}

func TestMarkAdvancePaid(t *testing.T) {
	env := newTestEnv(t)
	installer := testutil.SeedUser(t, env.db, 10, "Piotr Montażysta", []string{models.RoleInstaller})

	advance, err := env.advances.Request(500, "", installerActor(installer.ID))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if _, err := env.advances.MarkPaid(advance.ID, installerActor(installer.ID)); !apperrors.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for installer, got %v", err)
	}

	paid, err := env.advances.MarkPaid(advance.ID, adminActor())
	if err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}
	if paid.Status != models.AdvancePaid {
		t.Errorf("Expected paid, got %s", paid.Status)
	}
	if paid.PaidDate == nil {
		t.Error("Expected PaidDate to be set")
	}

	if _, err := env.advances.MarkPaid(advance.ID, adminActor()); !apperrors.IsInvalidState(err) {
		t.Errorf("Expected invalid state paying twice, got %v", err)
	}
}

func TestListDeductibleReturnsOnlyPaid(t *testing.T) {
	env := newTestEnv(t)
	installer := testutil.SeedUser(t, env.db, 10, "Piotr Montażysta", []string{models.RoleInstaller})

	seedAdvance(t, env.db, installer.ID, 100, models.AdvancePending)
	paid := seedAdvance(t, env.db, installer.ID, 150, models.AdvancePaid)
	seedAdvance(t, env.db, installer.ID, 200, models.AdvanceDeducted)
	seedAdvance(t, env.db, 99, 300, models.AdvancePaid)

	deductible, err := env.advances.ListDeductible(installer.ID)
	if err != nil {
		t.Fatalf("ListDeductible failed: %v", err)
	}
	if len(deductible) != 1 || deductible[0].ID != paid.ID {
		t.Errorf("Expected only advance %d, got %+v", paid.ID, deductible)
	}
}
