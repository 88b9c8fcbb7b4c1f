package services

import (
	"testing"

	"github.com/hejmarcin29/panel-firma-sub007/internal/apperrors"
	"github.com/hejmarcin29/panel-firma-sub007/internal/models"
	"github.com/hejmarcin29/panel-firma-sub007/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestCreateMontageStartsAsLead(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.SeedClient(t, env.db, "Jan Kowalski")

	montage, err := env.montages.CreateMontage(client.ID, "polecenie od sąsiada", officeActor())
	if err != nil {
		t.Fatalf("CreateMontage failed: %v", err)
	}
	if montage.Status != models.StatusLead {
		t.Errorf("Expected lead, got %s", montage.Status)
	}
	if montage.MaterialStatus != models.MaterialNone {
		t.Errorf("Expected material status none, got %s", montage.MaterialStatus)
	}
}

func TestCreateMontageRequiresClient(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.montages.CreateMontage(999, "", officeActor()); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
	if _, err := env.montages.CreateMontage(1, "", installerActor(10)); !apperrors.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for installer, got %v", err)
	}
}

func TestUpdateMontageStatusWritesHistory(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.SeedClient(t, env.db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, env.db, client.ID, models.StatusLead)

	updated, err := env.montages.UpdateMontage(montage.ID, &UpdateMontageInput{
		Status:     strPtr(models.StatusBeforeMeasurement),
		StatusNote: "klient potwierdził termin",
	}, officeActor())
	if err != nil {
		t.Fatalf("UpdateMontage failed: %v", err)
	}
	if updated.Status != models.StatusBeforeMeasurement {
		t.Errorf("Expected before_measurement, got %s", updated.Status)
	}
	if updated.StatusChangedAt == nil {
		t.Error("Expected StatusChangedAt to be set")
	}

	history, err := env.montages.GetHistory(montage.ID)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("Expected 1 history entry, got %d", len(history))
	}
	entry := history[0]
	if entry.FromStatus != models.StatusLead || entry.ToStatus != models.StatusBeforeMeasurement {
		t.Errorf("Unexpected history entry: %+v", entry)
	}
	if entry.Note != "klient potwierdził termin" {
		t.Errorf("Expected note carried into history, got %q", entry.Note)
	}
}

func TestUpdateMontageSameStatusIsNotAChange(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.SeedClient(t, env.db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, env.db, client.ID, models.StatusLead)

	updated, err := env.montages.UpdateMontage(montage.ID, &UpdateMontageInput{
		Status: strPtr(models.StatusLead),
		Notes:  strPtr("tylko notatka"),
	}, officeActor())
	if err != nil {
		t.Fatalf("UpdateMontage failed: %v", err)
	}
	if updated.StatusChangedAt != nil {
		t.Error("Expected StatusChangedAt untouched when status did not change")
	}

	history, _ := env.montages.GetHistory(montage.ID)
	if len(history) != 0 {
		t.Errorf("Expected no history entries, got %d", len(history))
	}
}

func TestUpdateMontagePropagatesInstaller(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.SeedClient(t, env.db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, env.db, client.ID, models.StatusInstallationScheduled)
	installer := testutil.SeedUser(t, env.db, 10, "Piotr Montażysta", []string{models.RoleInstaller})

	for i := 0; i < 2; i++ {
		if err := env.db.Create(&models.Installation{MontageID: montage.ID}).Error; err != nil {
			t.Fatalf("Failed to seed installation: %v", err)
		}
	}

	installerID := installer.ID
	_, err := env.montages.UpdateMontage(montage.ID, &UpdateMontageInput{
		AssignedInstallerID: NullableID{Set: true, Value: &installerID},
	}, officeActor())
	if err != nil {
		t.Fatalf("UpdateMontage failed: %v", err)
	}

	var installations []models.Installation
	env.db.Where("montage_id = ?", montage.ID).Find(&installations)
	for _, installation := range installations {
		if installation.InstallerID == nil || *installation.InstallerID != installer.ID {
			t.Errorf("Expected installation %d assigned to installer %d, got %+v",
				installation.ID, installer.ID, installation.InstallerID)
		}
	}

	// Explicit null clears the assignment everywhere.
	_, err = env.montages.UpdateMontage(montage.ID, &UpdateMontageInput{
		AssignedInstallerID: NullableID{Set: true, Value: nil},
	}, officeActor())
	if err != nil {
		t.Fatalf("UpdateMontage failed: %v", err)
	}

	var cleared models.Montage
	env.db.First(&cleared, montage.ID)
	if cleared.AssignedInstallerID != nil {
		t.Error("Expected installer assignment cleared")
	}
	env.db.Where("montage_id = ?", montage.ID).Find(&installations)
	for _, installation := range installations {
		if installation.InstallerID != nil {
			t.Errorf("Expected installation %d cleared, got %v", installation.ID, *installation.InstallerID)
		}
	}
}

func TestUpdateMontageAbsentInstallerFieldIsIgnored(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.SeedClient(t, env.db, "Jan Kowalski")
	installer := testutil.SeedUser(t, env.db, 10, "Piotr Montażysta", []string{models.RoleInstaller})
	montage := testutil.SeedMontage(t, env.db, client.ID, models.StatusLead)
	env.db.Model(&models.Montage{}).Where("id = ?", montage.ID).
		Update("assigned_installer_id", installer.ID)

	area := 42.5
	_, err := env.montages.UpdateMontage(montage.ID, &UpdateMontageInput{FloorArea: &area}, officeActor())
	if err != nil {
		t.Fatalf("UpdateMontage failed: %v", err)
	}

	var updated models.Montage
	env.db.First(&updated, montage.ID)
	if updated.AssignedInstallerID == nil || *updated.AssignedInstallerID != installer.ID {
		t.Error("Expected assignment untouched when the field is absent")
	}
	if updated.FloorArea != 42.5 {
		t.Errorf("Expected floor area 42.5, got %v", updated.FloorArea)
	}
}

func TestSignProtocolOnce(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.SeedClient(t, env.db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, env.db, client.ID, models.StatusBeforeFinalInvoice)

	signed, err := env.montages.SignProtocol(montage.ID, "montages/1/podpis.png", "bez uwag", officeActor())
	if err != nil {
		t.Fatalf("SignProtocol failed: %v", err)
	}
	if signed.ProtocolSignedAt == nil {
		t.Error("Expected ProtocolSignedAt to be set")
	}

	if _, err := env.montages.SignProtocol(montage.ID, "inny.png", "", officeActor()); !apperrors.IsInvalidState(err) {
		t.Errorf("Expected invalid state on second signing, got %v", err)
	}
}

func TestDeleteAndRestoreMontage(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.SeedClient(t, env.db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, env.db, client.ID, models.StatusLead)

	if err := env.montages.DeleteMontage(montage.ID, officeActor()); !apperrors.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for office, got %v", err)
	}
	if err := env.montages.DeleteMontage(montage.ID, adminActor()); err != nil {
		t.Fatalf("DeleteMontage failed: %v", err)
	}
	if _, err := env.montages.GetMontage(montage.ID); !apperrors.IsNotFound(err) {
		t.Errorf("Expected deleted montage to be invisible, got %v", err)
	}

	if err := env.montages.RestoreMontage(montage.ID, adminActor()); err != nil {
		t.Fatalf("RestoreMontage failed: %v", err)
	}
	restored, err := env.montages.GetMontage(montage.ID)
	if err != nil {
		t.Fatalf("Expected restored montage, got %v", err)
	}
	if restored.Status != models.StatusLead {
		t.Errorf("Expected status preserved across restore, got %s", restored.Status)
	}
}
