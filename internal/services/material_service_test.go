package services

import (
	"strings"
	"testing"

	"github.com/hejmarcin29/panel-firma-sub007/internal/apperrors"
	"github.com/hejmarcin29/panel-firma-sub007/internal/models"
	"github.com/hejmarcin29/panel-firma-sub007/internal/testutil"
)

func TestAdvanceMaterialStatusNeverRegresses(t *testing.T) {
	cases := []struct {
		current, next, want string
	}{
		{models.MaterialNone, models.MaterialOrdered, models.MaterialOrdered},
		{models.MaterialOrdered, models.MaterialInStock, models.MaterialInStock},
		{models.MaterialInStock, models.MaterialDelivered, models.MaterialDelivered},
		{models.MaterialDelivered, models.MaterialOrdered, models.MaterialDelivered},
		{models.MaterialInStock, models.MaterialNone, models.MaterialInStock},
		{models.MaterialOrdered, models.MaterialOrdered, models.MaterialOrdered},
	}
	for _, tc := range cases {
		if got := advanceMaterialStatus(tc.current, tc.next); got != tc.want {
			t.Errorf("advanceMaterialStatus(%s, %s) = %s, want %s", tc.current, tc.next, got, tc.want)
		}
	}
}

func TestGrossFromNet(t *testing.T) {
	if got := grossFromNet(200, 23); got != 246 {
		t.Errorf("Expected gross 246 for net 200 at 23%%, got %v", got)
	}
	if got := grossFromNet(100, 8); got != 108 {
		t.Errorf("Expected gross 108 for net 100 at 8%%, got %v", got)
	}
	if got := grossFromNet(33.33, 23); got != 41.0 {
		t.Errorf("Expected gross 41.00 for net 33.33 at 23%%, got %v", got)
	}
}

func TestCreatePurchaseOrderFromQuote(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.SeedClient(t, env.db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, env.db, client.ID, models.StatusDepositPaid)

	quote := &models.Quote{
		MontageID: montage.ID,
		Number:    "OF/2026/1",
		Status:    models.QuoteAccepted,
		TotalNet:  200,
		Items: []models.QuoteItem{
			{Name: "Panele dąb", Quantity: 10, Unit: "m2", UnitPriceNet: 20, VatRate: 23, TotalNet: 200},
		},
	}
	if err := env.db.Create(quote).Error; err != nil {
		t.Fatalf("Failed to seed quote: %v", err)
	}

	po, err := env.materials.CreatePurchaseOrder([]uint{montage.ID}, 0, officeActor())
	if err != nil {
		t.Fatalf("CreatePurchaseOrder failed: %v", err)
	}

	if !strings.HasPrefix(po.Number, "ZM/") {
		t.Errorf("Expected ZM/ number, got %s", po.Number)
	}
	if len(po.Items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(po.Items))
	}
	if po.Items[0].TotalGross != 246 {
		t.Errorf("Expected gross 246, got %v", po.Items[0].TotalGross)
	}

	var updated models.Montage
	env.db.First(&updated, montage.ID)
	if updated.Status != models.StatusMaterialsOrdered {
		t.Errorf("Expected status materials_ordered, got %s", updated.Status)
	}
	if updated.MaterialStatus != models.MaterialOrdered {
		t.Errorf("Expected material status ordered, got %s", updated.MaterialStatus)
	}
}

func TestCreatePurchaseOrderWithoutQuoteUsesPlaceholder(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.SeedClient(t, env.db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, env.db, client.ID, models.StatusDepositPaid)

	po, err := env.materials.CreatePurchaseOrder([]uint{montage.ID}, 0, officeActor())
	if err != nil {
		t.Fatalf("CreatePurchaseOrder failed: %v", err)
	}
	if len(po.Items) != 1 {
		t.Fatalf("Expected 1 placeholder item, got %d", len(po.Items))
	}
	if po.Items[0].MontageID != montage.ID || po.Items[0].Quantity != 1 {
		t.Errorf("Unexpected placeholder item: %+v", po.Items[0])
	}
}

func TestCreatePurchaseOrderLeavesOtherStatusesAlone(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.SeedClient(t, env.db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, env.db, client.ID, models.StatusLead)

	if _, err := env.materials.CreatePurchaseOrder([]uint{montage.ID}, 0, officeActor()); err != nil {
		t.Fatalf("CreatePurchaseOrder failed: %v", err)
	}

	// The coarse status advances only from deposit_paid; the material
	// flag still moves forward.
	var updated models.Montage
	env.db.First(&updated, montage.ID)
	if updated.Status != models.StatusLead {
		t.Errorf("Expected status lead untouched, got %s", updated.Status)
	}
	if updated.MaterialStatus != models.MaterialOrdered {
		t.Errorf("Expected material status ordered, got %s", updated.MaterialStatus)
	}
}

func TestCreatePurchaseOrderValidations(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.materials.CreatePurchaseOrder(nil, 0, officeActor()); !apperrors.IsValidation(err) {
		t.Errorf("Expected validation error for empty selection, got %v", err)
	}
	if _, err := env.materials.CreatePurchaseOrder([]uint{999}, 0, officeActor()); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found for missing montage, got %v", err)
	}
	if _, err := env.materials.CreatePurchaseOrder([]uint{1}, 0, installerActor(10)); !apperrors.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for installer, got %v", err)
	}
}

func TestReceivePurchaseOrderAdvancesMontages(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.SeedClient(t, env.db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, env.db, client.ID, models.StatusDepositPaid)

	po, err := env.materials.CreatePurchaseOrder([]uint{montage.ID}, 0, officeActor())
	if err != nil {
		t.Fatalf("CreatePurchaseOrder failed: %v", err)
	}

	received, err := env.materials.ReceivePurchaseOrder(po.ID, officeActor())
	if err != nil {
		t.Fatalf("ReceivePurchaseOrder failed: %v", err)
	}
	if received.Status != models.POReceived {
		t.Errorf("Expected received PO, got %s", received.Status)
	}
	if received.ReceivedAt == nil {
		t.Error("Expected ReceivedAt to be set")
	}

	var updated models.Montage
	env.db.First(&updated, montage.ID)
	if updated.Status != models.StatusMaterialsPickupReady {
		t.Errorf("Expected status materials_pickup_ready, got %s", updated.Status)
	}
	if updated.MaterialStatus != models.MaterialInStock {
		t.Errorf("Expected material status in_stock, got %s", updated.MaterialStatus)
	}
}

func TestReceivePurchaseOrderKeepsAdvancedStatus(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.SeedClient(t, env.db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, env.db, client.ID, models.StatusDepositPaid)

	po, err := env.materials.CreatePurchaseOrder([]uint{montage.ID}, 0, officeActor())
	if err != nil {
		t.Fatalf("CreatePurchaseOrder failed: %v", err)
	}

	// The office moved the montage further ahead before the delivery
	// arrived; receiving must not drag it back.
	env.db.Model(&models.Montage{}).Where("id = ?", montage.ID).
		Update("status", models.StatusInstallationScheduled)

	if _, err := env.materials.ReceivePurchaseOrder(po.ID, officeActor()); err != nil {
		t.Fatalf("ReceivePurchaseOrder failed: %v", err)
	}

	var updated models.Montage
	env.db.First(&updated, montage.ID)
	if updated.Status != models.StatusInstallationScheduled {
		t.Errorf("Expected status installation_scheduled untouched, got %s", updated.Status)
	}
	if updated.MaterialStatus != models.MaterialInStock {
		t.Errorf("Expected material status in_stock, got %s", updated.MaterialStatus)
	}
}

func TestReceivePurchaseOrderTwice(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.SeedClient(t, env.db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, env.db, client.ID, models.StatusDepositPaid)

	po, err := env.materials.CreatePurchaseOrder([]uint{montage.ID}, 0, officeActor())
	if err != nil {
		t.Fatalf("CreatePurchaseOrder failed: %v", err)
	}
	if _, err := env.materials.ReceivePurchaseOrder(po.ID, officeActor()); err != nil {
		t.Fatalf("First receive failed: %v", err)
	}
	if _, err := env.materials.ReceivePurchaseOrder(po.ID, officeActor()); !apperrors.IsInvalidState(err) {
		t.Errorf("Expected invalid state error on second receive, got %v", err)
	}
}

func TestIssueMaterialsToCrew(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.SeedClient(t, env.db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, env.db, client.ID, models.StatusMaterialsPickupReady)
	env.db.Model(&models.Montage{}).Where("id = ?", montage.ID).
		Update("material_status", models.MaterialInStock)

	updated, err := env.materials.IssueMaterialsToCrew(montage.ID, officeActor())
	if err != nil {
		t.Fatalf("IssueMaterialsToCrew failed: %v", err)
	}
	if updated.Status != models.StatusMaterialsDelivered {
		t.Errorf("Expected status materials_delivered, got %s", updated.Status)
	}
	if updated.MaterialStatus != models.MaterialDelivered {
		t.Errorf("Expected material status delivered, got %s", updated.MaterialStatus)
	}

	history, err := env.montages.GetHistory(montage.ID)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(history) != 1 || history[0].ToStatus != models.StatusMaterialsDelivered {
		t.Errorf("Expected one history row to materials_delivered, got %+v", history)
	}
}

func TestIssueMaterialsFromScheduledInstallation(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.SeedClient(t, env.db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, env.db, client.ID, models.StatusInstallationScheduled)

	updated, err := env.materials.IssueMaterialsToCrew(montage.ID, officeActor())
	if err != nil {
		t.Fatalf("IssueMaterialsToCrew failed: %v", err)
	}
	if updated.Status != models.StatusMaterialsDelivered {
		t.Errorf("Expected status materials_delivered, got %s", updated.Status)
	}
}
