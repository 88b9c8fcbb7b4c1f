package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/hejmarcin29/panel-firma-sub007/internal/authz"
	"github.com/hejmarcin29/panel-firma-sub007/internal/models"
	"github.com/hejmarcin29/panel-firma-sub007/internal/repository"
	"github.com/hejmarcin29/panel-firma-sub007/internal/services"
	"github.com/hejmarcin29/panel-firma-sub007/internal/testutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupMontageRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	events := services.NewEventService(repository.NewEventRepository(db), zap.NewNop())
	svc := services.NewMontageService(
		db,
		repository.NewMontageRepository(db),
		repository.NewClientRepository(db),
		events,
		authz.Default(),
		nil, nil, 365,
	)
	handler := NewMontageHandler(svc)

	r := testutil.SetupRouter()
	api := testutil.AuthGroup(r, "/api")
	api.POST("/montages", handler.Create)
	api.GET("/montages/:id", handler.Get)
	api.PUT("/montages/:id", handler.Update)
	api.DELETE("/montages/:id", handler.Delete)
	return r, db
}

func TestMontageEndpointsRequireAuth(t *testing.T) {
	r, _ := setupMontageRouter(t)

	w := testutil.DoRequest(r, "GET", "/api/montages/1", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}

	w = testutil.DoRequest(r, "GET", "/api/montages/1", nil, "nie-token")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for a bogus token, got %d", w.Code)
	}
}

func TestCreateMontageEndpoint(t *testing.T) {
	r, db := setupMontageRouter(t)
	client := testutil.SeedClient(t, db, "Jan Kowalski")

	body := map[string]interface{}{"client_id": client.ID, "notes": "z polecenia"}
	w := testutil.DoRequest(r, "POST", "/api/montages", body, testutil.AdminToken())
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["status"] != models.StatusLead {
		t.Errorf("Expected lead, got %v", data["status"])
	}
}

func TestGetMissingMontageEndpoint(t *testing.T) {
	r, _ := setupMontageRouter(t)

	w := testutil.DoRequest(r, "GET", "/api/montages/999", nil, testutil.AdminToken())
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
	resp := testutil.ParseResponse(w)
	if resp["message"] != "nie znaleziono montażu" {
		t.Errorf("Expected Polish message passed through, got %v", resp["message"])
	}
}

func TestUpdateMontageForbiddenForInstaller(t *testing.T) {
	r, db := setupMontageRouter(t)
	client := testutil.SeedClient(t, db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, db, client.ID, models.StatusLead)

	token := testutil.GenerateTestToken(10, "Piotr", "piotr@test.pl", []string{models.RoleInstaller})
	body := map[string]interface{}{"status": models.StatusCompleted}
	w := testutil.DoRequest(r, "PUT", fmt.Sprintf("/api/montages/%d", montage.ID), body, token)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", w.Code)
	}
}

func TestDeleteMontageConflictMapping(t *testing.T) {
	r, db := setupMontageRouter(t)
	client := testutil.SeedClient(t, db, "Jan Kowalski")
	montage := testutil.SeedMontage(t, db, client.ID, models.StatusLead)

	path := fmt.Sprintf("/api/montages/%d", montage.ID)
	w := testutil.DoRequest(r, "DELETE", path, nil, testutil.AdminToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(r, "DELETE", path, nil, testutil.AdminToken())
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 deleting twice, got %d", w.Code)
	}
}
