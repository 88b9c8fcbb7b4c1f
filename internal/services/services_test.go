package services

import (
	"testing"

	"github.com/hejmarcin29/panel-firma-sub007/internal/authz"
	"github.com/hejmarcin29/panel-firma-sub007/internal/models"
	"github.com/hejmarcin29/panel-firma-sub007/internal/repository"
	"github.com/hejmarcin29/panel-firma-sub007/internal/testutil"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testEnv wires the full service layer against an in-memory database.
// Cache and notifier are nil; both are optional dependencies.
type testEnv struct {
	db          *gorm.DB
	montages    MontageService
	quotes      QuoteService
	materials   MaterialService
	settlements SettlementService
	advances    AdvanceService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	policy := authz.Default()
	events := NewEventService(repository.NewEventRepository(db), zap.NewNop())

	montageRepo := repository.NewMontageRepository(db)
	clientRepo := repository.NewClientRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	poRepo := repository.NewPurchaseOrderRepository(db)
	settlementRepo := repository.NewSettlementRepository(db)
	advanceRepo := repository.NewAdvanceRepository(db)
	rateRepo := repository.NewRateRepository(db)

	return &testEnv{
		db:          db,
		montages:    NewMontageService(db, montageRepo, clientRepo, events, policy, nil, nil, 365),
		quotes:      NewQuoteService(db, quoteRepo, montageRepo, events, policy, nil),
		materials:   NewMaterialService(db, montageRepo, quoteRepo, poRepo, events, policy, nil),
		settlements: NewSettlementService(db, montageRepo, settlementRepo, advanceRepo, rateRepo, events, policy, nil),
		advances:    NewAdvanceService(advanceRepo, events, policy, nil),
	}
}

func adminActor() authz.Actor {
	return authz.Actor{ID: 1, Roles: []string{models.RoleAdmin}}
}

func officeActor() authz.Actor {
	return authz.Actor{ID: 2, Roles: []string{models.RoleOffice}}
}

func installerActor(id uint) authz.Actor {
	return authz.Actor{ID: id, Roles: []string{models.RoleInstaller}}
}

// seedInstallationMontage creates a montage ready for settlement: a
// classic click job with the given area and an assigned installer.
func seedInstallationMontage(t *testing.T, db *gorm.DB, installerID uint, area float64) *models.Montage {
	t.Helper()

	client := testutil.SeedClient(t, db, "Jan Kowalski")
	montage := &models.Montage{
		ClientID:            client.ID,
		Status:              models.StatusBeforeFinalInvoice,
		MaterialStatus:      models.MaterialDelivered,
		AssignedInstallerID: &installerID,
		FloorArea:           area,
		InstallationMethod:  models.MethodClick,
		InstallationPattern: models.PatternClassic,
	}
	if err := db.Create(montage).Error; err != nil {
		t.Fatalf("Failed to seed montage: %v", err)
	}
	return montage
}

func seedService(t *testing.T, db *gorm.DB, code string, rate float64) *models.Service {
	t.Helper()

	service := &models.Service{Code: code, Name: code, BaseInstallerRate: rate}
	if err := db.Create(service).Error; err != nil {
		t.Fatalf("Failed to seed service: %v", err)
	}
	return service
}

func seedAdvance(t *testing.T, db *gorm.DB, installerID uint, amount float64, status string) *models.Advance {
	t.Helper()

	advance := &models.Advance{InstallerID: installerID, Amount: amount, Status: status}
	if err := db.Create(advance).Error; err != nil {
		t.Fatalf("Failed to seed advance: %v", err)
	}
	return advance
}
