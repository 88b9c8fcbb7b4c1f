package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hejmarcin29/panel-firma-sub007/internal/apperrors"
	"github.com/hejmarcin29/panel-firma-sub007/internal/authz"
	"github.com/hejmarcin29/panel-firma-sub007/internal/models"
	"github.com/hejmarcin29/panel-firma-sub007/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Rate sources, most specific first.
const (
	RateSourceCustom  = "custom"  // per-installer override
	RateSourceService = "service" // services catalog base rate
	RateSourceProfile = "profile" // legacy installer profile table
)

type SettlementService interface {
	Calculate(montageID uint) (*models.SettlementCalculation, error)
	Save(montageID uint, calc *models.SettlementCalculation, note string, asDraft bool, actor authz.Actor) (*models.Settlement, error)
	Approve(settlementID uint, actor authz.Actor) (*models.Settlement, error)
	PayWithDeductions(settlementID uint, advanceIDs []uint, actor authz.Actor) (*models.Settlement, error)
	GetByMontage(montageID uint) (*models.Settlement, error)
	ListByInstaller(installerID uint) ([]models.Settlement, error)
}

type settlementService struct {
	db             *gorm.DB
	montageRepo    repository.MontageRepository
	settlementRepo repository.SettlementRepository
	advanceRepo    repository.AdvanceRepository
	rateRepo       repository.RateRepository
	events         EventService
	policy         *authz.Policy
	cache          Cache
}

func NewSettlementService(
	db *gorm.DB,
	montageRepo repository.MontageRepository,
	settlementRepo repository.SettlementRepository,
	advanceRepo repository.AdvanceRepository,
	rateRepo repository.RateRepository,
	events EventService,
	policy *authz.Policy,
	cache Cache,
) SettlementService {
	return &settlementService{
		db:             db,
		montageRepo:    montageRepo,
		settlementRepo: settlementRepo,
		advanceRepo:    advanceRepo,
		rateRepo:       rateRepo,
		events:         events,
		policy:         policy,
		cache:          cache,
	}
}

// Calculate derives the installer payout for a montage. It performs no
// writes; the result is a snapshot the caller may persist via Save.
func (s *settlementService) Calculate(montageID uint) (*models.SettlementCalculation, error) {
	montage, err := s.montageRepo.GetWithDetails(montageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("nie znaleziono montażu")
		}
		return nil, err
	}
	if montage.AssignedInstallerID == nil {
		return nil, apperrors.InvalidState("montaż nie ma przypisanego montażysty")
	}

	serviceCode := montage.ServiceCode()
	rate, source, err := s.resolveRate(*montage.AssignedInstallerID, serviceCode)
	if err != nil {
		return nil, err
	}

	floorAmount := decimal.NewFromFloat(montage.FloorArea).Mul(decimal.NewFromFloat(rate)).Round(2)
	calc := &models.SettlementCalculation{
		Floor: models.FloorCalculation{
			Area:        montage.FloorArea,
			Rate:        rate,
			RateSource:  source,
			ServiceCode: serviceCode,
			Amount:      floorAmount.InexactFloat64(),
		},
		Services:  []models.SettlementLine{},
		Materials: []models.SettlementLine{},
	}

	total := floorAmount
	for _, extra := range montage.ExtraServices {
		amount := decimal.NewFromFloat(extra.Quantity).Mul(decimal.NewFromFloat(extra.InstallerRate)).Round(2)
		calc.Services = append(calc.Services, models.SettlementLine{
			Name:     extra.Name,
			Quantity: extra.Quantity,
			Rate:     extra.InstallerRate,
			Amount:   amount.InexactFloat64(),
		})
		total = total.Add(amount)
	}

	for _, material := range montage.Materials {
		if material.SupplySide != models.SupplySideInstaller {
			continue
		}
		// Quantity is free text; anything non-numeric counts as zero.
		quantity, err := strconv.ParseFloat(material.Quantity, 64)
		if err != nil {
			quantity = 0
		}
		amount := decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(material.EstimatedCost)).Round(2)
		calc.Materials = append(calc.Materials, models.SettlementLine{
			Name:     material.Name,
			Quantity: quantity,
			Rate:     material.EstimatedCost,
			Amount:   amount.InexactFloat64(),
		})
		total = total.Add(amount)
	}

	calc.Total = total.Round(2).InexactFloat64()
	return calc, nil
}

// resolveRate walks the three-tier waterfall: per-installer override,
// then the services catalog, then the legacy profile table. The catalog
// tier is a row-exists check: a catalog entry with a zero rate is
// honored as zero and does not fall through.
func (s *settlementService) resolveRate(installerID uint, serviceCode string) (float64, string, error) {
	override, err := s.rateRepo.GetUserServiceRate(installerID, serviceCode)
	if err == nil {
		return override.CustomRate, RateSourceCustom, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, "", err
	}

	service, err := s.rateRepo.GetServiceByCode(serviceCode)
	if err == nil {
		return service.BaseInstallerRate, RateSourceService, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, "", err
	}

	profile, err := s.rateRepo.GetInstallerProfile(installerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, RateSourceProfile, nil
		}
		return 0, "", err
	}
	return profile.Rates[serviceCode], RateSourceProfile, nil
}

// Save persists the calculation as the montage's single settlement:
// an existing row is updated, a new one is inserted only when none
// exists. Approved and paid settlements are frozen.
func (s *settlementService) Save(montageID uint, calc *models.SettlementCalculation, note string, asDraft bool, actor authz.Actor) (*models.Settlement, error) {
	montage, err := s.montageRepo.GetByID(montageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("nie znaleziono montażu")
		}
		return nil, err
	}
	if montage.AssignedInstallerID == nil {
		return nil, apperrors.InvalidState("montaż nie ma przypisanego montażysty")
	}
	if !s.canSaveSettlement(actor, montage) {
		return nil, apperrors.PermissionDenied("brak uprawnień do zapisania rozliczenia")
	}

	total := calc.Total
	if calc.ManualOverride != nil {
		total = calc.ManualOverride.Amount
	}

	settlement, err := s.settlementRepo.GetByMontage(montageID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		status := models.SettlementDraft
		if !asDraft {
			status = models.SettlementPending
		}
		settlement = &models.Settlement{
			MontageID:    montageID,
			InstallerID:  *montage.AssignedInstallerID,
			Status:       status,
			TotalAmount:  total,
			Calculations: *calc,
			Note:         note,
		}
		if err := s.settlementRepo.Create(settlement); err != nil {
			return nil, err
		}
	} else {
		if !settlement.Editable() {
			return nil, apperrors.InvalidState("rozliczenie zostało już zatwierdzone lub opłacone")
		}
		settlement.TotalAmount = total
		settlement.Calculations = *calc
		settlement.Note = note
		if settlement.Status == models.SettlementDraft && !asDraft {
			settlement.Status = models.SettlementPending
		}
		if err := s.settlementRepo.Update(settlement); err != nil {
			return nil, err
		}
	}

	actorID := actor.ID
	s.events.Log(models.EventSettlementSaved,
		fmt.Sprintf("Zapisano rozliczenie montażu #%d na kwotę %.2f", montageID, total), &actorID)
	revalidate(s.cache, "/partner/settlements", fmt.Sprintf("/crm/montages/%d", montageID))
	return settlement, nil
}

// canSaveSettlement: role check via the policy, plus the resource rule
// that an installer only touches montages assigned to them.
func (s *settlementService) canSaveSettlement(actor authz.Actor, montage *models.Montage) bool {
	if !s.policy.Allow(actor, authz.ActionSettlementSave) {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return montage.AssignedInstallerID != nil && *montage.AssignedInstallerID == actor.ID
}

func (s *settlementService) Approve(settlementID uint, actor authz.Actor) (*models.Settlement, error) {
	if !s.policy.Allow(actor, authz.ActionSettlementPay) {
		return nil, apperrors.PermissionDenied("tylko administrator może zatwierdzić rozliczenie")
	}

	settlement, err := s.settlementRepo.GetByID(settlementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("nie znaleziono rozliczenia")
		}
		return nil, err
	}
	if settlement.Status != models.SettlementPending {
		return nil, apperrors.InvalidState("zatwierdzić można tylko rozliczenie oczekujące")
	}

	settlement.Status = models.SettlementApproved
	if err := s.settlementRepo.Update(settlement); err != nil {
		return nil, err
	}
	revalidate(s.cache, "/partner/settlements")
	return settlement, nil
}

// PayWithDeductions marks the settlement paid and deducts the selected
// advances in the same transaction, so a failure mid-way leaves nothing
// half-paid.
func (s *settlementService) PayWithDeductions(settlementID uint, advanceIDs []uint, actor authz.Actor) (*models.Settlement, error) {
	if !s.policy.Allow(actor, authz.ActionSettlementPay) {
		return nil, apperrors.PermissionDenied("tylko administrator może opłacić rozliczenie")
	}

	settlement, err := s.settlementRepo.GetByID(settlementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("nie znaleziono rozliczenia")
		}
		return nil, err
	}
	if settlement.Status == models.SettlementPaid {
		return nil, apperrors.InvalidState("rozliczenie zostało już opłacone")
	}

	advances, err := s.advanceRepo.GetByIDs(advanceIDs)
	if err != nil {
		return nil, err
	}
	if len(advances) != len(advanceIDs) {
		return nil, apperrors.NotFound("nie znaleziono wszystkich wybranych zaliczek")
	}
	for _, advance := range advances {
		if advance.InstallerID != settlement.InstallerID {
			return nil, apperrors.Validation("zaliczka nie należy do montażysty tego rozliczenia")
		}
		if advance.Status == models.AdvanceDeducted {
			return nil, apperrors.InvalidState("zaliczka została już potrącona")
		}
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		settlement.Status = models.SettlementPaid
		settlement.PaidAt = &now
		if err := tx.Save(settlement).Error; err != nil {
			return err
		}
		for i := range advances {
			advances[i].Status = models.AdvanceDeducted
			advances[i].PaidDate = &now
			advances[i].SettlementID = &settlement.ID
			if err := tx.Save(&advances[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	actorID := actor.ID
	s.events.Log(models.EventSettlementPaid,
		fmt.Sprintf("Opłacono rozliczenie #%d (potrącono %d zaliczek)", settlement.ID, len(advances)), &actorID)
	revalidate(s.cache, "/partner/settlements", "/partner/advances")
	return settlement, nil
}

func (s *settlementService) GetByMontage(montageID uint) (*models.Settlement, error) {
	settlement, err := s.settlementRepo.GetByMontage(montageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("montaż nie ma rozliczenia")
		}
		return nil, err
	}
	return settlement, nil
}

func (s *settlementService) ListByInstaller(installerID uint) ([]models.Settlement, error) {
	return s.settlementRepo.GetByInstaller(installerID)
}
