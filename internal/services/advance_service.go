package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/hejmarcin29/panel-firma-sub007/internal/apperrors"
	"github.com/hejmarcin29/panel-firma-sub007/internal/authz"
	"github.com/hejmarcin29/panel-firma-sub007/internal/models"
	"github.com/hejmarcin29/panel-firma-sub007/internal/repository"

	"gorm.io/gorm"
)

// AdvanceService handles installer cash advances: requested by the
// installer, paid out by an admin, later deducted from a settlement.
// Advances are never deleted.
type AdvanceService interface {
	Request(amount float64, description string, actor authz.Actor) (*models.Advance, error)
	MarkPaid(advanceID uint, actor authz.Actor) (*models.Advance, error)
	ListByInstaller(installerID uint) ([]models.Advance, error)
	ListDeductible(installerID uint) ([]models.Advance, error)
}

type advanceService struct {
	advanceRepo repository.AdvanceRepository
	events      EventService
	policy      *authz.Policy
	cache       Cache
}

func NewAdvanceService(
	advanceRepo repository.AdvanceRepository,
	events EventService,
	policy *authz.Policy,
	cache Cache,
) AdvanceService {
	return &advanceService{
		advanceRepo: advanceRepo,
		events:      events,
		policy:      policy,
		cache:       cache,
	}
}

func (s *advanceService) Request(amount float64, description string, actor authz.Actor) (*models.Advance, error) {
	if !s.policy.Allow(actor, authz.ActionAdvanceRequest) {
		return nil, apperrors.PermissionDenied("brak uprawnień do wnioskowania o zaliczkę")
	}
	if amount <= 0 {
		return nil, apperrors.Validation("kwota zaliczki musi być większa od zera")
	}

	advance := &models.Advance{
		InstallerID: actor.ID,
		Amount:      amount,
		Status:      models.AdvancePending,
		Description: description,
	}
	if err := s.advanceRepo.Create(advance); err != nil {
		return nil, err
	}

	actorID := actor.ID
	s.events.Log(models.EventAdvanceRequested,
		fmt.Sprintf("Montażysta #%d poprosił o zaliczkę %.2f", actor.ID, amount), &actorID)
	revalidate(s.cache, "/partner/advances")
	return advance, nil
}

// MarkPaid is an admin action: the advance money was handed out.
func (s *advanceService) MarkPaid(advanceID uint, actor authz.Actor) (*models.Advance, error) {
	if !s.policy.Allow(actor, authz.ActionAdvanceApprove) {
		return nil, apperrors.PermissionDenied("tylko administrator może wypłacić zaliczkę")
	}

	advance, err := s.advanceRepo.GetByID(advanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("nie znaleziono zaliczki")
		}
		return nil, err
	}
	if advance.Status != models.AdvancePending {
		return nil, apperrors.InvalidState("wypłacić można tylko zaliczkę oczekującą")
	}

	now := time.Now()
	advance.Status = models.AdvancePaid
	advance.PaidDate = &now
	if err := s.advanceRepo.Update(advance); err != nil {
		return nil, err
	}

	actorID := actor.ID
	s.events.Log(models.EventAdvancePaid,
		fmt.Sprintf("Wypłacono zaliczkę #%d (%.2f)", advance.ID, advance.Amount), &actorID)
	revalidate(s.cache, "/partner/advances")
	return advance, nil
}

func (s *advanceService) ListByInstaller(installerID uint) ([]models.Advance, error) {
	return s.advanceRepo.GetByInstaller(installerID)
}

func (s *advanceService) ListDeductible(installerID uint) ([]models.Advance, error) {
	return s.advanceRepo.GetDeductible(installerID)
}
