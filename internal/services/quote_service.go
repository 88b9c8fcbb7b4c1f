package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/hejmarcin29/panel-firma-sub007/internal/apperrors"
	"github.com/hejmarcin29/panel-firma-sub007/internal/authz"
	"github.com/hejmarcin29/panel-firma-sub007/internal/models"
	"github.com/hejmarcin29/panel-firma-sub007/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QuoteService manages priced proposals. Quotes are append-only history:
// status changes are allowed, deletion is not.
type QuoteService interface {
	CreateQuote(montageID uint, input *CreateQuoteInput, actor authz.Actor) (*models.Quote, error)
	GetQuote(id uint) (*models.Quote, error)
	ListByMontage(montageID uint) ([]models.Quote, error)
	MarkSent(id uint, actor authz.Actor) (*models.Quote, error)
	Accept(id uint, actor authz.Actor) (*models.Quote, error)
	Reject(id uint, actor authz.Actor) (*models.Quote, error)
}

type CreateQuoteInput struct {
	Notes string            `json:"notes"`
	Items []CreateQuoteItem `json:"items" binding:"required,min=1"`
}

type CreateQuoteItem struct {
	Name         string  `json:"name" binding:"required"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	UnitPriceNet float64 `json:"unit_price_net"`
	VatRate      float64 `json:"vat_rate"`
}

type quoteService struct {
	db          *gorm.DB
	quoteRepo   repository.QuoteRepository
	montageRepo repository.MontageRepository
	events      EventService
	policy      *authz.Policy
	cache       Cache
}

func NewQuoteService(
	db *gorm.DB,
	quoteRepo repository.QuoteRepository,
	montageRepo repository.MontageRepository,
	events EventService,
	policy *authz.Policy,
	cache Cache,
) QuoteService {
	return &quoteService{
		db:          db,
		quoteRepo:   quoteRepo,
		montageRepo: montageRepo,
		events:      events,
		policy:      policy,
		cache:       cache,
	}
}

func (s *quoteService) CreateQuote(montageID uint, input *CreateQuoteInput, actor authz.Actor) (*models.Quote, error) {
	if !s.policy.Allow(actor, authz.ActionQuoteManage) {
		return nil, apperrors.PermissionDenied("brak uprawnień do tworzenia ofert")
	}
	if len(input.Items) == 0 {
		return nil, apperrors.Validation("oferta musi zawierać co najmniej jedną pozycję")
	}
	if _, err := s.montageRepo.GetByID(montageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("nie znaleziono montażu")
		}
		return nil, err
	}

	quote := &models.Quote{
		MontageID: montageID,
		Number:    fmt.Sprintf("OF/%d/%d", time.Now().Year(), time.Now().UnixNano()%1000000),
		Status:    models.QuoteDraft,
		Notes:     input.Notes,
		CreatedBy: actor.ID,
	}

	total := decimal.Zero
	for _, item := range input.Items {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		unit := item.Unit
		if unit == "" {
			unit = "szt"
		}
		vatRate := item.VatRate
		if vatRate == 0 {
			vatRate = 23
		}
		lineNet := decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(item.UnitPriceNet)).Round(2)
		quote.Items = append(quote.Items, models.QuoteItem{
			Name:         item.Name,
			Quantity:     quantity,
			Unit:         unit,
			UnitPriceNet: item.UnitPriceNet,
			VatRate:      vatRate,
			TotalNet:     lineNet.InexactFloat64(),
		})
		total = total.Add(lineNet)
	}
	quote.TotalNet = total.Round(2).InexactFloat64()

	if err := s.quoteRepo.Create(quote); err != nil {
		return nil, err
	}

	revalidate(s.cache, fmt.Sprintf("/crm/montages/%d", montageID))
	return quote, nil
}

func (s *quoteService) GetQuote(id uint) (*models.Quote, error) {
	quote, err := s.quoteRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("nie znaleziono oferty")
		}
		return nil, err
	}
	return quote, nil
}

func (s *quoteService) ListByMontage(montageID uint) ([]models.Quote, error) {
	return s.quoteRepo.GetByMontage(montageID)
}

func (s *quoteService) MarkSent(id uint, actor authz.Actor) (*models.Quote, error) {
	return s.transition(id, actor, models.QuoteDraft, models.QuoteSent,
		"wysłać można tylko ofertę roboczą")
}

// Accept makes this quote authoritative for the montage. Any other
// accepted quote of the same montage is demoted back to sent, so at most
// one accepted quote exists.
func (s *quoteService) Accept(id uint, actor authz.Actor) (*models.Quote, error) {
	if !s.policy.Allow(actor, authz.ActionQuoteManage) {
		return nil, apperrors.PermissionDenied("brak uprawnień do zmiany statusu oferty")
	}

	quote, err := s.quoteRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("nie znaleziono oferty")
		}
		return nil, err
	}
	if quote.Status == models.QuoteAccepted {
		return quote, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Quote{}).
			Where("montage_id = ? AND status = ?", quote.MontageID, models.QuoteAccepted).
			Update("status", models.QuoteSent).Error; err != nil {
			return err
		}
		quote.Status = models.QuoteAccepted
		return tx.Save(quote).Error
	})
	if err != nil {
		return nil, err
	}

	actorID := actor.ID
	s.events.Log(models.EventQuoteAccepted, fmt.Sprintf("Zaakceptowano ofertę %s", quote.Number), &actorID)
	revalidate(s.cache, fmt.Sprintf("/crm/montages/%d", quote.MontageID))
	return quote, nil
}

func (s *quoteService) Reject(id uint, actor authz.Actor) (*models.Quote, error) {
	return s.transition(id, actor, models.QuoteSent, models.QuoteRejected,
		"odrzucić można tylko ofertę wysłaną")
}

func (s *quoteService) transition(id uint, actor authz.Actor, from, to, errorMessage string) (*models.Quote, error) {
	if !s.policy.Allow(actor, authz.ActionQuoteManage) {
		return nil, apperrors.PermissionDenied("brak uprawnień do zmiany statusu oferty")
	}

	quote, err := s.quoteRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("nie znaleziono oferty")
		}
		return nil, err
	}
	if quote.Status != from {
		return nil, apperrors.InvalidState(errorMessage)
	}

	quote.Status = to
	if err := s.quoteRepo.Update(quote); err != nil {
		return nil, err
	}
	revalidate(s.cache, fmt.Sprintf("/crm/montages/%d", quote.MontageID))
	return quote, nil
}
