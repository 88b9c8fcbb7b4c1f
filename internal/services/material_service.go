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

// MaterialService coordinates the material procurement flow. A montage's
// MaterialStatus moves only forward (none → ordered → in_stock →
// delivered), while the coarse montage status advances only from the
// exact expected predecessor, so repeated or out-of-order operations
// never move a montage backward.
type MaterialService interface {
	CreatePurchaseOrder(montageIDs []uint, supplierID uint, actor authz.Actor) (*models.PurchaseOrder, error)
	ReceivePurchaseOrder(poID uint, actor authz.Actor) (*models.PurchaseOrder, error)
	IssueMaterialsToCrew(montageID uint, actor authz.Actor) (*models.Montage, error)
	ListPurchaseOrders() ([]models.PurchaseOrder, error)
	GetPurchaseOrder(id uint) (*models.PurchaseOrder, error)
}

type materialService struct {
	db          *gorm.DB
	montageRepo repository.MontageRepository
	quoteRepo   repository.QuoteRepository
	poRepo      repository.PurchaseOrderRepository
	events      EventService
	policy      *authz.Policy
	cache       Cache
}

func NewMaterialService(
	db *gorm.DB,
	montageRepo repository.MontageRepository,
	quoteRepo repository.QuoteRepository,
	poRepo repository.PurchaseOrderRepository,
	events EventService,
	policy *authz.Policy,
	cache Cache,
) MaterialService {
	return &materialService{
		db:          db,
		montageRepo: montageRepo,
		quoteRepo:   quoteRepo,
		poRepo:      poRepo,
		events:      events,
		policy:      policy,
		cache:       cache,
	}
}

// materialRank orders the procurement statuses; setMaterialStatus only
// ever moves a montage up this ladder.
var materialRank = map[string]int{
	models.MaterialNone:      0,
	models.MaterialOrdered:   1,
	models.MaterialInStock:   2,
	models.MaterialDelivered: 3,
}

func advanceMaterialStatus(current, next string) string {
	if materialRank[next] > materialRank[current] {
		return next
	}
	return current
}

// CreatePurchaseOrder builds one PO for the selected montages. Line
// items come from each montage's authoritative quote with VAT-inclusive
// gross amounts; a montage without any quote gets a single placeholder
// item so the PO is never empty for it.
func (s *materialService) CreatePurchaseOrder(montageIDs []uint, supplierID uint, actor authz.Actor) (*models.PurchaseOrder, error) {
	if !s.policy.Allow(actor, authz.ActionPOCreate) {
		return nil, apperrors.PermissionDenied("brak uprawnień do tworzenia zamówień")
	}
	if len(montageIDs) == 0 {
		return nil, apperrors.Validation("nie wybrano żadnych montaży")
	}

	montages := make([]*models.Montage, 0, len(montageIDs))
	for _, id := range montageIDs {
		montage, err := s.montageRepo.GetByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NotFound(fmt.Sprintf("nie znaleziono montażu #%d", id))
			}
			return nil, err
		}
		montages = append(montages, montage)
	}

	number, err := s.poRepo.NextNumber()
	if err != nil {
		return nil, err
	}

	po := &models.PurchaseOrder{
		Number:     number,
		SupplierID: supplierID,
		Status:     models.POOrdered,
		CreatedBy:  actor.ID,
	}

	for _, montage := range montages {
		quote, err := s.quoteRepo.GetAuthoritative(montage.ID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			// No quote yet: order with a placeholder line so the
			// supplier order still references the montage.
			po.Items = append(po.Items, models.PurchaseOrderItem{
				MontageID: montage.ID,
				Name:      "Materiały wg ustaleń",
				Quantity:  1,
				Unit:      "kpl",
			})
			continue
		}

		for _, item := range quote.Items {
			po.Items = append(po.Items, models.PurchaseOrderItem{
				MontageID:    montage.ID,
				Name:         item.Name,
				Quantity:     item.Quantity,
				Unit:         item.Unit,
				UnitPriceNet: item.UnitPriceNet,
				VatRate:      item.VatRate,
				TotalNet:     item.TotalNet,
				TotalGross:   grossFromNet(item.TotalNet, item.VatRate),
			})
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(po).Error; err != nil {
			return err
		}
		for _, montage := range montages {
			if err := s.advanceMontage(tx, montage,
				models.MaterialOrdered,
				[]string{models.StatusDepositPaid},
				models.StatusMaterialsOrdered,
				actor.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	actorID := actor.ID
	s.events.Log(models.EventPOCreated,
		fmt.Sprintf("Utworzono zamówienie %s (%d montaży)", po.Number, len(montages)), &actorID)
	revalidate(s.cache, "/erp/purchase-orders", "/crm/montages")
	return po, nil
}

// ReceivePurchaseOrder marks the PO received and advances every montage
// referenced by its items.
func (s *materialService) ReceivePurchaseOrder(poID uint, actor authz.Actor) (*models.PurchaseOrder, error) {
	if !s.policy.Allow(actor, authz.ActionPOReceive) {
		return nil, apperrors.PermissionDenied("brak uprawnień do przyjmowania zamówień")
	}

	po, err := s.poRepo.GetByID(poID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("nie znaleziono zamówienia")
		}
		return nil, err
	}
	if po.Status == models.POReceived {
		return nil, apperrors.InvalidState("zamówienie zostało już przyjęte")
	}

	montageIDs := make([]uint, 0, len(po.Items))
	seen := make(map[uint]bool)
	for _, item := range po.Items {
		if !seen[item.MontageID] {
			seen[item.MontageID] = true
			montageIDs = append(montageIDs, item.MontageID)
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		po.Status = models.POReceived
		po.ReceivedAt = &now
		if err := tx.Save(po).Error; err != nil {
			return err
		}

		for _, montageID := range montageIDs {
			var montage models.Montage
			if err := tx.First(&montage, montageID).Error; err != nil {
				// Montage may have been soft-deleted since ordering;
				// receiving the rest of the PO still proceeds.
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}
			if err := s.advanceMontage(tx, &montage,
				models.MaterialInStock,
				[]string{models.StatusMaterialsOrdered},
				models.StatusMaterialsPickupReady,
				actor.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	actorID := actor.ID
	s.events.Log(models.EventPOReceived, fmt.Sprintf("Przyjęto zamówienie %s", po.Number), &actorID)
	revalidate(s.cache, "/erp/purchase-orders", "/crm/montages")
	return po, nil
}

// IssueMaterialsToCrew hands the stocked materials to the installation
// crew.
func (s *materialService) IssueMaterialsToCrew(montageID uint, actor authz.Actor) (*models.Montage, error) {
	if !s.policy.Allow(actor, authz.ActionMaterialsIssue) {
		return nil, apperrors.PermissionDenied("brak uprawnień do wydawania materiałów")
	}

	montage, err := s.montageRepo.GetByID(montageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("nie znaleziono montażu")
		}
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.advanceMontage(tx, montage,
			models.MaterialDelivered,
			[]string{models.StatusMaterialsPickupReady, models.StatusInstallationScheduled},
			models.StatusMaterialsDelivered,
			actor.ID)
	})
	if err != nil {
		return nil, err
	}

	actorID := actor.ID
	s.events.Log(models.EventMaterialsIssued, fmt.Sprintf("Wydano materiały dla montażu #%d", montage.ID), &actorID)
	revalidate(s.cache, "/erp/purchase-orders", fmt.Sprintf("/crm/montages/%d", montage.ID))
	return montage, nil
}

// advanceMontage moves the material flag forward and advances the coarse
// status only when the montage sits at one of the expected predecessor
// statuses. A history row records any status change.
func (s *materialService) advanceMontage(tx *gorm.DB, montage *models.Montage, materialStatus string, expectedStatuses []string, nextStatus string, actorID uint) error {
	montage.MaterialStatus = advanceMaterialStatus(montage.MaterialStatus, materialStatus)

	previousStatus := montage.Status
	statusChanged := false
	for _, expected := range expectedStatuses {
		if montage.Status == expected {
			montage.Status = nextStatus
			now := time.Now()
			montage.StatusChangedAt = &now
			statusChanged = true
			break
		}
	}

	if err := tx.Save(montage).Error; err != nil {
		return err
	}
	if statusChanged {
		entry := &models.MontageStatusHistory{
			MontageID:  montage.ID,
			FromStatus: previousStatus,
			ToStatus:   montage.Status,
			Note:       "przepływ materiałowy",
			ActorID:    &actorID,
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *materialService) ListPurchaseOrders() ([]models.PurchaseOrder, error) {
	return s.poRepo.GetAll()
}

func (s *materialService) GetPurchaseOrder(id uint) (*models.PurchaseOrder, error) {
	po, err := s.poRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("nie znaleziono zamówienia")
		}
		return nil, err
	}
	return po, nil
}

// grossFromNet computes the VAT-inclusive amount rounded to grosze.
func grossFromNet(totalNet, vatRate float64) float64 {
	net := decimal.NewFromFloat(totalNet)
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(vatRate).Div(decimal.NewFromInt(100)))
	return net.Mul(factor).Round(2).InexactFloat64()
}
