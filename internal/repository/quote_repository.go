package repository

import (
	"errors"

	"github.com/hejmarcin29/panel-firma-sub007/internal/models"

	"gorm.io/gorm"
)

type QuoteRepository interface {
	Create(quote *models.Quote) error
	GetByID(id uint) (*models.Quote, error)
	GetByMontage(montageID uint) ([]models.Quote, error)
	Update(quote *models.Quote) error
	GetAuthoritative(montageID uint) (*models.Quote, error)
}

type quoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) Create(quote *models.Quote) error {
	return r.db.Create(quote).Error
}

func (r *quoteRepository) GetByID(id uint) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.Preload("Items").First(&quote, id).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepository) GetByMontage(montageID uint) ([]models.Quote, error) {
	var quotes []models.Quote
	err := r.db.Preload("Items").Where("montage_id = ?", montageID).Order("created_at ASC").Find(&quotes).Error
	return quotes, err
}

func (r *quoteRepository) Update(quote *models.Quote) error {
	return r.db.Save(quote).Error
}

// GetAuthoritative returns the accepted quote for a montage, or the first
// quote if none was accepted. gorm.ErrRecordNotFound when there are no
// quotes at all.
func (r *quoteRepository) GetAuthoritative(montageID uint) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.Preload("Items").
		Where("montage_id = ? AND status = ?", montageID, models.QuoteAccepted).
		Order("created_at ASC").
		First(&quote).Error
	if err == nil {
		return &quote, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = r.db.Preload("Items").
		Where("montage_id = ?", montageID).
		Order("created_at ASC").
		First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}
