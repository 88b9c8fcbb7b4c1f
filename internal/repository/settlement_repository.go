package repository

import (
	"time"

	"github.com/hejmarcin29/panel-firma-sub007/internal/models"

	"gorm.io/gorm"
)

type SettlementRepository interface {
	Create(settlement *models.Settlement) error
	GetByID(id uint) (*models.Settlement, error)
	GetByMontage(montageID uint) (*models.Settlement, error)
	GetByInstaller(installerID uint) ([]models.Settlement, error)
	GetByPeriod(from, to time.Time) ([]models.Settlement, error)
	Update(settlement *models.Settlement) error
}

type settlementRepository struct {
	db *gorm.DB
}

func NewSettlementRepository(db *gorm.DB) SettlementRepository {
	return &settlementRepository{db: db}
}

func (r *settlementRepository) Create(settlement *models.Settlement) error {
	return r.db.Create(settlement).Error
}

func (r *settlementRepository) GetByID(id uint) (*models.Settlement, error) {
	var settlement models.Settlement
	err := r.db.First(&settlement, id).Error
	if err != nil {
		return nil, err
	}
	return &settlement, nil
}

func (r *settlementRepository) GetByMontage(montageID uint) (*models.Settlement, error) {
	var settlement models.Settlement
	err := r.db.Where("montage_id = ?", montageID).First(&settlement).Error
	if err != nil {
		return nil, err
	}
	return &settlement, nil
}

func (r *settlementRepository) GetByInstaller(installerID uint) ([]models.Settlement, error) {
	var settlements []models.Settlement
	err := r.db.Where("installer_id = ?", installerID).Order("created_at DESC").Find(&settlements).Error
	return settlements, err
}

func (r *settlementRepository) GetByPeriod(from, to time.Time) ([]models.Settlement, error) {
	var settlements []models.Settlement
	err := r.db.Where("created_at BETWEEN ? AND ?", from, to).Order("created_at ASC").Find(&settlements).Error
	return settlements, err
}

func (r *settlementRepository) Update(settlement *models.Settlement) error {
	return r.db.Save(settlement).Error
}
