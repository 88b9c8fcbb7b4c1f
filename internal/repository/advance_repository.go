package repository

import (
	"github.com/hejmarcin29/panel-firma-sub007/internal/models"

	"gorm.io/gorm"
)

type AdvanceRepository interface {
	Create(advance *models.Advance) error
	GetByID(id uint) (*models.Advance, error)
	GetByIDs(ids []uint) ([]models.Advance, error)
	GetByInstaller(installerID uint) ([]models.Advance, error)
	GetDeductible(installerID uint) ([]models.Advance, error)
	Update(advance *models.Advance) error
}

type advanceRepository struct {
	db *gorm.DB
}

func NewAdvanceRepository(db *gorm.DB) AdvanceRepository {
	return &advanceRepository{db: db}
}

func (r *advanceRepository) Create(advance *models.Advance) error {
	return r.db.Create(advance).Error
}

func (r *advanceRepository) GetByID(id uint) (*models.Advance, error) {
	var advance models.Advance
	err := r.db.First(&advance, id).Error
	if err != nil {
		return nil, err
	}
	return &advance, nil
}

func (r *advanceRepository) GetByIDs(ids []uint) ([]models.Advance, error) {
	var advances []models.Advance
	err := r.db.Where("id IN ?", ids).Find(&advances).Error
	return advances, err
}

func (r *advanceRepository) GetByInstaller(installerID uint) ([]models.Advance, error) {
	var advances []models.Advance
	err := r.db.Where("installer_id = ?", installerID).Order("created_at DESC").Find(&advances).Error
	return advances, err
}

// GetDeductible returns advances that can still be deducted from a
// settlement, i.e. paid out but not yet settled.
func (r *advanceRepository) GetDeductible(installerID uint) ([]models.Advance, error) {
	var advances []models.Advance
	err := r.db.
		Where("installer_id = ? AND status = ?", installerID, models.AdvancePaid).
		Order("created_at ASC").
		Find(&advances).Error
	return advances, err
}

func (r *advanceRepository) Update(advance *models.Advance) error {
	return r.db.Save(advance).Error
}
