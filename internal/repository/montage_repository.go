package repository

import (
	"time"

	"github.com/hejmarcin29/panel-firma-sub007/internal/models"

	"gorm.io/gorm"
)

type MontageRepository interface {
	Create(montage *models.Montage) error
	GetByID(id uint) (*models.Montage, error)
	GetWithDetails(id uint) (*models.Montage, error)
	GetAll() ([]models.Montage, error)
	GetByStatus(status string) ([]models.Montage, error)
	GetByInstaller(installerID uint) ([]models.Montage, error)
	Update(montage *models.Montage) error
	SoftDelete(id uint) error
	Restore(id uint, retentionDays int) error
	GetHistory(montageID uint) ([]models.MontageStatusHistory, error)
	GetMeasurements(montageID uint) ([]models.Measurement, error)
	GetInstallations(montageID uint) ([]models.Installation, error)
}

type montageRepository struct {
	db *gorm.DB
}

func NewMontageRepository(db *gorm.DB) MontageRepository {
	return &montageRepository{db: db}
}

func (r *montageRepository) Create(montage *models.Montage) error {
	return r.db.Create(montage).Error
}

func (r *montageRepository) GetByID(id uint) (*models.Montage, error) {
	var montage models.Montage
	err := r.db.First(&montage, id).Error
	if err != nil {
		return nil, err
	}
	return &montage, nil
}

func (r *montageRepository) GetWithDetails(id uint) (*models.Montage, error) {
	var montage models.Montage
	err := r.db.
		Preload("Client").
		Preload("ExtraServices").
		Preload("Materials").
		First(&montage, id).Error
	if err != nil {
		return nil, err
	}
	return &montage, nil
}

func (r *montageRepository) GetAll() ([]models.Montage, error) {
	var montages []models.Montage
	err := r.db.Order("created_at DESC").Find(&montages).Error
	return montages, err
}

func (r *montageRepository) GetByStatus(status string) ([]models.Montage, error) {
	var montages []models.Montage
	err := r.db.Where("status = ?", status).Order("created_at DESC").Find(&montages).Error
	return montages, err
}

func (r *montageRepository) GetByInstaller(installerID uint) ([]models.Montage, error) {
	var montages []models.Montage
	err := r.db.Where("assigned_installer_id = ?", installerID).Order("created_at DESC").Find(&montages).Error
	return montages, err
}

func (r *montageRepository) Update(montage *models.Montage) error {
	return r.db.Save(montage).Error
}

func (r *montageRepository) SoftDelete(id uint) error {
	return r.db.Delete(&models.Montage{}, id).Error
}

// Restore undoes a soft delete within the retention window.
func (r *montageRepository) Restore(id uint, retentionDays int) error {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return r.db.Unscoped().
		Model(&models.Montage{}).
		Where("id = ? AND deleted_at IS NOT NULL AND deleted_at > ?", id, cutoff).
		Update("deleted_at", nil).Error
}

func (r *montageRepository) GetHistory(montageID uint) ([]models.MontageStatusHistory, error) {
	var history []models.MontageStatusHistory
	err := r.db.Where("montage_id = ?", montageID).Order("created_at ASC, id ASC").Find(&history).Error
	return history, err
}

func (r *montageRepository) GetMeasurements(montageID uint) ([]models.Measurement, error) {
	var measurements []models.Measurement
	err := r.db.Where("montage_id = ?", montageID).Find(&measurements).Error
	return measurements, err
}

func (r *montageRepository) GetInstallations(montageID uint) ([]models.Installation, error) {
	var installations []models.Installation
	err := r.db.Where("montage_id = ?", montageID).Find(&installations).Error
	return installations, err
}
