package repository

import (
	"github.com/hejmarcin29/panel-firma-sub007/internal/models"

	"gorm.io/gorm"
)

// RateRepository serves the three sources of the rate waterfall. Each
// lookup distinguishes "row missing" (gorm.ErrRecordNotFound) from a row
// carrying a zero rate; the calculator depends on that distinction.
type RateRepository interface {
	GetUserServiceRate(userID uint, serviceCode string) (*models.UserServiceRate, error)
	GetServiceByCode(code string) (*models.Service, error)
	GetInstallerProfile(userID uint) (*models.InstallerProfile, error)
	UpsertUserServiceRate(rate *models.UserServiceRate) error
	CreateService(service *models.Service) error
	GetAllServices() ([]models.Service, error)
}

type rateRepository struct {
	db *gorm.DB
}

func NewRateRepository(db *gorm.DB) RateRepository {
	return &rateRepository{db: db}
}

func (r *rateRepository) GetUserServiceRate(userID uint, serviceCode string) (*models.UserServiceRate, error) {
	var rate models.UserServiceRate
	err := r.db.Where("user_id = ? AND service_code = ?", userID, serviceCode).First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *rateRepository) GetServiceByCode(code string) (*models.Service, error) {
	var service models.Service
	err := r.db.Where("code = ?", code).First(&service).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *rateRepository) GetInstallerProfile(userID uint) (*models.InstallerProfile, error) {
	var profile models.InstallerProfile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *rateRepository) UpsertUserServiceRate(rate *models.UserServiceRate) error {
	var existing models.UserServiceRate
	err := r.db.Where("user_id = ? AND service_code = ?", rate.UserID, rate.ServiceCode).First(&existing).Error
	if err == nil {
		existing.CustomRate = rate.CustomRate
		return r.db.Save(&existing).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.Create(rate).Error
}

func (r *rateRepository) CreateService(service *models.Service) error {
	return r.db.Create(service).Error
}

func (r *rateRepository) GetAllServices() ([]models.Service, error) {
	var services []models.Service
	err := r.db.Order("code ASC").Find(&services).Error
	return services, err
}
