package repository

import (
	"fmt"
	"time"

	"github.com/hejmarcin29/panel-firma-sub007/internal/models"

	"gorm.io/gorm"
)

type PurchaseOrderRepository interface {
	Create(po *models.PurchaseOrder) error
	GetByID(id uint) (*models.PurchaseOrder, error)
	GetAll() ([]models.PurchaseOrder, error)
	Update(po *models.PurchaseOrder) error
	NextNumber() (string, error)
}

type purchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Create(po *models.PurchaseOrder) error {
	return r.db.Create(po).Error
}

func (r *purchaseOrderRepository) GetByID(id uint) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := r.db.Preload("Items").Preload("Supplier").First(&po, id).Error
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *purchaseOrderRepository) GetAll() ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	err := r.db.Preload("Supplier").Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *purchaseOrderRepository) Update(po *models.PurchaseOrder) error {
	return r.db.Save(po).Error
}

// NextNumber generates a sequential PO number like ZM/2026/0042.
func (r *purchaseOrderRepository) NextNumber() (string, error) {
	year := time.Now().Year()
	var count int64
	err := r.db.Model(&models.PurchaseOrder{}).
		Where("number LIKE ?", fmt.Sprintf("ZM/%d/%%", year)).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ZM/%d/%04d", year, count+1), nil
}
