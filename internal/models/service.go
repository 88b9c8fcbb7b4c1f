package models

import "time"

// Service is a catalog entry with the base installer rate. Installation
// services are keyed by code (pattern_method); extra services carry
// their own codes.
type Service struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	Code              string    `json:"code" gorm:"unique;not null"`
	Name              string    `json:"name" gorm:"not null"`
	BaseInstallerRate float64   `json:"base_installer_rate"`
	Unit              string    `json:"unit" gorm:"default:'m2'"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// UserServiceRate is a per-installer override of a service's base rate.
// It wins over both the catalog rate and the legacy profile rate.
type UserServiceRate struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;index:idx_user_service,unique"`
	ServiceCode string    `json:"service_code" gorm:"not null;index:idx_user_service,unique"`
	CustomRate  float64   `json:"custom_rate"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
