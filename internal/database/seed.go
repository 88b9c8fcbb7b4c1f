package database

import (
	"github.com/hejmarcin29/panel-firma-sub007/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed creates the data a fresh installation needs: the first admin
// account and the installation-service catalog. Existing rows are left
// alone, so running it on every start is safe.
func Seed(db *gorm.DB, adminEmail, adminPassword string) error {
	if err := seedAdmin(db, adminEmail, adminPassword); err != nil {
		return err
	}
	return seedServiceCatalog(db)
}

// seedAdmin bootstraps the first admin so user management is reachable
// on an empty database.
func seedAdmin(db *gorm.DB, email, password string) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("roles LIKE ?", "%\"admin\"%").
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Administrator",
		Roles:        models.RoleList{models.RoleAdmin},
		IsActive:     true,
	}
	return db.Create(admin).Error
}

func seedServiceCatalog(db *gorm.DB) error {
	defaults := []models.Service{
		{Code: "classic_click", Name: "Montaż klasyczny (click)", BaseInstallerRate: 25, Unit: "m2"},
		{Code: "classic_glue", Name: "Montaż klasyczny (klej)", BaseInstallerRate: 35, Unit: "m2"},
		{Code: "herringbone_click", Name: "Montaż jodełka (click)", BaseInstallerRate: 45, Unit: "m2"},
		{Code: "herringbone_glue", Name: "Montaż jodełka (klej)", BaseInstallerRate: 55, Unit: "m2"},
	}
	for _, service := range defaults {
		entry := service
		err := db.Where("code = ?", entry.Code).FirstOrCreate(&entry).Error
		if err != nil {
			return err
		}
	}
	return nil
}
