package database

import (
	"errors"

	"neighborly-backend/config"
	"neighborly-backend/internal/models"
	"neighborly-backend/internal/utils"
	"neighborly-backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedAdmin creates the platform administrator account when it does not
// exist yet. Credentials come from configuration.
func SeedAdmin() {
	email := config.AppConfig.Defaults.AdminEmail
	if email == "" {
		return
	}

	var admin models.User
	err := DB.Where("email = ?", email).First(&admin).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.L.Error("failed to look up admin user", zap.Error(err))
		return
	}

	hashed, err := utils.HashPassword(config.AppConfig.Defaults.AdminPassword)
	if err != nil {
		logger.L.Error("failed to hash admin password", zap.Error(err))
		return
	}

	admin = models.User{
		Username:     "admin",
		Email:        email,
		PasswordHash: hashed,
		UserType:     models.UserTypeAdmin,
		IsVerified:   true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		logger.L.Error("failed to seed admin user", zap.Error(err))
		return
	}
	logger.L.Info("admin user seeded", zap.String("email", email))
}
