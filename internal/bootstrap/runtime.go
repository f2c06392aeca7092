// Package bootstrap wires the process-wide resources shared by the commands.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"numbertalk/internal/authz"
	"numbertalk/internal/cache"
	"numbertalk/internal/config"
	"numbertalk/internal/database"
	"numbertalk/internal/middleware"
	"numbertalk/internal/models"
	"numbertalk/internal/validation"
)

// InitRuntime connects to the database and Redis and ensures the configured
// admin account. A nil Redis client means caching and events run locally.
func InitRuntime(ctx context.Context, cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	rdb := cache.InitRedis(cfg.RedisURL)

	if err := EnsureAdmin(ctx, cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	return db, rdb, nil
}

// EnsureAdmin creates or promotes ADMIN_USERNAME when both admin settings are
// present. An existing account keeps its password unless it was never set.
func EnsureAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	username := strings.TrimSpace(cfg.AdminUsername)
	if username == "" || cfg.AdminPassword == "" {
		return nil
	}
	if err := validation.ValidateUsername(username); err != nil {
		return err
	}
	if err := validation.ValidatePassword(cfg.AdminPassword); err != nil {
		return err
	}

	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), cost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		findErr := tx.Where("username = ?", username).First(&user).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			user = models.User{
				Username:     username,
				PasswordHash: string(hash),
				Role:         string(authz.RoleAdmin),
			}
			return tx.Create(&user).Error
		case findErr != nil:
			return findErr
		}

		updates := map[string]any{"role": string(authz.RoleAdmin)}
		if user.PasswordHash == "" {
			updates["password_hash"] = string(hash)
		}
		return tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error
	})
	if err != nil {
		return err
	}

	middleware.Logger.Info("admin account ensured", slog.String("username", username))
	return nil
}
