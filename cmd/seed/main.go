package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"clubhub/internal/auth"
	"clubhub/internal/config"
	"clubhub/internal/db"
	"clubhub/internal/logger"
	"clubhub/internal/model"
	"clubhub/internal/repository"
)

// AdminSeed describes the initial administrator account.
type AdminSeed struct {
	Name     string
	Email    string
	Password string
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := seedAdmin(ctx, repository.NewUserRepository(gormDB), auth.NewPasswordHasher(cfg.BcryptCost), AdminSeed{
		Name:     cfg.SeedAdminName,
		Email:    cfg.SeedAdminEmail,
		Password: cfg.SeedAdminPassword,
	})
	if err != nil {
		log.Fatal("failed to seed admin", zap.Error(err))
	}
	if created {
		log.Info("admin account created", zap.String("email", cfg.SeedAdminEmail))
	} else {
		log.Info("admin account already exists", zap.String("email", cfg.SeedAdminEmail))
	}
}

// seedAdmin creates the admin account unless the email is already registered.
func seedAdmin(ctx context.Context, repo repository.UserRepository, hasher *auth.PasswordHasher, seed AdminSeed) (bool, error) {
	existing, err := repo.FindByEmail(ctx, seed.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("check admin %s: %w", seed.Email, err)
	}
	if existing != nil {
		return false, nil
	}

	hash, err := hasher.Hash(seed.Password)
	if err != nil {
		return false, err
	}
	admin := &model.User{
		Name:         seed.Name,
		Email:        seed.Email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("create admin %s: %w", seed.Email, err)
	}
	return true, nil
}
