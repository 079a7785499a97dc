package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"branchdesk-backend/internal/auth"
	"branchdesk-backend/internal/config"
	"branchdesk-backend/internal/db"
	"branchdesk-backend/internal/logger"
	"branchdesk-backend/internal/models"
	"branchdesk-backend/internal/repositories"

	"go.uber.org/zap"
)

// seed-admin creates the first super admin so the users API can be reached
func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (min 8 chars)")
	name := flag.String("name", "Administrator", "display name")
	branch := flag.String("branch", "Head Office", "branch the admin belongs to")
	flag.Parse()

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Level: "info", Format: "console", Output: "stderr"})
	defer log.Sync()

	addr := strings.ToLower(strings.TrimSpace(*email))
	if addr == "" || len(*password) < 8 {
		log.Fatal("email and a password of at least 8 characters are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}
	defer pool.Close()

	users := repositories.NewUserRepository(pool)
	if existing, err := users.GetByEmail(ctx, addr); err == nil {
		log.Info("admin already exists", zap.Int("user_id", existing.ID))
		return
	}

	branchID, err := users.EnsureBranch(ctx, *branch)
	if err != nil {
		log.Fatal("ensure branch", zap.Error(err))
	}
	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatal("hash password", zap.Error(err))
	}

	admin := &models.User{
		BranchID:     branchID,
		Name:         *name,
		Email:        addr,
		PasswordHash: hash,
		Role:         "admin",
		Permissions:  []string{auth.PermAll},
		IsActive:     true,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatal("create admin", zap.Error(err))
	}
	log.Info("admin created", zap.Int("user_id", admin.ID), zap.Int("branch_id", branchID))
}
