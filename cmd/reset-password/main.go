package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"go-artisan-pricing/internal/config"
	"go-artisan-pricing/internal/model"
	"go-artisan-pricing/internal/repository"
	"go-artisan-pricing/pkg/database"
	"go-artisan-pricing/pkg/logger"

	"github.com/google/uuid"
)

// reset-password sets a new password for an owner and ends their sessions.
//
//	go run ./cmd/reset-password -email maker@example.com -password newsecret
func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	email := flag.String("email", "", "owner email")
	password := flag.String("password", "", "new password (at least 6 characters)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	log := logger.New(cfg.App.Env)
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}
	if *email == "" || len(*password) < 6 {
		flag.Usage()
		os.Exit(2)
	}

	db, err := database.Connect(database.Options{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN})
	if err != nil {
		log.Error("connect database", "error", err)
		os.Exit(1)
	}
	ctx := context.Background()
	users := repository.NewUserRepo(db)

	user, err := users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(*email)))
	if err != nil {
		log.Error("find owner", "email", *email, "error", err)
		os.Exit(1)
	}

	var hashed model.User
	if err := hashed.SetPassword(*password); err != nil {
		log.Error("hash password", "error", err)
		os.Exit(1)
	}
	if err := users.UpdatePassword(ctx, user.ID, hashed.Password); err != nil {
		log.Error("update password", "error", err)
		os.Exit(1)
	}
	if err := users.UpdateTokenVersion(ctx, user.ID, uuid.New().String()); err != nil {
		log.Error("end sessions", "error", err)
		os.Exit(1)
	}

	log.Info("password reset", "owner_id", user.ID, "email", user.Email)
}
