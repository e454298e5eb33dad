// seed bootstraps an initial admin account for local development.
// Idempotent: skips the insert if the admin username already exists.
package main

import (
	"context"
	"log"
	"time"

	"cold-storage-backend/internal/config"
	"cold-storage-backend/internal/db"
	"cold-storage-backend/internal/security"
	"cold-storage-backend/internal/user/domain"
	userrepo "cold-storage-backend/internal/user/repository"
)

const (
	adminUsername = "admin"
	adminPassword = "password123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	repo := userrepo.NewSQLRepository(conn)
	ctx := context.Background()

	existing, err := repo.GetByUsername(ctx, adminUsername)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Printf("Seed already applied (%s exists). Skipping.", adminUsername)
		return
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(adminPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	id, err := repo.Create(ctx, &domain.User{
		Username:     adminUsername,
		PasswordHash: passwordHash,
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("Seeded admin user %q (id %d). Change the password after first login.", adminUsername, id)
}
