package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cold-storage-backend/internal/audit"
	audithandler "cold-storage-backend/internal/audit/handler"
	auditrepo "cold-storage-backend/internal/audit/repository"
	clienthandler "cold-storage-backend/internal/client/handler"
	clientrepo "cold-storage-backend/internal/client/repository"
	clientservice "cold-storage-backend/internal/client/service"
	"cold-storage-backend/internal/config"
	"cold-storage-backend/internal/db"
	"cold-storage-backend/internal/platform/rbac"
	"cold-storage-backend/internal/security"
	"cold-storage-backend/internal/server"
	stockhandler "cold-storage-backend/internal/stock/handler"
	stockrepo "cold-storage-backend/internal/stock/repository"
	stockservice "cold-storage-backend/internal/stock/service"
	taxonomyhandler "cold-storage-backend/internal/taxonomy/handler"
	taxonomyrepo "cold-storage-backend/internal/taxonomy/repository"
	taxonomyservice "cold-storage-backend/internal/taxonomy/service"
	userhandler "cold-storage-backend/internal/user/handler"
	userrepo "cold-storage-backend/internal/user/repository"
	userservice "cold-storage-backend/internal/user/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret = "dev-secret-do-not-use-in-production"
		log.Println("JWT_SECRET is not set; using the development fallback")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	hasher := security.NewHasher(cfg.BcryptCost)
	tokens := security.NewTokenProvider([]byte(secret), cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL())

	authz, err := rbac.NewAuthorizer()
	if err != nil {
		log.Fatalf("rbac: %v", err)
	}
	auditRepo := auditrepo.NewSQLRepository(conn)
	auditLog := audit.NewLogger(auditRepo, nil)

	auditTrail := audithandler.NewHandler(auditRepo, authz)
	users := userhandler.NewHandler(
		userservice.NewService(userrepo.NewSQLRepository(conn), hasher, tokens), authz, auditLog)
	clients := clienthandler.NewHandler(
		clientservice.NewService(clientrepo.NewSQLRepository(conn)), authz, auditLog)
	taxonomy := taxonomyhandler.NewHandler(
		taxonomyservice.NewService(taxonomyrepo.NewSQLRepository(conn)), authz, auditLog)
	stocks := stockhandler.NewHandler(
		stockservice.NewService(stockrepo.NewSQLRepository(conn)), authz, auditLog)

	app := server.NewApp(conn, tokens, users, clients, taxonomy, stocks, auditTrail)

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
