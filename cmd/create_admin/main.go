package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/farmdesk/farmdesk/internal/adapter/persistence"
	"github.com/farmdesk/farmdesk/internal/config"
	"github.com/farmdesk/farmdesk/internal/domain"
	"github.com/farmdesk/farmdesk/internal/service/password"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sql.Open("postgres", cfg.GetDatabaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	userRepo := persistence.NewPostgresUserRepository(db)

	email := "admin@farmdesk.local"
	userPassword := "admin123"
	name := "Administrator"

	if len(os.Args) > 1 {
		email = os.Args[1]
	}
	if len(os.Args) > 2 {
		userPassword = os.Args[2]
	}
	if len(os.Args) > 3 {
		name = os.Args[3]
	}

	passwordService := password.NewBcryptPasswordService(cfg.Security.BcryptCost)
	hash, err := passwordService.Hash(userPassword)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := domain.NewUser(email, name, domain.UserRoleAdmin, hash)

	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	fmt.Printf("Admin user created: %s (%s)\n", admin.Email, admin.ID)
}
