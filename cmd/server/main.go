package main

import (
	"log"

	"gorm.io/gorm"
	"nga.at/communityforum/internal/bootstrap"
	"nga.at/communityforum/internal/config"
	"nga.at/communityforum/internal/entity"
	"nga.at/communityforum/internal/server"
	"nga.at/communityforum/pkg/database"
)

func main() {
	cfg := config.Load()

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
		if err := bootstrap.SeedCategories(db); err != nil {
			log.Fatalf("failed to seed categories: %v", err)
		}
	}

	srv := server.NewServer(db, cfg)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Post{},
		&entity.Comment{},
		&entity.Reaction{},
		&entity.Poll{},
		&entity.PollOption{},
		&entity.UserVote{},
	)
}
