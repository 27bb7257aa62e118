package bootstrap

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"nga.at/communityforum/internal/entity"
)

// SeedAdminUser creates a verified development admin account when no user
// with the seed email exists yet. Only called in development.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.User{}).
		Where("email = ?", "admin@localhost").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("admin user already exists, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := entity.User{
		Username:        "admin",
		Email:           "admin@localhost",
		PasswordHash:    string(hashed),
		FirstName:       "Forum",
		LastName:        "Admin",
		IsVerified:      true,
		EmailVerifiedAt: &now,
		IsAdmin:         true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("admin user seeded (admin@localhost / admin123)")
	return nil
}

// SeedCategories inserts the default forum categories, skipping any that
// already exist by name.
func SeedCategories(db *gorm.DB) error {
	defaults := []entity.Category{
		{Name: "General", Description: "General discussion", Color: "#6c757d"},
		{Name: "Announcements", Description: "Official announcements", Color: "#dc3545"},
		{Name: "Help", Description: "Questions and support", Color: "#0d6efd"},
	}

	for _, category := range defaults {
		var count int64
		if err := db.Model(&entity.Category{}).
			Where("name = ?", category.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&category).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
