// Seed bootstraps a fresh installation with an administrator account and a
// starter catalog of published courses, so the admin area and the student
// browse view are usable immediately.
package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Opeso2580/eduplatform/internal/config"
	"github.com/Opeso2580/eduplatform/internal/db"
	"github.com/Opeso2580/eduplatform/internal/model"
	"github.com/Opeso2580/eduplatform/internal/repository"
)

var defaultCourses = []model.Course{
	{
		Title:            "Intro to Spanish",
		ShortDescription: "Foundations of Spanish grammar and everyday conversation.",
		Description:      "A beginner course covering pronunciation, core grammar, and the vocabulary needed for everyday exchanges.",
		Published:        true,
	},
	{
		Title:            "French for Travelers",
		ShortDescription: "Survival French for trips abroad.",
		Description:      "Ordering food, asking directions, and handling common travel situations with confidence.",
		Published:        true,
	},
	{
		Title:            "Business English",
		ShortDescription: "Professional communication in English.",
		Description:      "Emails, meetings, and presentations for non-native speakers working in English-speaking environments.",
		Published:        true,
	},
}

func main() {
	log.Println("Starting seed script...")

	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Course{}, &model.Enrollment{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()

	if err := seedAdmin(ctx, repository.NewUserRepository(gormDB)); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}
	if err := seedCourses(ctx, repository.NewCourseRepository(gormDB)); err != nil {
		log.Fatalf("Failed to seed courses: %v", err)
	}

	log.Println("Seed completed")
}

func seedAdmin(ctx context.Context, users repository.UserRepository) error {
	username := getEnv("ADMIN_USERNAME", "admin")
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	if _, err := users.FindByUsername(ctx, username); err == nil {
		log.Printf("Admin %q already exists, skipping", username)
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return err
	}

	admin := &model.User{
		Username:     username,
		Email:        getEnv("ADMIN_EMAIL", "admin@vantagelingua.example"),
		PasswordHash: string(hashed),
		Role:         model.RoleAdmin,
		Authorized:   true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("Seeded admin account %q", username)
	return nil
}

func seedCourses(ctx context.Context, courses repository.CourseRepository) error {
	existing, err := courses.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Printf("Found %d existing courses, skipping course seed", len(existing))
		return nil
	}

	seeded := 0
	for i := range defaultCourses {
		course := defaultCourses[i]
		if err := courses.Create(ctx, &course); err != nil {
			log.Printf("Warning: failed to seed course %q: %v", course.Title, err)
			continue
		}
		seeded++
	}
	log.Printf("Seeded %d courses", seeded)
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
