package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Opeso2580/eduplatform/internal/auth"
	"github.com/Opeso2580/eduplatform/internal/cache"
	"github.com/Opeso2580/eduplatform/internal/config"
	"github.com/Opeso2580/eduplatform/internal/db"
	"github.com/Opeso2580/eduplatform/internal/handler"
	"github.com/Opeso2580/eduplatform/internal/mailer"
	"github.com/Opeso2580/eduplatform/internal/model"
	"github.com/Opeso2580/eduplatform/internal/repository"
	"github.com/Opeso2580/eduplatform/internal/router"
	"github.com/Opeso2580/eduplatform/internal/service"
	"github.com/Opeso2580/eduplatform/internal/verification"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Enrollment{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	courseRepo := repository.NewCourseRepository(gormDB)
	enrollmentRepo := repository.NewEnrollmentRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	ticketStore := auth.NewTicketStore(cacheClient)
	codeEngine := verification.NewEngine(cfg.CodeValidity)
	mail := mailer.New(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailFromName, cfg.MailTimeout, cfg.CodeValidity)

	// Initialize services
	authService := service.NewAuthService(userRepo, ticketStore, tokenStore, jwtService, codeEngine, mail, cfg.TicketTTL)
	courseService := service.NewCourseService(courseRepo, enrollmentRepo, cacheClient)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	studentHandler := handler.NewStudentHandler(courseService, enrollmentService)
	adminHandler := handler.NewAdminHandler(courseService, enrollmentService)

	// Register routes
	router.Register(
		e,
		cfg,
		tokenStore,
		authService,
		authHandler,
		studentHandler,
		adminHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
