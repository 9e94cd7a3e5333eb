package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "neofitness/docs"
	"neofitness/internal/config"
	"neofitness/internal/handlers"
	"neofitness/internal/repositories"
	"neofitness/internal/routes"
	"neofitness/internal/services"
)

func Run() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("config: ", err)
	}

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("close database: %v", err)
		}
	}()
	if err := db.Ping(); err != nil {
		log.Fatal("ping database: ", err)
	}

	if err := runMigrations(cfg.Database.DSN); err != nil {
		log.Fatal("migrate: ", err)
	}

	// === Store ===
	store := repositories.NewStore(db)

	// === Services ===
	passwordService := services.NewPasswordService()
	otpService := services.NewOTPService()
	tokenService := services.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLMinutes)*time.Minute)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
		cfg.Email.FromName,
	)
	authService := services.NewAuthService(
		store,
		passwordService,
		otpService,
		tokenService,
		emailService,
		time.Duration(cfg.OTP.TTLMinutes)*time.Minute,
	)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(authService)

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(router, authHandler, tokenService)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server: ", err)
	}
}

func runMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
