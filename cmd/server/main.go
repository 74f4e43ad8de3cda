package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spellquiz/internal/config"
	"spellquiz/internal/database"
	"spellquiz/internal/handlers"
	"spellquiz/internal/repository"
	"spellquiz/internal/service"
	"spellquiz/internal/wordbank"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	sessionRepo := repository.NewSessionRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Initialize services
	quizService := service.NewQuizService(wordbank.Words(), wordbank.Paragraphs(), sessionRepo, service.NewValidator())
	analyticsService := service.NewAnalyticsService(sessionRepo)
	exportService := service.NewExportService(analyticsService)

	authService, err := service.NewAuthService(cfg.TeacherAccessCode, cfg.TokenSecret, cfg.TokenDuration)
	if err != nil {
		log.Fatalf("Failed to initialize auth service: %v", err)
	}

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	quizHandler := handlers.NewQuizHandler(quizService, settingsRepo)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, exportService, emailService, cfg.ReportRecipient)

	// Setup routes
	mux := http.NewServeMux()

	// Word bank
	mux.HandleFunc("GET /api/themes", quizHandler.ListThemes)
	mux.HandleFunc("GET /api/words", quizHandler.ListWords)

	// Quiz sessions
	mux.HandleFunc("POST /api/quiz/start", quizHandler.StartQuiz)
	mux.HandleFunc("POST /api/quiz/{id}/submit", quizHandler.SubmitAnswers)
	mux.HandleFunc("POST /api/quiz/{id}/complete", quizHandler.CompleteQuiz)
	mux.HandleFunc("GET /api/quiz/{id}/statistics", quizHandler.GetStatistics)

	// Teacher login
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /auth/google/start", authHandler.StartGoogleOAuth)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleOAuthCallback)

	// Teacher dashboard
	mux.HandleFunc("GET /api/settings", middleware.RequireTeacher(quizHandler.GetQuizSettings))
	mux.HandleFunc("PUT /api/settings", middleware.RequireTeacher(quizHandler.SaveQuizSettings))
	mux.HandleFunc("GET /api/analytics/word-difficulty", middleware.RequireTeacher(analyticsHandler.WordDifficulty))
	mux.HandleFunc("GET /api/analytics/students/{name}", middleware.RequireTeacher(analyticsHandler.StudentProgress))
	mux.HandleFunc("GET /api/analytics/class-report", middleware.RequireTeacher(analyticsHandler.ClassReport))
	mux.HandleFunc("GET /api/analytics/teaching-focus", middleware.RequireTeacher(analyticsHandler.TeachingFocus))
	mux.HandleFunc("GET /api/analytics/export", middleware.RequireTeacher(analyticsHandler.Export))
	mux.HandleFunc("POST /api/analytics/cache/clear", middleware.RequireTeacher(analyticsHandler.ClearCache))
	mux.HandleFunc("POST /api/analytics/email-report", middleware.RequireTeacher(analyticsHandler.EmailReport))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
