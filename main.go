package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roadmap-service/internal/config"
	"roadmap-service/internal/db"
	"roadmap-service/internal/event"
	"roadmap-service/internal/handlers"
	"roadmap-service/internal/middleware"
	"roadmap-service/internal/report"
	"roadmap-service/internal/repository"
	"roadmap-service/internal/service"
	"roadmap-service/pkg/discovery"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.ServiceConfig

	if cfg.MongoDB.URI == "" {
		log.Fatal("MONGO_URI is required")
	}
	db.InitMongo(cfg.MongoDB.URI)
	database := db.Client.Database(cfg.MongoDB.Database)

	publisher, err := event.NewEventPublisher(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	redisClient := db.InitRedis()

	// Repositories
	userRepo := repository.NewUserRepository(database)
	roadmapRepo := repository.NewRoadmapRepository(database)
	stageRepo := repository.NewStageRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	lessonRepo := repository.NewLessonRepository(database)
	poolRepo := repository.NewPoolRepository(database)
	taskRepo := repository.NewTaskRepository(database)
	submissionRepo := repository.NewSubmissionRepository(database)

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	if err := submissionRepo.CreateIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to create submission indexes: %v", err)
	}
	cancelIndexes()

	// Services
	taskService := service.NewTaskService(taskRepo, categoryRepo, poolRepo, userRepo)
	progressService := service.NewProgressService(
		userRepo, roadmapRepo, stageRepo, categoryRepo, lessonRepo,
		taskService, db.WithTransaction, publisher,
	)
	sessionService := service.NewSessionService(taskRepo, submissionRepo, db.WithTransaction, publisher)
	gradingService := service.NewGradingService(taskRepo, submissionRepo, db.WithTransaction, publisher)
	catalogService := service.NewCatalogService(categoryRepo, lessonRepo, poolRepo, stageRepo, userRepo, db.WithTransaction)

	// Handlers
	progressHandler := handlers.NewProgressHandler(progressService)
	taskHandler := handlers.NewTaskHandler(taskService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	gradingHandler := handlers.NewGradingHandler(gradingService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://evolvia.phrimp.io.vn"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "Roadmap Service is healthy")
	})

	protected := r.Group("/protected/learning")
	protected.Use(middleware.Auth())
	protected.Use(middleware.RateLimit(redisClient))
	{
		protected.POST("/roadmap/:id/enroll", progressHandler.Enroll)
		protected.POST("/lesson/:id/complete", progressHandler.CompleteLesson)
		protected.GET("/lesson/:id/availability", progressHandler.CheckAvailability)
		protected.GET("/task/:id", taskHandler.GetTask)
		protected.POST("/task/:id/start", sessionHandler.StartQuiz)
		protected.GET("/task/:id/time", sessionHandler.CheckTimeLimit)
		protected.POST("/task/:id/submit", gradingHandler.SubmitQuiz)
		protected.GET("/user/submissions", gradingHandler.ListSubmissions)

		admin := protected.Group("")
		admin.Use(middleware.RequirePermission(middleware.AdminPermission))
		admin.DELETE("/category/:id", catalogHandler.DeleteCategory)
	}

	// Weekly submission digest
	weekly := report.NewWeekly(submissionRepo, publisher, event.WeeklyReport)
	scheduler, err := weekly.Start(cfg.Quiz.ReportSchedule)
	if err != nil {
		log.Fatalf("Failed to schedule weekly report: %v", err)
	}

	registry, err := discovery.NewServiceRegistry(cfg)
	if err != nil {
		log.Fatalf("Failed to create service registry: %v", err)
	}
	if err := registry.Register(); err != nil {
		log.Printf("Warning: consul registration failed: %v", err)
	}

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	log.Println("Shutting down...")
	registry.Deregister()
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := db.Client.Disconnect(shutdownCtx); err != nil {
		log.Printf("MongoDB disconnect error: %v", err)
	}
	log.Println("Server stopped")
}
