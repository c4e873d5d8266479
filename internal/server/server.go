package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backoffice/internal/config"
	"backoffice/internal/handler"
	"backoffice/internal/integration"
	"backoffice/internal/middleware"
	"backoffice/internal/notify"
	"backoffice/internal/repository"
	"backoffice/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	zap.L().Info("✅ Connected to database")

	if err := runMigrations(cfg); err != nil {
		return nil, err
	}

	// Collaborators
	var meet integration.MeetClient = integration.DisabledMeetClient{}
	if cfg.GoogleCredentials != "" {
		client, err := integration.NewGoogleMeetClient(cfg.GoogleCredentials, cfg.GoogleCalendarID, cfg.MeetTimeZone)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise Google Meet client: %w", err)
		}
		meet = client
	} else {
		zap.L().Warn("GOOGLE_CREDENTIALS not set, video conferencing disabled")
	}

	notifier := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	store := storage.NewAttachmentStore(cfg.AttachmentDir)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	// Handlers
	userHandler := handler.NewUserHandler(userRepo)
	meetingHandler := handler.NewMeetingHandler(meetingRepo, userRepo, meet, notifier, store)
	projectHandler := handler.NewProjectHandler(projectRepo, userRepo, store)

	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))

	// User directory
	r.GET("/users", userHandler.GetUsers)
	r.GET("/users/:id", userHandler.GetByID)

	// Meeting routes
	r.POST("/meetings", meetingHandler.Create)
	r.GET("/meetings", meetingHandler.GetAll)
	r.GET("/meetings/:id", meetingHandler.GetByID)
	r.PUT("/meetings/:id", meetingHandler.Update)
	r.DELETE("/meetings/:id", meetingHandler.Delete)
	r.POST("/meetings/:id/attachment", meetingHandler.UploadAttachment)
	r.POST("/meetings/:id/complete", meetingHandler.Complete)
	r.POST("/meetings/:id/notes", meetingHandler.SaveNotes)

	// Project routes
	r.POST("/projects", projectHandler.Create)
	r.GET("/projects", projectHandler.GetAll)
	r.GET("/projects/:id", projectHandler.GetByID)
	r.PUT("/projects/:id", projectHandler.Update)
	r.DELETE("/projects/:id", projectHandler.Delete)
	r.POST("/projects/:id/attachment", projectHandler.UploadAttachment)
	r.DELETE("/projects/:id/attachment", projectHandler.DeleteAttachment)

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func runMigrations(cfg *config.Config) error {
	m, err := migrate.New("file://"+cfg.MigrationsDir, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to initialise migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	zap.L().Info("✅ Database migrations applied")
	return nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		zap.L().Info("🚀 Server running", zap.String("port", s.Config.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to listen", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Fatal("Server forced to shutdown", zap.Error(err))
	}

	if sqlDB, err := s.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			zap.L().Error("Error closing database", zap.Error(err))
		}
	}

	zap.L().Info("✅ Server exited properly")
}
