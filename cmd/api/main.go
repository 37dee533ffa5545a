package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UzairFarooq1/NXS-jobcard/internal/blob"
	"github.com/UzairFarooq1/NXS-jobcard/internal/cache"
	"github.com/UzairFarooq1/NXS-jobcard/internal/config"
	"github.com/UzairFarooq1/NXS-jobcard/internal/handler"
	"github.com/UzairFarooq1/NXS-jobcard/internal/mail"
	"github.com/UzairFarooq1/NXS-jobcard/internal/pdf"
	"github.com/UzairFarooq1/NXS-jobcard/internal/repository"
	"github.com/UzairFarooq1/NXS-jobcard/internal/router"
	"github.com/UzairFarooq1/NXS-jobcard/internal/service"

	_ "github.com/go-sql-driver/mysql"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting NXS job card API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Initialize job card repository based on config
	var jobCardRepo repository.JobCardRepository
	switch cfg.JobCardDB.Type {
	case "mysql":
		mysqlDB, err := sql.Open("mysql", cfg.JobCardDB.DSN())
		if err != nil {
			log.Fatalf("Failed to open MySQL: %v", err)
		}
		mysqlDB.SetMaxOpenConns(10)
		mysqlDB.SetMaxIdleConns(5)
		mysqlDB.SetConnMaxLifetime(5 * time.Minute)

		if err := mysqlDB.Ping(); err != nil {
			log.Fatalf("MySQL ping failed: %v", err)
		}
		defer mysqlDB.Close()

		mysqlRepo, err := repository.NewMySQLJobCardRepository(mysqlDB)
		if err != nil {
			log.Fatalf("Failed to initialize MySQL repository: %v", err)
		}
		jobCardRepo = mysqlRepo
		log.Println("MySQL job card repository initialized")
	default: // sqlite
		sqliteRepo, err := repository.NewSQLiteJobCardRepository(cfg.JobCardDB.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		defer sqliteRepo.Close()
		jobCardRepo = sqliteRepo
		log.Println("SQLite job card repository initialized")
	}

	// Initialize PDF cache
	var pdfCache cache.Cache
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(cache.RedisCacheConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: Redis connection failed, falling back to memory cache: %v", err)
		} else {
			defer redisCache.Close()
			pdfCache = redisCache
		}
	}
	if pdfCache == nil {
		memCache := cache.NewMemoryCache()
		defer memCache.Close()
		pdfCache = memCache
		log.Println("Memory PDF cache initialized")
	}

	// Initialize blob uploader
	var uploader blob.Uploader
	if cfg.Blob.Type == "http" && cfg.Blob.Endpoint != "" {
		uploader = blob.NewHTTPUploader(cfg.Blob.Endpoint, cfg.Blob.Token)
		log.Println("HTTP blob uploader initialized")
	} else {
		localUploader, err := blob.NewLocalUploader(cfg.Blob.LocalDir, cfg.Blob.PublicBaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize local uploader: %v", err)
		}
		uploader = localUploader
	}

	// Initialize mail sender (optional)
	var sender mail.Sender
	if cfg.Mail.Enabled && cfg.Mail.Username != "" {
		from := cfg.Mail.From
		if from == "" {
			from = cfg.Mail.Username
		}
		sender = mail.NewSMTPSender(mail.SMTPConfig{
			Host:      cfg.Mail.SMTPHost,
			Port:      cfg.Mail.SMTPPort,
			Username:  cfg.Mail.Username,
			Password:  cfg.Mail.Password,
			From:      from,
			AdminTo:   cfg.Mail.AdminTo,
			SendRetry: cfg.Mail.SendRetry,
		})
		log.Printf("SMTP sender initialized (admin recipient: %s)", cfg.Mail.AdminTo)
	} else {
		log.Println("Warning: mail disabled, job cards will not be emailed")
	}

	// Initialize services
	renderer := pdf.NewRenderer()
	submissionService := service.NewSubmissionService(jobCardRepo, uploader, renderer, sender)
	reportService := service.NewReportService(jobCardRepo, renderer, pdfCache, cfg.Cache.TTL)

	// Initialize handlers
	healthHandler := handler.New()
	jobCardHandler := handler.NewJobCardHandler(submissionService)
	pdfHandler := handler.NewPDFHandler(reportService)
	statsHandler := handler.NewStatsHandler(jobCardRepo, cfg.JobCardDB.Type)

	// Create router
	r := router.New(router.Config{
		Handler:        healthHandler,
		JobCardHandler: jobCardHandler,
		PDFHandler:     pdfHandler,
		StatsHandler:   statsHandler,
		StaticDir:      "./static",
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
