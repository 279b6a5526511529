package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lending-tracker/internal/config"
	"github.com/mrlokans/lending-tracker/internal/database"
	"github.com/mrlokans/lending-tracker/internal/database/audit"
	"github.com/mrlokans/lending-tracker/internal/database/books"
	"github.com/mrlokans/lending-tracker/internal/database/borrows"
	"github.com/mrlokans/lending-tracker/internal/database/users"
	http_controllers "github.com/mrlokans/lending-tracker/internal/http"
	"github.com/mrlokans/lending-tracker/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the scheduler)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Lending Tracker v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	usersRepo := users.NewRepository(db.DB)
	booksRepo := books.NewRepository(db.DB)
	borrowsRepo := borrows.NewRepository(db.DB)

	var auditRepo *audit.Repository
	var cleanupScheduler *scheduler.AuditCleanupScheduler
	if cfg.Audit.Enabled {
		auditRepo = audit.NewRepository(db.DB)

		cleanupScheduler = scheduler.NewAuditCleanupScheduler(
			auditRepo,
			cfg.Audit.CleanupSchedule,
			cfg.Audit.RetentionDays,
		)
		if err := cleanupScheduler.Start(); err != nil {
			log.Fatalf("Failed to start audit cleanup scheduler: %v", err)
		}
	} else {
		log.Printf("Audit logging disabled")
	}

	routerCfg := http_controllers.RouterConfig{
		Users:    usersRepo,
		Books:    booksRepo,
		Borrows:  borrowsRepo,
		Database: db,
		Version:  version,
	}
	if auditRepo != nil {
		routerCfg.Auditor = auditRepo
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
	}

	Serve(router, cfg, onShutdown)
}
