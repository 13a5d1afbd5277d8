package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Zachkp/council-manifesto/internal/config"
	"github.com/Zachkp/council-manifesto/internal/content"
	"github.com/Zachkp/council-manifesto/internal/session"
	"github.com/Zachkp/council-manifesto/internal/thumbs"
	"github.com/Zachkp/council-manifesto/internal/tracking"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

func main() {
	log.SetReportTimestamp(true)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("loading config", "err", err)
	}
	gin.SetMode(cfg.Mode)
	if gin.Mode() == gin.DebugMode {
		log.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lib, err := content.NewLibrary(cfg.Content.Path)
	if err != nil {
		log.Fatal("loading content", "path", cfg.Content.Path, "err", err)
	}
	if cfg.Content.Watch {
		stopWatch, err := lib.Watch()
		if err != nil {
			log.Warn("content hot reload disabled", "err", err)
		} else {
			defer stopWatch()
		}
	}

	db, err := tracking.Open(cfg.DB.Path)
	if err != nil {
		log.Fatal("opening database", "err", err)
	}
	defer db.Close()

	adminToken, err := tracking.RandomToken()
	if err != nil {
		log.Fatal("generating admin token", "err", err)
	}
	log.Info("admin access available at /admin/login")
	if cfg.UsingDefaultAdmin() {
		log.Warn("using default admin credentials; set ADMIN_USERNAME and ADMIN_PASSWORD")
	}
	log.Info("privacy: visitor tracking enabled with hashed IP addresses")

	tmpl, err := loadTemplates()
	if err != nil {
		log.Fatal("loading templates", "err", err)
	}

	s := &server{
		cfg:        cfg,
		lib:        lib,
		sessions:   openSessions(ctx, cfg.Session),
		db:         db,
		thumbs:     thumbs.New(cfg.Content.ImagesDir, cfg.Content.ThumbCache),
		mailer:     smtpMailer{cfg: cfg.SMTP},
		limiter:    newContactLimiter(cfg.Contact.PerMinute, cfg.Contact.Burst),
		adminToken: adminToken,
		tmpl:       tmpl,
	}

	// Clean up old visitor data for privacy compliance
	go s.cleanupOldVisitorData(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info("listening", "port", cfg.Port)
	if err := serve(ctx, srv, 10*time.Second); err != nil {
		log.Error("server stopped", "err", err)
		return
	}
	log.Info("server stopped")
}

// serve runs srv until ctx is cancelled, then drains in-flight requests for
// at most grace. A listen failure is returned immediately.
func serve(ctx context.Context, srv *http.Server, grace time.Duration) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openSessions picks the configured store, falling back to memory when
// Redis is unreachable so the site still works on a single instance.
func openSessions(ctx context.Context, cfg config.SessionConfig) session.Store {
	if cfg.Backend == "redis" {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		store, err := session.NewRedisStore(pingCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.TTL)
		if err == nil {
			return store
		}
		log.Warn("could not connect to session cache, using memory", "err", err)
	}
	mem := session.NewMemoryStore(cfg.TTL)
	mem.StartSweeper(ctx, time.Minute)
	return mem
}
