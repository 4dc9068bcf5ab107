package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/MahdiMurshed/bookshare/internal/api"
	"github.com/MahdiMurshed/bookshare/internal/auth"
	"github.com/MahdiMurshed/bookshare/internal/config"
	"github.com/MahdiMurshed/bookshare/internal/jobs"
	"github.com/MahdiMurshed/bookshare/internal/metrics"
	"github.com/MahdiMurshed/bookshare/internal/middleware"
	"github.com/MahdiMurshed/bookshare/internal/models"
	"github.com/MahdiMurshed/bookshare/internal/realtime"
	"github.com/MahdiMurshed/bookshare/internal/service"
	"github.com/MahdiMurshed/bookshare/internal/storage/sqlite"
	"github.com/MahdiMurshed/bookshare/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	// Auth components
	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	if err := seedAdmin(context.Background(), cfg, authenticator, store); err != nil {
		slog.Error("Failed to seed admin account", "error", err)
		os.Exit(1)
	}

	// Services
	hub := realtime.NewHub()
	notifications := service.NewNotificationService(store, hub)
	handlers := api.New(api.Config{
		Auth:          service.NewAuthService(authenticator, jwtManager, store),
		Books:         service.NewBookService(store),
		Borrows:       service.NewBorrowService(store, notifications, cfg.LoanPeriod),
		Communities:   service.NewCommunityService(store),
		Notifications: notifications,
		Messages:      service.NewMessageService(store, hub),
		Admin:         service.NewAdminService(store, notifications),
		JWTManager:    jwtManager,
		Hub:           hub,
		Limiter:       middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	})

	router := handlers.Router()

	// Serve the built web frontend for all non-API routes.
	if staticDir, err := filepath.Abs(cfg.StaticPath); err == nil {
		router.PathPrefix("/").Handler(spaHandler(staticDir))
		slog.Info("Serving static files", "path", staticDir)
	}

	// Middleware onion: metrics outermost, then logging and CORS.
	handler := metrics.InstrumentHandler(middleware.Logging(middleware.CORS(router)))

	// h2c allows HTTP/2 without TLS behind a terminating proxy.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Scheduled due-date reminders
	scheduler, err := jobs.NewScheduler(cfg.ReminderSchedule,
		jobs.NewReminderSweep(store, notifications))
	if err != nil {
		slog.Error("Failed to set up reminder schedule", "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server starting", "address", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}

// spaHandler serves static files, falling back to index.html for unknown
// paths so client-side routing works.
func spaHandler(staticDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if !strings.HasPrefix(filePath, staticDir) {
			http.NotFound(w, r)
			return
		}

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	})
}

// seedAdmin creates the bootstrap admin account if configured and missing.
func seedAdmin(ctx context.Context, cfg *config.Config, authenticator *auth.PasswordAuthenticator, store *sqlite.SQLiteStore) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	existing, err := store.GetUserByEmail(ctx, cfg.AdminEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	user, err := authenticator.Register(ctx, cfg.AdminEmail, "Admin", cfg.AdminPassword)
	if err != nil {
		return err
	}
	user.Role = models.RoleAdmin
	if err := store.UpdateUser(ctx, user); err != nil {
		return err
	}
	slog.Info("Admin account seeded", "email", cfg.AdminEmail)
	return nil
}
