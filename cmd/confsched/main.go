package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/conference-scheduler/internal/application"
	"github.com/example/conference-scheduler/internal/config"
	httptransport "github.com/example/conference-scheduler/internal/http"
	"github.com/example/conference-scheduler/internal/persistence"
	"github.com/example/conference-scheduler/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close database", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	userRepo := sqlite.NewUserRepository(pool)
	conferenceRepo := sqlite.NewConferenceRepository(pool)
	roomRepo := sqlite.NewRoomRepository(pool)
	resourceRepo := sqlite.NewResourceRepository(pool)
	sessionRepo := sqlite.NewSessionRepository(pool)
	registrationRepo := sqlite.NewRegistrationRepository(pool)
	authSessionRepo := sqlite.NewAuthSessionRepository(pool)

	userStore := newUserStoreAdapter(userRepo)
	conferenceStore := newConferenceStoreAdapter(conferenceRepo)
	roomStore := newRoomStoreAdapter(roomRepo)
	resourceStore := newResourceStoreAdapter(resourceRepo)
	sessionStore := newSessionStoreAdapter(sessionRepo)
	registrationStore := newRegistrationStoreAdapter(registrationRepo)
	tokenStore := newTokenStoreAdapter(authSessionRepo)

	conferenceService := application.NewConferenceServiceWithLogger(conferenceStore, idGenerator, now, logger)
	roomService := application.NewRoomServiceWithLogger(roomStore, idGenerator, now, logger)
	resourceService := application.NewResourceServiceWithLogger(resourceStore, idGenerator, now, logger)
	sessionService := application.NewSessionServiceWithLogger(sessionStore, conferenceStore, roomStore, resourceStore, idGenerator, now, logger)
	registrationService := application.NewRegistrationServiceWithLogger(registrationStore, sessionStore, roomStore, idGenerator, now, logger)
	userService := application.NewUserServiceWithLogger(userStore, idGenerator, now, logger)
	authService := application.NewAuthServiceWithLogger(userStore, tokenStore, application.VerifyPassword, tokenGenerator, now, cfg.SessionTTL, logger)

	if err := bootstrapAdmin(ctx, cfg, userRepo, idGenerator, now, logger); err != nil {
		logger.Error("failed to bootstrap administrator", "error", err)
		os.Exit(1)
	}

	go purgeExpiredTokens(ctx, authService, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:          httptransport.NewAuthHandler(authService, logger),
		Users:         httptransport.NewUserHandler(userService, logger),
		Conferences:   httptransport.NewConferenceHandler(conferenceService, logger),
		Rooms:         httptransport.NewRoomHandler(roomService, logger),
		Resources:     httptransport.NewResourceHandler(resourceService, logger),
		Sessions:      httptransport.NewSessionHandler(sessionService, conferenceService, roomService, resourceService, logger),
		Registrations: httptransport.NewRegistrationHandler(registrationService, logger),
	})

	protected := httptransport.RequireToken(authService, logger)(router)
	handler := httptransport.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.EqualFold(r.URL.Path, "/login") {
			router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	}))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("conference scheduler API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// bootstrapAdmin creates the configured administrator account on first start
// so a fresh deployment has a principal able to manage the catalog.
func bootstrapAdmin(ctx context.Context, cfg config.Config, users persistence.UserRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) error {
	if cfg.BootstrapAdminEmail == "" {
		return nil
	}

	if _, err := users.GetUserByEmail(ctx, cfg.BootstrapAdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, persistence.ErrNotFound) {
		return err
	}

	hash, err := application.CreatePasswordHash(cfg.BootstrapAdminPassword, application.DefaultArgon2idParams)
	if err != nil {
		return err
	}

	ts := now().UTC()
	user := persistence.User{
		ID:           idGenerator(),
		Email:        cfg.BootstrapAdminEmail,
		DisplayName:  "Administrator",
		PasswordHash: hash,
		IsAdmin:      true,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if err := users.CreateUser(ctx, user); err != nil {
		return err
	}

	logger.Info("bootstrap administrator created", "email", cfg.BootstrapAdminEmail, "user_id", user.ID)
	return nil
}

// purgeExpiredTokens removes expired auth sessions hourly until ctx is done.
func purgeExpiredTokens(ctx context.Context, auth *application.AuthService, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := auth.PurgeExpiredSessions(ctx); err != nil {
				logger.Error("failed to purge expired sessions", "error", err)
			}
		}
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
