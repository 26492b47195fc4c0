// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/eventra/eventra-backend/internal/auth"
	"github.com/eventra/eventra-backend/internal/database"
	"github.com/eventra/eventra-backend/internal/handler"
	"github.com/eventra/eventra-backend/internal/metrics"
	"github.com/eventra/eventra-backend/internal/notify"
	"github.com/eventra/eventra-backend/internal/otp"
	"github.com/eventra/eventra-backend/internal/repository"
	"github.com/eventra/eventra-backend/internal/service"
)

func main() {
	ctx := context.Background()
	logrus.SetFormatter(&logrus.JSONFormatter{})

	// ── 1. Connect to PostgreSQL and apply the schema ────────────────────
	pool, err := database.NewPool(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		logrus.WithError(err).Fatal("schema migration failed")
	}
	logrus.Info("connected to postgres")

	// ── 2. Wire up layers ────────────────────────────────────────────────
	eventRepo := repository.NewEventRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	volunteerRepo := repository.NewVolunteerRepository(pool)

	var notifier notify.Notifier = notify.Noop{}
	if smtp := notify.NewSMTPNotifierFromEnv(); smtp != nil {
		notifier = smtp
	}

	eventSvc := service.NewEventService(eventRepo)
	bookingSvc := service.NewBookingService(eventRepo, bookingRepo, otp.NewGenerator(), notifier)
	volunteerSvc := service.NewVolunteerService(volunteerRepo)
	verifySvc := service.NewVerificationService(ticketRepo, volunteerSvc)

	adminHash, err := auth.HashPassword(getEnv("ADMIN_PASSWORD", "admin12345"))
	if err != nil {
		logrus.WithError(err).Fatal("hash admin password")
	}
	adminAuth := auth.NewAdminAuthenticator(getEnv("ADMIN_USERNAME", "admin"), adminHash)
	tokens := auth.NewTokenManager(getEnv("JWT_SECRET", "dev-secret-change-me"), time.Hour)

	eventHandler := handler.NewEventHandler(eventSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	verifyHandler := handler.NewVerifyHandler(verifySvc)
	volunteerHandler := handler.NewVolunteerHandler(volunteerSvc)
	adminHandler := handler.NewAdminHandler(adminAuth, tokens)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.Logger)          // structured access log
	r.Use(handler.CORS)            // permissive CORS for demo

	// Ops
	r.Get("/health", handler.HealthCheck)
	r.Handle("/metrics", metrics.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			r.Post("/", eventHandler.CreateEvent)
			r.Get("/", eventHandler.ListEvents)
			r.Get("/{id}", eventHandler.GetEvent)
			r.Post("/{id}/book", bookingHandler.Reserve)
			r.With(handler.RequireAdmin(tokens)).Get("/{id}/bookings", bookingHandler.ListByEvent)
		})

		r.Post("/bookings/{id}/complete-payment", bookingHandler.Confirm)

		// Verification endpoints sit behind a per-IP limiter: the 6-digit
		// code space must not be guessable at line rate.
		r.Group(func(r chi.Router) {
			r.Use(handler.RateLimit(rate.Every(time.Second), 10))
			r.Post("/verify-ticket", verifyHandler.Verify)
			r.Post("/volunteer/verify-ticket", verifyHandler.VolunteerVerify)
		})

		r.Post("/volunteer/login", volunteerHandler.Login)
		r.With(handler.RequireAdmin(tokens)).Route("/volunteers", func(r chi.Router) {
			r.Get("/", volunteerHandler.List)
			r.Post("/create", volunteerHandler.Create)
			r.Delete("/{id}", volunteerHandler.Delete)
		})

		r.Post("/admin/login", adminHandler.Login)
		r.With(handler.RequireAdmin(tokens)).Get("/admin/profile", adminHandler.Profile)
	})

	// ── 4. Start server with graceful shutdown ────────────────────────────
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		logrus.WithField("port", port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server error")
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Fatal("graceful shutdown failed")
	}
	logrus.Info("server stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
