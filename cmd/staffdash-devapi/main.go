package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"staffdash/internal/config"
	"staffdash/internal/devapi"
	"staffdash/internal/domain"
)

func main() {
	var addr, email, password string
	var latency time.Duration
	flag.StringVar(&addr, "addr", "", "Listen address (default :$DEVAPI_PORT or :8080)")
	flag.StringVar(&email, "email", "admin@staffdash.local", "Email of the seeded admin")
	flag.StringVar(&password, "password", "admin1234", "Password of the seeded admin")
	flag.DurationVar(&latency, "latency", 0, "Delay added to every list response")
	flag.Parse()

	config.LoadEnv()

	if addr == "" {
		addr = ":" + getEnv("DEVAPI_PORT", "8080")
	}
	secret := getEnv("DEVAPI_SECRET", "staffdash-dev-secret")
	rpm, err := strconv.Atoi(getEnv("DEVAPI_REQUESTS_PER_MINUTE", "600"))
	if err != nil {
		log.Fatalf("Invalid DEVAPI_REQUESTS_PER_MINUTE: %v", err)
	}

	store := devapi.NewStore()
	store.Seed(time.Now())

	admin := domain.User{Email: email, FirstName: "Dev", LastName: "Admin", Role: domain.RoleAdmin}
	token, err := store.AddUser(admin, password)
	if err != nil {
		log.Fatalf("Failed to add admin: %v", err)
	}
	viewer := domain.User{Email: "viewer@staffdash.local", FirstName: "Dev", LastName: "Viewer", Role: "Viewer"}
	if _, err := store.AddUser(viewer, password); err != nil {
		log.Fatalf("Failed to add viewer: %v", err)
	}

	srv := devapi.NewServer(store, devapi.Options{
		Secret:            []byte(secret),
		AllowedOrigins:    strings.Split(getEnv("DEVAPI_ALLOWED_ORIGINS", "*"), ","),
		RequestsPerMinute: rpm,
		Latency:           latency,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("Dev API listening on %s", addr)
	log.Printf("Sign in as %s / %s (admin) or %s / %s", email, password, viewer.Email, password)
	if id, ok := store.UserID(email); ok {
		fmt.Printf("Reset the admin password with: staffdash reset-password %s %s\n", id, token)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown failed: %v", err)
		os.Exit(1)
	}
	log.Printf("Dev API stopped")
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
