package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"dogreg/internal/adapters/email"
	"dogreg/internal/adapters/http/middleware"
	announcementStore "dogreg/internal/adapters/storage/announcement"
	"dogreg/internal/application/router"
	"dogreg/internal/application/session"
	"dogreg/internal/ports/gateway"
)

// App holds the application dependencies the handlers need.
type App struct {
	Gateway           gateway.Gateway
	Resolver          *session.Resolver
	Router            *router.Router
	AnnouncementStore announcementStore.Store
	EmailSender       email.Sender
}

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global app instance (set by NewMux)
var app *App

// loadCSRFKey reads the CSRF secret from DOGREG_CSRF_KEY (hex-encoded,
// 32 bytes). In production the key MUST be set; in development a
// random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("DOGREG_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("DOGREG_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("DOGREG_ENV") == "production" {
		log.Fatal("DOGREG_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set DOGREG_CSRF_KEY for production.")
	return key
}

// NewMux wires HTTP handlers for the app.
func NewMux(a *App) http.Handler {
	app = a

	mux := http.NewServeMux()
	mux.HandleFunc("/", handleShell)
	mux.HandleFunc("/views/", handleView)
	mux.HandleFunc("/api/session", handleSession)
	mux.HandleFunc("/api/login", handleLogin)
	mux.HandleFunc("/api/logout", handleLogout)
	mux.HandleFunc("/api/register", handleRegister)
	mux.HandleFunc("/api/records", handleSubmitRecord)
	mux.HandleFunc("/api/admin/records/", handleModerate)
	mux.HandleFunc("/api/announcements", handleAnnouncements)

	csrfKey := loadCSRFKey()
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(),
		middleware.RateLimit(limiter),
	)
}
