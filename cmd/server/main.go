package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	_ "modernc.org/sqlite"

	emailPkg "dogreg/internal/adapters/email"
	localGateway "dogreg/internal/adapters/gateway/local"
	restGateway "dogreg/internal/adapters/gateway/rest"
	web "dogreg/internal/adapters/http"
	"dogreg/internal/adapters/storage"
	accountStore "dogreg/internal/adapters/storage/account"
	announcementStore "dogreg/internal/adapters/storage/announcement"
	dogStore "dogreg/internal/adapters/storage/dog"
	profileStore "dogreg/internal/adapters/storage/profile"
	"dogreg/internal/application/orchestrators"
	"dogreg/internal/application/router"
	"dogreg/internal/application/session"
	"dogreg/internal/ports/gateway"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("DOGREG_DB", "dogreg.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	log.Println("Database initialized successfully!")

	acctStore := accountStore.NewSQLiteStore(db)
	profStore := profileStore.NewSQLiteStore(db)
	recordStore := dogStore.NewSQLiteStore(db)
	annStore := announcementStore.NewSQLiteStore(db)

	// Gateway selection: a hosted backend when configured, otherwise the
	// local SQLite-backed one with a seeded moderator account.
	var gw gateway.Gateway
	if baseURL := os.Getenv("DOGREG_GATEWAY_URL"); baseURL != "" {
		apiKey := os.Getenv("DOGREG_GATEWAY_KEY")
		if apiKey == "" {
			log.Fatal("DOGREG_GATEWAY_KEY is required when DOGREG_GATEWAY_URL is set")
		}
		gw = restGateway.NewClient(restGateway.Config{
			BaseURL: baseURL,
			APIKey:  apiKey,
			Timeout: 10 * time.Second,
		})
		log.Printf("Gateway configured (hosted backend at %s)", baseURL)
	} else {
		gw = localGateway.New(acctStore, profStore, recordStore)

		adminEmail := envOrDefault("DOGREG_ADMIN_EMAIL", "admin@dogreg.local")
		adminPassword := envOrDefault("DOGREG_ADMIN_PASSWORD", "change-me-please")
		seedDeps := orchestrators.SeedAdminDeps{AccountStore: acctStore, ProfileStore: profStore}
		if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, adminEmail, adminPassword); err != nil {
			log.Fatalf("failed to seed admin: %v", err)
		}
		log.Println("Gateway configured (local)")
	}

	resolver := session.NewResolver(gw)
	rtr := router.New(gw, resolver)

	// Configure email sender
	var sender emailPkg.Sender
	resendKey := os.Getenv("DOGREG_RESEND_KEY")
	emailFrom := envOrDefault("DOGREG_RESEND_FROM", "Dog Registry <noreply@dogreg.local>")
	if resendKey != "" {
		sender = emailPkg.NewResendSender(resendKey, emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if os.Getenv("DOGREG_ENV") == "production" {
			log.Println("WARNING: DOGREG_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set DOGREG_RESEND_KEY for real delivery)")
		}
	}

	mux := web.NewMux(&web.App{
		Gateway:           gw,
		Resolver:          resolver,
		Router:            rtr,
		AnnouncementStore: annStore,
		EmailSender:       sender,
	})

	addr := envOrDefault("DOGREG_ADDR", ":8080")
	log.Printf("Dog Registry %s starting on %s (env=%s)", version, addr, envOrDefault("DOGREG_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
