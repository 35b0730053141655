package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"trophy-ops/internal/audit"
	"trophy-ops/internal/auth"
	"trophy-ops/internal/commission/application"
	commission "trophy-ops/internal/commission/domain"
	ledgermemory "trophy-ops/internal/commission/infrastructure/memory"
	ledgerpostgres "trophy-ops/internal/commission/infrastructure/postgres"
	commissioninterfaces "trophy-ops/internal/commission/interfaces"
	"trophy-ops/internal/directory"
	"trophy-ops/internal/observability/metrics"
	"trophy-ops/internal/rateconfig"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	var db *sql.DB
	if cfg.needsDatabase() {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("db ping error: %v", err)
		}
	}

	metrics.Init(logger)

	configs, err := loadRateConfigs(cfg, db)
	if err != nil {
		logger.Fatalf("rate config load error: %v", err)
	}
	registry, err := rateconfig.NewRegistry(configs)
	if err != nil {
		logger.Fatalf("rate config registry error: %v", err)
	}
	logger.Printf("loaded %d rate configs from %s", len(configs), cfg.RateConfigSource)

	var ledgerRepo commission.Repository
	switch cfg.LedgerStore {
	case "memory":
		ledgerRepo = ledgermemory.NewLedgerRepository()
	case "postgres":
		ledgerRepo = ledgerpostgres.NewLedgerRepository(db)
	default:
		logger.Fatalf("unknown LEDGER_STORE %q", cfg.LedgerStore)
	}

	var auditLogger audit.Logger
	if repo := audit.NewRepository(db); repo != nil {
		auditLogger = repo
	}

	ledgerService, err := application.NewLedgerService(ledgerRepo)
	if err != nil {
		logger.Fatalf("ledger service error: %v", err)
	}
	settlementService, err := application.NewSettlementService(ledgerRepo, registry, application.SystemClock{})
	if err != nil {
		logger.Fatalf("settlement service error: %v", err)
	}

	ordersHandler, err := commissioninterfaces.NewOrdersHandler(ledgerService, settlementService, auditLogger)
	if err != nil {
		logger.Fatalf("orders handler error: %v", err)
	}
	periodsHandler, err := commissioninterfaces.NewPeriodsHandler(ledgerService, auditLogger)
	if err != nil {
		logger.Fatalf("periods handler error: %v", err)
	}
	exportsHandler, err := commissioninterfaces.NewExportsHandler(ledgerService, auditLogger)
	if err != nil {
		logger.Fatalf("exports handler error: %v", err)
	}

	salespeople, err := loadDirectory(cfg)
	if err != nil {
		logger.Fatalf("directory load error: %v", err)
	}
	directoryHandler := directory.NewHandler(directory.NewStaticProvider(salespeople))

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/orders", ordersHandler)
	mux.Handle("/api/v1/orders/", ordersHandler)
	mux.Handle("/api/v1/periods", periodsHandler)
	mux.Handle("/api/v1/periods/", periodsHandler)
	mux.Handle("/api/v1/exports/commissions.xlsx", exportsHandler)
	mux.Handle("/api/v1/exports/commissions.csv", exportsHandler)
	mux.Handle("/api/v1/salespeople", directoryHandler)
	mux.Handle("/api/v1/rate-configs", rateconfig.NewHandler(registry))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	HTTPAddr         string
	LedgerStore      string
	DatabaseURL      string
	RateConfigSource string
	RateConfigPath   string
	RateConfigTable  string
	DirectoryPath    string
	JWTSecret        string
}

func (c config) needsDatabase() bool {
	return c.LedgerStore == "postgres" || c.RateConfigSource == "postgres"
}

func loadConfig() config {
	cfg := config{
		HTTPAddr:         getenvDefault("HTTP_ADDR", ":8080"),
		LedgerStore:      getenvDefault("LEDGER_STORE", "memory"),
		DatabaseURL:      getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		RateConfigSource: getenvDefault("RATE_CONFIG_SOURCE", "file"),
		RateConfigPath:   getenvDefault("RATE_CONFIG_PATH", "configs/rate_configs.yaml"),
		RateConfigTable:  getenvDefault("RATE_CONFIG_TABLE", ""),
		DirectoryPath:    getenvDefault("DIRECTORY_PATH", ""),
		JWTSecret:        getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.needsDatabase() && cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required for postgres-backed stores")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func loadRateConfigs(cfg config, db *sql.DB) ([]rateconfig.RateConfig, error) {
	switch cfg.RateConfigSource {
	case "postgres":
		var opts []rateconfig.SourceOption
		if cfg.RateConfigTable != "" {
			opts = append(opts, rateconfig.WithTable(cfg.RateConfigTable))
		}
		return rateconfig.NewPostgresSource(db, opts...).Load(context.Background())
	default:
		return rateconfig.LoadFile(cfg.RateConfigPath)
	}
}

func loadDirectory(cfg config) ([]directory.Salesperson, error) {
	if cfg.DirectoryPath == "" {
		return nil, nil
	}
	return directory.LoadFile(cfg.DirectoryPath)
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
