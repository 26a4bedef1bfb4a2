package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ecosaarthi/pkg/providers"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	jwtSecret []byte // loaded from env JWT_SECRET (fallback to dev default)
	logger    *zap.SugaredLogger

	jobsClient   *providers.JobSearchClient
	econClient   *providers.EconomicDataClient
	adviceClient *providers.AdviceClient
	marketClient *providers.MarketQuoteClient
	schemes      *SchemeCatalog
	hub          *ChatHub
)

func main() {
	// Auto-load ./.env if present before reading vars. Provider keys are only
	// ever injected this way; nothing is compiled in.
	loadDotEnv()

	zl, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init:", err)
		os.Exit(1)
	}
	defer zl.Sync()
	logger = zl.Sugar()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	jwtSecret = []byte(secret)

	// Lightweight migrate command: `./ecosaarthi migrate` runs AutoMigrate and
	// catalog seeding then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		fmt.Println("migration and seeding completed")
		return
	}

	initDB()

	schemes, err = LoadSchemeCatalog(schemesFilePath())
	if err != nil {
		logger.Warnw("scheme catalog unavailable", "path", schemesFilePath(), "err", err)
		schemes = EmptySchemeCatalog()
	} else if err := schemes.Watch(); err != nil {
		logger.Warnw("scheme catalog watch failed, hot reload disabled", "err", err)
	}

	jobsClient = providers.NewJobSearchClient(os.Getenv("JSEARCH_API_KEY"))
	econClient = providers.NewEconomicDataClient(os.Getenv("FRED_API_KEY"))
	marketClient = providers.NewMarketQuoteClient(os.Getenv("FINNHUB_API_KEY"))
	adviceClient, err = providers.NewAdviceClient(context.Background(), os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		logger.Warnw("advice provider unavailable, answers degrade to fallback text", "err", err)
	}

	hub = newChatHub()
	go hub.run()

	r := gin.Default()
	setupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}
	logger.Infow("listening", "port", port)
	if err := r.Run(":" + port); err != nil {
		logger.Fatalw("server exited", "err", err)
	}
}

func schemesFilePath() string {
	if v := os.Getenv("SCHEMES_FILE"); v != "" {
		return v
	}
	return filepath.Join("data", "schemes.json")
}

// loadDotEnv loads key=value pairs from a local .env file into the environment
// without overwriting variables that are already set. Lines starting with #
// are ignored.
func loadDotEnv() {
	path := ".env"
	if _, err := os.Stat(path); err != nil {
		return // no .env file
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			val := strings.TrimSpace(line[eq+1:])
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
	}
}
