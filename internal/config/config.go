package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Cache    CacheConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Session  SessionConfig
	Catalog  CatalogConfig
	Vault    VaultConfig
	Market   MarketConfig
	News     NewsConfig
}

// ServerConfig holds HTTP/MCP server configuration
type ServerConfig struct {
	HTTPAddr string
	MCPMode  bool
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	Backend   string // "memory" or "redis"
	TTL       time.Duration
	RedisAddr string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// SessionConfig holds viewer session settings
type SessionConfig struct {
	Secret            string
	Issuer            string
	TTL               time.Duration
	StockRequestDelay time.Duration
}

// CatalogConfig locates the generated parts artifact
type CatalogConfig struct {
	Path              string
	GenerateIfMissing bool
	Seed              uint64
}

// VaultConfig selects where saved projects live
type VaultConfig struct {
	Backend   string // "postgres", "redis", "file" or "memory"
	Dir       string
	Namespace string
}

// MarketConfig holds marketplace pricing
type MarketConfig struct {
	ExchangeRate float64
	Locale       string
}

// NewsConfig controls the news hub's external sources
type NewsConfig struct {
	EnableFeeds     bool
	RateLimit       time.Duration
	RefreshInterval time.Duration
}

// Load parses flags and environment variables to build configuration
func Load() *Config {
	cfg := &Config{}

	// Define flags with defaults
	httpAddr := flag.String("http", ":8080", "HTTP server address")
	mcpMode := flag.Bool("mcp", false, "Run in MCP stdio mode")
	cacheTTL := flag.Duration("cache-ttl", 5*time.Minute, "Default cache TTL")
	cacheBackend := flag.String("cache-backend", "memory", "Cache backend: memory or redis")
	redisAddr := flag.String("redis-addr", "localhost:6379", "Redis server address")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	dbHost := flag.String("db-host", "localhost", "PostgreSQL host")
	dbPort := flag.Int("db-port", 5432, "PostgreSQL port")
	dbUser := flag.String("db-user", "postgres", "PostgreSQL user")
	dbPassword := flag.String("db-password", "postgres", "PostgreSQL password")
	dbName := flag.String("db-name", "fpviraq", "PostgreSQL database name")
	dbSSLMode := flag.String("db-sslmode", "disable", "PostgreSQL SSL mode")
	catalogPath := flag.String("catalog", "data/parts_db.json", "Path to the generated parts catalog")
	vaultBackend := flag.String("vault-backend", "file", "Project vault backend: postgres, redis, file or memory")

	flag.Parse()

	// Apply environment variable overrides
	applyEnvOverrides(httpAddr, mcpMode, cacheTTL, cacheBackend, redisAddr, logLevel, dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode, catalogPath, vaultBackend)

	// Build config struct
	cfg.Server = ServerConfig{
		HTTPAddr: *httpAddr,
		MCPMode:  *mcpMode,
	}

	cfg.Cache = CacheConfig{
		Backend:   *cacheBackend,
		TTL:       *cacheTTL,
		RedisAddr: *redisAddr,
	}

	cfg.Database = DatabaseConfig{
		Host:     *dbHost,
		Port:     *dbPort,
		User:     *dbUser,
		Password: *dbPassword,
		Database: *dbName,
		SSLMode:  *dbSSLMode,
	}

	cfg.Logging = LoggingConfig{
		Level: *logLevel,
	}

	cfg.Session = loadSessionConfig()
	cfg.Catalog = loadCatalogConfig(*catalogPath)
	cfg.Vault = VaultConfig{
		Backend:   strings.ToLower(*vaultBackend),
		Dir:       getEnvOrDefault("VAULT_DIR", "data"),
		Namespace: getEnvOrDefault("VAULT_NAMESPACE", "drone-edu-storage"),
	}
	cfg.Market = loadMarketConfig()
	cfg.News = loadNewsConfig()

	return cfg
}

func loadSessionConfig() SessionConfig {
	return SessionConfig{
		Secret:            getEnvOrDefault("SESSION_SECRET", "change-me-in-production"),
		Issuer:            getEnvOrDefault("SESSION_ISSUER", "fpviraq"),
		TTL:               getDurationOrDefault("SESSION_TTL", 24*time.Hour),
		StockRequestDelay: getDurationOrDefault("STOCK_REQUEST_DELAY", 500*time.Millisecond),
	}
}

func loadCatalogConfig(path string) CatalogConfig {
	seed := uint64(1)
	if v := os.Getenv("CATALOG_SEED"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			seed = parsed
		}
	}

	generate := true
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("CATALOG_GENERATE_IF_MISSING"))); v == "false" || v == "0" {
		generate = false
	}

	return CatalogConfig{
		Path:              path,
		GenerateIfMissing: generate,
		Seed:              seed,
	}
}

func loadMarketConfig() MarketConfig {
	rate := 1310.0
	if v := os.Getenv("MARKET_EXCHANGE_RATE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			rate = parsed
		}
	}

	return MarketConfig{
		ExchangeRate: rate,
		Locale:       getEnvOrDefault("MARKET_LOCALE", "en"),
	}
}

func loadNewsConfig() NewsConfig {
	return NewsConfig{
		EnableFeeds:     isTrue(os.Getenv("NEWS_ENABLE_FEEDS")),
		RateLimit:       getDurationOrDefault("NEWS_RATE_LIMIT", time.Second),
		RefreshInterval: getDurationOrDefault("NEWS_REFRESH_INTERVAL", 30*time.Minute),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func isTrue(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1"
}

func applyEnvOverrides(
	httpAddr *string,
	mcpMode *bool,
	cacheTTL *time.Duration,
	cacheBackend *string,
	redisAddr *string,
	logLevel *string,
	dbHost *string,
	dbPort *int,
	dbUser *string,
	dbPassword *string,
	dbName *string,
	dbSSLMode *string,
	catalogPath *string,
	vaultBackend *string,
) {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		*httpAddr = v
	}
	if isTrue(os.Getenv("MCP_MODE")) {
		*mcpMode = true
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*cacheTTL = d
		}
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		*cacheBackend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		*redisAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		*logLevel = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		*dbHost = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			*dbPort = p
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		*dbUser = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		*dbPassword = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		*dbName = v
	}
	if v := os.Getenv("DB_SSLMODE"); v != "" {
		*dbSSLMode = v
	}
	if v := os.Getenv("CATALOG_PATH"); v != "" {
		*catalogPath = v
	}
	if v := os.Getenv("VAULT_BACKEND"); v != "" {
		*vaultBackend = v
	}
}
