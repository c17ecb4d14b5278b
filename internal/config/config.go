package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/flashscore-gateway/internal/platform/logging"
	"github.com/riskibarqy/flashscore-gateway/internal/platform/resilience"
	"github.com/robfig/cron/v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendLevelDB  = "leveldb"
	BackendYAML     = "yaml"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level
	CORSAllowedOrigins []string
	SwaggerEnabled     bool

	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	FlashscoreBaseURL        string
	FlashscoreAPIHost        string
	FlashscoreAPIKey         string
	FlashscoreTimeout        time.Duration
	FlashscoreMaxConcurrency int
	FlashscoreLocale         string
	FlashscoreTimezone       string
	FlashscoreDefaultSport   string
	FlashscoreIDPrefix       string
	FlashscoreCircuit        resilience.CircuitBreakerConfig

	CachePurgeInterval time.Duration

	SnapshotBackend     string
	SnapshotLevelDBPath string
	PhaseConfigBackend  string
	PhaseConfigFile     string
	PhaseConfigCacheTTL time.Duration

	DBURL                   string
	DBBinaryParameters bool

	InternalJobToken string
	WarmupTargets    []string
	WarmupSchedule   string
	WarmupMaxWorkers int
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "flashscore-gateway"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		FlashscoreBaseURL:      strings.TrimRight(strings.TrimSpace(getEnv("FLASHSCORE_BASE_URL", "https://flashscore4.p.rapidapi.com")), "/"),
		FlashscoreAPIHost:      strings.TrimSpace(getEnv("FLASHSCORE_API_HOST", "flashscore4.p.rapidapi.com")),
		FlashscoreAPIKey:       strings.TrimSpace(getEnv("FLASHSCORE_API_KEY", "")),
		FlashscoreLocale:       strings.TrimSpace(getEnv("FLASHSCORE_LOCALE", "en_INT")),
		FlashscoreTimezone:     strings.TrimSpace(getEnv("FLASHSCORE_TIMEZONE", "0")),
		FlashscoreDefaultSport: strings.TrimSpace(getEnv("FLASHSCORE_DEFAULT_SPORT", "football")),
		FlashscoreIDPrefix:     strings.TrimSpace(getEnv("FLASHSCORE_ID_PREFIX", "fs-")),

		SnapshotBackend:     strings.ToLower(strings.TrimSpace(getEnv("SNAPSHOT_BACKEND", BackendMemory))),
		SnapshotLevelDBPath: strings.TrimSpace(getEnv("SNAPSHOT_LEVELDB_PATH", "./data/snapshots")),
		PhaseConfigBackend:  strings.ToLower(strings.TrimSpace(getEnv("PHASE_CONFIG_BACKEND", BackendMemory))),
		PhaseConfigFile:     strings.TrimSpace(getEnv("PHASE_CONFIG_FILE", "")),

		DBURL:            strings.TrimSpace(getEnv("DB_URL", "")),
		InternalJobToken: strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		WarmupTargets:    splitCSV(getEnv("WARMUP_TARGETS", "")),
		WarmupSchedule:   strings.TrimSpace(getEnv("WARMUP_SCHEDULE", "")),

		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	if cfg.SwaggerEnabled, err = getEnvAsBool("SWAGGER_ENABLED", appEnv != EnvProd); err != nil {
		return Config{}, err
	}
	if cfg.ReadTimeout, err = getEnvAsDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsDuration("APP_WRITE_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}

	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadFlashscore(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadStorage(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadWarmup(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadObservability(cfg *Config) error {
	var err error
	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", false); err != nil {
		return err
	}
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", false); err != nil {
		return err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.UptraceLogsEnabled, err = getEnvAsBool("UPTRACE_LOGS_ENABLED", true); err != nil {
		return err
	}

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", false); err != nil {
		return err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeUploadRate, err = getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return err
	}
	return nil
}

func loadFlashscore(cfg *Config) error {
	if cfg.FlashscoreBaseURL == "" {
		return fmt.Errorf("FLASHSCORE_BASE_URL cannot be empty")
	}
	if cfg.FlashscoreAPIKey == "" && cfg.AppEnv == EnvProd {
		return fmt.Errorf("FLASHSCORE_API_KEY is required when APP_ENV=%s", EnvProd)
	}

	var err error
	if cfg.FlashscoreTimeout, err = getEnvAsDuration("FLASHSCORE_TIMEOUT", "10s"); err != nil {
		return err
	}
	if cfg.FlashscoreMaxConcurrency, err = getEnvAsInt("FLASHSCORE_MAX_CONCURRENCY", 3); err != nil {
		return fmt.Errorf("parse FLASHSCORE_MAX_CONCURRENCY: %w", err)
	}
	if cfg.FlashscoreMaxConcurrency < 1 {
		return fmt.Errorf("FLASHSCORE_MAX_CONCURRENCY must be >= 1")
	}
	if cfg.CachePurgeInterval, err = getEnvAsDuration("CACHE_PURGE_INTERVAL", "1m"); err != nil {
		return err
	}

	circuit := resilience.DefaultCircuitBreakerConfig()
	if circuit.Enabled, err = getEnvAsBool("FLASHSCORE_CIRCUIT_ENABLED", true); err != nil {
		return err
	}
	if circuit.FailureThreshold, err = getEnvAsInt("FLASHSCORE_CIRCUIT_FAILURE_COUNT", circuit.FailureThreshold); err != nil {
		return fmt.Errorf("parse FLASHSCORE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if circuit.FailureThreshold < 1 {
		return fmt.Errorf("FLASHSCORE_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if circuit.OpenTimeout, err = getEnvAsDuration("FLASHSCORE_CIRCUIT_OPEN_TIMEOUT", "15s"); err != nil {
		return err
	}
	if circuit.HalfOpenMaxReq, err = getEnvAsInt("FLASHSCORE_CIRCUIT_HALF_OPEN_MAX_REQ", circuit.HalfOpenMaxReq); err != nil {
		return fmt.Errorf("parse FLASHSCORE_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if circuit.HalfOpenMaxReq < 1 {
		return fmt.Errorf("FLASHSCORE_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	cfg.FlashscoreCircuit = circuit
	return nil
}

func loadStorage(cfg *Config) error {
	switch cfg.SnapshotBackend {
	case BackendMemory, BackendPostgres:
	case BackendLevelDB:
		if cfg.SnapshotLevelDBPath == "" {
			return fmt.Errorf("SNAPSHOT_LEVELDB_PATH is required when SNAPSHOT_BACKEND=%s", BackendLevelDB)
		}
	default:
		return fmt.Errorf("invalid SNAPSHOT_BACKEND %q: valid values are %s, %s, %s", cfg.SnapshotBackend, BackendMemory, BackendPostgres, BackendLevelDB)
	}

	switch cfg.PhaseConfigBackend {
	case BackendMemory, BackendPostgres:
	case BackendYAML:
		if cfg.PhaseConfigFile == "" {
			return fmt.Errorf("PHASE_CONFIG_FILE is required when PHASE_CONFIG_BACKEND=%s", BackendYAML)
		}
	default:
		return fmt.Errorf("invalid PHASE_CONFIG_BACKEND %q: valid values are %s, %s, %s", cfg.PhaseConfigBackend, BackendMemory, BackendYAML, BackendPostgres)
	}

	var err error
	if cfg.PhaseConfigCacheTTL, err = getEnvAsDuration("PHASE_CONFIG_CACHE_TTL", "1m"); err != nil {
		return err
	}

	if cfg.UsesPostgres() && cfg.DBURL == "" {
		return fmt.Errorf("DB_URL is required when a postgres backend is selected")
	}
	if cfg.DBBinaryParameters, err = getEnvAsBool("DB_BINARY_PARAMETERS", true); err != nil {
		return err
	}
	return nil
}

func loadWarmup(cfg *Config) error {
	var err error
	if cfg.WarmupMaxWorkers, err = getEnvAsInt("WARMUP_MAX_WORKERS", 2); err != nil {
		return fmt.Errorf("parse WARMUP_MAX_WORKERS: %w", err)
	}
	if cfg.WarmupMaxWorkers < 1 {
		return fmt.Errorf("WARMUP_MAX_WORKERS must be >= 1")
	}

	if cfg.WarmupSchedule != "" {
		if _, err := cron.ParseStandard(cfg.WarmupSchedule); err != nil {
			return fmt.Errorf("parse WARMUP_SCHEDULE: %w", err)
		}
		if len(cfg.WarmupTargets) == 0 {
			return fmt.Errorf("WARMUP_TARGETS is required when WARMUP_SCHEDULE is set")
		}
	}
	return nil
}

// UsesPostgres reports whether any repository needs a database connection.
func (c Config) UsesPostgres() bool {
	return c.SnapshotBackend == BackendPostgres || c.PhaseConfigBackend == BackendPostgres
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	out, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
