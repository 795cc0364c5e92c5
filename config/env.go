package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAPIURL              = "http://localhost:3333"
	defaultAppEnv              = "local"
	defaultKVDriver            = "file"
	defaultKVPath              = ".foodexplorer"
	defaultKVPrefix            = "@foodexplorer:"
	defaultRedisAddr           = "localhost:6379"
	defaultDatabaseDriver      = "sqlite"
	defaultSQLiteDSN           = "foodexplorer.db"
	defaultHTTPTimeout         = 30 * time.Second
	defaultViewBreakpoint      = 1050
	defaultAcceptRedirectDelay = 3 * time.Second
)

// envPrefix scopes process environment overrides, e.g. FOODEXPLORER_API_URL.
const envPrefix = "FOODEXPLORER_"

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads config/app.json, then .env, then the process environment.
// Later sources win. Missing files are not an error.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

// Reset drops loaded values and lets the next Load start over. Tests only.
func Reset() {
	mu.Lock()
	values = defaultValues()
	mu.Unlock()
	loadOnce = sync.Once{}
	loadErr = nil
}

// Set overrides a single key in memory.
func Set(key, value string) {
	mu.Lock()
	values[strings.ToUpper(key)] = value
	mu.Unlock()
}

func defaultValues() map[string]string {
	return map[string]string{
		"API_URL":        defaultAPIURL,
		"APP_ENV":        defaultAppEnv,
		"KV_DRIVER":      defaultKVDriver,
		"KV_PATH":        defaultKVPath,
		"KV_PREFIX":      defaultKVPrefix,
		"REDIS_ADDR":     defaultRedisAddr,
		"REDIS_PASSWORD": "",
		"DB_DRIVER":      defaultDatabaseDriver,
		"DATABASE_DSN":   "",
		"LOG_FILE":       "",
		"LOG_MONGO_URI":  "",
		"METRICS_ADDR":   "",
	}
}

func APIURL() string {
	_ = Load()
	return strings.TrimRight(get("API_URL", defaultAPIURL), "/")
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

// ── Key-value store ──────────────────────────────────────────────────────────

func KVDriver() string {
	_ = Load()

	driver := strings.ToLower(get("KV_DRIVER", defaultKVDriver))
	switch driver {
	case "memory", "file", "redis", "sql":
		return driver
	default:
		return defaultKVDriver
	}
}

func KVPath() string {
	_ = Load()
	return get("KV_PATH", defaultKVPath)
}

// KVPrefix namespaces every persisted key. Empty values are allowed.
func KVPrefix() string {
	_ = Load()
	mu.RLock()
	defer mu.RUnlock()
	if v, ok := values["KV_PREFIX"]; ok {
		return v
	}
	return defaultKVPrefix
}

func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", defaultRedisAddr)
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

func DatabaseDriver() string {
	_ = Load()

	driver := strings.ToLower(get("DB_DRIVER", defaultDatabaseDriver))
	switch driver {
	case "sqlite", "postgres", "mysql", "sqlserver":
		return driver
	default:
		return defaultDatabaseDriver
	}
}

func DatabaseDSN() string {
	_ = Load()
	return get("DATABASE_DSN", defaultSQLiteDSN)
}

// ── Client behaviour ─────────────────────────────────────────────────────────

func HTTPTimeout() time.Duration {
	_ = Load()
	return duration("HTTP_TIMEOUT", defaultHTTPTimeout)
}

func ViewBreakpoint() int {
	_ = Load()
	n, err := strconv.Atoi(get("VIEW_BREAKPOINT", ""))
	if err != nil || n <= 0 {
		return defaultViewBreakpoint
	}
	return n
}

func AcceptRedirectDelay() time.Duration {
	_ = Load()
	return duration("ACCEPT_REDIRECT_DELAY", defaultAcceptRedirectDelay)
}

// ── Observability ────────────────────────────────────────────────────────────

func LogFile() string     { _ = Load(); return get("LOG_FILE", "") }
func LogMongoURI() string { _ = Load(); return get("LOG_MONGO_URI", "") }
func MetricsAddr() string { _ = Load(); return get("METRICS_ADDR", "") }

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mergeEnviron(loaded)

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		var s string
		switch v := val.(type) {
		case string:
			s = v
		case float64:
			s = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	env, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	for key, value := range env {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = value
	}

	return nil
}

func mergeEnviron(out map[string]string) {
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, envPrefix) {
			continue
		}
		out[strings.TrimPrefix(key, envPrefix)] = value
	}
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

func duration(key string, fallback time.Duration) time.Duration {
	raw := get(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// Get reads any config key by name with an optional fallback.
// Keys from .env, app.json and FOODEXPLORER_* variables are available after
// config.Load().
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}
