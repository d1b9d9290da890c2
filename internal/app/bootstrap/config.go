// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/pmhub/internal/app/workspace"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// Storage backends accepted by storage_type.
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// appConfigKeys defines the configuration keys for pmhub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: PMHUB_MONGO_URI, PMHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "storage_type", Default: StorageMongo, Desc: "Storage backend: 'mongo' or 'memory'"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "pmhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Workspace persistence
	{Name: "data_key", Default: workspace.DefaultDataKey, Desc: "Storage key for the workspace tree"},
	{Name: "session_key_name", Default: workspace.DefaultSessionKey, Desc: "Storage key for the signed-in user"},
	{Name: "seed_variant", Default: workspace.VariantHub, Desc: "Seed data when nothing is stored: 'hub' or 'workspace'"},
	{Name: "hash_passwords", Default: true, Desc: "Hash passwords of users added at runtime with bcrypt"},

	// Sessions
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "pmhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime (e.g., 24h, 30m)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all', 'log', or 'off'"},

	// Timeouts
	{Name: "timeout_ping", Default: "2s", Desc: "Health check storage ping timeout"},
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for a single storage read or write"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for loading the workspace at startup"},

	{Name: "changelog_interval", Default: "5m", Desc: "How often to log the workspace change summary"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, PMHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PMHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StorageType:      strings.ToLower(strings.TrimSpace(appValues.String("storage_type"))),
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		DataKey:        appValues.String("data_key"),
		SessionKeyName: appValues.String("session_key_name"),
		SeedVariant:    strings.ToLower(strings.TrimSpace(appValues.String("seed_variant"))),
		HashPasswords:  appValues.Bool("hash_passwords"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		TimeoutPing:   appValues.Duration("timeout_ping", 2*time.Second),
		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),

		ChangeLogInterval: appValues.Duration("changelog_interval", 5*time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI is only checked when MongoDB is the selected backend, so a
// memory-backed demo starts without one.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StorageType {
	case StorageMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if strings.TrimSpace(appCfg.MongoDatabase) == "" {
			return fmt.Errorf("mongo_database is required when storage_type is %q", StorageMongo)
		}
	case StorageMemory:
		logger.Warn("memory storage selected; the workspace is lost on restart")
	default:
		return fmt.Errorf("storage_type must be %q or %q, got %q", StorageMongo, StorageMemory, appCfg.StorageType)
	}

	if appCfg.SeedVariant != workspace.VariantHub && appCfg.SeedVariant != workspace.VariantWorkspace {
		return fmt.Errorf("seed_variant must be %q or %q, got %q", workspace.VariantHub, workspace.VariantWorkspace, appCfg.SeedVariant)
	}
	if strings.TrimSpace(appCfg.DataKey) == "" || strings.TrimSpace(appCfg.SessionKeyName) == "" {
		return fmt.Errorf("data_key and session_key_name must not be empty")
	}
	if appCfg.DataKey == appCfg.SessionKeyName {
		return fmt.Errorf("data_key and session_key_name must differ (both %q)", appCfg.DataKey)
	}

	for name, v := range map[string]string{"audit_log_auth": appCfg.AuditLogAuth, "audit_log_admin": appCfg.AuditLogAdmin} {
		switch v {
		case "all", "log", "off":
		default:
			return fmt.Errorf("%s must be 'all', 'log', or 'off', got %q", name, v)
		}
	}

	if appCfg.ChangeLogInterval <= 0 {
		return fmt.Errorf("changelog_interval must be positive")
	}

	return nil
}
