// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework side (ports, TLS, logging, CORS); everything pmhub needs to reach
// its storage, seed its workspace and sign users in lives here.
type AppConfig struct {
	// Storage backend: "mongo" (default) or "memory" (nothing survives a restart)
	StorageType string

	// MongoDB connection configuration (storage_type=mongo only)
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Workspace persistence
	DataKey        string // KV key holding the whole workspace tree
	SessionKeyName string // KV key holding the most recently signed-in user
	SeedVariant    string // "hub" or "workspace"; used when no tree is stored yet
	HashPasswords  bool   // bcrypt passwords of users added at runtime

	// Session cookie configuration
	SessionKey    string        // Secret key for signing session cookies
	SessionName   string        // Cookie name for sessions
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Audit logging: "all", "log", or "off" per category
	AuditLogAuth  string
	AuditLogAdmin string

	// Storage deadlines
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration

	// How often the change log worker writes its summary line
	ChangeLogInterval time.Duration
}
