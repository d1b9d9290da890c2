// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"github.com/dalemusser/waffle/app"
)

// Hooks wires pmhub into WAFFLE's lifecycle. In order, WAFFLE will:
//   - LoadConfig / ValidateConfig: read PMHUB_* settings and reject bad storage or seed values
//   - ConnectDB: open MongoDB (or the in-memory store) behind the KV interface
//   - EnsureSchema: reconcile the kv_entries indexes
//   - Startup: load or seed the workspace and start the change log worker
//   - BuildHandler: mount the JSON API
//   - Shutdown: stop workers and disconnect MongoDB
var Hooks = app.Hooks[AppConfig, DBDeps]{
	Name:           "pmhub",
	LoadConfig:     LoadConfig,
	ValidateConfig: ValidateConfig,
	ConnectDB:      ConnectDB,
	EnsureSchema:   EnsureSchema,
	Startup:        Startup,
	BuildHandler:   BuildHandler,
	Shutdown:       Shutdown,
}
