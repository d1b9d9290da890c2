// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	kvstore "github.com/dalemusser/pmhub/internal/app/store/kv"
	"github.com/dalemusser/pmhub/internal/app/system/ratelimit"
	"github.com/dalemusser/pmhub/internal/app/system/workers"
	"github.com/dalemusser/pmhub/internal/app/workspace"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// MongoClient and MongoDatabase are nil when storage_type is memory. KV is
// always set. Services is allocated by ConnectDB and filled in by Startup,
// since WAFFLE passes DBDeps to later hooks by value.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	KV            kvstore.Store
	Services      *Services
}

// Services are the long-lived objects built on top of the store.
type Services struct {
	Workspace *workspace.Container
	ChangeLog *workers.ChangeLog
	Logins    *ratelimit.LoginLimiter
}
