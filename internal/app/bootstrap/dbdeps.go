// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadrelay/leadrelay/internal/app/system/realtime"
)

// DBDeps holds database/back-end dependencies for the app.
// Extend this struct as your app evolves.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Realtime is nil when redis_url is blank; all publishes become no-ops.
	Realtime *realtime.Publisher
}
