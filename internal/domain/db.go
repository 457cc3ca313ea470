package domain

import "context"

// Database is the lifecycle of the store behind the repositories: schema
// upgrades, liveness and shutdown.
type Database interface {
	Migrate(ctx context.Context) error
	PingContext(ctx context.Context) error
	Close() error
}
