// Package driver opens the snapshot store selected by configuration.
package driver

import (
	"fmt"

	"badminton-club/config"
	"badminton-club/logger"
	"badminton-club/storage"
	"badminton-club/storage/postgres"
	"badminton-club/storage/s3"
	"badminton-club/storage/sqlite"
)

// Open returns the SnapshotStore named by cfg.StorageDriver.
func Open(cfg config.Config) (storage.SnapshotStore, error) {
	logger.Info.Printf("[driver.Open] Opening %q snapshot store", cfg.StorageDriver)

	switch cfg.StorageDriver {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "file", "":
		return storage.NewFileStore(cfg.DataDir)
	case "sqlite":
		return sqlite.Open(cfg.SQLitePath)
	case "postgres":
		return postgres.Open(cfg.PostgresDSN, !cfg.IsProduction())
	case "s3":
		return s3.Open(s3.Options{
			Bucket:  cfg.S3Bucket,
			Region:  cfg.S3Region,
			Prefix:  cfg.S3Prefix,
			Tracing: cfg.TracingEnabled,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
