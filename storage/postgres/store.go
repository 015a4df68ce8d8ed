// Package postgres stores club snapshots in a Postgres table through gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"badminton-club/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// SnapshotRecord is one saved snapshot slot.
type SnapshotRecord struct {
	Slot      string `gorm:"primaryKey;size:128"`
	Data      []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName pins the table name.
func (SnapshotRecord) TableName() string { return "club_snapshots" }

// Store provides Postgres-backed snapshot persistence.
type Store struct {
	db *gorm.DB
}

// Open connects to dsn and migrates the snapshot table. verbose logs SQL.
func Open(dsn string, verbose bool) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	gormConfig := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	if verbose {
		gormConfig.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}
	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return New(db)
}

// New wraps an open gorm connection and migrates the snapshot table.
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm db is required")
	}
	if err := db.AutoMigrate(&SnapshotRecord{}); err != nil {
		return nil, fmt.Errorf("migrate snapshots: %w", err)
	}
	return &Store{db: db}, nil
}

// Load returns the snapshot stored under slot.
func (s *Store) Load(ctx context.Context, slot string) ([]byte, error) {
	if err := storage.ValidateSlot(slot); err != nil {
		return nil, err
	}
	var rec SnapshotRecord
	err := s.db.WithContext(ctx).Where("slot = ?", slot).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return rec.Data, nil
}

// Save upserts the snapshot stored under slot.
func (s *Store) Save(ctx context.Context, slot string, data []byte) error {
	if err := storage.ValidateSlot(slot); err != nil {
		return err
	}
	rec := SnapshotRecord{Slot: slot, Data: data, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
