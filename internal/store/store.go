package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const DefaultLimit = 50

// RoomEvent is one line of the room audit trail.
type RoomEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    int       `gorm:"index;not null" json:"room_id"`
	Kind      string    `gorm:"size:32;not null" json:"kind"`
	User      string    `gorm:"size:64" json:"user,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Store struct {
	db *gorm.DB
}

// Open connects to Postgres and migrates the schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return New(db)
}

// New wraps an already opened database.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&RoomEvent{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) RecordRoomEvent(ctx context.Context, roomID int, kind, user, detail string) error {
	ev := RoomEvent{RoomID: roomID, Kind: kind, User: user, Detail: detail}
	if err := s.db.WithContext(ctx).Create(&ev).Error; err != nil {
		return fmt.Errorf("insert room event: %w", err)
	}
	return nil
}

// Recent returns the latest events for a room, newest first. limit <= 0 means DefaultLimit.
func (s *Store) Recent(ctx context.Context, roomID, limit int) ([]RoomEvent, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	var out []RoomEvent
	err := s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("id desc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("query room events: %w", err)
	}
	return out, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
