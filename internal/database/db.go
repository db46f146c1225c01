package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"time"

	"go-pos-terminal/internal/config"
	"go-pos-terminal/internal/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// KVEntry is the single table behind the SQL backends.
type KVEntry struct {
	Key       string `gorm:"column:kv_key;primaryKey;size:191"`
	Value     []byte `gorm:"column:kv_value"`
	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

// Connect opens the SQL store named by cfg and syncs the schema.
// The server waits for the database the same way it always has: a handful of
// attempts with a fixed pause in between.
func Connect(ctx context.Context, cfg config.StoreConfig, logg *logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverMySQL:
		dialector = mysql.Open(cfg.DSN)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("driver %q is not a SQL driver", cfg.Driver)
	}

	gormCfg := &gorm.Config{
		Logger: gormlogger.New(
			log.New(io.Discard, "", log.LstdFlags),
			gormlogger.Config{LogLevel: gormlogger.Silent},
		),
	}

	attempts := cfg.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	var (
		db  *gorm.DB
		err error
	)
	for i := 0; i < attempts; i++ {
		db, err = gorm.Open(dialector, gormCfg)
		if err == nil {
			break
		}
		if logg != nil {
			logg.Warn(logg.WithFields(ctx, map[string]any{"attempt": i + 1, "of": attempts}), "database.connect.retry")
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.ConnectBackoff):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s after %d attempts: %w", cfg.Driver, attempts, err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&KVEntry{}); err != nil {
		return nil, fmt.Errorf("migrate kv_entries: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "driver", cfg.Driver), "database.connected")
	}
	return db, nil
}

// GormBackend stores each key as one row of kv_entries.
type GormBackend struct {
	db *gorm.DB
}

func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

func (g *GormBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var entry KVEntry
	err := g.db.WithContext(ctx).Where("kv_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

func (g *GormBackend) Put(ctx context.Context, key string, value []byte) error {
	return upsert(g.db.WithContext(ctx), key, value)
}

func (g *GormBackend) PutMany(ctx context.Context, entries map[string][]byte) error {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, key := range keys {
			if err := upsert(tx, key, entries[key]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *GormBackend) Delete(ctx context.Context, key string) error {
	return g.db.WithContext(ctx).Where("kv_key = ?", key).Delete(&KVEntry{}).Error
}

// Close releases the pooled connections.
func (g *GormBackend) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func upsert(tx *gorm.DB, key string, value []byte) error {
	entry := KVEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kv_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"kv_value", "updated_at"}),
	}).Create(&entry).Error
}
