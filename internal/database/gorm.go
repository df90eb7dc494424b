package database

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// KVEntry is one logical key of the POS store, persisted as a row.
type KVEntry struct {
	Name      string `gorm:"primaryKey;size:64"`
	Value     []byte
	UpdatedAt time.Time
}

func (KVEntry) TableName() string { return "kv_entries" }

type gormStore struct {
	db *gorm.DB
}

// OpenSQLite opens the store on a SQLite file.
func OpenSQLite(path string, logMode bool) (Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormLogger(logMode)})
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	return newGormStore(db)
}

// OpenMySQL connects to MySQL, waiting for the server to come up.
func OpenMySQL(dsn string, logMode bool) (Store, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < 5; i++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger(logMode)})
		if err == nil {
			break
		}
		zap.L().Warn("failed to connect to database, retrying", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, errors.Wrap(err, "connect mysql after 5 attempts")
	}
	return newGormStore(db)
}

// NewGormStore wraps an already opened connection.
func NewGormStore(db *gorm.DB) (Store, error) {
	return newGormStore(db)
}

func newGormStore(db *gorm.DB) (*gormStore, error) {
	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		return nil, errors.Wrap(err, "auto migrate")
	}
	return &gormStore{db: db}, nil
}

func gormLogger(enabled bool) logger.Interface {
	if enabled {
		return logger.Default.LogMode(logger.Info)
	}
	return logger.Default.LogMode(logger.Silent)
}

func (s *gormStore) View(fn func(b Bucket) error) error {
	return fn(gormBucket{tx: s.db, readOnly: true})
}

func (s *gormStore) Update(fn func(b Bucket) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(gormBucket{tx: tx})
	})
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormBucket struct {
	tx       *gorm.DB
	readOnly bool
}

func (b gormBucket) Get(key string) ([]byte, error) {
	var entry KVEntry
	err := b.tx.Where("name = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if entry.Value == nil {
		return []byte{}, nil
	}
	return entry.Value, nil
}

func (b gormBucket) Put(key string, value []byte) error {
	if b.readOnly {
		return ErrReadOnly
	}
	entry := KVEntry{Name: key, Value: value, UpdatedAt: time.Now()}
	return b.tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (b gormBucket) Delete(key string) error {
	if b.readOnly {
		return ErrReadOnly
	}
	return b.tx.Where("name = ?", key).Delete(&KVEntry{}).Error
}
