package database

import (
	"os"
	"path/filepath"

	"go-pos-lite/internal/config"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Fixed logical keys of the persisted collections.
const (
	KeyCategories  = "pos_categories"
	KeyProducts    = "pos_products"
	KeySales       = "pos_sales"
	KeyUsers       = "pos_users"
	KeyCurrentUser = "pos_current_user"
)

var ErrReadOnly = errors.New("bucket is read-only")

// Bucket is the key-value surface visible inside a View or Update.
// Get returns nil, nil for an absent key.
type Bucket interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// Store is a local key-value store. Update is atomic: when fn returns an
// error none of its writes are kept.
type Store interface {
	View(fn func(b Bucket) error) error
	Update(fn func(b Bucket) error) error
	Close() error
}

// Open picks the backend named by cfg.Driver.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "bolt":
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
		return OpenBolt(cfg.Path)
	case "sqlite":
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
		return OpenSQLite(cfg.Path, cfg.LogMode)
	case "mysql":
		return OpenMySQL(cfg.DSN, cfg.LogMode)
	default:
		return nil, errors.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// MustOpen is Open for process startup: it logs and exits on failure.
func MustOpen(cfg config.StorageConfig) Store {
	store, err := Open(cfg)
	if err != nil {
		zap.L().Fatal("failed to open storage", zap.String("driver", cfg.Driver), zap.Error(err))
	}
	zap.L().Info("storage ready", zap.String("driver", cfg.Driver))
	return store
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return errors.Wrap(os.MkdirAll(dir, 0o755), "create data dir")
}
