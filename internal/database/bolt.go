package database

import (
	"bytes"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

var boltBucketName = []byte("pos")

type boltStore struct {
	db *bbolt.DB
}

// OpenBolt opens (or creates) a single-file bbolt database at path.
func OpenBolt(path string) (Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt %s", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create bolt bucket")
	}
	return &boltStore{db: db}, nil
}

func (s *boltStore) View(fn func(b Bucket) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return fn(boltBucket{b: tx.Bucket(boltBucketName), readOnly: true})
	})
}

func (s *boltStore) Update(fn func(b Bucket) error) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return fn(boltBucket{b: tx.Bucket(boltBucketName)})
	})
}

func (s *boltStore) Close() error {
	return s.db.Close()
}

type boltBucket struct {
	b        *bbolt.Bucket
	readOnly bool
}

func (b boltBucket) Get(key string) ([]byte, error) {
	// values are only valid for the life of the transaction
	v := b.b.Get([]byte(key))
	if v == nil {
		return nil, nil
	}
	return bytes.Clone(v), nil
}

func (b boltBucket) Put(key string, value []byte) error {
	if b.readOnly {
		return ErrReadOnly
	}
	return b.b.Put([]byte(key), value)
}

func (b boltBucket) Delete(key string) error {
	if b.readOnly {
		return ErrReadOnly
	}
	return b.b.Delete([]byte(key))
}
