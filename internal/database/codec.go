package database

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LoadList decodes the collection stored under key. A missing key is an
// empty collection.
func LoadList[T any](b Bucket, key string) ([]T, error) {
	data, err := b.Get(key)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", key)
	}
	if len(data) == 0 {
		return []T{}, nil
	}
	var list []T
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, errors.Wrapf(err, "decode %s", key)
	}
	return list, nil
}

func SaveList[T any](b Bucket, key string, list []T) error {
	if list == nil {
		list = []T{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	return errors.Wrapf(b.Put(key, data), "write %s", key)
}

// LoadValue decodes a scalar slot. ok is false when the slot is empty.
func LoadValue[T any](b Bucket, key string) (value T, ok bool, err error) {
	data, err := b.Get(key)
	if err != nil {
		return value, false, errors.Wrapf(err, "read %s", key)
	}
	if len(data) == 0 {
		return value, false, nil
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, false, errors.Wrapf(err, "decode %s", key)
	}
	return value, true, nil
}

func SaveValue[T any](b Bucket, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	return errors.Wrapf(b.Put(key, data), "write %s", key)
}

// Exists reports whether key holds a value.
func Exists(b Bucket, key string) (bool, error) {
	data, err := b.Get(key)
	if err != nil {
		return false, errors.Wrapf(err, "read %s", key)
	}
	return data != nil, nil
}
