package store

import (
	"context"
	"errors"
	"os"

	"github.com/peterbourgon/diskv/v3"
)

// DiskvKV implements KV on a plain directory of files, one file per key.
type DiskvKV struct {
	d *diskv.Diskv
}

// OpenDiskv creates (or reuses) a diskv store rooted at dir.
func OpenDiskv(dir string) (*DiskvKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskvKV{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return nil },
		CacheSizeMax: 1024 * 1024, // 1MB
	})}, nil
}

func (k *DiskvKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	blob, err := k.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return blob, true, nil
}

func (k *DiskvKV) Set(_ context.Context, key string, blob []byte) error {
	return k.d.Write(key, blob)
}

func (k *DiskvKV) Close() error { return nil }
