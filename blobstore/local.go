package blobstore

import (
	"context"
	"os"
	"path/filepath"
)

// LocalStore implements BlobStore using the local file system.
type LocalStore struct {
	root string
}

// NewLocalStore creates a new LocalStore rooted at the given directory.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

// Open opens a blob for reading.
func (s *LocalStore) Open(ctx context.Context, name string) (Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.root, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &localBlob{f: f, size: info.Size()}, nil
}

type localBlob struct {
	f    *os.File
	size int64
}

func (b *localBlob) Read(p []byte) (int, error) { return b.f.Read(p) }

func (b *localBlob) Close() error { return b.f.Close() }

func (b *localBlob) Size() int64 { return b.size }
