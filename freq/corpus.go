package freq

import (
	"context"
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/gridword/themegen/blobstore"
)

const corpusFormatVersion = 1

// corpusFile is the on-disk corpus layout, msgpack-encoded.
type corpusFile struct {
	Version int               `msgpack:"version"`
	Counts  map[string]uint64 `msgpack:"counts"`
}

// LoadCorpus fetches and decodes a msgpack frequency corpus from the store.
func LoadCorpus(ctx context.Context, store blobstore.BlobStore, name string) (*Oracle, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, fmt.Errorf("freq: load corpus %q: %w", name, err)
	}

	var cf corpusFile
	if err := msgpack.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("freq: parse corpus %q: %w", name, err)
	}
	if cf.Version != corpusFormatVersion {
		return nil, fmt.Errorf("freq: unsupported corpus version %d", cf.Version)
	}
	return New(cf.Counts), nil
}

// SaveCorpus writes occurrence counts to a msgpack corpus file.
func SaveCorpus(path string, counts map[string]uint64) error {
	data, err := msgpack.Marshal(corpusFile{
		Version: corpusFormatVersion,
		Counts:  counts,
	})
	if err != nil {
		return fmt.Errorf("freq: encode corpus: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
