package embedding

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/gridword/themegen/blobstore"
)

const vectorHeaderSize = 8 // two little-endian uint32: (numVectors, dimension)

// Dataset is a decoded vocabulary + vector pair, ready to build an Index.
type Dataset struct {
	Vocabulary []string
	Vectors    []float32 // row-major, len(Vocabulary) x Dimension
	Dimension  int
}

// LoadDataset fetches and decodes the vocabulary JSON and the binary vector
// payload from the given store. The two blobs are fetched concurrently.
//
// It fails with *ErrIntegrity when the vector count declared in the binary
// header does not equal the vocabulary length.
func LoadDataset(ctx context.Context, store blobstore.BlobStore, vocabName, vectorsName string) (*Dataset, error) {
	var (
		vocab   []string
		payload []byte
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := blobstore.ReadAll(gctx, store, vocabName)
		if err != nil {
			return fmt.Errorf("embedding: load vocabulary %q: %w", vocabName, err)
		}
		if err := json.Unmarshal(data, &vocab); err != nil {
			return fmt.Errorf("embedding: parse vocabulary %q: %w", vocabName, err)
		}
		return nil
	})
	g.Go(func() error {
		data, err := blobstore.ReadAll(gctx, store, vectorsName)
		if err != nil {
			return fmt.Errorf("embedding: load vectors %q: %w", vectorsName, err)
		}
		payload = data
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	count, dimension, vectors, err := decodeVectorPayload(payload)
	if err != nil {
		return nil, err
	}
	if count != len(vocab) {
		return nil, &ErrIntegrity{VocabularyWords: len(vocab), DeclaredVectors: count}
	}

	return &Dataset{
		Vocabulary: vocab,
		Vectors:    vectors,
		Dimension:  dimension,
	}, nil
}

// SaveDataset writes a vocabulary JSON and binary vector payload pair into
// dir. The written pair round-trips through LoadDataset.
func SaveDataset(dir, vocabName, vectorsName string, ds *Dataset) error {
	vocabJSON, err := json.Marshal(ds.Vocabulary)
	if err != nil {
		return fmt.Errorf("embedding: encode vocabulary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, vocabName), vocabJSON, 0o644); err != nil {
		return err
	}

	payload, err := EncodeVectorPayload(len(ds.Vocabulary), ds.Dimension, ds.Vectors)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, vectorsName), payload, 0o644)
}

// EncodeVectorPayload encodes count x dimension float32 values into the
// binary wire format: an 8-byte little-endian (count, dimension) header
// followed by the row-major float payload.
func EncodeVectorPayload(count, dimension int, vectors []float32) ([]byte, error) {
	if len(vectors) != count*dimension {
		return nil, fmt.Errorf("embedding: encode: %d values do not form %d x %d", len(vectors), count, dimension)
	}

	out := make([]byte, vectorHeaderSize+len(vectors)*4)
	binary.LittleEndian.PutUint32(out[0:4], uint32(count))
	binary.LittleEndian.PutUint32(out[4:8], uint32(dimension))
	for i, v := range vectors {
		binary.LittleEndian.PutUint32(out[vectorHeaderSize+i*4:], math.Float32bits(v))
	}
	return out, nil
}

func decodeVectorPayload(payload []byte) (count, dimension int, vectors []float32, err error) {
	if len(payload) < vectorHeaderSize {
		return 0, 0, nil, fmt.Errorf("embedding: vector payload too short: %d bytes", len(payload))
	}
	count = int(binary.LittleEndian.Uint32(payload[0:4]))
	dimension = int(binary.LittleEndian.Uint32(payload[4:8]))
	if dimension <= 0 {
		return 0, 0, nil, &ErrInvalidDimension{Dimension: dimension}
	}

	want := count * dimension * 4
	body := payload[vectorHeaderSize:]
	if len(body) != want {
		return 0, 0, nil, fmt.Errorf("embedding: truncated vector payload: want %d bytes, got %d", want, len(body))
	}

	vectors = make([]float32, count*dimension)
	for i := range vectors {
		vectors[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[i*4:]))
	}
	return count, dimension, vectors, nil
}
