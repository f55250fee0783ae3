package embedding

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Snapshot format: a zstd stream wrapping
//
//	magic   uint32  snapshotMagic
//	version uint32
//	count   uint32  vocabulary entries
//	dim     uint32  vector dimension
//	words   count x (uint32 length + bytes)
//	vectors count x dim float32 (already unit-normalized)
//
// All integers little-endian. Snapshots store post-normalization vectors so
// loading skips the normalization pass entirely.
const (
	snapshotMagic   = uint32(0x54474e53) // "TGNS"
	snapshotVersion = uint32(1)
)

// SaveSnapshot writes the built index to a compressed snapshot file.
// The file is written to a temp sibling and renamed into place.
func (idx *Index) SaveSnapshot(path string) error {
	if !idx.ready {
		return ErrNotInitialized
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := idx.writeSnapshot(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (idx *Index) writeSnapshot(w io.Writer) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(zw)

	writeU32 := func(v uint32) error {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		_, werr := bw.Write(b[:])
		return werr
	}

	for _, v := range []uint32{snapshotMagic, snapshotVersion, uint32(len(idx.words)), uint32(idx.dimension)} {
		if err := writeU32(v); err != nil {
			return err
		}
	}
	for _, word := range idx.words {
		if err := writeU32(uint32(len(word))); err != nil {
			return err
		}
		if _, err := bw.WriteString(word); err != nil {
			return err
		}
	}
	for _, f := range idx.vectors {
		if err := writeU32(math.Float32bits(f)); err != nil {
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		return err
	}
	return zw.Close()
}

// LoadSnapshot reads a snapshot written by SaveSnapshot and returns a ready
// index. Vectors are taken as stored, without re-normalization.
func LoadSnapshot(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	br := bufio.NewReader(zr)
	readU32 := func() (uint32, error) {
		var b [4]byte
		if _, rerr := io.ReadFull(br, b[:]); rerr != nil {
			return 0, rerr
		}
		return binary.LittleEndian.Uint32(b[:]), nil
	}

	magic, err := readU32()
	if err != nil {
		return nil, fmt.Errorf("embedding: read snapshot header: %w", err)
	}
	if magic != snapshotMagic {
		return nil, fmt.Errorf("embedding: not a snapshot file: magic %#x", magic)
	}
	version, err := readU32()
	if err != nil {
		return nil, err
	}
	if version != snapshotVersion {
		return nil, fmt.Errorf("embedding: unsupported snapshot version %d", version)
	}
	count, err := readU32()
	if err != nil {
		return nil, err
	}
	dim, err := readU32()
	if err != nil {
		return nil, err
	}
	if dim == 0 {
		return nil, &ErrInvalidDimension{Dimension: int(dim)}
	}

	idx := &Index{
		dimension: int(dim),
		words:     make([]string, count),
		lower:     make([]string, count),
		byWord:    make(map[string]uint32, count),
		vectors:   make([]float32, int(count)*int(dim)),
	}
	buf := make([]byte, 64)
	for i := range idx.words {
		n, rerr := readU32()
		if rerr != nil {
			return nil, fmt.Errorf("embedding: read snapshot vocabulary: %w", rerr)
		}
		if int(n) > len(buf) {
			buf = make([]byte, n)
		}
		if _, rerr := io.ReadFull(br, buf[:n]); rerr != nil {
			return nil, fmt.Errorf("embedding: read snapshot vocabulary: %w", rerr)
		}
		idx.words[i] = string(buf[:n])
	}
	for i := range idx.vectors {
		bits, rerr := readU32()
		if rerr != nil {
			return nil, fmt.Errorf("embedding: read snapshot vectors: %w", rerr)
		}
		idx.vectors[i] = math.Float32frombits(bits)
	}

	for i, w := range idx.words {
		key := strings.ToLower(w)
		idx.lower[i] = key
		if _, exists := idx.byWord[key]; !exists {
			idx.byWord[key] = uint32(i)
		}
	}
	for i := 0; i < int(count); i++ {
		zero := true
		for _, v := range idx.vectors[i*int(dim) : (i+1)*int(dim)] {
			if v != 0 {
				zero = false
				break
			}
		}
		if zero {
			idx.zeroRows++
		}
	}

	idx.ready = true
	return idx, nil
}
