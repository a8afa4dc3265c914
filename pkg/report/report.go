// Package report reads and writes analysis bundles: one snappy-compressed,
// checksummed file carrying the full metric summary and the prepared
// network payload, so a run can be archived or shipped between machines.
package report

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"time"

	"github.com/golang/snappy"

	"github.com/kpellard/heronet/pkg/analysis"
	"github.com/kpellard/heronet/pkg/viz"
)

// Version is the current bundle format version.
const Version = 1

// maxPayload caps how much a reader will allocate for one bundle.
const maxPayload = 1 << 28

var magic = [4]byte{'H', 'N', 'R', 'B'}

var (
	ErrBadMagic   = errors.New("not a report bundle")
	ErrBadVersion = errors.New("unsupported bundle version")
	ErrChecksum   = errors.New("bundle checksum mismatch")
	ErrTooLarge   = errors.New("bundle payload too large")
)

// Bundle is everything one analysis run produces.
type Bundle struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Source      string            `json:"source"`
	Summary     *analysis.Summary `json:"summary"`
	Network     *viz.NetworkData  `json:"network,omitempty"`
}

// Write frames the bundle onto w.
// Format: [magic:4][version:1][DataLen:4][snappy data:N][Checksum:4]
func Write(w io.Writer, b *Bundle) error {
	if b == nil || b.Summary == nil {
		return errors.New("bundle has no summary")
	}

	raw, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}
	compressed := snappy.Encode(nil, raw)

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(magic[:]); err != nil {
		return err
	}
	if err := bw.WriteByte(Version); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.BigEndian, uint32(len(compressed))); err != nil {
		return err
	}
	if _, err := bw.Write(compressed); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.BigEndian, crc32.ChecksumIEEE(compressed)); err != nil {
		return err
	}
	return bw.Flush()
}

// Read parses a bundle from r, verifying the checksum before decoding.
func Read(r io.Reader) (*Bundle, error) {
	br := bufio.NewReader(r)

	var gotMagic [4]byte
	if _, err := io.ReadFull(br, gotMagic[:]); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if gotMagic != magic {
		return nil, ErrBadMagic
	}

	version, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, version)
	}

	var dataLen uint32
	if err := binary.Read(br, binary.BigEndian, &dataLen); err != nil {
		return nil, fmt.Errorf("read length: %w", err)
	}
	if dataLen > maxPayload {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, dataLen)
	}

	compressed := make([]byte, dataLen)
	if _, err := io.ReadFull(br, compressed); err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	var checksum uint32
	if err := binary.Read(br, binary.BigEndian, &checksum); err != nil {
		return nil, fmt.Errorf("read checksum: %w", err)
	}
	if crc32.ChecksumIEEE(compressed) != checksum {
		return nil, ErrChecksum
	}

	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress bundle: %w", err)
	}

	b := &Bundle{}
	if err := json.Unmarshal(raw, b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	return b, nil
}

// WriteFile writes the bundle to path.
func WriteFile(path string, b *Bundle) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, b); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a bundle from path.
func ReadFile(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
