package core

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// Compression identifies an outer compression layer around an archive
type Compression string

const (
	CompressionAuto Compression = "auto" // Sniff the leading magic bytes
	CompressionNone Compression = "none"
	CompressionLZ4  Compression = "lz4"
	CompressionXZ   Compression = "xz"
)

var (
	lz4Magic = []byte{0x04, 0x22, 0x4d, 0x18}
	xzMagic  = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// ParseCompression validates a compression name. The empty string means auto.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(s)); c {
	case "":
		return CompressionAuto, nil
	case CompressionAuto, CompressionNone, CompressionLZ4, CompressionXZ:
		return c, nil
	default:
		return "", fmt.Errorf("unsupported compression: %q", s)
	}
}

// Detect reports the compression layer data starts with
func Detect(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, lz4Magic):
		return CompressionLZ4
	case bytes.HasPrefix(data, xzMagic):
		return CompressionXZ
	default:
		return CompressionNone
	}
}

// Load reads the whole archive at path into memory, removing any outer
// compression layer. It returns the layer that was removed, resolving
// CompressionAuto to the detected one.
func Load(path string, c Compression) ([]byte, Compression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrRead, err)
	}
	if c == CompressionAuto || c == "" {
		c = Detect(data)
	}
	data, err = Decompress(data, c)
	if err != nil {
		return nil, "", fmt.Errorf("%w %s: %w", ErrRead, path, err)
	}
	return data, c, nil
}

// Decompress removes the compression layer c from data. Uncompressed data
// is returned as-is.
func Decompress(data []byte, c Compression) ([]byte, error) {
	if c == CompressionAuto || c == "" {
		c = Detect(data)
	}

	var r io.Reader
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		r = lz4.NewReader(bytes.NewReader(data))
	case CompressionXZ:
		xr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("create xz reader: %w", err)
		}
		r = xr
	default:
		return nil, fmt.Errorf("unsupported compression: %q", c)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", c, err)
	}
	return out, nil
}

// Compress wraps data in the compression layer c
func Compress(data []byte, c Compression) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser
	switch c {
	case CompressionNone, CompressionAuto, "":
		return data, nil
	case CompressionLZ4:
		w = lz4.NewWriter(&buf)
	case CompressionXZ:
		xw, err := xz.NewWriter(&buf)
		if err != nil {
			return nil, fmt.Errorf("create xz writer: %w", err)
		}
		w = xw
	default:
		return nil, fmt.Errorf("unsupported compression: %q", c)
	}

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("compress %s: %w", c, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close %s writer: %w", c, err)
	}
	return buf.Bytes(), nil
}
