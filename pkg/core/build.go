package core

import (
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
)

// pathEncoding encodes record paths as UTF-16BE without a byte order mark
var pathEncoding = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// Encode serializes records into the archive block format. It exists to
// produce fixtures; extraction never writes archives.
func Encode(records []Record) ([]byte, error) {
	var buf []byte
	for i, rec := range records {
		var err error
		if buf, err = AppendBlock(buf, rec); err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
	}
	return buf, nil
}

// AppendBlock appends the path and payload fields of rec to buf
func AppendBlock(buf []byte, rec Record) ([]byte, error) {
	rawPath, err := pathEncoding.NewEncoder().Bytes([]byte(rec.Path))
	if err != nil {
		return nil, fmt.Errorf("encode path %q: %w", rec.Path, err)
	}
	if buf, err = appendField(buf, rawPath); err != nil {
		return nil, fmt.Errorf("path %q: %w", rec.Path, err)
	}
	if buf, err = appendField(buf, rec.Payload); err != nil {
		return nil, fmt.Errorf("payload of %q: %w", rec.Path, err)
	}
	return buf, nil
}

// appendField appends a big-endian length prefix followed by field
func appendField(buf, field []byte) ([]byte, error) {
	if uint64(len(field)) > math.MaxUint32 {
		return nil, fmt.Errorf("field of %d bytes exceeds length prefix", len(field))
	}
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(field)))
	return append(buf, field...), nil
}

// CollectRecords reads the given files, walking directories, into records
// keyed by their slash-separated paths as given
func CollectRecords(paths []string) ([]Record, error) {
	var records []Record
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			payload, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			records = append(records, Record{Path: filepath.ToSlash(path), Payload: payload})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	return records, nil
}
