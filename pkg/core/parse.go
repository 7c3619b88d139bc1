package core

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf16"
)

// Parse decodes a whole archive buffer into its records, in archive order
func Parse(data []byte) ([]Record, error) {
	r := bytes.NewReader(data)

	var records []Record
	for r.Len() > 0 {
		offset := r.Size() - int64(r.Len())
		rec, err := readBlock(r)
		if err != nil {
			return nil, fmt.Errorf("block %d at offset %d: %w", len(records), offset, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// readBlock reads one path field followed by one payload field
func readBlock(r *bytes.Reader) (Record, error) {
	rawPath, err := readField(r)
	if err != nil {
		return Record{}, fmt.Errorf("read path: %w", err)
	}
	path, err := decodePath(rawPath)
	if err != nil {
		return Record{}, err
	}

	payload, err := readField(r)
	if err != nil {
		return Record{}, fmt.Errorf("read payload of %q: %w", path, err)
	}

	return Record{Path: path, Payload: payload}, nil
}

// readField reads a 4-byte big-endian length and exactly that many bytes
func readField(r *bytes.Reader) ([]byte, error) {
	if r.Len() < PrefixSize {
		return nil, fmt.Errorf("%w: %d bytes left for length prefix", ErrTruncatedField, r.Len())
	}

	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, fmt.Errorf("read length: %w", err)
	}
	if uint64(n) > uint64(r.Len()) {
		return nil, fmt.Errorf("%w: declared %d bytes, %d left", ErrTruncatedField, n, r.Len())
	}

	field := make([]byte, n)
	if _, err := io.ReadFull(r, field); err != nil {
		return nil, fmt.Errorf("read field: %w", err)
	}
	return field, nil
}

// decodePath converts raw UTF-16BE code units to a string. Every unpaired
// surrogate unit becomes one U+FFFD and a leading U+FEFF is kept.
func decodePath(raw []byte) (string, error) {
	if len(raw)%2 != 0 {
		return "", fmt.Errorf("%w: %d bytes", ErrOddPathLength, len(raw))
	}
	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = binary.BigEndian.Uint16(raw[2*i:])
	}
	return string(utf16.Decode(units)), nil
}
