package core

import (
	"errors"
	"fmt"
)

// Constants for archive format
const (
	Extension  = ".factory" // Conventional archive file extension
	PrefixSize = 4          // Width of the big-endian length prefix of every field
	DryRunArg  = "-d"       // Second positional argument that requests a dry run
)

// Record is one decoded block: a recorded path and its payload
type Record struct {
	Path    string // Path as recorded in the archive, decoded from UTF-16BE
	Payload []byte // Raw payload bytes, stored verbatim
}

// Errors returned while loading, parsing and extracting archives
var (
	ErrUsage            = errors.New("usage")
	ErrRead             = errors.New("read archive")
	ErrMalformedArchive = errors.New("malformed archive")
	ErrTruncatedField   = fmt.Errorf("%w: field length exceeds remaining bytes", ErrMalformedArchive)
	ErrOddPathLength    = fmt.Errorf("%w: path field has odd byte length", ErrMalformedArchive)
	ErrWrite            = errors.New("write record")
	ErrEmptyPath        = errors.New("empty record path")
	ErrPathEscapesRoot  = errors.New("record path escapes extraction root")
)
