package output

import "io"

// Format represents the output format type.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// RecordInfo describes one record of an archive listing.
type RecordInfo struct {
	Index      int    `json:"index"`
	Path       string `json:"path"`
	TargetPath string `json:"target_path"`
	Size       int64  `json:"size"`
	SizeHuman  string `json:"size_human"`
}

// Listing contains every record of an archive and aggregate totals.
type Listing struct {
	Archive        string       `json:"archive"`
	Compression    string       `json:"compression"`
	Records        []RecordInfo `json:"records"`
	TotalSize      int64        `json:"total_size"`
	TotalSizeHuman string       `json:"total_size_human"`
}

// Formatter is the interface for output formatting.
type Formatter interface {
	WriteListing(w io.Writer, listing Listing) error
}

// NewFormatter creates a new formatter for the given format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	default:
		return &TableFormatter{}
	}
}
