package output

import (
	"github.com/dustin/go-humanize"

	"factory/pkg/core"
)

// NewListing builds a Listing from parsed records.
func NewListing(archive string, compression core.Compression, records []core.Record) Listing {
	listing := Listing{
		Archive:     archive,
		Compression: string(compression),
		Records:     make([]RecordInfo, 0, len(records)),
	}
	for i, rec := range records {
		size := int64(len(rec.Payload))
		listing.Records = append(listing.Records, RecordInfo{
			Index:      i,
			Path:       rec.Path,
			TargetPath: core.NormalizePath(rec.Path),
			Size:       size,
			SizeHuman:  humanize.Bytes(uint64(size)),
		})
		listing.TotalSize += size
	}
	listing.TotalSizeHuman = humanize.Bytes(uint64(listing.TotalSize))
	return listing
}
