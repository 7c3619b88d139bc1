package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

// TableFormatter outputs data in human-readable table format.
type TableFormatter struct{}

// WriteListing writes an archive listing as a table followed by totals.
func (f *TableFormatter) WriteListing(w io.Writer, listing Listing) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPATH\tTARGET\tSIZE")

	for _, rec := range listing.Records {
		fmt.Fprintf(tw, "%d\t%q\t%s\t%s\n",
			rec.Index,
			rec.Path,
			rec.TargetPath,
			rec.SizeHuman,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Archive:      %s\n", listing.Archive)
	fmt.Fprintf(w, "Compression:  %s\n", listing.Compression)
	fmt.Fprintf(w, "Records:      %s\n", humanize.Comma(int64(len(listing.Records))))
	_, err := fmt.Fprintf(w, "Total Size:   %s (%s bytes)\n", listing.TotalSizeHuman, humanize.Comma(listing.TotalSize))
	return err
}
