package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter outputs data in JSON format.
type JSONFormatter struct{}

// WriteListing writes an archive listing as JSON.
func (f *JSONFormatter) WriteListing(w io.Writer, listing Listing) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(listing)
}
