package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factory/pkg/core"
)

func testListing() Listing {
	return NewListing("bundle.factory", core.CompressionLZ4, []core.Record{
		{Path: "/x.txt", Payload: []byte("hi")},
		{Path: "y/z.bin", Payload: make([]byte, 2998)},
	})
}

func TestNewFormatter(t *testing.T) {
	t.Run("returns TableFormatter for table format", func(t *testing.T) {
		_, ok := NewFormatter(FormatTable).(*TableFormatter)
		assert.True(t, ok)
	})

	t.Run("returns JSONFormatter for json format", func(t *testing.T) {
		_, ok := NewFormatter(FormatJSON).(*JSONFormatter)
		assert.True(t, ok)
	})

	t.Run("returns TableFormatter for unknown format", func(t *testing.T) {
		_, ok := NewFormatter("unknown").(*TableFormatter)
		assert.True(t, ok)
	})
}

func TestNewListing(t *testing.T) {
	listing := testListing()

	require.Len(t, listing.Records, 2)
	assert.Equal(t, "x.txt", listing.Records[0].TargetPath)
	assert.Equal(t, "y/z.bin", listing.Records[1].TargetPath)
	assert.Equal(t, int64(3000), listing.TotalSize)
	assert.Equal(t, "3.0 kB", listing.TotalSizeHuman)
	assert.Equal(t, "2 B", listing.Records[0].SizeHuman)
	assert.Equal(t, "lz4", listing.Compression)
}

func TestNewListingEmpty(t *testing.T) {
	listing := NewListing("empty.factory", core.CompressionNone, nil)
	assert.NotNil(t, listing.Records)
	assert.Zero(t, listing.TotalSize)
}

func TestTableFormatter_WriteListing(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}

	require.NoError(t, f.WriteListing(&buf, testListing()))

	output := buf.String()
	assert.Contains(t, output, "PATH")
	assert.Contains(t, output, `"/x.txt"`)
	assert.Contains(t, output, "y/z.bin")
	assert.Contains(t, output, "Records:      2")
	assert.Contains(t, output, "3,000 bytes")
}

func TestJSONFormatter_WriteListing(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONFormatter{}

	require.NoError(t, f.WriteListing(&buf, testListing()))

	var got Listing
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, testListing(), got)
}
