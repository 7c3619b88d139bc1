package progress

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

// Global variables for progress tracking
var (
	totalBytesProcessed atomic.Uint64
	totalSize           uint64
	done                chan struct{}
	stopped             chan struct{}
	progressRunning     bool
	progressMutex       sync.Mutex
	output              io.Writer // nil keeps reporting silent
	interval            = 250 * time.Millisecond
)

// SetOutput sets where progress lines are written. A nil writer disables
// reporting; bytes are still counted.
func SetOutput(w io.Writer) {
	progressMutex.Lock()
	defer progressMutex.Unlock()
	output = w
}

// Init resets the counter and starts periodic reporting of size bytes
func Init(size uint64) {
	progressMutex.Lock()
	defer progressMutex.Unlock()

	if progressRunning {
		return
	}

	totalBytesProcessed.Store(0)
	totalSize = size
	if output == nil {
		return
	}

	done = make(chan struct{})
	stopped = make(chan struct{})
	progressRunning = true
	go logger(output, totalSize, done, stopped)
}

// Stop stops the progress tracking and waits for the final line
func Stop() {
	progressMutex.Lock()
	defer progressMutex.Unlock()

	if progressRunning {
		close(done)
		<-stopped
		progressRunning = false
	}
}

// AddBytes adds processed bytes to the counter
func AddBytes(n uint64) {
	if n > 0 {
		totalBytesProcessed.Add(n)
	}
}

// Processed returns the number of bytes counted since the last Init
func Processed() uint64 {
	return totalBytesProcessed.Load()
}

// formatRate returns a human-readable rate string
func formatRate(bytesPerSec uint64) string {
	return humanize.IBytes(bytesPerSec) + "/s"
}

// logger writes processing progress periodically
func logger(w io.Writer, total uint64, done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	var prevBytes uint64
	startTime := time.Now()
	perSecond := uint64(time.Second / interval)

	for {
		select {
		case <-ticker.C:
			currentBytes := totalBytesProcessed.Load()
			if currentBytes == prevBytes {
				continue
			}
			rate := (currentBytes - prevBytes) * perSecond
			prevBytes = currentBytes

			if total > 0 {
				fmt.Fprintf(w, "Extracted %s of %s (%.1f%%) | Rate: %s\n",
					humanize.IBytes(currentBytes), humanize.IBytes(total),
					float64(currentBytes)/float64(total)*100, formatRate(rate))
			} else {
				fmt.Fprintf(w, "Extracted %s | Rate: %s\n",
					humanize.IBytes(currentBytes), formatRate(rate))
			}
		case <-done:
			totalTime := time.Since(startTime).Seconds()
			if totalTime < 0.001 {
				totalTime = 0.001
			}
			processed := totalBytesProcessed.Load()
			fmt.Fprintf(w, "Completed extracting %s in %.1f seconds (avg rate: %s)\n",
				humanize.IBytes(processed), totalTime, formatRate(uint64(float64(processed)/totalTime)))
			return
		}
	}
}

// Writer is a writer that tracks bytes written for progress reporting
type Writer struct {
	W io.Writer
}

// Write implements io.Writer and tracks bytes written
func (pw *Writer) Write(p []byte) (n int, err error) {
	n, err = pw.W.Write(p)
	if n > 0 {
		AddBytes(uint64(n))
	}
	return
}
