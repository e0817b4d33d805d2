package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// RegionLogger records every rendered region, verbatim, with optional file
// output.
type RegionLogger interface {
	Log(path, tag, content string)
}

// regionLogger implements RegionLogger with thread-safe log.
type regionLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRegion creates a new RegionLogger. If writer is nil, returns a no-op logger.
func NewRegion(w io.Writer) RegionLogger {
	return &regionLogger{w: w}
}

// Log emits a header line followed by the region text, each line indented.
func (r *regionLogger) Log(path, tag, content string) {
	if r.w == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s [%s] %d bytes\n",
		time.Now().Format("2006/01/02 15:04:05"),
		path,
		tag,
		len(content))
	for _, line := range strings.SplitAfter(content, "\n") {
		if line == "" {
			continue
		}
		sb.WriteString("    | ")
		sb.WriteString(line)
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		sb.WriteByte('\n')
	}

	r.mu.Lock()
	_, _ = io.WriteString(r.w, sb.String())
	r.mu.Unlock()
}
