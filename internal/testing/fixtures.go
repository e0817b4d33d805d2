package testing

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Alia5/bbgen/internal/codegen/munger"
)

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Sentries returns a minimal target body holding one empty region per tag.
func Sentries(tags ...string) string {
	var sb strings.Builder
	sb.WriteString("// header\n")
	for _, tag := range tags {
		sb.WriteString(munger.SentryPrefix + tag + "\n")
		sb.WriteString(munger.SentryPrefix + tag + "\n")
	}
	sb.WriteString("// footer\n")
	return sb.String()
}

// WriteFile creates rel under dir, with parent directories, and returns its path.
func WriteFile(t *testing.T, dir, rel, body string) string {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

// ReadFile returns the content of p as a string.
func ReadFile(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(b)
}
