// Package munger replaces the text between a pair of tagged sentry lines
// inside an existing source file.
package munger

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SentryPrefix starts every sentry line; the output tag follows it.
const SentryPrefix = "// *** AUTOGENERATED BY BBGEN.  DO NOT EDIT THIS SECTION: "

// Result describes one patch.
type Result struct {
	Path    string
	Tag     string
	Changed bool
}

// StructureError means the target does not carry exactly one sentry pair for
// the tag. The file is left untouched.
type StructureError struct {
	Path     string
	Sentry   string
	Found    int
	Expected int
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("did not find proper autogen sentries (found %d expected %d) within %s like this: %s",
		e.Found, e.Expected, e.Path, e.Sentry)
}

// IOError wraps a failure to read or write the target file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("could not %s %s for munging: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Recoverable reports whether err only affects the file it was raised for.
func Recoverable(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}

// Munger patches files. The zero value writes changes to disk.
type Munger struct {
	// DryRun computes whether a file would change without writing it.
	DryRun bool
}

// Patch replaces the region of tag in path with content using a writing Munger.
func Patch(path, tag, content string) (Result, error) {
	return Munger{}.Patch(path, tag, content)
}

func (m Munger) Patch(path, tag, content string) (Result, error) {
	res := Result{Path: path, Tag: tag}

	// Links are followed so the rename replaces the real file, not the link.
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return res, &IOError{Op: "read", Path: path, Err: err}
	}
	info, err := os.Stat(target)
	if err != nil {
		return res, &IOError{Op: "read", Path: path, Err: err}
	}
	orig, err := os.ReadFile(target)
	if err != nil {
		return res, &IOError{Op: "read", Path: path, Err: err}
	}

	patched, err := Splice(orig, tag, content)
	if err != nil {
		var se *StructureError
		if errors.As(err, &se) {
			se.Path = path
		}
		return res, err
	}

	res.Changed = !bytes.Equal(orig, patched)
	if !res.Changed || m.DryRun {
		return res, nil
	}
	if err := checkWritable(target, info.Mode()); err != nil {
		return res, &IOError{Op: "write", Path: path, Err: err}
	}
	if err := writeAtomic(target, patched, info.Mode().Perm()); err != nil {
		return res, &IOError{Op: "write", Path: path, Err: err}
	}
	return res, nil
}

// Splice returns data with the region between the two sentry lines of tag
// replaced by content. Markers and everything outside them are kept
// byte-for-byte.
func Splice(data []byte, tag, content string) ([]byte, error) {
	sentry := SentryPrefix + tag
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	var out bytes.Buffer
	out.Grow(len(data) + len(content))
	found := 0
	inside := false
	for _, line := range bytes.SplitAfter(data, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		if isSentry(line, sentry) {
			found++
			inside = !inside
			out.Write(line)
			if inside {
				out.WriteString(content)
			}
			continue
		}
		if !inside {
			out.Write(line)
		}
	}
	if found != 2 {
		return nil, &StructureError{Sentry: sentry, Found: found, Expected: 2}
	}
	return out.Bytes(), nil
}

// isSentry matches a line holding sentry followed by nothing but whitespace,
// so one tag never matches a longer tag it prefixes.
func isSentry(line []byte, sentry string) bool {
	i := bytes.Index(line, []byte(sentry))
	if i < 0 {
		return false
	}
	return len(bytes.TrimSpace(line[i+len(sentry):])) == 0
}

// checkWritable refuses targets the rename would otherwise replace even though
// they cannot be opened for writing, such as read-only checkouts.
func checkWritable(path string, mode os.FileMode) error {
	if mode.Perm()&0o222 == 0 {
		return &os.PathError{Op: "open", Path: path, Err: os.ErrPermission}
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	return f.Close()
}

func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".bbgen-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to move temp file: %w", err)
	}
	return nil
}
