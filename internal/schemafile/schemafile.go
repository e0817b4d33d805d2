// Package schemafile decodes blackboard schema and routing documents from
// JSON, YAML or TOML files into the generic document shape consumed by
// blackboard.Build.
package schemafile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/Alia5/bbgen/internal/blackboard"
)

// Load reads path and decodes it according to its extension. Unknown
// extensions are read as JSON.
func Load(path string) (blackboard.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := Decode(Format(path), data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, nil
}

// Format maps a file extension to "json", "yaml" or "toml".
func Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}

// Decode parses data in the given format into a schema document.
func Decode(format string, data []byte) (blackboard.Document, error) {
	switch format {
	case "json":
		return decodeJSON(data)
	case "yaml":
		return decodeYAML(data)
	case "toml":
		return decodeTOML(data)
	default:
		return nil, fmt.Errorf("unsupported document format: %s", format)
	}
}

func decodeJSON(data []byte) (blackboard.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(escapeControlChars(data)))
	dec.UseNumber()
	var doc blackboard.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document is not an object")
	}
	return doc, nil
}

func decodeYAML(data []byte) (blackboard.Document, error) {
	var doc blackboard.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document is not a mapping")
	}
	return normalize(doc).(blackboard.Document), nil
}

func decodeTOML(data []byte) (blackboard.Document, error) {
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return nil, err
	}
	return normalize(tree.ToMap()).(blackboard.Document), nil
}

// normalize rewrites nested containers so every mapping is a map[string]any
// and every sequence is a []any, whatever the decoder produced.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}

// escapeControlChars escapes raw control characters inside JSON string
// literals. Schemas in the wild carry multi-line descriptions typed straight
// into the string, which encoding/json rejects.
func escapeControlChars(data []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(data))
	inString, escaped := false, false
	for _, c := range data {
		if !inString {
			if c == '"' {
				inString = true
			}
			out.WriteByte(c)
			continue
		}
		switch {
		case escaped:
			escaped = false
			out.WriteByte(c)
		case c == '\\':
			escaped = true
			out.WriteByte(c)
		case c == '"':
			inString = false
			out.WriteByte(c)
		case c == '\n':
			out.WriteString(`\n`)
		case c == '\r':
			out.WriteString(`\r`)
		case c == '\t':
			out.WriteString(`\t`)
		case c < 0x20:
			fmt.Fprintf(&out, `\u%04x`, c)
		default:
			out.WriteByte(c)
		}
	}
	return out.Bytes()
}
