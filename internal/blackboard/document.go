package blackboard

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Document is a decoded schema or routing document: JSON-like maps, lists
// and scalars as produced by encoding/json, yaml.v3 or go-toml.
type Document = map[string]any

// Group support is experimental and optional; schemas predating it omit both keys.
var optionalDefaults = map[string]any{
	"groupSize": 1,
	"groupMask": 0xF,
}

func lookup(m map[string]any, key, context string) (any, error) {
	v, ok := m[key]
	if !ok {
		if def, ok := optionalDefaults[key]; ok {
			return def, nil
		}
		return nil, &SchemaError{Key: key, Context: context}
	}
	return v, nil
}

func lookupString(m map[string]any, key, context string) (string, error) {
	v, err := lookup(m, key, context)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return "", &SchemaError{Key: key, Context: context, Want: "a string"}
	}
}

func lookupInt(m map[string]any, key, context string) (int, error) {
	v, err := lookup(m, key, context)
	if err != nil {
		return 0, err
	}
	n, ok := asInt(v)
	if !ok {
		return 0, &SchemaError{Key: key, Context: context, Want: "an integer"}
	}
	return n, nil
}

// lookupList treats an explicit null as an empty list.
func lookupList(m map[string]any, key, context string) ([]any, error) {
	v, err := lookup(m, key, context)
	if err != nil {
		return nil, err
	}
	switch l := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return l, nil
	case []map[string]any:
		out := make([]any, len(l))
		for i := range l {
			out[i] = l[i]
		}
		return out, nil
	default:
		return nil, &SchemaError{Key: key, Context: context, Want: "a list"}
	}
}

func lookupStrings(m map[string]any, key, context string) ([]string, error) {
	items, err := lookupList(m, key, context)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &SchemaError{Key: key, Context: context, Want: "a list of strings"}
		}
		out = append(out, s)
	}
	return out, nil
}

func lookupHex(m map[string]any, key, context string) (uint32, error) {
	v, err := lookup(m, key, context)
	if err != nil {
		return 0, err
	}
	var text string
	switch t := v.(type) {
	case string:
		text = t
	default:
		// YAML and TOML readers hand bare digits over as numbers; the digits
		// are still read as hexadecimal.
		n, ok := asInt(v)
		if !ok {
			return 0, &SchemaError{Key: key, Context: context, Want: "a hexadecimal string"}
		}
		text = strconv.Itoa(n)
	}
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	id, err := strconv.ParseUint(text, 16, 32)
	if err != nil {
		return 0, &SchemaError{Key: key, Context: context, Want: "a hexadecimal string"}
	}
	return uint32(id), nil
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		if n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

// scalarText renders a scalar document value as source text.
func scalarText(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
