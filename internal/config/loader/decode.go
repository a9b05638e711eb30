package loader

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Format identifies a supported configuration file format.
type Format string

const (
	// FormatJSON is standard JSON (.json).
	FormatJSON Format = "json"
	// FormatTOML is TOML (.toml).
	FormatTOML Format = "toml"
	// FormatYAML is YAML (.yml, .yaml).
	FormatYAML Format = "yaml"
	// FormatLua is a sandboxed declarative Lua config (.lua).
	FormatLua Format = "lua"
)

// decodeFunc parses raw bytes into a nested map. Implementations do
// not normalize; Decode applies normalization after dispatch.
type decodeFunc func(data []byte) (map[string]any, error)

// decoders maps formats to their decode functions.
var decoders = map[Format]decodeFunc{
	FormatJSON: decodeJSON,
	FormatTOML: decodeTOML,
	FormatYAML: decodeYAML,
	FormatLua:  decodeLua,
}

// extensions maps file extensions to formats.
var extensions = map[string]Format{
	".json": FormatJSON,
	".toml": FormatTOML,
	".yml":  FormatYAML,
	".yaml": FormatYAML,
	".lua":  FormatLua,
}

// Extensions returns the recognized config file extensions, sorted.
func Extensions() []string {
	exts := make([]string, 0, len(extensions))
	for ext := range extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// FormatForPath returns the format for a file path based on its
// extension. Returns an UnsupportedFormatError for anything else.
func FormatForPath(path string) (Format, error) {
	format, ok := extensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", &UnsupportedFormatError{Path: path, Allowed: Extensions()}
	}
	return format, nil
}

// Decode parses raw config bytes using the format implied by the path
// extension, then normalizes the result to the canonical tree shape.
// Malformed input yields a ParseError wrapping the parser's error.
func Decode(path string, data []byte) (map[string]any, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	tree, err := decoders[format](data)
	if err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}

	return normalizeMap(tree), nil
}

// LoadFile reads and decodes a config file.
func LoadFile(fsys FileSystem, path string) (map[string]any, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Decode(path, data)
}

// UnsupportedFormatError indicates a config file extension that maps
// to no known format.
type UnsupportedFormatError struct {
	// Path is the offending file path.
	Path string
	// Allowed lists the recognized extensions.
	Allowed []string
}

// Error implements the error interface.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported config format for %s (recognized extensions: %s)",
		e.Path, strings.Join(e.Allowed, ", "))
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// normalizeMap canonicalizes a decoded map so that trees from
// different parsers compare equal for equivalent content: all maps
// become map[string]any, all sequences []any, all numbers float64,
// and TOML datetimes RFC 3339 strings. This mirrors a JSON
// round-trip of the parser output.
func normalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Normalize(v)
	}
	return out
}

// Normalize canonicalizes a single decoded value. See normalizeMap.
func Normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return normalizeMap(val)
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprintf("%v", k)] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeMap(item)
		}
		return out
	case string, bool, nil, float64:
		return val
	case int:
		return float64(val)
	case int8:
		return float64(val)
	case int16:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint8:
		return float64(val)
	case uint16:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}
