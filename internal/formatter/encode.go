// Package formatter renders command output as tables or structured data.
package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Structured output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTOML  = "toml"
)

// IsStructured reports whether format is handled by Encode.
func IsStructured(format string) bool {
	switch format {
	case FormatJSON, FormatYAML, FormatTOML:
		return true
	}
	return false
}

// Encode writes v in the given structured format. TOML documents must be
// tables, so a top-level slice is written under rootKey.
func Encode(w io.Writer, format, rootKey string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()

	case FormatTOML:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			v = map[string]any{rootKey: v}
		}
		return toml.NewEncoder(w).Encode(v)
	}
	return fmt.Errorf("unsupported format %q (want json, yaml or toml)", format)
}
