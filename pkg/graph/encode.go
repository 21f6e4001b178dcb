package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/verilive/pkg/errors"
)

// Output formats for serialized graphs.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// =============================================================================
// Serialization API
// =============================================================================

// WriteJSON writes v as indented JSON. HTML escaping is off so labels such
// as "q → d" and "<tff>" stay readable.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteYAML writes v as YAML with two-space indentation.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// Write encodes v in the named format.
func Write(w io.Writer, v any, format string) error {
	switch format {
	case FormatJSON, "":
		return WriteJSON(w, v)
	case FormatYAML, "yml":
		return WriteYAML(w, v)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported graph format %q (want json or yaml)", format)
	}
}

// Marshal encodes v in the named format to a byte slice.
func Marshal(v any, format string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, v, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes v to path, creating or truncating it.
func WriteFile(path string, v any, format string) error {
	data, err := Marshal(v, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// UnmarshalResult decodes a JSON-encoded Result.
func UnmarshalResult(data []byte) (*Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &r, nil
}
