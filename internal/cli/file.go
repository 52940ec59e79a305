package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cutlist-editor/internal/cutlist"

	"gopkg.in/yaml.v3"
)

// Format is a cut-list file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// File is the on-disk shape of a cut list.
type File struct {
	Duration  int64              `json:"duration" yaml:"duration"`
	Segments  []cutlist.Segment  `json:"segments" yaml:"segments"`
	Thumbnail *cutlist.Thumbnail `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
}

// FormatFor picks the encoding from a file extension; anything that is not
// .yaml or .yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
	}
}

// ReadFile loads a cut-list file and validates it.
func ReadFile(path string) (File, cutlist.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, cutlist.Model{}, fmt.Errorf("failed to read cut list at %s: %w", path, err)
	}
	return Decode(data, FormatFor(path))
}

// Decode parses data in format and validates the cut list.
func Decode(data []byte, format Format) (File, cutlist.Model, error) {
	var f File
	var err error
	if format == FormatYAML {
		err = yaml.Unmarshal(data, &f)
	} else {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&f)
	}
	if err != nil {
		return File{}, cutlist.Model{}, fmt.Errorf("failed to decode %s cut list: %w", format, err)
	}

	m, err := cutlist.NewModel(f.Duration, f.Segments)
	if err != nil {
		return File{}, cutlist.Model{}, err
	}
	return f, m, nil
}

// Encode writes f to w in format.
func Encode(w io.Writer, f File, format Format) error {
	if format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

// WriteFile encodes f to path in the format its extension implies.
func WriteFile(path string, f File) error {
	var buf bytes.Buffer
	if err := Encode(&buf, f, FormatFor(path)); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ReadEdits loads an edit script: a JSON or YAML list of edits.
func ReadEdits(path string) ([]cutlist.Edit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read edits at %s: %w", path, err)
	}
	var edits []cutlist.Edit
	if FormatFor(path) == FormatYAML {
		err = yaml.Unmarshal(data, &edits)
	} else {
		err = json.Unmarshal(data, &edits)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode edits: %w", err)
	}
	return edits, nil
}
