// Package loader reads and writes page files: YAML or JSON documents
// holding a page title and its ordered block list.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/pagecraft/pkg/block"
)

// Format is a page file encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Extensions lists the file extensions recognised as page files.
var Extensions = []string{".yaml", ".yml", ".json"}

// FormatFor returns the format implied by path's extension.
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	default:
		return "", false
	}
}

// IsPageFile reports whether path has a page file extension.
func IsPageFile(path string) bool {
	_, ok := FormatFor(path)
	return ok
}

// Page is a decoded page file.
type Page struct {
	Slug   string           `json:"slug,omitempty"`
	Title  string           `json:"title,omitempty"`
	Blocks []block.Instance `json:"blocks"`
}

// ParseError reports a malformed page file.
type ParseError struct {
	File    string
	Message string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

// UnknownFieldError reports a top-level key the page format does not define.
type UnknownFieldError struct {
	File  string
	Field string
}

func (e *UnknownFieldError) Error() string {
	msg := fmt.Sprintf("unknown field %q in page file", e.Field)
	if e.File != "" {
		return e.File + ": " + msg
	}
	return msg
}

var knownFields = map[string]bool{
	"slug":   true,
	"title":  true,
	"blocks": true,
}

// Parse decodes a page document. YAML input is converted to the JSON data
// model first, so both formats share field names.
func Parse(data []byte, format Format) (*Page, error) {
	var raw map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &ParseError{Message: fmt.Sprintf("invalid YAML: %v", err)}
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, &ParseError{Message: fmt.Sprintf("invalid JSON: %v", err)}
		}
	default:
		return nil, &ParseError{Message: fmt.Sprintf("unsupported format %q", format)}
	}

	for field := range raw {
		if !knownFields[field] {
			return nil, &UnknownFieldError{Field: field}
		}
	}

	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("failed to convert document: %v", err)}
	}

	page := &Page{}
	dec := json.NewDecoder(bytes.NewReader(normalized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(page); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("invalid page: %v", err)}
	}
	for i, b := range page.Blocks {
		if b.Kind == "" {
			return nil, &ParseError{Message: fmt.Sprintf("block %d has no kind", i)}
		}
	}
	if page.Blocks == nil {
		page.Blocks = []block.Instance{}
	}
	return page, nil
}

// Load reads and parses the page file at path. A missing slug defaults to
// one derived from the file name.
func Load(path string) (*Page, error) {
	format, ok := FormatFor(path)
	if !ok {
		return nil, &ParseError{File: path, Message: "not a page file (want .yaml, .yml or .json)"}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page file: %w", err)
	}

	page, err := Parse(data, format)
	if err != nil {
		var pe *ParseError
		var ue *UnknownFieldError
		switch {
		case errors.As(err, &pe):
			pe.File = path
		case errors.As(err, &ue):
			ue.File = path
		}
		return nil, err
	}
	page.ApplyDefaults(path)
	return page, nil
}

// ApplyDefaults fills the slug from the file name when it is empty.
func (p *Page) ApplyDefaults(path string) {
	if p.Slug == "" {
		p.Slug = SlugFromPath(path)
	}
	p.Slug = slug.Make(p.Slug)
}

// SlugFromPath derives a page slug from a file name.
func SlugFromPath(path string) string {
	base := filepath.Base(path)
	return slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
}

// Encode serializes p in format.
func Encode(p *Page, format Format) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode page: %w", err)
	}
	if format == FormatJSON {
		return append(data, '\n'), nil
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to encode page: %w", err)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode page: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode page: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes p to path in the format implied by its extension. The file
// is replaced atomically.
func Save(path string, p *Page) error {
	format, ok := FormatFor(path)
	if !ok {
		return &ParseError{File: path, Message: "not a page file (want .yaml, .yml or .json)"}
	}
	data, err := Encode(p, format)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write page file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write page file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write page file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write page file: %w", err)
	}
	return nil
}

// Discover returns the page files under dir, sorted by path.
func Discover(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsPageFile(path) && !strings.HasPrefix(d.Name(), ".") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover pages in %s: %w", dir, err)
	}
	slices.Sort(paths)
	return paths, nil
}

// Find returns the file under dir whose file name maps to pageSlug.
func Find(dir, pageSlug string) (string, error) {
	paths, err := Discover(dir)
	if err != nil {
		return "", err
	}
	for _, path := range paths {
		if SlugFromPath(path) == pageSlug {
			return path, nil
		}
	}
	return "", fmt.Errorf("no page file for %q in %s", pageSlug, dir)
}
