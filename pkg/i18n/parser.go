package i18n

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// Parser turns the content of a catalogue file into language tables.
// The outer map is keyed by language code, the inner map by message key.
type Parser interface {
	Parse(ctx context.Context, content string) (map[string]map[string]any, error)

	// SupportsFileExtension reports whether the parser handles ext.
	// The extension may or may not include a leading dot.
	SupportsFileExtension(ext string) bool
}

// NewParserForFile returns a parser based on the file extension, or nil.
func NewParserForFile(filename string) Parser {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(filename), ".")) {
	case "json":
		return NewJSONParser()
	case "yaml", "yml":
		return NewYAMLParser()
	default:
		return nil
	}
}

// languageTables checks that every top-level entry is a table of messages.
func languageTables(data map[string]any) (map[string]map[string]any, error) {
	result := make(map[string]map[string]any, len(data))
	for lang, val := range data {
		table, ok := val.(map[string]any)
		if !ok {
			return nil, &invalidStructureError{lang: lang, got: val}
		}
		result[lang] = table
	}
	return result, nil
}

type invalidStructureError struct {
	lang string
	got  any
}

func (e *invalidStructureError) Error() string {
	return fmt.Sprintf("invalid structure for language '%s': expected map, got %T", e.lang, e.got)
}
