package i18n

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// JSONParser implements the Parser interface for JSON files
type JSONParser struct{}

func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

// Parse parses JSON content shaped like {"en": {"key": "template"}}.
func (p *JSONParser) Parse(ctx context.Context, content string) (map[string]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrJSONParsingCancelled, err)
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return nil, errors.Join(ErrFailedToParseJSON, err)
	}

	result, err := languageTables(data)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseJSON, err)
	}
	return result, nil
}

func (p *JSONParser) SupportsFileExtension(ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	return strings.EqualFold(ext, "json")
}
