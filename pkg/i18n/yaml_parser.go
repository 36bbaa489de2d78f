package i18n

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// Parse parses YAML content of the form:
//
//	en:
//	  required: 'The field "%{field}" is mandatory.'
//	fr:
//	  required: 'Le champ "%{field}" est obligatoire.'
func (p *YAMLParser) Parse(ctx context.Context, content string) (map[string]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrYAMLParsingCancelled, err)
	}

	var data map[string]any
	if err := yaml.Unmarshal([]byte(content), &data); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}

	result, err := languageTables(data)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	if len(result) == 0 {
		return nil, errors.Join(ErrFailedToParseYAML, fmt.Errorf("no translations found"))
	}
	return result, nil
}

func (p *YAMLParser) SupportsFileExtension(ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	return strings.EqualFold(ext, "yaml") || strings.EqualFold(ext, "yml")
}
