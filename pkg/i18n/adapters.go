package i18n

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path"
)

// TranslationAdapter interface defines how translations are loaded
type TranslationAdapter interface {
	Load(ctx context.Context) (map[string]map[string]any, error)
}

// MapAdapter serves translations from an in-memory map.
type MapAdapter struct {
	Data map[string]map[string]any
}

// Load implements the TranslationAdapter interface.
// The returned map is a shallow copy per language, so translators never
// share a language table with the caller.
func (a *MapAdapter) Load(_ context.Context) (map[string]map[string]any, error) {
	out := make(map[string]map[string]any, len(a.Data))
	for lang, table := range a.Data {
		if table == nil {
			out[lang] = nil
			continue
		}
		out[lang] = maps.Clone(table)
	}
	return out, nil
}

// FileAdapter loads translations from a single JSON or YAML file.
type FileAdapter struct {
	parser Parser
	path   string
}

// NewFileAdapter creates a FileAdapter. A nil parser selects one from the
// file extension; ErrUnsupportedFileType is returned when none matches.
func NewFileAdapter(parser Parser, filePath string) (*FileAdapter, error) {
	if filePath == "" {
		return nil, errors.Join(ErrFailedToReadFile, errors.New("file path is empty"))
	}
	if parser == nil {
		parser = NewParserForFile(filePath)
	}
	if parser == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, filePath)
	}
	return &FileAdapter{parser: parser, path: filePath}, nil
}

// Load implements the TranslationAdapter interface
func (a *FileAdapter) Load(ctx context.Context) (map[string]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingFileCancelled, err)
	}

	done := make(chan struct{})
	var content []byte
	var readErr error

	go func() {
		content, readErr = os.ReadFile(a.path)
		close(done)
	}()

	select {
	case <-ctx.Done():
		return nil, errors.Join(ErrLoadingFileCancelled, ctx.Err())
	case <-done:
	}

	if readErr != nil {
		return nil, errors.Join(ErrFailedToReadFile, readErr)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: translation file '%s' is empty", ErrFailedToParseFile, a.path)
	}

	translations, err := a.parser.Parse(ctx, string(content))
	if err != nil {
		return nil, errors.Join(ErrFailedToParseFile, err)
	}
	return translations, nil
}

// FSAdapter loads every file in dir of an fs.FS (typically an embed.FS) that
// the parser supports, merging languages across files. Later files win on
// duplicate keys; files are visited in lexical order.
type FSAdapter struct {
	parser Parser
	fsys   fs.FS
	dir    string
}

// NewFSAdapter creates an FSAdapter. It returns nil if parser or fsys is nil.
func NewFSAdapter(parser Parser, fsys fs.FS, dir string) *FSAdapter {
	if parser == nil || fsys == nil {
		return nil
	}
	if dir == "" {
		dir = "."
	}
	return &FSAdapter{parser: parser, fsys: fsys, dir: dir}
}

// Load implements the TranslationAdapter interface
func (a *FSAdapter) Load(ctx context.Context) (map[string]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingTranslationsCancelled, err)
	}

	entries, err := fs.ReadDir(a.fsys, a.dir)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFSDirectory, err)
	}

	all := make(map[string]map[string]any)
	processed := 0

	for _, entry := range entries {
		if entry.IsDir() || !a.parser.SupportsFileExtension(path.Ext(entry.Name())) {
			continue
		}

		filePath := path.Join(a.dir, entry.Name())
		content, err := fs.ReadFile(a.fsys, filePath)
		if err != nil {
			return nil, errors.Join(ErrFailedToReadFile, err)
		}

		translations, err := a.parser.Parse(ctx, string(content))
		if err != nil {
			return nil, errors.Join(ErrFailedToParseFile, fmt.Errorf("%s: %w", filePath, err))
		}

		for lang, table := range translations {
			if all[lang] == nil {
				all[lang] = make(map[string]any, len(table))
			}
			maps.Copy(all[lang], table)
		}
		processed++
	}

	if processed == 0 {
		return nil, fmt.Errorf("%w in '%s'", ErrNoTranslationFiles, a.dir)
	}

	return all, nil
}
