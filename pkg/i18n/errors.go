package i18n

import "errors"

var (
	ErrNilAdapter          = errors.New("translation adapter is nil")
	ErrInvalidTranslations = errors.New("invalid translations")

	// JSON operations
	ErrJSONParsingCancelled = errors.New("json parsing cancelled")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON content")

	// YAML operations
	ErrYAMLParsingCancelled = errors.New("yaml parsing cancelled")
	ErrFailedToParseYAML    = errors.New("failed to parse YAML content")

	// File operations
	ErrUnsupportedFileType  = errors.New("unsupported translation file type")
	ErrLoadingFileCancelled = errors.New("loading translation file cancelled")
	ErrFailedToReadFile     = errors.New("failed to read translation file")
	ErrFailedToParseFile    = errors.New("failed to parse translation file")

	// Filesystem (embedded or fs.FS) operations
	ErrLoadingTranslationsCancelled = errors.New("loading translations canceled before starting")
	ErrFailedToReadFSDirectory      = errors.New("failed to read translation directory")
	ErrNoTranslationFiles           = errors.New("no translation files found")
)
