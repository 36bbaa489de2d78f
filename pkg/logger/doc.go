// Package logger builds *slog.Logger values from functional options and adds
// attributes pulled from context.Context on every record.
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "formdemo"),
//	    logger.WithContextValue("request_id", requestIDKey),
//	)
//	log.InfoContext(ctx, "validation pass", logger.Form("signup"), logger.Locale("fr"))
//
// New picks slog.NewTextHandler or slog.NewJSONHandler from the configured
// Format and wraps it in LogHandlerDecorator, which runs every registered
// ContextExtractor before delegating. Attribute helpers in attr.go keep key
// names consistent (form, field, rule, locale, request_id). Error and Errors
// return an empty Attr for nil errors, so they can be passed unconditionally.
package logger
