// Package requestid tags every HTTP request with a correlation ID.
//
// Middleware accepts a client supplied X-Request-ID when it is short and
// made of [a-zA-Z0-9_-], otherwise it generates a UUIDv4. The ID is stored
// in the request context, echoed in the response header and, through
// LoggerExtractor, attached to every log record written with that context.
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware())
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
package requestid
