package requestid

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

// Header is the default header carrying the request ID in both directions.
const Header = "X-Request-ID"

const maxIDLength = 128

var validID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type options struct {
	header   string
	generate func() string
}

// Option configures Middleware.
type Option func(*options)

// WithHeader reads and echoes the request ID under a different header name.
func WithHeader(name string) Option {
	return func(o *options) {
		if name != "" {
			o.header = name
		}
	}
}

// WithGenerator replaces the UUIDv4 generator used for new IDs.
func WithGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.generate = fn
		}
	}
}

// Middleware reuses a well-formed client supplied ID or generates a new one,
// stores it in the request context and echoes it in the response header.
func Middleware(opts ...Option) func(http.Handler) http.Handler {
	o := options{header: Header, generate: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(o.header)
			if !isValid(id) {
				id = o.generate()
			}
			w.Header().Set(o.header, id)
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), id)))
		})
	}
}

func isValid(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	return validID.MatchString(id)
}
