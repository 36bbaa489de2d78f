package formhost

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"mime"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/formrules"
	"github.com/dmitrymomot/formrules/pkg/clientip"
	"github.com/dmitrymomot/formrules/pkg/i18n"
	"github.com/dmitrymomot/formrules/pkg/logger"
	"github.com/dmitrymomot/formrules/pkg/requestid"
)

const maxBodySize = 1 << 20

// Form is a named rule set served by the host.
type Form struct {
	Name    string
	RuleSet *formrules.RuleSet
}

// Host validates posted forms, one fresh Engine per request.
type Host struct {
	pending       []Form
	forms         map[string]Form
	engineOpts    []formrules.Option
	defaultLocale string
	proxyHeaders  []string
	languages     []string
	logger        *slog.Logger
}

type Option func(*Host)

// WithForms registers forms. Names must be unique.
func WithForms(forms ...Form) Option {
	return func(h *Host) {
		h.pending = append(h.pending, forms...)
	}
}

// WithEngineOptions are applied to every Engine, after the form rule set.
func WithEngineOptions(opts ...formrules.Option) Option {
	return func(h *Host) {
		h.engineOpts = append(h.engineOpts, opts...)
	}
}

// WithDefaultLocale is used when a request names no language.
func WithDefaultLocale(code string) Option {
	return func(h *Host) {
		if code != "" {
			h.defaultLocale = code
		}
	}
}

// WithProxyHeaders names the headers trusted to carry the client address.
func WithProxyHeaders(headers ...string) Option {
	return func(h *Host) {
		h.proxyHeaders = append(h.proxyHeaders, headers...)
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHost checks every form by building an Engine for it, so configuration
// errors surface at startup rather than per request.
func NewHost(opts ...Option) (*Host, error) {
	h := &Host{
		forms:         make(map[string]Form),
		defaultLocale: formrules.DefaultLocale,
		logger:        logger.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}

	var errs []error
	for _, f := range h.pending {
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("%w: empty name", ErrInvalidForm))
			continue
		}
		if _, dup := h.forms[f.Name]; dup {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateForm, f.Name))
			continue
		}
		e, err := h.engine(f, h.defaultLocale)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %w", ErrInvalidForm, f.Name, err))
			continue
		}
		if h.languages == nil {
			h.languages = slices.Sorted(maps.Keys(e.Messages()))
		}
		h.forms[f.Name] = f
	}
	h.pending = nil
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Host) engine(f Form, locale string) (*formrules.Engine, error) {
	opts := make([]formrules.Option, 0, len(h.engineOpts)+3)
	opts = append(opts,
		formrules.WithLogger(h.logger),
		formrules.WithRuleSet(f.RuleSet),
		formrules.WithDeviceLocale(locale),
	)
	return formrules.New(append(opts, h.engineOpts...)...)
}

// Forms returns the registered form names, sorted.
func (h *Host) Forms() []string {
	return slices.Sorted(maps.Keys(h.forms))
}

// Router serves:
//
//	GET  /forms                  registered form names
//	GET  /forms/{form}           fields and constraints
//	POST /forms/{form}/validate  validation result, 200 when valid, 422 otherwise
//
// The request language comes from the lang cookie or query parameter, the
// Language header or Accept-Language, in that order.
func (h *Host) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(requestid.Middleware())
	r.Use(clientip.Middleware(h.proxyHeaders...))
	r.Use(i18n.Middleware(h.langExtractor()))

	r.Get("/forms", h.list)
	r.Route("/forms/{form}", func(r chi.Router) {
		r.Get("/", h.describe)
		r.Post("/validate", h.validate)
	})
	return r
}

func (h *Host) langExtractor() i18n.LangExtractor {
	extract := i18n.DefaultLangExtractor(i18n.WithSupportedLanguages(h.languages...))
	return func(r *http.Request) string {
		if lang := extract(r); lang != "" {
			return lang
		}
		return h.defaultLocale
	}
}

func (h *Host) form(w http.ResponseWriter, r *http.Request) (Form, bool) {
	name := chi.URLParam(r, "form")
	f, ok := h.forms[name]
	if !ok {
		writeError(w, http.StatusNotFound, "form_not_found", fmt.Sprintf("form %q is not registered", name))
	}
	return f, ok
}

func (h *Host) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{Data: map[string][]string{"forms": h.Forms()}})
}

func (h *Host) describe(w http.ResponseWriter, r *http.Request) {
	f, ok := h.form(w, r)
	if !ok {
		return
	}

	desc := FormDescription{
		Form:   f.Name,
		Locale: i18n.GetLocale(r.Context()),
		Fields: make([]FieldRules, 0, f.RuleSet.Len()),
	}
	for _, name := range f.RuleSet.Fields() {
		cs := f.RuleSet.Constraints(name)
		fr := FieldRules{Name: name, Constraints: make([]string, len(cs))}
		for i, c := range cs {
			fr.Constraints[i] = c.String()
		}
		desc.Fields = append(desc.Fields, fr)
	}
	writeJSON(w, http.StatusOK, Response{Data: desc})
}

func (h *Host) validate(w http.ResponseWriter, r *http.Request) {
	f, ok := h.form(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	values, err := readValues(w, r)
	if err != nil {
		h.logger.WarnContext(ctx, "unreadable form body", logger.Form(f.Name), logger.Error(err))
		writeError(w, http.StatusBadRequest, "bad_request", "request body could not be read")
		return
	}

	e, err := h.engine(f, i18n.GetLocale(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "engine setup failed", logger.Form(f.Name), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", http.StatusText(http.StatusInternalServerError))
		return
	}
	e.RecordValues(values)
	valid := e.Validate()

	result := ValidationResult{
		Form:    f.Name,
		Valid:   valid,
		Locale:  e.Locale(),
		Message: e.ErrorMessages(),
		Fields:  make(map[string][]string, f.RuleSet.Len()),
	}
	for _, name := range f.RuleSet.Fields() {
		result.Fields[name] = e.ErrorsInField(name)
	}

	h.logger.InfoContext(ctx, "form validated",
		logger.Form(f.Name),
		logger.Locale(result.Locale),
		slog.Bool("valid", valid),
		slog.Int("errors", len(e.Errors())),
	)

	status := http.StatusOK
	if !valid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, Response{Data: result})
}

// readValues accepts urlencoded, multipart and JSON object bodies of at most
// maxBodySize bytes. Only the first value of a repeated form key is kept.
func readValues(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		return readJSONValues(r.Body)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodySize); err != nil {
			return nil, err
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
	}

	values := make(map[string]string, len(r.PostForm))
	for key, vals := range r.PostForm {
		if len(vals) > 0 {
			values[key] = vals[0]
		}
	}
	return values, nil
}

// readJSONValues decodes a flat JSON object. Scalars are recorded in their
// JSON text form and null as an empty value.
func readJSONValues(body io.Reader) (map[string]string, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	values := make(map[string]string, len(raw))
	for key, val := range raw {
		switch v := val.(type) {
		case nil:
			values[key] = ""
		case string:
			values[key] = v
		case json.Number:
			values[key] = v.String()
		case bool:
			values[key] = strconv.FormatBool(v)
		default:
			return nil, fmt.Errorf("%w: %q holds %T", ErrUnsupportedValue, key, v)
		}
	}
	return values, nil
}
