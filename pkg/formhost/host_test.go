package formhost_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formrules"
	"github.com/dmitrymomot/formrules/pkg/clientip"
	"github.com/dmitrymomot/formrules/pkg/formhost"
	"github.com/dmitrymomot/formrules/pkg/logger"
	"github.com/dmitrymomot/formrules/pkg/requestid"
)

func signup() formhost.Form {
	return formhost.Form{
		Name: "signup",
		RuleSet: formrules.NewRuleSet().
			Field("name", formrules.MinLength(3), formrules.MaxLength(7), formrules.Required()).
			Field("email", formrules.Email()).
			Field("number", formrules.Number()).
			Field("date", formrules.Date()),
	}
}

func newRouter(t *testing.T, opts ...formhost.Option) http.Handler {
	t.Helper()
	h, err := formhost.NewHost(append([]formhost.Option{formhost.WithForms(signup())}, opts...)...)
	require.NoError(t, err)
	return h.Router()
}

type validateResponse struct {
	Data  formhost.ValidationResult `json:"data"`
	Error *formhost.ErrorDetail     `json:"error"`
}

func postForm(t *testing.T, h http.Handler, path string, values url.Values, mutate ...func(*http.Request)) (*httptest.ResponseRecorder, validateResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, m := range mutate {
		m(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body validateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestValidate(t *testing.T) {
	h := newRouter(t)

	t.Run("valid form", func(t *testing.T) {
		rec, body := postForm(t, h, "/forms/signup/validate", url.Values{
			"name":  {"My name"},
			"email": {"tibtib@gmail.com"},
			"date":  {"2017-03-01"},
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.NotEmpty(t, rec.Header().Get(requestid.Header))

		assert.True(t, body.Data.Valid)
		assert.Equal(t, "signup", body.Data.Form)
		assert.Equal(t, "en", body.Data.Locale)
		assert.Empty(t, body.Data.Message)
		assert.Equal(t, []string{}, body.Data.Fields["name"])
		assert.Len(t, body.Data.Fields, 4)
	})

	t.Run("invalid form", func(t *testing.T) {
		rec, body := postForm(t, h, "/forms/signup/validate", url.Values{"name": {""}, "number": {"not_number"}})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.False(t, body.Data.Valid)
		assert.Equal(t, []string{
			`The field "name" length must be greater than 3.`,
			`The field "name" is mandatory.`,
		}, body.Data.Fields["name"])
		assert.Equal(t, []string{`The field "number" must be a valid number.`}, body.Data.Fields["number"])
		assert.Equal(t, "The field \"name\" length must be greater than 3.\nThe field \"name\" is mandatory.\nThe field \"number\" must be a valid number.", body.Data.Message)
	})

	t.Run("accept-language picks french", func(t *testing.T) {
		_, body := postForm(t, h, "/forms/signup/validate", url.Values{"name": {"Alice"}, "email": {"em"}}, func(r *http.Request) {
			r.Header.Set("Accept-Language", "fr-FR,fr;q=0.9,en;q=0.5")
		})
		assert.Equal(t, "fr", body.Data.Locale)
		assert.Equal(t, `Le champ "email" doit être une adresse email valide.`, body.Data.Message)
	})

	t.Run("query parameter wins over header", func(t *testing.T) {
		_, body := postForm(t, h, "/forms/signup/validate?lang=en", url.Values{"name": {"Alice"}, "email": {"em"}}, func(r *http.Request) {
			r.Header.Set("Accept-Language", "fr")
		})
		assert.Equal(t, "en", body.Data.Locale)
	})

	t.Run("unsupported language falls back", func(t *testing.T) {
		_, body := postForm(t, h, "/forms/signup/validate", url.Values{"name": {"Alice"}}, func(r *http.Request) {
			r.Header.Set("Accept-Language", "de-DE")
		})
		assert.Equal(t, "en", body.Data.Locale)
	})

	t.Run("json body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/forms/signup/validate", strings.NewReader(`{"name":"Alice","date":"fdsfds"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		var body validateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, `The field "date" must be a valid date (YYYY-MM-DD).`, body.Data.Message)
	})

	t.Run("json scalars are validated as text", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/forms/signup/validate", strings.NewReader(`{"name":"Alice","number":12,"email":null}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		var body validateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.True(t, body.Data.Valid)

		req = httptest.NewRequest(http.MethodPost, "/forms/signup/validate", strings.NewReader(`{"name":"Alice","number":true}`))
		req.Header.Set("Content-Type", "application/json")
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, `The field "number" must be a valid number.`, body.Data.Message)
	})

	t.Run("nested json value", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/forms/signup/validate", strings.NewReader(`{"name":["Alice"]}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("oversized body", func(t *testing.T) {
		payload := `{"name":"` + strings.Repeat("a", 2<<20) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/forms/signup/validate", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("multipart body", func(t *testing.T) {
		buf := &bytes.Buffer{}
		mw := multipart.NewWriter(buf)
		require.NoError(t, mw.WriteField("name", "Alice"))
		require.NoError(t, mw.WriteField("number", "42.5"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/forms/signup/validate", buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/forms/signup/validate", strings.NewReader(`{"name":`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		var body validateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, body.Error)
		assert.Equal(t, "bad_request", body.Error.Code)
	})

	t.Run("unknown form", func(t *testing.T) {
		rec, body := postForm(t, h, "/forms/contact/validate", url.Values{})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		require.NotNil(t, body.Error)
		assert.Equal(t, "form_not_found", body.Error.Code)
	})
}

func TestRequestLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
	h := newRouter(t, formhost.WithLogger(log), formhost.WithProxyHeaders("X-Real-IP"))

	postForm(t, h, "/forms/signup/validate", url.Values{"name": {"Alice"}}, func(r *http.Request) {
		r.Header.Set(requestid.Header, "req-7")
		r.Header.Set("X-Real-IP", "203.0.113.7")
	})

	out := buf.String()
	assert.Contains(t, out, `"msg":"form validated"`)
	assert.Contains(t, out, `"request_id":"req-7"`)
	assert.Contains(t, out, `"client_ip":"203.0.113.7"`)
	assert.Contains(t, out, `"form":"signup"`)
	assert.Contains(t, out, `"valid":true`)
}

func TestDefaultLocale(t *testing.T) {
	h := newRouter(t, formhost.WithDefaultLocale("fr"))
	_, body := postForm(t, h, "/forms/signup/validate", url.Values{"name": {""}})
	assert.Equal(t, "fr", body.Data.Locale)
	assert.Equal(t, []string{
		`Le nombre de caractère du champ "name" doit être supérieur à 3.`,
		`Le champ "name" est obligatoire.`,
	}, body.Data.Fields["name"])
}

func TestEngineOptions(t *testing.T) {
	form := formhost.Form{
		Name:    "address",
		RuleSet: formrules.NewRuleSet().Field("zip", formrules.Required(), formrules.Is("zip")),
	}
	host, err := formhost.NewHost(
		formhost.WithForms(form),
		formhost.WithEngineOptions(
			formrules.WithRules(map[string]formrules.Predicate{"zip": formrules.MatchRegexp(regexp.MustCompile(`^[0-9]{5}$`))}),
			formrules.WithMessages(map[string]map[string]string{"en": {"zip": `The field "%{field}" must be a postal code.`}}),
		),
	)
	require.NoError(t, err)

	_, body := postForm(t, host.Router(), "/forms/address/validate", url.Values{"zip": {"abc"}})
	assert.Equal(t, `The field "zip" must be a postal code.`, body.Data.Message)
}

func TestDescribe(t *testing.T) {
	h := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/forms/signup?lang=fr", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data formhost.FormDescription `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "signup", body.Data.Form)
	assert.Equal(t, "fr", body.Data.Locale)
	assert.Equal(t, []formhost.FieldRules{
		{Name: "name", Constraints: []string{"minlength:3", "maxlength:7", "required"}},
		{Name: "email", Constraints: []string{"email"}},
		{Name: "number", Constraints: []string{"number"}},
		{Name: "date", Constraints: []string{"date"}},
	}, body.Data.Fields)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forms/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestList(t *testing.T) {
	h := newRouter(t, formhost.WithForms(formhost.Form{Name: "contact", RuleSet: formrules.NewRuleSet()}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forms", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"forms":["contact","signup"]}}`, rec.Body.String())
}

func TestNewHostErrors(t *testing.T) {
	t.Run("duplicate", func(t *testing.T) {
		_, err := formhost.NewHost(formhost.WithForms(signup(), signup()))
		assert.ErrorIs(t, err, formhost.ErrDuplicateForm)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := formhost.NewHost(formhost.WithForms(formhost.Form{}))
		assert.ErrorIs(t, err, formhost.ErrInvalidForm)
	})

	t.Run("bad rule set", func(t *testing.T) {
		_, err := formhost.NewHost(formhost.WithForms(formhost.Form{
			Name:    "broken",
			RuleSet: formrules.NewRuleSet().Field("name", formrules.MaxLength(-3)),
		}))
		assert.ErrorIs(t, err, formhost.ErrInvalidForm)
		assert.ErrorIs(t, err, formrules.ErrInvalidConstraint)
	})
}
