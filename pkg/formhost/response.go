package formhost

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope of every JSON body the host writes.
type Response struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult is the data of a validate response.
type ValidationResult struct {
	Form    string              `json:"form"`
	Valid   bool                `json:"valid"`
	Locale  string              `json:"locale"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields"`
}

// FormDescription is the data of a describe response.
type FormDescription struct {
	Form   string       `json:"form"`
	Locale string       `json:"locale"`
	Fields []FieldRules `json:"fields"`
}

type FieldRules struct {
	Name        string   `json:"name"`
	Constraints []string `json:"constraints"`
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Response{Error: &ErrorDetail{Code: code, Message: message}})
}
