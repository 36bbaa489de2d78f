// Package formhost exposes registered forms over HTTP. Each validate request
// gets a fresh formrules.Engine in the request language, so engines are
// never shared between goroutines.
package formhost
