// Package clientip resolves the address of the client behind an HTTP
// request from proxy headers or RemoteAddr, stores it in the request
// context and exposes it to the logger.
package clientip
