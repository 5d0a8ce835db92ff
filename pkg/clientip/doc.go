// Package clientip resolves the client address of an HTTP request and keeps
// it in the request context for loggers and error reports.
//
// By default only the connection peer address is used. Proxy headers
// (X-Forwarded-For, X-Real-IP) are honored only when the middleware is built
// with New(true), since they are client-controlled otherwise.
package clientip
