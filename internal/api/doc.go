// Package api exposes the card review service over HTTP. Handlers parse path
// parameters and JSON bodies, validate them, call card_review and map its
// errors onto status codes. Every response body is JSON.
package api
