// Package client is the sync adapter between the studyhub client stores and
// the REST backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) with one
//     method per backend endpoint: materials, sets, shares, votes and
//     comments.
//  2. A JSON-over-HTTP implementation (see HTTPClient) that injects the
//     bearer token and a per-request X-Request-ID, retries idempotent reads
//     with exponential backoff, and records Prometheus metrics per operation.
//
// # Error Handling
//
// Non-2xx responses become *APIError carrying the server "detail" string.
// APIError unwraps to a sentinel so callers can match with errors.Is:
// ErrBadRequest, ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrConflict,
// ErrUnavailable. Network failures and timeouts also wrap ErrUnavailable.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation.
package client
