// Package client is the HTTP/JSON client for the dealership REST API.
//
// # Overview
//
// HTTPClient attaches "Authorization: Bearer <token>" from a TokenSource to
// every request, decodes replies and maps failures onto errors:
//
//   - transport failures wrap ErrUnavailable;
//   - non-2xx replies become *APIError carrying the server's message, and
//     unwrap to ErrUnauthorized (401/403) or ErrNotFound (404).
//
// The per-entity routes live in a registry (see Lookup and Resource) so the
// services layer can drive every catalog collection through the same
// List/Get/Create/Update/Delete calls.
package client
