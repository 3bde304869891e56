// Package cli provides the interactive dealerdash admin client.
//
// It wires configuration, the local session store, the API client, the image
// uploader and the catalog services behind a REPL. Every command is a route
// with a required capability; the route guard runs before the handler, so a
// signed-out user or a non-admin account never triggers a catalog request
// and is sent to sign-in instead.
//
// Key features:
//   - Sign in / sign out, profile update, account deletion
//   - Dashboard stats, bookings and dealer applications (with XLSX export)
//   - List / show / create / edit / delete catalog records
//   - Create and edit forms with background image uploads
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, Dispatch, and runREPL for details.
package cli
