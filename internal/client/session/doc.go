// Package session owns the signed-in administrator.
//
// Store is the single process-wide holder of the Session. It is hydrated
// once at startup from the local store, changed only by sign-in, profile
// updates, sign-out and account deletion, and notifies subscribers
// synchronously on every change. Guard answers whether a page may be shown
// by re-reading the Store; it never calls the network. Service performs the
// remote half of the auth flows and keeps the Store in step.
package session
