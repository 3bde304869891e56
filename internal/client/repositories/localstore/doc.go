// Package localstore persists small client-side values (the access token and
// the cached signed-in user) in a local SQLite key/value table.
//
// It plays the role browser localStorage plays for the web dashboard: values
// survive restarts and are read once at startup to hydrate the session.
package localstore
