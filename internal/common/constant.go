// Package common contains shared constants and sentinel errors used across
// dealerdash components.
package common

const (
	// AccessTokenKey is the local storage key holding the session token.
	AccessTokenKey = "access_token"

	// CurrentUserKey is the local storage key holding the cached user record
	// as JSON.
	CurrentUserKey = "current_user"

	// AuthorizationHeader carries the bearer token on protected API calls.
	AuthorizationHeader = "Authorization"

	// BearerScheme prefixes the token inside AuthorizationHeader.
	BearerScheme = "Bearer"

	// DefaultPageSize is the number of records the API returns per list page.
	DefaultPageSize = 9
)
