package models

// User is the signed-in account as returned by the auth endpoints.
type User struct {
	ID             string `json:"_id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	IsAdmin        bool   `json:"isAdmin"`
}
