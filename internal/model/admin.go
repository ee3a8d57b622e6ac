package model

// Admin is the authenticated operator behind an admin API request.
type Admin struct {
	Username string `json:"username"`
}
