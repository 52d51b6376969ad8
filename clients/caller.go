package clients

import "net/http"

// Caller identifies the end user a backend call is made for.
type Caller struct {
	UserID      string
	Email       string
	Role        string
	AccessToken string
}

// Headers returns the identity headers the backend expects.
func (c Caller) Headers() http.Header {
	h := http.Header{}
	if c.AccessToken != "" {
		h.Set("Authorization", "Bearer "+c.AccessToken)
	}
	if c.UserID != "" {
		h.Set("X-User-ID", c.UserID)
	}
	if c.Email != "" {
		h.Set("X-User-Email", c.Email)
	}
	if c.Role != "" {
		h.Set("X-User-Role", c.Role)
	}
	return h
}
