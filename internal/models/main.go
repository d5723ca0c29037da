// Package models defines the core data structures for sessions and posts
// exchanged with the Postboard API.
package models

import (
	"errors"
	"time"
)

// Session holds the client's belief about the authenticated user.
type Session struct {
	// Token is the server-issued auth token.
	Token string
	// Username is the login the token was issued for.
	Username string
}

// LoggedIn reports whether both the token and the username are set.
func (s Session) LoggedIn() bool {
	return s.Token != "" && s.Username != ""
}

// Post is a server-owned content record.
type Post struct {
	// ID is the server-assigned identifier.
	ID int64 `json:"id"`
	// Title is the post headline.
	Title string `json:"title"`
	// Content is the post body.
	Content string `json:"content"`
	// Author is the username of the post owner, derived by the server.
	Author string `json:"author"`
	// CreatedAt is the creation time reported by the server.
	CreatedAt time.Time `json:"created_at"`
}

// EditingPost is the in-flight reference used to prefill the edit form.
type EditingPost struct {
	ID      int64
	Title   string
	Content string
}

// Credentials is the JSON payload for registration and token login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PostInput is the JSON payload for creating or replacing a post.
type PostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// TokenResponse is returned by the token login endpoint.
type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

// Validate reports a login response that carries no token.
func (r TokenResponse) Validate() error {
	if r.AuthToken == "" {
		return errors.New("missing auth_token")
	}
	return nil
}
