package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/atinyakov/postboard/internal/models"
)

const (
	apiUsers = "/auth/users/"
	apiLogin = "/auth/token/login/"
	apiPosts = "/posts/"
)

func postPath(id int64) string {
	return fmt.Sprintf("%s%d/", apiPosts, id)
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, creds models.Credentials) error {
	return c.Do(ctx, http.MethodPost, apiUsers, creds, nil)
}

// Login exchanges credentials for an auth token.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (string, error) {
	var resp models.TokenResponse
	if err := c.Do(ctx, http.MethodPost, apiLogin, creds, &resp); err != nil {
		return "", err
	}
	return resp.AuthToken, nil
}

// ListPosts fetches the whole post collection.
func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := c.Do(ctx, http.MethodGet, apiPosts, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost publishes a new post as the token's owner.
func (c *Client) CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error) {
	var post models.Post
	if err := c.Do(ctx, http.MethodPost, apiPosts, in, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost replaces the title and content of post id.
func (c *Client) UpdatePost(ctx context.Context, id int64, in models.PostInput) (*models.Post, error) {
	var post models.Post
	if err := c.Do(ctx, http.MethodPut, postPath(id), in, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes post id.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	return c.Do(ctx, http.MethodDelete, postPath(id), nil, nil)
}
