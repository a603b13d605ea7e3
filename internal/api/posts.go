package api

import (
	"context"
	"encoding/json"

	"github.com/sudo-init-do/khadamni/internal/marketplace"
)

// ListPosts returns the posts matching f. It never returns nil.
func (c *Client) ListPosts(ctx context.Context, f marketplace.Filters) []marketplace.Post {
	path := f.Path()
	var posts []marketplace.Post
	if err := json.Unmarshal(c.Get(ctx, path), &posts); err != nil {
		c.log.Errorf("GET %s: decode posts: %v", path, err)
		return []marketplace.Post{}
	}
	if posts == nil {
		posts = []marketplace.Post{}
	}
	return posts
}

// CreatePost returns the created post, or nil when the request failed. A
// body without a post id (an error payload, null) counts as a failure.
func (c *Client) CreatePost(ctx context.Context, p marketplace.NewPost) *marketplace.Post {
	raw := c.Post(ctx, "/posts", p)
	if raw == nil {
		return nil
	}
	var created marketplace.Post
	if err := json.Unmarshal(raw, &created); err != nil {
		c.log.Errorf("POST /posts: decode post: %v", err)
		return nil
	}
	if created.ID == 0 {
		c.log.Errorf("POST /posts: no post in response: %s", raw)
		return nil
	}
	return &created
}

// Login returns the API's verdict, or nil when the request failed.
func (c *Client) Login(ctx context.Context, cred marketplace.Credentials) *marketplace.LoginResult {
	raw := c.Post(ctx, "/users/login", cred)
	if raw == nil {
		return nil
	}
	var res marketplace.LoginResult
	if err := json.Unmarshal(raw, &res); err != nil {
		c.log.Errorf("POST /users/login: decode result: %v", err)
		return nil
	}
	return &res
}
