package app

import (
	"context"

	"github.com/atinyakov/postboard/internal/client/view"
)

// RefreshFeed refetches and re-renders the feed without touching navigation
// or the active view.
func (a *App) RefreshFeed(ctx context.Context) error {
	if err := a.begin(); err != nil {
		return err
	}
	defer a.mu.Unlock()

	a.refreshFeed(ctx)
	return nil
}

// refreshFeed replaces the feed tree: loading placeholder, then the list,
// the empty-state message or the failure message. Must be called with mu
// held. Fetch errors were already reported by the API client.
func (a *App) refreshFeed(ctx context.Context) {
	a.setFeed(view.FeedState{Status: view.FeedLoading})

	posts, err := a.api.ListPosts(ctx)
	if err != nil {
		a.setFeed(view.FeedState{Status: view.FeedFailed})
		return
	}
	a.setFeed(view.FeedState{Status: view.FeedLoaded, Posts: posts})
}

func (a *App) setFeed(state view.FeedState) {
	a.feed = view.RenderFeed(state, a.Session(), a.format)
}
