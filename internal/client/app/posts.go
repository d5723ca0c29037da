package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/atinyakov/postboard/internal/client/view"
	"github.com/atinyakov/postboard/internal/models"
)

// Create publishes a post as the logged-in user. The form keeps title and
// content when the request fails and is reset on success.
func (a *App) Create(ctx context.Context, title, content string) error {
	if err := a.begin(); err != nil {
		return err
	}
	defer a.mu.Unlock()

	a.create = view.PostForm{Title: title, Content: content}
	if _, err := a.api.CreatePost(ctx, models.PostInput{Title: title, Content: content}); err != nil {
		return err
	}
	a.create = view.PostForm{}
	a.refreshUI(ctx)
	return nil
}

// BeginEdit prefills the edit form from the rendered post id and shows the
// edit view. Only posts offering the edit action can be edited.
func (a *App) BeginEdit(id int64) error {
	if err := a.begin(); err != nil {
		return err
	}
	defer a.mu.Unlock()

	it, ok := a.feed.Item(id)
	if !ok || !it.Has(view.ActionEdit) {
		return ErrNoAction
	}
	a.editing = &models.EditingPost{ID: it.Post.ID, Title: it.Post.Title, Content: it.Post.Content}
	a.views.Show(view.NameEdit)
	return nil
}

// SubmitEdit replaces the edited post's title and content. On failure the
// edit form keeps the submitted values.
func (a *App) SubmitEdit(ctx context.Context, title, content string) error {
	if err := a.begin(); err != nil {
		return err
	}
	defer a.mu.Unlock()

	if a.editing == nil {
		return ErrNotEditing
	}
	a.editing.Title = title
	a.editing.Content = content

	if _, err := a.api.UpdatePost(ctx, a.editing.ID, models.PostInput{Title: title, Content: content}); err != nil {
		return err
	}
	a.editing = nil
	a.refreshUI(ctx)
	return nil
}

// CancelEdit drops the edit reference and performs a full refresh.
func (a *App) CancelEdit(ctx context.Context) error {
	if err := a.begin(); err != nil {
		return err
	}
	defer a.mu.Unlock()

	a.editing = nil
	a.refreshUI(ctx)
	return nil
}

// Delete removes the rendered post id after confirmation. Declining sends
// nothing. Success refetches only the feed.
func (a *App) Delete(ctx context.Context, id int64) error {
	if err := a.begin(); err != nil {
		return err
	}
	defer a.mu.Unlock()

	it, ok := a.feed.Item(id)
	if !ok || !it.Has(view.ActionDelete) {
		return ErrNoAction
	}
	if a.confirm == nil || !a.confirm.Confirm(DeletePrompt) {
		a.log.Debug("delete declined", zap.Int64("id", id))
		return nil
	}
	if err := a.api.DeletePost(ctx, id); err != nil {
		return err
	}
	a.refreshFeed(ctx)
	return nil
}
