package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/atinyakov/postboard/internal/client/app"
	"github.com/atinyakov/postboard/internal/client/view"
)

// Render prints the visible parts of s: error banner, navigation bar and
// the regions of the active view.
func Render(w io.Writer, s app.Screen) {
	if s.BannerVisible {
		fmt.Fprintf(w, "! %s\n", s.Banner)
	}
	fmt.Fprintln(w, renderNav(s.Nav))
	fmt.Fprintln(w, strings.Repeat("-", 40))

	if s.Visible[view.RegionAuth] {
		fmt.Fprintln(w, "Type 'register' to create an account or 'login' to sign in.")
	}
	if s.Visible[view.RegionPosts] {
		renderFeed(w, s.Feed)
	}
	if s.Visible[view.RegionEditor] {
		if s.Visible[view.RegionCreateForm] {
			fmt.Fprintln(w, "Create Post")
			fmt.Fprintf(w, "  Title:   %s\n  Content: %s\n", s.Create.Title, s.Create.Content)
			fmt.Fprintln(w, "Type 'new' to fill in and submit, 'home' to go back.")
		}
		if s.Visible[view.RegionEditForm] && s.Edit != nil {
			fmt.Fprintf(w, "Edit Post #%d\n", s.Edit.ID)
			fmt.Fprintf(w, "  Title:   %s\n  Content: %s\n", s.Edit.Title, s.Edit.Content)
			fmt.Fprintln(w, "Type 'edit' to change and submit, 'cancel' to discard.")
		}
	}
}

func renderNav(nav []view.NavItem) string {
	parts := make([]string, 0, len(nav))
	for _, n := range nav {
		if n.Action == "" {
			parts = append(parts, n.Label)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", n.Label, n.Action))
	}
	return strings.Join(parts, " | ")
}

func renderFeed(w io.Writer, f view.Feed) {
	if f.Message != "" {
		fmt.Fprintln(w, f.Message)
		return
	}
	for _, it := range f.Items {
		fmt.Fprintf(w, "#%d %s\n", it.Post.ID, it.Post.Title)
		fmt.Fprintf(w, "   %s\n", it.Meta)
		fmt.Fprintf(w, "   %s\n", it.Post.Content)
		if len(it.Actions) > 0 {
			actions := make([]string, 0, len(it.Actions))
			for _, a := range it.Actions {
				actions = append(actions, fmt.Sprintf("[%s %d]", a, it.Post.ID))
			}
			fmt.Fprintf(w, "   %s\n", strings.Join(actions, " "))
		}
		fmt.Fprintln(w, "---")
	}
}
