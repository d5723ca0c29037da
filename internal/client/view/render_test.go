package view

import (
	"testing"
	"time"

	"github.com/goodsign/monday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/postboard/internal/models"
)

func fixedFormat(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func TestRenderNav(t *testing.T) {
	out := RenderNav(models.Session{})
	assert.Equal(t, []NavItem{{Label: "Login / Register", Action: ActionAuth}}, out)

	in := RenderNav(models.Session{Token: "t", Username: "alice"})
	require.Len(t, in, 4)
	assert.Equal(t, NavItem{Label: "Welcome, alice"}, in[0])
	assert.Equal(t, ActionHome, in[1].Action)
	assert.Equal(t, ActionCreate, in[2].Action)
	assert.Equal(t, ActionLogout, in[3].Action)
	assert.Equal(t, "Welcome, alice | Home | Create Post | Logout", Summary(in))

	// half a session is no session
	assert.Equal(t, out, RenderNav(models.Session{Username: "alice"}))
}

func TestRenderFeed_Messages(t *testing.T) {
	assert.Equal(t, Feed{Message: MsgLoading}, RenderFeed(FeedState{Status: FeedLoading}, models.Session{}, fixedFormat))
	assert.Equal(t, Feed{Message: MsgFailed}, RenderFeed(FeedState{Status: FeedFailed}, models.Session{}, fixedFormat))
	assert.Equal(t, Feed{Message: MsgEmpty}, RenderFeed(FeedState{Status: FeedLoaded, Posts: []models.Post{}}, models.Session{}, fixedFormat))
	assert.Equal(t, Feed{Message: MsgEmpty}, RenderFeed(FeedState{Status: FeedLoaded}, models.Session{}, fixedFormat))
}

func TestRenderFeed_Affordances(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	state := FeedState{Status: FeedLoaded, Posts: []models.Post{
		{ID: 1, Title: "a", Content: "x", Author: "alice", CreatedAt: created},
		{ID: 2, Title: "b", Content: "y", Author: "bob", CreatedAt: created},
	}}

	tests := []struct {
		name    string
		viewer  models.Session
		editOne bool
	}{
		{"author", models.Session{Token: "t", Username: "alice"}, true},
		{"other user", models.Session{Token: "t", Username: "bob"}, false},
		{"logged out", models.Session{}, false},
		{"case differs", models.Session{Token: "t", Username: "Alice"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := RenderFeed(state, tt.viewer, fixedFormat)
			require.Len(t, feed.Items, 2)
			it, ok := feed.Item(1)
			require.True(t, ok)
			assert.Equal(t, tt.editOne, it.Has(ActionEdit))
			assert.Equal(t, tt.editOne, it.Has(ActionDelete))
			assert.Equal(t, "by alice on 2025-03-01T12:00:00Z", it.Meta)
		})
	}

	_, ok := RenderFeed(state, models.Session{}, fixedFormat).Item(42)
	assert.False(t, ok)
}

func TestNewTimeFormatter(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)
	format := NewTimeFormatter("2006-01-02 15:04", DefaultLocale, loc, func() time.Time { return now })

	got := format(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-03-01 14:00 (3 hours ago)", got)
}

func TestNewTimeFormatter_Locale(t *testing.T) {
	now := time.Date(2025, 3, 1, 23, 4, 0, 0, time.UTC)
	posted := time.Date(2025, 3, 1, 15, 4, 0, 0, time.UTC)
	layout := "2 January 2006 15:04"

	de := NewTimeFormatter(layout, ParseLocale("de_DE.UTF-8"), time.UTC, func() time.Time { return now })(posted)
	assert.Contains(t, de, "März 2025 15:04")
	assert.NotContains(t, de, "March")

	en := NewTimeFormatter(layout, ParseLocale(""), time.UTC, func() time.Time { return now })(posted)
	assert.Equal(t, "1 March 2025 15:04 (8 hours ago)", en)
}

func TestParseLocale(t *testing.T) {
	tests := []struct {
		name string
		want monday.Locale
	}{
		{"de_DE.UTF-8", monday.LocaleDeDE},
		{"de", monday.LocaleDeDE},
		{"pt-BR", monday.LocalePtBR},
		{"fr_FR@euro", monday.LocaleFrFR},
		{"en_GB", monday.LocaleEnGB},
		{"", DefaultLocale},
		{"C", DefaultLocale},
		{"POSIX", DefaultLocale},
		{"xx_YY", DefaultLocale},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLocale(tt.name), "ParseLocale(%q)", tt.name)
	}
}
