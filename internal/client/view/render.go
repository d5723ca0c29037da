package view

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goodsign/monday"

	"github.com/atinyakov/postboard/internal/models"
)

// Action names something the user can trigger from the rendered tree.
type Action string

const (
	ActionHome   Action = "home"
	ActionCreate Action = "new"
	ActionLogout Action = "logout"
	ActionAuth   Action = "auth"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// NavItem is one entry of the navigation bar. Labels have no Action.
type NavItem struct {
	Label  string
	Action Action
}

// RenderNav builds the navigation bar for session.
func RenderNav(session models.Session) []NavItem {
	if !session.LoggedIn() {
		return []NavItem{{Label: "Login / Register", Action: ActionAuth}}
	}
	return []NavItem{
		{Label: "Welcome, " + session.Username},
		{Label: "Home", Action: ActionHome},
		{Label: "Create Post", Action: ActionCreate},
		{Label: "Logout", Action: ActionLogout},
	}
}

// FeedStatus is the phase of the last feed fetch.
type FeedStatus int

const (
	FeedLoading FeedStatus = iota
	FeedLoaded
	FeedFailed
)

// Feed placeholder messages.
const (
	MsgLoading = "Loading posts..."
	MsgEmpty   = "No posts yet. Be the first to create one!"
	MsgFailed  = "Could not fetch posts."
)

// FeedState is the input of RenderFeed.
type FeedState struct {
	Status FeedStatus
	Posts  []models.Post
}

// PostItem is one rendered post.
type PostItem struct {
	Post    models.Post
	Meta    string
	Actions []Action
}

// Has reports whether the item offers a.
func (it PostItem) Has(a Action) bool {
	for _, x := range it.Actions {
		if x == a {
			return true
		}
	}
	return false
}

// Feed is the rendered feed region: either a Message or Items.
type Feed struct {
	Message string
	Items   []PostItem
}

// Item looks up a rendered post by id.
func (f Feed) Item(id int64) (PostItem, bool) {
	for _, it := range f.Items {
		if it.Post.ID == id {
			return it, true
		}
	}
	return PostItem{}, false
}

// TimeFormatter renders a post timestamp.
type TimeFormatter func(time.Time) string

// DefaultLocale is used for names that match no supported locale.
const DefaultLocale = monday.LocaleEnUS

// ParseLocale maps a POSIX or BCP 47 style name ("de_DE.UTF-8", "pt-BR",
// "fr") to a supported locale. A bare language picks its main country.
func ParseLocale(name string) monday.Locale {
	name, _, _ = strings.Cut(name, ".")
	name, _, _ = strings.Cut(name, "@")
	name = strings.ReplaceAll(name, "-", "_")
	if name == "" {
		return DefaultLocale
	}

	locales := slices.Clone(monday.ListLocales())
	slices.Sort(locales)

	candidates := []string{name}
	if !strings.Contains(name, "_") {
		candidates = append(candidates, name+"_"+strings.ToUpper(name))
	}
	for _, c := range candidates {
		for _, l := range locales {
			if strings.EqualFold(string(l), c) {
				return l
			}
		}
	}
	for _, l := range locales {
		if lang, _, _ := strings.Cut(string(l), "_"); strings.EqualFold(lang, name) {
			return l
		}
	}
	return DefaultLocale
}

// NewTimeFormatter formats with layout in loc, translating month and day
// names into locale, and appends the time relative to now, e.g.
// "Jan 2, 2025 3:04 PM (2 hours ago)".
func NewTimeFormatter(layout string, locale monday.Locale, loc *time.Location, now func() time.Time) TimeFormatter {
	return func(t time.Time) string {
		date := monday.Format(t.In(loc), layout, locale)
		return fmt.Sprintf("%s (%s)", date, humanize.RelTime(t, now(), "ago", "from now"))
	}
}

// RenderFeed builds the feed tree. Edit and delete are offered only on posts
// whose author is the logged-in viewer; the server enforces the real rule.
func RenderFeed(state FeedState, viewer models.Session, format TimeFormatter) Feed {
	switch state.Status {
	case FeedLoading:
		return Feed{Message: MsgLoading}
	case FeedFailed:
		return Feed{Message: MsgFailed}
	}
	if len(state.Posts) == 0 {
		return Feed{Message: MsgEmpty}
	}

	items := make([]PostItem, 0, len(state.Posts))
	for _, p := range state.Posts {
		it := PostItem{
			Post: p,
			Meta: fmt.Sprintf("by %s on %s", p.Author, format(p.CreatedAt)),
		}
		if viewer.LoggedIn() && viewer.Username == p.Author {
			it.Actions = []Action{ActionEdit, ActionDelete}
		}
		items = append(items, it)
	}
	return Feed{Items: items}
}

// Summary renders a one-line description of the nav bar, used in logs.
func Summary(nav []NavItem) string {
	labels := make([]string, 0, len(nav))
	for _, n := range nav {
		labels = append(labels, n.Label)
	}
	return strings.Join(labels, " | ")
}

// PostForm holds the title and content fields of the create form.
type PostForm struct {
	Title   string
	Content string
}
