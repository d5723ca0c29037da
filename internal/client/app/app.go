// Package app wires the session controller, the post controller and the feed
// renderer around a single view model. Every operation runs to completion
// before the next one starts; a second operation arriving while one is in
// flight fails with ErrBusy.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/postboard/internal/client/storage"
	"github.com/atinyakov/postboard/internal/client/view"
	"github.com/atinyakov/postboard/internal/models"
)

var (
	// ErrBusy is returned when an operation is already in flight.
	ErrBusy = errors.New("another request is in progress")
	// ErrNoAction is returned for an action the current view does not offer.
	ErrNoAction = errors.New("action not available")
	// ErrNotEditing is returned by SubmitEdit without a prior BeginEdit.
	ErrNotEditing = errors.New("no post is being edited")
)

// DeletePrompt is the question asked before deleting a post.
const DeletePrompt = "Are you sure you want to delete this post?"

// API is the subset of the REST client the controllers use. Implementations
// report failures themselves; returned errors only stop follow-up steps.
type API interface {
	Register(ctx context.Context, creds models.Credentials) error
	Login(ctx context.Context, creds models.Credentials) (string, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error)
	UpdatePost(ctx context.Context, id int64, in models.PostInput) (*models.Post, error)
	DeletePost(ctx context.Context, id int64) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Banner exposes the error banner owned by the reporter.
type Banner interface {
	Banner() (string, bool)
}

// Deps are the collaborators of App.
type Deps struct {
	API     API
	Store   storage.Store
	Banner  Banner
	Confirm Confirmer
	Format  view.TimeFormatter
	Log     *zap.Logger
}

// App is the client state: session, active view, navigation, feed and forms.
type App struct {
	mu sync.Mutex

	api     API
	store   storage.Store
	banner  Banner
	confirm Confirmer
	format  view.TimeFormatter
	log     *zap.Logger

	// sessMu guards session separately so Token can be called by the API
	// client while an operation holds mu.
	sessMu  sync.RWMutex
	session models.Session

	nav     []view.NavItem
	views   view.Switcher
	feed    view.Feed
	create  view.PostForm
	editing *models.EditingPost
}

// DefaultTimeLayout is used when Deps.Format is nil.
const DefaultTimeLayout = "Jan 2, 2006 3:04 PM"

// New creates an App. Call Start to load the persisted session and render.
func New(d Deps) *App {
	if d.Format == nil {
		d.Format = view.NewTimeFormatter(DefaultTimeLayout, view.DefaultLocale, time.Local, time.Now)
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &App{
		api:     d.API,
		store:   d.Store,
		banner:  d.Banner,
		confirm: d.Confirm,
		format:  d.Format,
		log:     d.Log,
	}
}

// Screen is an immutable snapshot of the whole view tree.
type Screen struct {
	Session       models.Session
	Active        view.Name
	Visible       map[view.Region]bool
	Nav           []view.NavItem
	Feed          view.Feed
	Create        view.PostForm
	Edit          *models.EditingPost
	Banner        string
	BannerVisible bool
}

// Screen returns the current view tree. It waits for a running operation.
func (a *App) Screen() Screen {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Screen{
		Session: a.Session(),
		Active:  a.views.Active(),
		Visible: a.views.Snapshot(),
		Nav:     append([]view.NavItem(nil), a.nav...),
		Feed:    a.feed,
		Create:  a.create,
	}
	if a.editing != nil {
		e := *a.editing
		s.Edit = &e
	}
	if a.banner != nil {
		s.Banner, s.BannerVisible = a.banner.Banner()
	}
	return s
}

// Session returns the current session.
func (a *App) Session() models.Session {
	a.sessMu.RLock()
	defer a.sessMu.RUnlock()
	return a.session
}

// Token returns the auth token or "" when logged out.
func (a *App) Token() string {
	return a.Session().Token
}

func (a *App) setSession(s models.Session) {
	a.sessMu.Lock()
	a.session = s
	a.sessMu.Unlock()
}

// begin acquires the operation lock without waiting.
func (a *App) begin() error {
	if !a.mu.TryLock() {
		return ErrBusy
	}
	return nil
}

// Start restores the persisted session and performs the first full refresh.
func (a *App) Start(ctx context.Context) error {
	if err := a.begin(); err != nil {
		return err
	}
	defer a.mu.Unlock()

	s, err := LoadSession(a.store)
	if err != nil {
		a.log.Warn("failed to load session", zap.Error(err))
	}
	a.setSession(s)
	a.refreshUI(ctx)
	return nil
}

// Refresh performs a full UI refresh.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.begin(); err != nil {
		return err
	}
	defer a.mu.Unlock()

	a.refreshUI(ctx)
	return nil
}

// Activate runs a navigation action. Only actions present in the current
// navigation bar are accepted.
func (a *App) Activate(ctx context.Context, action view.Action) error {
	if err := a.begin(); err != nil {
		return err
	}
	defer a.mu.Unlock()

	if !a.navOffers(action) {
		return ErrNoAction
	}
	switch action {
	case view.ActionHome:
		a.views.Show(view.NamePosts)
	case view.ActionCreate:
		a.views.Show(view.NameCreate)
	case view.ActionAuth:
		a.views.Show(view.NameAuth)
	case view.ActionLogout:
		a.logout(ctx)
	default:
		return ErrNoAction
	}
	return nil
}

func (a *App) navOffers(action view.Action) bool {
	for _, n := range a.nav {
		if n.Action != "" && n.Action == action {
			return true
		}
	}
	return false
}

// refreshUI rebuilds the navigation, shows the view for the session and
// refetches the feed. Must be called with mu held.
func (a *App) refreshUI(ctx context.Context) {
	s := a.Session()
	a.nav = view.RenderNav(s)
	if s.LoggedIn() {
		a.views.Show(view.NamePosts)
	} else {
		a.views.Show(view.NameAuth)
	}
	a.log.Debug("ui refreshed", zap.String("nav", view.Summary(a.nav)), zap.String("view", string(a.views.Active())))
	a.refreshFeed(ctx)
}
