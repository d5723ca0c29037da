// Package apitest provides an in-memory fake of the Postboard REST backend
// for tests. It follows the backend's observable contract: token auth,
// field-error validation bodies, author-only mutation and 204 on delete.
package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/atinyakov/postboard/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

type override struct {
	status int
	body   string
}

// Server is a running fake backend. Its API lives under URL + "/api".
type Server struct {
	*httptest.Server

	// Now stamps created posts.
	Now func() time.Time

	mu        sync.Mutex
	users     map[string]string
	tokens    map[string]string
	posts     []models.Post
	nextID    int64
	requests  []string
	overrides map[string]override
}

// NewServer starts a fake backend that is closed when t finishes.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		Now:       time.Now,
		users:     map[string]string{},
		tokens:    map[string]string{},
		nextID:    1,
		overrides: map[string]override{},
	}
	s.Server = httptest.NewServer(s.Router())
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the value a client should use as its API base.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// Router mounts the fake endpoints:
//
//	POST   /api/auth/users/         register
//	POST   /api/auth/token/login/   token login
//	GET    /api/posts/              list, newest first
//	POST   /api/posts/              create (auth)
//	PUT    /api/posts/{id}/         replace (author)
//	DELETE /api/posts/{id}/         delete (author)
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/users/", s.register)
		r.Post("/auth/token/login/", s.login)

		r.Group(func(r chi.Router) {
			r.Use(s.tokenAuth)
			r.Get("/posts/", s.listPosts)
			r.Post("/posts/", s.createPost)
			r.Put("/posts/{id}/", s.updatePost)
			r.Delete("/posts/{id}/", s.deletePost)
		})
	})
	return r
}

// AddUser registers a user directly.
func (s *Server) AddUser(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = password
}

// Seed inserts a post as author and returns it.
func (s *Server) Seed(author, title, content string) models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(author, title, content)
}

// Posts returns a copy of the stored posts.
func (s *Server) Posts() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Post(nil), s.posts...)
}

// Requests returns "METHOD /path" for every request served so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// ResetRequests clears the request log.
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// FailNext makes the next request matching method and path answer with
// status and the raw body instead of the real handler.
func (s *Server) FailNext(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+path] = override{status: status, body: body}
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		s.mu.Lock()
		s.requests = append(s.requests, key)
		o, ok := s.overrides[key]
		delete(s.overrides, key)
		s.mu.Unlock()

		if ok {
			w.WriteHeader(o.status)
			_, _ = w.Write([]byte(o.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// tokenAuth resolves "Authorization: Token <t>" to a username. Requests
// without the header pass through anonymously; unknown tokens are rejected.
func (s *Server) tokenAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := strings.CutPrefix(header, "Token ")
		s.mu.Lock()
		user, known := s.tokens[token]
		s.mu.Unlock()
		if !ok || !known {
			writeJSON(w, http.StatusUnauthorized, detail("Invalid token."))
			return
		}
		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(userKey).(string); ok {
		return s
	}
	return ""
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, detail("JSON parse error."))
		return
	}
	errs := map[string][]string{}
	if req.Username == "" {
		errs["username"] = []string{"This field may not be blank."}
	}
	if req.Password == "" {
		errs["password"] = []string{"This field may not be blank."}
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Username]; exists {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"username": {"A user with that username already exists."},
		})
		return
	}
	s.users[req.Username] = req.Password
	writeJSON(w, http.StatusCreated, map[string]any{"username": req.Username, "id": len(s.users)})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, detail("JSON parse error."))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if pass, ok := s.users[req.Username]; !ok || pass != req.Password || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"non_field_errors": {"Unable to log in with provided credentials."},
		})
		return
	}
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	s.tokens[token] = req.Username
	writeJSON(w, http.StatusOK, models.TokenResponse{AuthToken: token})
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Posts())
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == "" {
		writeJSON(w, http.StatusUnauthorized, detail("Authentication credentials were not provided."))
		return
	}
	in, ok := decodePostInput(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusCreated, s.insert(user, in.Title, in.Content))
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(i int) {
		in, ok := decodePostInput(w, r)
		if !ok {
			return
		}
		s.posts[i].Title = in.Title
		s.posts[i].Content = in.Content
		writeJSON(w, http.StatusOK, s.posts[i])
	})
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(i int) {
		s.posts = append(s.posts[:i], s.posts[i+1:]...)
		w.WriteHeader(http.StatusNoContent)
	})
}

// mutate runs fn with the index of the addressed post after the existence,
// authentication and ownership checks, holding the lock.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(i int)) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, detail("Not found."))
		return
	}
	user := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.posts {
		if s.posts[i].ID == id {
			idx = i
			break
		}
	}
	switch {
	case user == "":
		writeJSON(w, http.StatusUnauthorized, detail("Authentication credentials were not provided."))
	case idx < 0:
		writeJSON(w, http.StatusNotFound, detail("Not found."))
	case s.posts[idx].Author != user:
		writeJSON(w, http.StatusForbidden, detail("You do not have permission to perform this action."))
	default:
		fn(idx)
	}
}

// insert must be called with mu held. Posts are kept newest first.
func (s *Server) insert(author, title, content string) models.Post {
	p := models.Post{
		ID:        s.nextID,
		Title:     title,
		Content:   content,
		Author:    author,
		CreatedAt: s.Now().UTC(),
	}
	s.nextID++
	s.posts = append([]models.Post{p}, s.posts...)
	return p
}

func decodePostInput(w http.ResponseWriter, r *http.Request) (models.PostInput, bool) {
	var in models.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, detail("JSON parse error."))
		return in, false
	}
	errs := map[string][]string{}
	switch {
	case in.Title == "":
		errs["title"] = []string{"This field may not be blank."}
	case len(in.Title) > 200:
		errs["title"] = []string{"Ensure this field has no more than 200 characters."}
	}
	if in.Content == "" {
		errs["content"] = []string{"This field may not be blank."}
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return in, false
	}
	return in, true
}

func detail(msg string) map[string]string {
	return map[string]string{"detail": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
