package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/atinyakov/postboard/internal/client/api"
	"github.com/atinyakov/postboard/internal/client/app"
	"github.com/atinyakov/postboard/internal/client/view"
)

const helpText = `Available commands:
  help                 show this help
  show                 redraw the screen
  home | auth          switch view (when offered in the navigation bar)
  register | login     authenticate
  logout               forget the session
  new                  create a post
  edit <id> | edit     start editing a post | resubmit the open edit form
  cancel               discard the edit form
  delete <id>          delete a post
  refresh              reload navigation and posts
  exit                 quit`

// Shell is the interactive command loop around an App.
type Shell struct {
	app    *app.App
	prompt *Prompter
	out    io.Writer
}

// NewShell creates a Shell reading commands through prompt.
func NewShell(a *app.App, prompt *Prompter, out io.Writer) *Shell {
	return &Shell{app: a, prompt: prompt, out: out}
}

// Run renders the screen and executes commands until exit or end of input.
func (s *Shell) Run(ctx context.Context) {
	Render(s.out, s.app.Screen())
	for {
		if ctx.Err() != nil {
			return
		}
		line, ok := s.prompt.Ask("postboard> ")
		if !ok {
			return
		}
		if s.Exec(ctx, line) {
			return
		}
	}
}

// Exec runs one command line and reports whether the shell should quit.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}

	var err error
	switch args[0] {
	case "help":
		fmt.Fprintln(s.out, helpText)
		return false
	case "exit", "quit":
		fmt.Fprintln(s.out, "Bye")
		return true
	case "show":
	case "home":
		err = s.app.Activate(ctx, view.ActionHome)
	case "auth":
		err = s.app.Activate(ctx, view.ActionAuth)
	case "logout":
		err = s.app.Activate(ctx, view.ActionLogout)
	case "refresh":
		err = s.app.Refresh(ctx)
	case "register", "login":
		err = s.authenticate(ctx, args[0])
	case "new":
		err = s.create(ctx)
	case "edit":
		err = s.edit(ctx, args[1:])
	case "cancel":
		err = s.app.CancelEdit(ctx)
	case "delete":
		var id int64
		if id, err = parseID(args[1:]); err == nil {
			err = s.app.Delete(ctx, id)
		}
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
		return false
	}

	s.printErr(err)
	Render(s.out, s.app.Screen())
	return false
}

// printErr prints errors the API client has not already put in the banner.
func (s *Shell) printErr(err error) {
	var apiErr *api.Error
	if err == nil || errors.As(err, &apiErr) {
		return
	}
	fmt.Fprintln(s.out, "Error:", err)
}

func (s *Shell) authenticate(ctx context.Context, cmd string) error {
	username, ok := s.prompt.Ask("Username: ")
	if !ok {
		return io.ErrUnexpectedEOF
	}
	password, ok := s.prompt.Ask("Password: ")
	if !ok {
		return io.ErrUnexpectedEOF
	}
	if cmd == "register" {
		return s.app.Register(ctx, username, password)
	}
	return s.app.Login(ctx, username, password)
}

func (s *Shell) create(ctx context.Context) error {
	scr := s.app.Screen()
	if scr.Active != view.NameCreate {
		if err := s.app.Activate(ctx, view.ActionCreate); err != nil {
			return err
		}
	}
	title, content, ok := s.fill(scr.Create.Title, scr.Create.Content)
	if !ok {
		return io.ErrUnexpectedEOF
	}
	return s.app.Create(ctx, title, content)
}

func (s *Shell) edit(ctx context.Context, args []string) error {
	if len(args) > 0 {
		id, err := parseID(args)
		if err != nil {
			return err
		}
		if err := s.app.BeginEdit(id); err != nil {
			return err
		}
	}
	scr := s.app.Screen()
	if scr.Edit == nil {
		return app.ErrNotEditing
	}
	title, content, ok := s.fill(scr.Edit.Title, scr.Edit.Content)
	if !ok {
		return io.ErrUnexpectedEOF
	}
	return s.app.SubmitEdit(ctx, title, content)
}

func (s *Shell) fill(title, content string) (string, string, bool) {
	title, ok := s.prompt.AskDefault("Title", title)
	if !ok {
		return "", "", false
	}
	content, ok = s.prompt.AskDefault("Content", content)
	if !ok {
		return "", "", false
	}
	return title, content, true
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New("usage: <command> <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid post id %q", args[0])
	}
	return id, nil
}
