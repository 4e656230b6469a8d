// Package webtui serves the terminal UI in a browser tab: each websocket gets
// its own `todos` child process on a pty, rendered by xterm.js.
package webtui

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

//go:embed templates/*.html static/*.js
var assetsFS embed.FS

type ServerConfig struct {
	Addr string
	// Passed through to the child TUI.
	APIURL     string
	UserID     int
	ConfigPath string
	Theme      string

	// Command builds the child process. Defaults to this executable with
	// ChildArgs.
	Command func(args []string) (*exec.Cmd, error)
}

type Server struct {
	cfg  ServerConfig
	tmpl *template.Template
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("webtui: missing addr")
	}
	if cfg.Command == nil {
		cfg.Command = selfCommand
	}
	tmpl, err := template.ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, tmpl: tmpl}, nil
}

func (s *Server) Addr() string {
	return strings.TrimSpace(s.cfg.Addr)
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/terminal", http.StatusFound)
	})
	mux.HandleFunc("GET /terminal", s.handleTerminal)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /static/terminal.js", s.handleStatic("static/terminal.js", "text/javascript; charset=utf-8"))
	return mux
}

// ChildArgs are the flags handed to the child so it talks to the same
// collection as the parent.
func (s *Server) ChildArgs() []string {
	var args []string
	if v := strings.TrimSpace(s.cfg.ConfigPath); v != "" {
		args = append(args, "--config", v)
	}
	if v := strings.TrimSpace(s.cfg.APIURL); v != "" {
		args = append(args, "--api-url", v)
	}
	if s.cfg.UserID != 0 {
		args = append(args, "--user-id", strconv.Itoa(s.cfg.UserID))
	}
	return args
}

func selfCommand(args []string) (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	// No subcommand => interactive TUI.
	return exec.Command(exe, args...), nil
}

func (s *Server) childEnv() []string {
	env := append(os.Environ(),
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
	)
	if v := strings.TrimSpace(s.cfg.Theme); v != "" {
		env = append(env, "TODOS_TUI_THEME="+v)
	}
	return env
}

func (s *Server) handleStatic(path, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := assetsFS.ReadFile(path)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(b)
	}
}

type terminalVM struct {
	APIURL string
	UserID int
}

func (s *Server) handleTerminal(w http.ResponseWriter, r *http.Request) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, "terminal.html", terminalVM{
		APIURL: strings.TrimSpace(s.cfg.APIURL),
		UserID: s.cfg.UserID,
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(b.String()))
}
