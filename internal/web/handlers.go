package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"todos-cli/internal/docs"
	"todos-cli/internal/logx"
	"todos-cli/internal/model"
	"todos-cli/internal/todos"

	"github.com/starfederation/datastar-go/datastar"
)

// Signals posted by the page.
type actionSignals struct {
	NewTitle  string `json:"newTitle"`
	EditTitle string `json:"editTitle"`
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if v := strings.TrimSpace(r.URL.Query().Get("filter")); v != "" {
		if f, err := model.ParseFilter(v); err == nil {
			s.session().SetFilter(f)
		}
	}
	s.writeHTMLTemplate(w, "page.html", pageVM{
		UserID: s.session().UserID(),
		App:    newAppVM(s.session().Snapshot()),
	})
}

type helpVM struct {
	Topic  string
	Title  string
	Topics []string
	Body   any
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	topic := strings.TrimSpace(r.URL.Query().Get("topic"))
	if topic == "" {
		topic = "web"
	}
	md, ok := docs.Get(topic)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.writeHTMLTemplate(w, "help.html", helpVM{
		Topic:  topic,
		Title:  docs.Title(topic),
		Topics: docs.Topics(),
		Body:   renderMarkdownHTML(md),
	})
}

func (s *Server) renderApp() (string, error) {
	return s.renderTemplate("app", newAppVM(s.session().Snapshot()))
}

// handleEvents streams the #todoapp section: once on connect and again after
// every Session change.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	ch, cancel := s.session().Subscribe()
	defer cancel()

	patch := func() {
		html, err := s.renderApp()
		if err != nil {
			logx.L().Error("render app", "err", err)
			return
		}
		_ = sse.PatchElements(html, datastar.WithSelector("#todoapp"), datastar.WithMode(datastar.ElementPatchModeOuter))
	}
	patch()

	keepAlive := time.NewTicker(s.cfg.KeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case _, ok := <-ch:
			if !ok {
				return
			}
			patch()
		}
	}
}

// actionContext detaches the remote calls from the request: a closed tab
// must not cancel a mutation that is already in flight.
func actionContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func isDatastarRequest(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Datastar-Request"), "true")
}

func readSignals(r *http.Request) actionSignals {
	var sig actionSignals
	if isDatastarRequest(r) {
		if err := datastar.ReadSignals(r, &sig); err != nil {
			logx.L().Debug("read signals", "err", err)
		}
		return sig
	}
	_ = r.ParseForm()
	sig.NewTitle = r.Form.Get("title")
	sig.EditTitle = r.Form.Get("title")
	return sig
}

// respond finishes an action. Datastar requests get the fresh #todoapp plus
// any signal changes; plain form posts are redirected back to the page.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, signals map[string]any) {
	if !isDatastarRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	sse := datastar.NewSSE(w, r)
	if html, err := s.renderApp(); err == nil {
		_ = sse.PatchElements(html, datastar.WithSelector("#todoapp"), datastar.WithMode(datastar.ElementPatchModeOuter))
	} else {
		logx.L().Error("render app", "err", err)
	}
	if len(signals) > 0 {
		_ = sse.MarshalAndPatchSignals(signals)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		http.Error(w, "invalid todo id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// writeActionError maps errors the banner does not cover. Remote failures are
// already on the banner, so they still get a normal response.
func (s *Server) writeActionError(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case errors.Is(err, todos.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return true
	case errors.Is(err, todos.ErrBusy):
		http.Error(w, err.Error(), http.StatusConflict)
		return true
	}
	return false
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	sig := readSignals(r)
	_, err := s.session().Create(actionContext(r), sig.NewTitle)
	if errors.Is(err, todos.ErrBusy) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		s.respond(w, r, nil)
		return
	}
	s.respond(w, r, map[string]any{"newTitle": ""})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := s.session().Toggle(actionContext(r), id); err != nil && s.writeActionError(w, r, err) {
		return
	}
	s.respond(w, r, nil)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.session().Delete(actionContext(r), id); err != nil && s.writeActionError(w, r, err) {
		return
	}
	s.respond(w, r, nil)
}

// handleRename commits an edited title. The editor closes on success or when
// the blank title turned into a delete; a failed update keeps it open.
func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sig := readSignals(r)
	err := s.session().Rename(actionContext(r), id, sig.EditTitle)
	if err != nil && s.writeActionError(w, r, err) {
		return
	}
	if err != nil && !errors.Is(err, todos.ErrEmptyTitle) {
		s.respond(w, r, nil)
		return
	}
	s.respond(w, r, map[string]any{"editing": 0, "editTitle": ""})
}

func (s *Server) handleToggleAll(w http.ResponseWriter, r *http.Request) {
	_ = s.session().ToggleAll(actionContext(r))
	s.respond(w, r, nil)
}

func (s *Server) handleClearCompleted(w http.ResponseWriter, r *http.Request) {
	s.session().ClearCompleted(actionContext(r))
	s.respond(w, r, nil)
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	f, err := model.ParseFilter(r.PathValue("filter"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.session().SetFilter(f)
	s.respond(w, r, nil)
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	s.session().DismissError()
	s.respond(w, r, nil)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	_ = s.session().Load(actionContext(r))
	s.respond(w, r, nil)
}
