package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/docreader/internal/events"
	"github.com/dgallion1/docreader/internal/highlight"
	"github.com/dgallion1/docreader/internal/selection"
	"github.com/dgallion1/docreader/internal/session"
	"github.com/dgallion1/docreader/internal/workspace"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := s.sessions.NewID()
	ws, err := workspace.New(
		workspace.WithLogger(s.log.With("session", id)),
		workspace.WithTracker(s.cfg.Reader.Tracker()),
		workspace.WithPublisher(s.topicPublisher(id)),
	)
	if err != nil {
		jsonError(w, "failed to create session: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.sessions.Put(id, ws)
	s.log.Info("session created", "session", id)

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      id,
		"session": ws.View(),
	})
}

// topicPublisher forwards workspace commands to the session's event stream.
func (s *Server) topicPublisher(id string) workspace.Publisher {
	return workspace.PublisherFunc(func(cmd session.Command) {
		s.broker.Publish(id, events.Event{Type: cmd.Kind(), Data: cmd})
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ws.View())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !s.sessions.Delete(id) {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActivateTab(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}
	index, ok := tabIndex(w, r)
	if !ok {
		return
	}
	if err := ws.SwitchTo(index); err != nil {
		sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ws.View())
}

func (s *Server) handleCloseTab(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}
	index, ok := tabIndex(w, r)
	if !ok {
		return
	}
	if err := ws.Close(index); err != nil {
		sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ws.View())
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}
	var sel selection.Selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		jsonError(w, "invalid selection: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"menu": ws.Select(sel)})
}

func (s *Server) handleApplyHighlight(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}
	var body struct {
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	c, err := highlight.ParseColor(body.Color)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	strategy, err := ws.ApplyHighlight(c)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"strategy": strategy,
		"session":  ws.View(),
	})
}

func (s *Server) handleRemoveHighlight(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}
	removed := ws.RemoveHighlight()
	writeJSON(w, http.StatusOK, map[string]any{
		"removed": removed,
		"session": ws.View(),
	})
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.workspace(w, r); !ok {
		return
	}
	var k selection.Key
	if err := json.NewDecoder(r.Body).Decode(&k); err != nil {
		jsonError(w, "invalid key: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"allowed": selection.AllowKey(k)})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.workspace(w, r); !ok {
		return
	}
	s.broker.ServeTopic(w, r, chi.URLParam(r, "sessionID"))
}

// workspace looks up the session named in the URL and writes a 404 if it is gone.
func (s *Server) workspace(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, bool) {
	ws, ok := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		jsonError(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	return ws, true
}

func tabIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		jsonError(w, "tab index must be an integer", http.StatusBadRequest)
		return 0, false
	}
	return index, true
}

// sessionError maps session transition errors to responses.
func sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrCannotCloseLastDocument):
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":  err.Error(),
			"notice": session.LastDocumentNotice,
		})
	case errors.Is(err, session.ErrIndexOutOfRange):
		jsonError(w, err.Error(), http.StatusNotFound)
	default:
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
