package server

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"idea-builder-backend/internal/steps"
	"idea-builder-backend/internal/wizard"
)

//go:embed templates/*.html
var templateFS embed.FS

var builderTmpl = template.Must(template.ParseFS(templateFS, "templates/builder.html"))

type builderView struct {
	Menu     []steps.Name
	Active   *steps.Step
	Form     map[string]string
	Loading  bool
	Reply    string
	HasReply bool
	Notice   string
}

func (s *Server) handleBuilder(w http.ResponseWriter, r *http.Request) {
	sid := s.getOrCreateSessionID(w, r)
	s.renderBuilder(w, http.StatusOK, s.wizard.Store().Get(sid), "")
}

func (s *Server) handleSelectStep(w http.ResponseWriter, r *http.Request) {
	sid := s.getOrCreateSessionID(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if _, err := s.wizard.SelectStep(sid, r.PostForm.Get("step")); err != nil {
		s.renderBuilder(w, http.StatusBadRequest, s.wizard.Store().Get(sid), "Unknown step.")
		return
	}
	http.Redirect(w, r, "/builder", http.StatusSeeOther)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sid := s.getOrCreateSessionID(w, r)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	values := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		values[k] = r.PostForm.Get(k)
	}

	sess, err := s.wizard.Submit(r.Context(), sid, values)
	switch {
	case errors.Is(err, wizard.ErrBusy):
		s.renderBuilder(w, http.StatusConflict, sess, "Still thinking about your last request.")
		return
	case errors.Is(err, wizard.ErrNoActiveStep):
		s.renderBuilder(w, http.StatusBadRequest, sess, "Pick a step first.")
		return
	case err != nil:
		s.log.Error("wizard submit failed", "session_id", sid, "error", err)
		s.renderBuilder(w, http.StatusInternalServerError, sess, "Something went wrong.")
		return
	}
	http.Redirect(w, r, "/builder", http.StatusSeeOther)
}

// handleReset forgets the wizard session and drops its cookie.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if sid, err := GetSessionCookie(r); err == nil {
		s.wizard.Store().Reset(sid)
		s.log.Debug("wizard session reset", "session_id", sid)
	}
	ClearSessionCookie(w)
	http.Redirect(w, r, "/builder", http.StatusSeeOther)
}

func (s *Server) renderBuilder(w http.ResponseWriter, code int, sess wizard.Session, notice string) {
	view := builderView{
		Menu:     steps.Names(),
		Form:     sess.Form,
		Loading:  sess.Loading,
		Reply:    sess.Reply,
		HasReply: sess.HasReply,
		Notice:   notice,
	}
	if step, ok := s.registry.Lookup(string(sess.ActiveStep)); ok {
		view.Active = &step
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := builderTmpl.Execute(w, view); err != nil {
		s.log.Error("render builder page", "error", err)
	}
}
