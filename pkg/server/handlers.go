package server

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"math"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/bddview/pkg/bdd"
	"github.com/matzehuels/bddview/pkg/buildinfo"
	errs "github.com/matzehuels/bddview/pkg/errors"
	"github.com/matzehuels/bddview/pkg/observability"
	"github.com/matzehuels/bddview/pkg/pipeline"
)

// formOverhead allows for the field name and URL encoding of the submitted text.
const formOverhead = 3

// DiagnosticsHeader carries the number of diagnostics on /render.svg responses.
const DiagnosticsHeader = "X-Bddview-Diagnostics"

type pageData struct {
	Input       string
	SVG         template.HTML
	Diagnostics []string
	Width       float64
	Height      float64
	Version     string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	err = pageTemplate.Execute(w, pageData{
		Input:       sess.Input,
		SVG:         template.HTML(sess.SVG),
		Diagnostics: sess.Diagnostics,
		Width:       sess.Size.Width,
		Height:      sess.Size.Height,
		Version:     buildinfo.String(),
	})
	if err != nil {
		s.logger.Error("render page", "err", err)
	}
}

// handleSubmit consumes one submission and redirects to the page.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(s.limit()*formOverhead+len("nodes=")))
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, errs.New(errs.ErrCodeInputTooLarge, "input exceeds %d bytes", s.limit()))
			return
		}
		s.fail(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse form"))
		return
	}
	nodes := r.PostFormValue("nodes")
	if err := errs.ValidateInput(nodes, s.limit()); err != nil {
		s.fail(w, err)
		return
	}

	sess, err := s.session(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	res, err := s.pass(r.Context(), nodes, sess.Size)
	if err != nil {
		s.fail(w, err)
		return
	}
	sess.Input = nodes
	s.store(sess, res)

	s.logger.Info("drawn",
		"session", sess.ID,
		"records", res.Stats.Records,
		"diagnostics", len(res.Diagnostics),
		"width", res.Frame.Width,
		"height", res.Frame.Height)
	for _, d := range res.Diagnostics {
		s.logger.Warn(d.String(), "session", sess.ID)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleSVG draws ?nodes= on a surface of ?width= by ?height= without
// touching any session.
func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	nodes := bdd.ExampleText
	if q.Has("nodes") {
		nodes = q.Get("nodes")
	}
	if err := errs.ValidateInput(nodes, s.limit()); err != nil {
		s.fail(w, err)
		return
	}

	size := s.startSize()
	for name, dst := range map[string]*float64{"width": &size.Width, "height": &size.Height} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || !(f >= 0) || math.IsInf(f, 0) {
			s.fail(w, errs.New(errs.ErrCodeInvalidInput, "%s must be a finite non-negative number", name))
			return
		}
		*dst = f
	}

	res, err := s.pass(r.Context(), nodes, size)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set(DiagnosticsHeader, strconv.Itoa(len(res.Diagnostics)))
	_, _ = w.Write(res.Artifacts[pipeline.FormatSVG])
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
		buildinfo.Info
	}{"ok", s.sessions.len(), buildinfo.Get()})
}

func metricsHandler(m *observability.Metrics) http.Handler {
	return promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})
}

// =============================================================================
// Helpers
// =============================================================================

// session returns the caller's session, creating it and setting the cookie
// when absent. A new session starts with the example drawn on a default
// surface.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (session, error) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if sess, ok := s.sessions.get(c.Value); ok {
			return sess, nil
		}
	}

	res, err := s.pass(r.Context(), bdd.ExampleText, s.startSize())
	if err != nil {
		return session{}, err
	}
	sess := s.sessions.create(session{
		Size:        res.Frame.Size,
		SVG:         res.Artifacts[pipeline.FormatSVG],
		Diagnostics: res.Diagnostics.Strings(),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("new session", "session", sess.ID)
	return sess, nil
}

func (s *Server) store(sess session, res *pipeline.Result) {
	sess.Size = res.Frame.Size
	sess.SVG = res.Artifacts[pipeline.FormatSVG]
	sess.Diagnostics = res.Diagnostics.Strings()
	s.sessions.put(sess)
}

// pass runs one svg pass on a surface of the given size.
func (s *Server) pass(ctx context.Context, nodes string, size pipeline.Size) (*pipeline.Result, error) {
	opts := s.base
	opts.Formats = []string{pipeline.FormatSVG}
	opts.Width = size.Width
	opts.Height = size.Height
	return s.runner.Execute(ctx, nodes, opts)
}

func (s *Server) startSize() pipeline.Size {
	size := pipeline.Size{Width: s.base.Width, Height: s.base.Height}
	if size.Width == 0 {
		size.Width = pipeline.DefaultWidth
	}
	if size.Height == 0 {
		size.Height = pipeline.DefaultHeight
	}
	return size
}

func (s *Server) limit() int {
	if s.maxInput > 0 {
		return s.maxInput
	}
	return errs.DefaultMaxInput
}

// fail writes err as plain text with the status its code maps to.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := errs.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	} else {
		s.logger.Debug("request rejected", "code", errs.GetCode(err), "err", err)
	}
	http.Error(w, errs.UserMessage(err), status)
}
