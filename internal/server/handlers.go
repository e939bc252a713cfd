package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/Torito9609/stirling-partitions-simulation/pkg/errors"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/observability"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/partition"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/pipeline"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/render/circle"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/render/dot"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/session"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/stirling"
)

// sessionView is the API representation of an enumeration session at its
// current position.
type sessionView struct {
	ID        string            `json:"id"`
	Request   partition.Request `json:"request"`
	Index     int64             `json:"index"`
	Total     int64             `json:"total"`
	RGS       partition.RGS     `json:"rgs"`
	Blocks    [][]int           `json:"blocks"`
	NumBlocks int               `json:"num_blocks"`
	Notation  string            `json:"notation"`
	ExpiresAt time.Time         `json:"expires_at"`
}

func newSessionView(sess *session.Session, c *partition.Cursor) (sessionView, error) {
	total, err := partition.Count(sess.Request)
	if err != nil {
		return sessionView{}, err
	}
	r := c.RGS()
	return sessionView{
		ID:        sess.ID,
		Request:   sess.Request,
		Index:     c.Index(),
		Total:     total,
		RGS:       r,
		Blocks:    r.Blocks(),
		NumBlocks: r.NumBlocks(),
		Notation:  r.String(),
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req partition.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, apperrors.New(apperrors.ErrCodeInvalidRequest, "malformed request body: %v", err))
		return
	}
	if req.N > s.cfg.Limits.MaxN {
		s.respondError(w, apperrors.New(apperrors.ErrCodeLimitExceeded, "n = %d exceeds limit %d", req.N, s.cfg.Limits.MaxN))
		return
	}

	c, err := partition.First(req)
	if err != nil {
		s.respondError(w, err)
		return
	}
	observability.Enumerator().OnFirst(r.Context(), req.Mode.String(), req.N, req.K)

	sess := session.New(c, s.cfg.Session.TTL.Std())
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.respondError(w, apperrors.Wrap(apperrors.ErrCodeStore, err, "storing session"))
		return
	}

	view, err := newSessionView(sess, c)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, c, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	view, err := newSessionView(sess, c)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.respondError(w, apperrors.Wrap(apperrors.ErrCodeStore, err, "deleting session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// advanceResponse reports a step and the position after it. When moved is
// false the cursor was already at the boundary and the position is unchanged.
type advanceResponse struct {
	Moved   bool        `json:"moved"`
	Session sessionView `json:"session"`
}

func (s *Server) handleAdvance(direction string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, c, ok := s.loadSession(w, r)
		if !ok {
			return
		}

		var moved bool
		if direction == "next" {
			moved = c.Next()
		} else {
			moved = c.Prev()
		}
		observability.Enumerator().OnAdvance(r.Context(), direction, moved)

		if moved {
			sess.Update(c)
			sess.ExpiresAt = time.Now().Add(s.cfg.Session.TTL.Std())
			if err := s.store.Set(r.Context(), sess); err != nil {
				s.respondError(w, apperrors.Wrap(apperrors.ErrCodeStore, err, "storing session"))
				return
			}
		}

		view, err := newSessionView(sess, c)
		if err != nil {
			s.respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, advanceResponse{Moved: moved, Session: view})
	}
}

func (s *Server) handleRenderPartition(w http.ResponseWriter, r *http.Request) {
	_, c, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	rgs := c.RGS()
	svg := circle.Render(rgs, circle.Options{Title: rgs.String()})
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromQuery(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if req.N > s.cfg.Limits.MaxN {
		s.respondError(w, apperrors.New(apperrors.ErrCodeLimitExceeded, "n = %d exceeds limit %d", req.N, s.cfg.Limits.MaxN))
		return
	}
	total, err := partition.Count(req)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"request": req,
		"count":   total,
	})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	tree, ok := s.buildTree(w, r)
	if !ok {
		return
	}
	tree.Resolve()
	data, err := pipeline.MarshalTree(tree)
	if err != nil {
		s.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	tree, ok := s.buildTree(w, r)
	if !ok {
		return
	}
	order, err := parseOrder(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	tree.Resolve()

	events := tree.Trace(order).Events()
	type eventView struct {
		Index  int    `json:"index"`
		N      int    `json:"n"`
		K      int    `json:"k"`
		Kind   string `json:"kind"`
		Value  int64  `json:"value"`
		Parent int    `json:"parent"`
		Term   string `json:"term,omitempty"`
	}
	out := make([]eventView, 0, len(events))
	for _, ev := range events {
		out = append(out, eventView{
			Index:  ev.Index,
			N:      ev.Node.N,
			K:      ev.Node.K,
			Kind:   ev.Node.Kind.String(),
			Value:  ev.Node.Value,
			Parent: ev.Parent,
			Term:   ev.Term.String(),
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"order":  order.String(),
		"events": out,
	})
}

func (s *Server) handleRenderTree(w http.ResponseWriter, r *http.Request) {
	tree, ok := s.buildTree(w, r)
	if !ok {
		return
	}
	order, err := parseOrder(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	steps, err := queryInt(r, "steps", 0)
	if err != nil {
		s.respondError(w, err)
		return
	}
	tree.Resolve()

	src := dot.ToDOT(tree, dot.Options{Steps: steps, Order: order})
	switch format := r.URL.Query().Get("format"); format {
	case "", "svg":
		svg, err := dot.RenderSVG(src)
		if err != nil {
			s.respondError(w, apperrors.Wrap(apperrors.ErrCodeRender, err, "rendering tree"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(svg)
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		w.Write([]byte(src))
	default:
		s.respondError(w, apperrors.New(apperrors.ErrCodeInvalidFormat, "format %q (must be svg or dot)", format))
	}
}

// loadSession fetches the session named in the URL and rebuilds its cursor.
// On failure it writes the error response and returns ok = false.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, *partition.Cursor, bool) {
	id := chi.URLParam(r, "id")
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrExpired) {
			s.respondError(w, apperrors.New(apperrors.ErrCodeSessionExpired, "session %s expired", id))
		} else {
			s.respondError(w, apperrors.Wrap(apperrors.ErrCodeStore, err, "loading session"))
		}
		return nil, nil, false
	}
	if sess == nil {
		s.respondError(w, apperrors.New(apperrors.ErrCodeSessionNotFound, "session %s not found", id))
		return nil, nil, false
	}
	c, err := sess.Cursor()
	if err != nil {
		s.respondError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "restoring cursor"))
		return nil, nil, false
	}
	return sess, c, true
}

// buildTree parses n and k from the query and expands the recursion tree,
// applying the configured tree size limit.
func (s *Server) buildTree(w http.ResponseWriter, r *http.Request) (*stirling.Tree, bool) {
	n, err := queryInt(r, "n", -1)
	if err != nil {
		s.respondError(w, err)
		return nil, false
	}
	k, err := queryInt(r, "k", -1)
	if err != nil {
		s.respondError(w, err)
		return nil, false
	}
	if n > s.cfg.Limits.MaxTreeN {
		s.respondError(w, apperrors.New(apperrors.ErrCodeLimitExceeded, "n = %d exceeds tree limit %d", n, s.cfg.Limits.MaxTreeN))
		return nil, false
	}
	tree, err := stirling.Build(n, k)
	if err != nil {
		s.respondError(w, err)
		return nil, false
	}
	return tree, true
}

// requestFromQuery builds an enumeration request from query parameters:
// n, mode (all|exact|range), k, kmin, kmax.
func requestFromQuery(r *http.Request) (partition.Request, error) {
	var req partition.Request

	n, err := queryInt(r, "n", -1)
	if err != nil {
		return req, err
	}
	req.N = n

	if modeStr := r.URL.Query().Get("mode"); modeStr != "" {
		mode, err := partition.ParseMode(modeStr)
		if err != nil {
			return req, err
		}
		req.Mode = mode
	}

	if req.K, err = queryInt(r, "k", 0); err != nil {
		return req, err
	}
	if req.KMin, err = queryInt(r, "kmin", 0); err != nil {
		return req, err
	}
	if req.KMax, err = queryInt(r, "kmax", 0); err != nil {
		return req, err
	}
	return req, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.New(apperrors.ErrCodeInvalidRequest, "parameter %s = %q is not an integer", name, raw)
	}
	return v, nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error struct {
		Code    apperrors.Code `json:"code"`
		Message string         `json:"message"`
	} `json:"error"`
}

// respondError maps any error onto the envelope. Structured errors keep
// their code; sentinel errors from the core packages are translated first.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		switch {
		case errors.Is(err, partition.ErrInvalidRequest), errors.Is(err, stirling.ErrInvalidRequest):
			code = apperrors.ErrCodeInvalidRequest
		case errors.Is(err, partition.ErrUnknownMode):
			code = apperrors.ErrCodeInvalidMode
		case errors.Is(err, stirling.ErrUnknownOrder):
			code = apperrors.ErrCodeInvalidOrder
		default:
			code = apperrors.ErrCodeInternal
		}
	}

	status := apperrors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
	}

	var resp errorResponse
	resp.Error.Code = code
	resp.Error.Message = apperrors.UserMessage(err)
	respondJSON(w, status, resp)
}

func parseOrder(r *http.Request) (stirling.Order, error) {
	raw := r.URL.Query().Get("order")
	if raw == "" {
		return stirling.OrderDFS, nil
	}
	order, err := stirling.ParseOrder(raw)
	if err != nil {
		return 0, fmt.Errorf("order: %w", err)
	}
	return order, nil
}
