package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Torito9609/stirling-partitions-simulation/pkg/config"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/partition"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/session"
)

func newTestServer(t *testing.T) (*Server, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	srv := New(config.Default(), store, log.NewWithOptions(io.Discard, log.Options{}))
	return srv, store
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, data []byte) sessionView {
	t.Helper()
	var v sessionView
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode session view: %v\n%s", err, data)
	}
	return v
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doJSON(t, srv.Router(), http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	// Create.
	w := doJSON(t, router, http.MethodPost, "/api/v1/sessions", partition.Request{
		N: 4, Mode: partition.ModeExactK, K: 2,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	view := decodeView(t, w.Body.Bytes())
	if view.ID == "" || view.Index != 0 || view.Total != 7 {
		t.Fatalf("create view = %+v", view)
	}
	if view.Notation != "{ {1,2,3}, {4} }" {
		t.Errorf("notation = %q", view.Notation)
	}

	// Get.
	w = doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+view.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	// Next twice.
	var adv advanceResponse
	for i := 1; i <= 2; i++ {
		w = doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+view.ID+"/next", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("next status = %d: %s", w.Code, w.Body.String())
		}
		if err := json.Unmarshal(w.Body.Bytes(), &adv); err != nil {
			t.Fatalf("decode advance: %v", err)
		}
		if !adv.Moved || adv.Session.Index != int64(i) {
			t.Fatalf("advance %d = %+v", i, adv)
		}
	}
	if adv.Session.Notation != "{ {1,2}, {3,4} }" {
		t.Errorf("after two steps notation = %q", adv.Session.Notation)
	}

	// Previous.
	w = doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+view.ID+"/previous", nil)
	json.Unmarshal(w.Body.Bytes(), &adv)
	if !adv.Moved || adv.Session.Index != 1 {
		t.Fatalf("previous = %+v", adv)
	}

	// Previous at the first partition does not move.
	doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+view.ID+"/previous", nil)
	w = doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+view.ID+"/previous", nil)
	json.Unmarshal(w.Body.Bytes(), &adv)
	if adv.Moved || adv.Session.Index != 0 {
		t.Fatalf("previous at start = %+v", adv)
	}

	// Render the current partition.
	w = doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+view.ID+"/partition/render", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("render status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("render content type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "<svg") {
		t.Error("render body is not SVG")
	}

	// Delete.
	w = doJSON(t, router, http.MethodDelete, "/api/v1/sessions/"+view.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+view.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", w.Code)
	}
}

func TestSessionErrors(t *testing.T) {
	srv, store := newTestServer(t)
	router := srv.Router()

	t.Run("invalid request", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/sessions", partition.Request{
			N: 4, Mode: partition.ModeExactK, K: 9,
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "INVALID_REQUEST") {
			t.Errorf("body = %s", w.Body.String())
		}
	})

	t.Run("limit exceeded", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/sessions", partition.Request{
			N: config.Default().Limits.MaxN + 1, Mode: partition.ModeAll,
		})
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("not found", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/sessions/does-not-exist", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "SESSION_NOT_FOUND") {
			t.Errorf("body = %s", w.Body.String())
		}
	})

	t.Run("expired", func(t *testing.T) {
		c, err := partition.First(partition.Request{N: 3, Mode: partition.ModeAll})
		if err != nil {
			t.Fatal(err)
		}
		sess := session.New(c, time.Minute)
		sess.ExpiresAt = time.Now().Add(-time.Minute)
		if err := store.Set(context.Background(), sess); err != nil {
			t.Fatal(err)
		}
		w := doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+sess.ID, nil)
		if w.Code != http.StatusGone {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "SESSION_EXPIRED") {
			t.Errorf("body = %s", w.Body.String())
		}
	})
}

func TestCount(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	tests := []struct {
		query string
		want  int64
	}{
		{"n=5&mode=all", 52},
		{"n=5&mode=exact&k=3", 25},
		{"n=5&mode=range&kmin=2&kmax=3", 40},
	}
	for _, tt := range tests {
		w := doJSON(t, router, http.MethodGet, "/api/v1/count?"+tt.query, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status = %d: %s", tt.query, w.Code, w.Body.String())
		}
		var resp struct {
			Count int64 `json:"count"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: %v", tt.query, err)
		}
		if resp.Count != tt.want {
			t.Errorf("%s: count = %d, want %d", tt.query, resp.Count, tt.want)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/count?n=5&mode=zigzag", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad mode status = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/api/v1/count?n=abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("non-integer n status = %d", w.Code)
	}
}

func TestTreeEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	t.Run("tree", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/tree?n=4&k=2", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		var doc struct {
			N     int   `json:"n"`
			K     int   `json:"k"`
			Value int64 `json:"value"`
			Nodes []any `json:"nodes"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
			t.Fatal(err)
		}
		if doc.N != 4 || doc.K != 2 || doc.Value != 7 || len(doc.Nodes) != 11 {
			t.Errorf("tree = %+v", doc)
		}
	})

	t.Run("trace", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/tree/trace?n=3&k=2&order=bfs", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		var doc struct {
			Order  string `json:"order"`
			Events []struct {
				Index  int `json:"index"`
				Parent int `json:"parent"`
			} `json:"events"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
			t.Fatal(err)
		}
		if doc.Order != "bfs" || len(doc.Events) != 5 {
			t.Errorf("trace = %+v", doc)
		}
		if doc.Events[0].Index != 0 || doc.Events[0].Parent != -1 {
			t.Errorf("first event = %+v", doc.Events[0])
		}
	})

	t.Run("trace bad order", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/tree/trace?n=3&k=2&order=spiral", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "INVALID_ORDER") {
			t.Errorf("body = %s", w.Body.String())
		}
	})

	t.Run("render dot", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/tree/render?n=4&k=2&format=dot&steps=2", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		body := w.Body.String()
		if !strings.HasPrefix(body, "digraph S {") {
			t.Errorf("body = %s", body)
		}
		if strings.Contains(body, "n2") {
			t.Errorf("steps clip ignored:\n%s", body)
		}
	})

	t.Run("render bad format", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/tree/render?n=4&k=2&format=png", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("tree limit", func(t *testing.T) {
		n := config.Default().Limits.MaxTreeN + 1
		w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/tree?n=%d&k=2", n), nil)
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("invalid pair", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/tree?n=2&k=5", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
	})
}
