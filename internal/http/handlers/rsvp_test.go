package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ssagnay/invitation/internal/domain/rsvp"
	"github.com/ssagnay/invitation/internal/http/handlers"
	"github.com/ssagnay/invitation/internal/repo/memory"
	"github.com/ssagnay/invitation/internal/service"
)

// Make sure Gin does not spam the console during the test
func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// store that records inserts and can be told to fail
type fakeStore struct {
	insertErr error
	countErr  error
	inserted  []rsvp.Confirmation
}

func (f *fakeStore) Insert(_ context.Context, c rsvp.Confirmation) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, c)
	return nil
}

func (f *fakeStore) Count(context.Context) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return int64(len(f.inserted)), nil
}

func (f *fakeStore) List(context.Context, int) ([]rsvp.Confirmation, error) {
	return f.inserted, nil
}

func rsvpRouter(store service.RSVPStore) *gin.Engine {
	h := handlers.NewRSVPHandler(service.NewRSVPService(store), discardLogger())

	r := gin.New()
	r.POST("/api/rsvp", h.Confirm)
	r.GET("/api/rsvp", h.Count)
	return r
}

func do(r *gin.Engine, method, body string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}

	req := httptest.NewRequest(method, "/api/rsvp", rdr)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestConfirm_InvalidInputs(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"single char", `{"name": "A"}`},
		{"padded single char", `{"name": "   A   "}`},
		{"blank", `{"name": "    "}`},
		{"missing field", `{}`},
		{"null", `{"name": null}`},
		{"number", `{"name": 42}`},
		{"array", `{"name": ["Maria"]}`},
		{"object", `{"name": {"first": "Maria"}}`},
		{"not json", `name=Maria`},
		{"truncated json", `{"name": "Mar`},
		{"empty body", ``},
		{"json string body", `"Maria Lopez"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{}
			w := do(rsvpRouter(store), http.MethodPost, tc.body)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
			}

			var resp map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("bad json: %v", err)
			}
			if resp["error"] != "Por favor ingresa tu nombre completo." {
				t.Fatalf("unexpected error message %q", resp["error"])
			}
			if len(store.inserted) != 0 {
				t.Fatalf("expected zero inserts, got %d", len(store.inserted))
			}
		})
	}
}

func TestConfirm_ExactBodyForShortName(t *testing.T) {
	w := do(rsvpRouter(&fakeStore{}), http.MethodPost, `{"name": "A"}`)

	want := `{"error":"Por favor ingresa tu nombre completo."}`
	if w.Body.String() != want {
		t.Fatalf("got %s, want %s", w.Body.String(), want)
	}
}

func TestConfirm_Success(t *testing.T) {
	store := &fakeStore{}
	w := do(rsvpRouter(store), http.MethodPost, `{"name": "  Maria Lopez  "}`)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}

	if !resp.Success || len(resp.ID) != 24 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected exactly one insert, got %d", len(store.inserted))
	}
	if store.inserted[0].Name != "Maria Lopez" {
		t.Fatalf("stored name = %q", store.inserted[0].Name)
	}
	if store.inserted[0].ID != resp.ID {
		t.Fatalf("returned id %q does not match stored id %q", resp.ID, store.inserted[0].ID)
	}
}

func TestConfirm_StoreFailureHidesCause(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("server selection error: mongo-0:27017 refused")}
	w := do(rsvpRouter(store), http.MethodPost, `{"name": "Maria Lopez"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d", w.Code)
	}
	if w.Body.String() != `{"error":"Error al registrar. Intenta de nuevo."}` {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestCount_StoreFailure(t *testing.T) {
	store := &fakeStore{countErr: errors.New("connection refused")}
	w := do(rsvpRouter(store), http.MethodGet, "")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d", w.Code)
	}
	if w.Body.String() != `{"error":"Error al obtener datos."}` {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestCount_MatchesSuccessfulInserts(t *testing.T) {
	r := rsvpRouter(memory.NewRSVPRepo())

	bodies := []string{
		`{"name": "Maria Lopez"}`,
		`{"name": "Maria Lopez"}`, // duplicates are kept
		`{"name": "X"}`,           // rejected
		`{"name": "Luis Paz"}`,
	}

	ids := map[string]bool{}
	for _, b := range bodies {
		w := do(r, http.MethodPost, b)
		if w.Code == http.StatusOK {
			var resp struct{ ID string }
			_ = json.Unmarshal(w.Body.Bytes(), &resp)
			ids[resp.ID] = true
		}
	}

	if len(ids) != 3 {
		t.Fatalf("expected 3 distinct ids, got %d", len(ids))
	}

	w := do(r, http.MethodGet, "")
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}
	if w.Body.String() != `{"count":3}` {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}
