package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/ssagnay/invitation/internal/auth"
	"github.com/ssagnay/invitation/internal/domain/rsvp"
	"github.com/ssagnay/invitation/internal/http/handlers"
	"github.com/ssagnay/invitation/internal/security"
)

type fakeLister struct {
	listFn func(ctx context.Context, limit int) ([]rsvp.Confirmation, error)
}

func (f fakeLister) List(ctx context.Context, limit int) ([]rsvp.Confirmation, error) {
	return f.listFn(ctx, limit)
}

func adminRouter(t *testing.T, lister handlers.ConfirmationLister) *gin.Engine {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("defensa-2026"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	checker, err := security.NewPasswordChecker(string(hash))
	if err != nil {
		t.Fatalf("checker: %v", err)
	}

	h := handlers.NewAdminHandler(lister, auth.NewManager("secret", time.Hour), checker, 3600, discardLogger())

	r := gin.New()
	r.POST("/api/admin/login", h.Login)
	r.GET("/api/admin/rsvps", h.ListConfirmations)
	return r
}

func TestAdminLogin(t *testing.T) {
	r := adminRouter(t, fakeLister{})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"ok", `{"password":"defensa-2026"}`, http.StatusOK},
		{"wrong password", `{"password":"nope"}`, http.StatusUnauthorized},
		{"missing password", `{}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Fatalf("got %d want %d body=%s", w.Code, tc.want, w.Body.String())
			}

			if tc.want == http.StatusOK {
				var resp struct {
					AccessToken string `json:"accessToken"`
				}
				_ = json.Unmarshal(w.Body.Bytes(), &resp)

				claims, err := auth.NewManager("secret", time.Hour).VerifyAccessToken(resp.AccessToken)
				if err != nil {
					t.Fatalf("issued token does not verify: %v", err)
				}
				if claims.Role != auth.RoleAdmin {
					t.Fatalf("role = %q", claims.Role)
				}
			}
		})
	}
}

func TestAdminListConfirmations(t *testing.T) {
	var gotLimit int
	items := []rsvp.Confirmation{rsvp.NewConfirmation("Maria Lopez", time.Now())}

	r := adminRouter(t, fakeLister{listFn: func(_ context.Context, limit int) ([]rsvp.Confirmation, error) {
		gotLimit = limit
		return items, nil
	}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/rsvps?limit=25", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("got %d", w.Code)
	}
	if gotLimit != 25 {
		t.Fatalf("limit = %d, want 25", gotLimit)
	}

	var resp struct {
		Count int                 `json:"count"`
		Items []rsvp.Confirmation `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if resp.Count != 1 || resp.Items[0].Name != "Maria Lopez" {
		t.Fatalf("unexpected response %+v", resp)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/rsvps?limit=abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: got %d", w.Code)
	}
}

func TestAdminListConfirmations_StoreFailure(t *testing.T) {
	r := adminRouter(t, fakeLister{listFn: func(context.Context, int) ([]rsvp.Confirmation, error) {
		return nil, &rsvp.PersistenceError{Op: "list", Err: errors.New("down")}
	}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/rsvps", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got %d", w.Code)
	}
}
