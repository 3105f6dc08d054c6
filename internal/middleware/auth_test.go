package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"intern_hub_backend/internal/model"
	"intern_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const testSecret = "middleware-secret-with-32-characters!!"

func newRouter(tokens *util.TokenIssuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	protected := r.Group("/", AuthMiddleware(tokens, "token"))
	protected.GET("/me", func(c *gin.Context) {
		p, _ := util.GetPrincipal(c)
		fromCtx, _ := util.PrincipalFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"userId": p.UserID, "ctxUserId": fromCtx.UserID})
	})
	protected.DELETE("/courses/:id", RoleMiddleware(model.Admin), func(c *gin.Context) {
		util.OK(c)
	})
	return r
}

func do(r http.Handler, method, path string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body util.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body.Error
}

func TestAuthGate(t *testing.T) {
	tokens := util.NewTokenIssuer(testSecret, time.Hour)
	r := newRouter(tokens)

	internToken, _ := tokens.Issue("intern-1", model.Intern)
	adminToken, _ := tokens.Issue("admin-1", model.Admin)

	past := time.Now().Add(-2 * time.Hour)
	expired, _ := util.NewTokenIssuer(testSecret, time.Hour).WithClock(func() time.Time { return past }).Issue("intern-1", model.Intern)
	foreign, _ := util.NewTokenIssuer("another-secret-with-32-characters!!!!", time.Hour).Issue("intern-1", model.Intern)

	bearer := func(token string) func(*http.Request) {
		return func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) }
	}

	cases := []struct {
		name    string
		method  string
		path    string
		mutate  func(*http.Request)
		status  int
		message string
	}{
		{"no token", http.MethodGet, "/me", nil, http.StatusUnauthorized, "unauthenticated"},
		{"expired token", http.MethodGet, "/me", bearer(expired), http.StatusUnauthorized, "invalid token"},
		{"foreign key", http.MethodGet, "/me", bearer(foreign), http.StatusUnauthorized, "invalid token"},
		{"garbage", http.MethodGet, "/me", bearer("not-a-jwt"), http.StatusUnauthorized, "invalid token"},
		{"valid header", http.MethodGet, "/me", bearer(internToken), http.StatusOK, ""},
		{"valid cookie", http.MethodGet, "/me", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "token", Value: internToken})
		}, http.StatusOK, ""},
		{"intern on admin route", http.MethodDelete, "/courses/c1", bearer(internToken), http.StatusForbidden, "forbidden"},
		{"admin on admin route", http.MethodDelete, "/courses/c1", bearer(adminToken), http.StatusOK, ""},
		{"no token on admin route", http.MethodDelete, "/courses/c1", nil, http.StatusUnauthorized, "unauthenticated"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.path, tt.mutate)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
			if tt.message != "" {
				if got := errorBody(t, w); got != tt.message {
					t.Fatalf("error = %q, want %q", got, tt.message)
				}
			}
		})
	}
}

func TestPrincipalReachesRequestContext(t *testing.T) {
	tokens := util.NewTokenIssuer(testSecret, time.Hour)
	r := newRouter(tokens)
	token, _ := tokens.Issue("intern-1", model.Intern)

	w := do(r, http.MethodGet, "/me", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) })
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["userId"] != "intern-1" || body["ctxUserId"] != "intern-1" {
		t.Fatalf("body = %v", body)
	}
}

type countingRecorder struct {
	mu    sync.Mutex
	calls map[string]int
}

func (r *countingRecorder) TouchLastSeen(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[userID]++
	return nil
}

func TestActivityMiddlewareThrottles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := util.NewTokenIssuer(testSecret, time.Hour)
	recorder := &countingRecorder{calls: map[string]int{}}

	r := gin.New()
	r.GET("/ping", AuthMiddleware(tokens, ""), ActivityMiddleware(recorder, time.Hour), func(c *gin.Context) {
		util.OK(c)
	})

	token, _ := tokens.Issue("intern-1", model.Intern)
	for i := 0; i < 3; i++ {
		w := do(r, http.MethodGet, "/ping", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) })
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
	}
	if recorder.calls["intern-1"] != 1 {
		t.Fatalf("TouchLastSeen calls = %d, want 1", recorder.calls["intern-1"])
	}
}
