package util

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type bindSample struct {
	Title string  `json:"title" binding:"required,min=1"`
	Email string  `json:"email" binding:"omitempty,email"`
	Score *int    `json:"score" binding:"required"`
	Items []child `json:"items" binding:"omitempty,dive"`
}

type child struct {
	Name string `json:"name" binding:"required"`
}

func bind(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var v bindSample
	return BindJSON(c, &v)
}

func TestBindJSONFieldNames(t *testing.T) {
	err := bind(t, `{"email":"nope","items":[{"name":""}]}`)
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	for _, field := range []string{"title", "email", "score", "items[0].name"} {
		if _, ok := ve.Fields[field]; !ok {
			t.Errorf("missing field error for %q in %v", field, ve.Fields)
		}
	}
}

func TestBindJSONTypeAndSyntax(t *testing.T) {
	err := bind(t, `{"title":"x","score":"high"}`)
	ve, ok := err.(*ValidationError)
	if !ok || ve.Fields["score"] == "" {
		t.Fatalf("expected score type error, got %v", err)
	}

	err = bind(t, `{"title":`)
	ve, ok = err.(*ValidationError)
	if !ok || ve.Fields["body"] == "" {
		t.Fatalf("expected body error, got %v", err)
	}
}

func TestBindJSONValid(t *testing.T) {
	if err := bind(t, `{"title":"x","score":0,"items":[{"name":"a"}]}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
