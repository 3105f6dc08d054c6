package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"intern_hub_backend/internal/config"
	"intern_hub_backend/internal/model"
	"intern_hub_backend/internal/testutil"
	"intern_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const testSecret = "router-test-secret"

type testEnv struct {
	app    *App
	db     *gorm.DB
	tokens *util.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0", Mode: "test", PublicURL: "http://localhost"},
		JWT:    config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour, CookieName: "token"},
		Storage: config.StorageConfig{
			Type:      util.StorageLocal,
			LocalPath: t.TempDir(),
		},
	}
	db := testutil.NewDB(t)

	return &testEnv{
		app:    New(cfg, db, nil),
		db:     db,
		tokens: util.NewTokenIssuer(testSecret, time.Hour),
	}
}

func (e *testEnv) token(t *testing.T, user *model.User) string {
	t.Helper()
	tok, err := e.tokens.Issue(user.ID, user.Role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.app.Router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d, body %s", w.Code, want, w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	expectStatus(t, w, http.StatusOK)
	if got := decode[map[string]interface{}](t, w); got["ok"] != true {
		t.Fatalf("unexpected health body %v", got)
	}
}

var ginParam = regexp.MustCompile(`:(\w+)`)

// 课程子路由在 gin 中以 :id 注册，文档中使用 {courseId}
func swaggerPath(ginPath string) string {
	if strings.HasPrefix(ginPath, "/api/courses/:id/") {
		ginPath = "/api/courses/:courseId/" + strings.TrimPrefix(ginPath, "/api/courses/:id/")
	}
	return ginParam.ReplaceAllString(ginPath, "{$1}")
}

func TestSwaggerDocumentsRegisteredRoutes(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/swagger/doc.json", "", nil)
	expectStatus(t, w, http.StatusOK)
	doc := decode[struct {
		BasePath string                                `json:"basePath"`
		Paths    map[string]map[string]json.RawMessage `json:"paths"`
	}](t, w)
	if doc.BasePath != "/" {
		t.Fatalf("basePath = %q, want /", doc.BasePath)
	}

	for _, r := range env.app.Router.Routes() {
		if r.Path == "/metrics" || strings.HasPrefix(r.Path, "/swagger/") || strings.HasPrefix(r.Path, "/uploads/") {
			continue
		}
		path := swaggerPath(r.Path)
		if _, ok := doc.Paths[path][strings.ToLower(r.Method)]; !ok {
			t.Errorf("%s %s not documented as %s", r.Method, r.Path, path)
		}
	}
}

func TestAuthGate(t *testing.T) {
	env := newTestEnv(t)
	intern := testutil.CreateUser(t, env.db, "intern", model.Intern)
	other := testutil.CreateUser(t, env.db, "other", model.Intern)
	admin := testutil.CreateUser(t, env.db, "admin", model.Admin)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"public course list", http.MethodGet, "/api/courses", "", http.StatusOK},
		{"public submission list", http.MethodGet, "/api/submissions", "", http.StatusOK},
		{"create course without token", http.MethodPost, "/api/courses", "", http.StatusUnauthorized},
		{"create course with garbage token", http.MethodPost, "/api/courses", "garbage", http.StatusUnauthorized},
		{"create course as intern", http.MethodPost, "/api/courses", env.token(t, intern), http.StatusForbidden},
		{"list users as intern", http.MethodGet, "/api/users", env.token(t, intern), http.StatusForbidden},
		{"list users as admin", http.MethodGet, "/api/users", env.token(t, admin), http.StatusOK},
		{"read own user", http.MethodGet, "/api/users/" + intern.ID, env.token(t, intern), http.StatusOK},
		{"read other user", http.MethodGet, "/api/users/" + other.ID, env.token(t, intern), http.StatusForbidden},
		{"read other evaluations", http.MethodGet, "/api/evaluations/intern/" + other.ID, env.token(t, intern), http.StatusForbidden},
		{"read own evaluations", http.MethodGet, "/api/evaluations/intern/" + intern.ID, env.token(t, intern), http.StatusOK},
		{"export as intern", http.MethodGet, "/api/evaluations/export", env.token(t, intern), http.StatusForbidden},
		{"me without token", http.MethodGet, "/api/auth/me", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, tt.token, map[string]string{"title": "x"})
			expectStatus(t, w, tt.want)
		})
	}
}

func TestUnauthenticatedBody(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/courses", "", map[string]string{"title": "x"})
	expectStatus(t, w, http.StatusUnauthorized)
	if got := decode[util.ErrorResponse](t, w); got.Error != "unauthenticated" {
		t.Fatalf("error = %q", got.Error)
	}
}

func TestCourseAndProgressFlow(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.CreateUser(t, env.db, "admin", model.Admin)
	intern := testutil.CreateUser(t, env.db, "intern", model.Intern)
	adminToken, internToken := env.token(t, admin), env.token(t, intern)

	w := env.do(t, http.MethodPost, "/api/courses", adminToken, map[string]interface{}{
		"title":   "Orbits",
		"lessons": []map[string]string{{"title": "L1"}},
	})
	expectStatus(t, w, http.StatusOK)
	course := decode[model.Course](t, w)
	if len(course.Lessons) != 1 || course.Lessons[0].Title != "L1" || course.Lessons[0].VideoURL != "" {
		t.Fatalf("unexpected lessons %+v", course.Lessons)
	}
	lessonID := course.Lessons[0].ID

	w = env.do(t, http.MethodGet, "/api/courses/"+course.ID+"/progress", internToken, nil)
	expectStatus(t, w, http.StatusOK)
	if got := decode[[]model.LessonProgress](t, w); len(got) != 0 {
		t.Fatalf("expected empty progress, got %+v", got)
	}

	completePath := "/api/courses/" + course.ID + "/lessons/" + lessonID + "/complete"
	for i := 0; i < 2; i++ {
		w = env.do(t, http.MethodPost, completePath, internToken, nil)
		expectStatus(t, w, http.StatusOK)
	}

	w = env.do(t, http.MethodGet, "/api/courses/"+course.ID+"/progress", internToken, nil)
	progress := decode[[]model.LessonProgress](t, w)
	if len(progress) != 1 || !progress[0].Completed || progress[0].LessonID != lessonID {
		t.Fatalf("unexpected progress %+v", progress)
	}

	w = env.do(t, http.MethodPost, "/api/courses/"+course.ID+"/lessons/missing/complete", internToken, nil)
	expectStatus(t, w, http.StatusNotFound)

	for i := 0; i < 2; i++ {
		w = env.do(t, http.MethodDelete, completePath, internToken, nil)
		expectStatus(t, w, http.StatusOK)
	}

	w = env.do(t, http.MethodDelete, "/api/courses/"+course.ID, adminToken, nil)
	expectStatus(t, w, http.StatusOK)
	if got := decode[util.SuccessResponse](t, w); !got.Success {
		t.Fatalf("expected success body, got %s", w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/courses/"+course.ID, "", nil)
	expectStatus(t, w, http.StatusNotFound)
	w = env.do(t, http.MethodDelete, "/api/courses/"+course.ID, adminToken, nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestLessonRoutesAreScopedToCourse(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.CreateUser(t, env.db, "admin", model.Admin)
	token := env.token(t, admin)
	a := testutil.CreateCourse(t, env.db, "A", "A1")
	b := testutil.CreateCourse(t, env.db, "B", "B1")

	w := env.do(t, http.MethodPut, "/api/courses/"+b.ID+"/lessons/"+a.Lessons[0].ID, token, map[string]string{"title": "moved"})
	expectStatus(t, w, http.StatusNotFound)

	w = env.do(t, http.MethodPut, "/api/courses/"+a.ID+"/lessons/"+a.Lessons[0].ID, token, map[string]string{"title": "renamed"})
	expectStatus(t, w, http.StatusOK)
	if got := decode[model.Lesson](t, w); got.Title != "renamed" {
		t.Fatalf("title = %q", got.Title)
	}

	w = env.do(t, http.MethodDelete, "/api/courses/"+a.ID+"/lessons/"+a.Lessons[0].ID, token, nil)
	expectStatus(t, w, http.StatusOK)
}

func TestProfileUpsertKeepsSingleRow(t *testing.T) {
	env := newTestEnv(t)
	intern := testutil.CreateUser(t, env.db, "intern", model.Intern)
	token := env.token(t, intern)
	path := "/api/users/" + intern.ID + "/profile"

	w := env.do(t, http.MethodPut, path, token, map[string]string{"university": "First"})
	expectStatus(t, w, http.StatusOK)
	w = env.do(t, http.MethodPut, path, token, map[string]string{"major": "Physics"})
	expectStatus(t, w, http.StatusOK)

	profile := decode[model.Profile](t, w)
	if profile.University == nil || *profile.University != "First" || profile.Major == nil || *profile.Major != "Physics" {
		t.Fatalf("unexpected profile %+v", profile)
	}

	var count int64
	env.db.Model(&model.Profile{}).Where("user_id = ?", intern.ID).Count(&count)
	if count != 1 {
		t.Fatalf("profile rows = %d, want 1", count)
	}
}

func TestRegisterLoginAndCookie(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ann", "email": "Ann@Example.com", "password": "password1",
	})
	expectStatus(t, w, http.StatusCreated)
	registered := decode[struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}](t, w)
	if registered.Token == "" || registered.User.Role != model.Intern || registered.User.Email != "ann@example.com" {
		t.Fatalf("unexpected register result %+v", registered)
	}

	w = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ann", "email": "ann@example.com", "password": "password1",
	})
	expectStatus(t, w, http.StatusConflict)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ann@example.com", "password": "wrong-pass"})
	expectStatus(t, w, http.StatusUnauthorized)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ann@example.com", "password": "password1"})
	expectStatus(t, w, http.StatusOK)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" {
			cookie = c
		}
	}
	if cookie == nil || !cookie.HttpOnly || cookie.Value == "" {
		t.Fatalf("expected HttpOnly token cookie, got %+v", cookie)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.app.Router.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusOK)
	if me := decode[model.User](t, rec); me.ID != registered.User.ID {
		t.Fatalf("me = %s, want %s", me.ID, registered.User.ID)
	}
}

func TestEvaluationScoreOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.CreateUser(t, env.db, "admin", model.Admin)
	intern := testutil.CreateUser(t, env.db, "intern", model.Intern)

	w := env.do(t, http.MethodPost, "/api/evaluations", env.token(t, admin), map[string]interface{}{
		"internId":       intern.ID,
		"punctuality":    6,
		"qualityOfWork":  4,
		"teamwork":       4,
		"problemSolving": 4,
	})
	expectStatus(t, w, http.StatusBadRequest)
	if got := decode[util.ErrorResponse](t, w); got.Fields["punctuality"] == "" {
		t.Fatalf("expected punctuality field error, got %+v", got)
	}
}

func TestSubmissionOwnership(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.CreateUser(t, env.db, "admin", model.Admin)
	owner := testutil.CreateUser(t, env.db, "owner", model.Intern)
	stranger := testutil.CreateUser(t, env.db, "stranger", model.External)

	w := env.do(t, http.MethodPost, "/api/submissions", env.token(t, owner), map[string]string{
		"title":    "Deforestation",
		"imageUrl": "https://example.com/a.png",
	})
	expectStatus(t, w, http.StatusOK)
	submission := decode[model.Submission](t, w)
	if submission.Status != model.SubmissionPending || submission.StudentID != owner.ID {
		t.Fatalf("unexpected submission %+v", submission)
	}
	path := "/api/submissions/" + submission.ID

	w = env.do(t, http.MethodPut, path, env.token(t, stranger), map[string]string{"title": "mine"})
	expectStatus(t, w, http.StatusForbidden)

	w = env.do(t, http.MethodPut, path, env.token(t, owner), map[string]string{"status": "published"})
	expectStatus(t, w, http.StatusForbidden)

	w = env.do(t, http.MethodPut, path, env.token(t, admin), map[string]string{"status": "published"})
	expectStatus(t, w, http.StatusOK)

	w = env.do(t, http.MethodGet, "/api/submissions?status=published", "", nil)
	expectStatus(t, w, http.StatusOK)
	list := decode[[]model.Submission](t, w)
	if len(list) != 1 || list[0].Student == nil || list[0].Student.Email != "owner@example.com" {
		t.Fatalf("unexpected list %+v", list)
	}

	w = env.do(t, http.MethodDelete, path, env.token(t, owner), nil)
	expectStatus(t, w, http.StatusOK)
}
