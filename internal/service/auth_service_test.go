package service

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"intern_hub_backend/internal/model"
	"intern_hub_backend/internal/repository"
	"intern_hub_backend/internal/testutil"
	"intern_hub_backend/internal/util"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

type fakeGoogle struct {
	profile *GoogleProfile
	err     error
}

func (f *fakeGoogle) AuthCodeURL(state string) string {
	return "https://accounts.example/auth?state=" + url.QueryEscape(state)
}

func (f *fakeGoogle) Exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	return f.profile, f.err
}

func (f *fakeGoogle) VerifyIDToken(ctx context.Context, idToken string) (*GoogleProfile, error) {
	return f.profile, f.err
}

const testSecret = "test-secret-with-at-least-32-characters"

func newAuthService(t *testing.T, google GoogleProvider) (*AuthService, *miniredis.Miniredis) {
	t.Helper()
	db := testutil.NewDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	svc := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewOAuthStateRepository(rdb),
		util.NewTokenIssuer(testSecret, time.Hour),
		google,
	)
	return svc, mr
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t, nil)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: " Ada@Example.com ", Password: "password123"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.User.Email != "ada@example.com" || reg.User.Role != model.Intern {
		t.Fatalf("user = %+v", reg.User)
	}
	if reg.User.Password == "password123" {
		t.Fatal("password stored in plain text")
	}

	if _, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "password123"}); !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("duplicate Register err = %v", err)
	}

	res, err := svc.Login(ctx, LoginInput{Email: "ADA@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	principal, err := svc.Tokens.Validate(res.Token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if principal.UserID != reg.User.ID || principal.Role != model.Intern {
		t.Fatalf("principal = %+v", principal)
	}

	for _, in := range []LoginInput{
		{Email: "ada@example.com", Password: "wrong-password"},
		{Email: "nobody@example.com", Password: "password123"},
	} {
		if _, err := svc.Login(ctx, in); !errors.Is(err, util.ErrInvalidCredentials) {
			t.Fatalf("Login(%s) err = %v, want invalid credentials", in.Email, err)
		}
	}
}

func TestGoogleCallbackCreatesUserOnce(t *testing.T) {
	google := &fakeGoogle{profile: &GoogleProfile{Email: "grace@example.com", EmailVerified: true, Name: "Grace", Picture: "https://img.example/g.png"}}
	svc, _ := newAuthService(t, google)
	ctx := context.Background()

	login := func() *AuthResult {
		t.Helper()
		authURL, err := svc.GoogleAuthURL(ctx)
		if err != nil {
			t.Fatalf("GoogleAuthURL: %v", err)
		}
		u, _ := url.Parse(authURL)
		res, err := svc.GoogleCallback(ctx, u.Query().Get("state"), "code")
		if err != nil {
			t.Fatalf("GoogleCallback: %v", err)
		}
		return res
	}

	first := login()
	second := login()
	if first.User.ID != second.User.ID {
		t.Fatalf("second login created a new user: %s vs %s", first.User.ID, second.User.ID)
	}
	if first.User.Provider == nil || *first.User.Provider != model.ProviderGoogle {
		t.Fatalf("provider = %v", first.User.Provider)
	}
	if first.User.Avatar == nil || *first.User.Avatar != "https://img.example/g.png" {
		t.Fatalf("avatar = %v", first.User.Avatar)
	}

	// 同一个 state 不能重复使用，伪造的 state 也被拒绝
	authURL, _ := svc.GoogleAuthURL(ctx)
	u, _ := url.Parse(authURL)
	state := u.Query().Get("state")
	if _, err := svc.GoogleCallback(ctx, state, "code"); err != nil {
		t.Fatalf("GoogleCallback: %v", err)
	}
	if _, err := svc.GoogleCallback(ctx, state, "code"); !errors.Is(err, util.ErrInvalidOAuthState) {
		t.Fatalf("reused state err = %v", err)
	}
	if _, err := svc.GoogleCallback(ctx, "forged", "code"); !errors.Is(err, util.ErrInvalidOAuthState) {
		t.Fatalf("forged state err = %v", err)
	}
}

func TestGoogleStateExpires(t *testing.T) {
	svc, mr := newAuthService(t, &fakeGoogle{profile: &GoogleProfile{Email: "grace@example.com", EmailVerified: true}})
	ctx := context.Background()

	authURL, err := svc.GoogleAuthURL(ctx)
	if err != nil {
		t.Fatalf("GoogleAuthURL: %v", err)
	}
	u, _ := url.Parse(authURL)
	mr.FastForward(util.OAuthStateTTL*time.Second + time.Second)

	if _, err := svc.GoogleCallback(ctx, u.Query().Get("state"), "code"); !errors.Is(err, util.ErrInvalidOAuthState) {
		t.Fatalf("expired state err = %v", err)
	}
}

func TestGoogleIDTokenRejected(t *testing.T) {
	svc, _ := newAuthService(t, &fakeGoogle{err: errors.New("bad audience")})

	if _, err := svc.GoogleIDTokenLogin(context.Background(), "token"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want invalid credentials", err)
	}
}

func TestGoogleUnverifiedEmailCannotTakeOverAccount(t *testing.T) {
	google := &fakeGoogle{profile: &GoogleProfile{Email: "admin@example.com", EmailVerified: false, Name: "Mallory"}}
	svc, _ := newAuthService(t, google)
	ctx := context.Background()

	admin := &model.User{Name: "Admin", Email: "admin@example.com", Role: model.Admin}
	if err := svc.UserRepo.Create(ctx, admin); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.GoogleIDTokenLogin(ctx, "token"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("id token err = %v, want invalid credentials", err)
	}

	authURL, err := svc.GoogleAuthURL(ctx)
	if err != nil {
		t.Fatalf("GoogleAuthURL: %v", err)
	}
	u, _ := url.Parse(authURL)
	if _, err := svc.GoogleCallback(ctx, u.Query().Get("state"), "code"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("callback err = %v, want invalid credentials", err)
	}

	// 未验证邮箱也不能借此注册新账号
	google.profile = &GoogleProfile{Email: "new@example.com"}
	if _, err := svc.GoogleIDTokenLogin(ctx, "token"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("new user err = %v, want invalid credentials", err)
	}
	if _, err := svc.UserRepo.FindByEmail(ctx, "new@example.com"); err == nil {
		t.Fatal("user created from unverified google email")
	}
}

func TestGoogleDisabled(t *testing.T) {
	svc, _ := newAuthService(t, nil)

	if _, err := svc.GoogleAuthURL(context.Background()); !errors.Is(err, util.ErrOAuthDisabled) {
		t.Fatalf("err = %v, want ErrOAuthDisabled", err)
	}
}
