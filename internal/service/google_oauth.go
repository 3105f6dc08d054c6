package service

import (
	"context"
	"errors"

	"intern_hub_backend/internal/config"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// GoogleProfile Google 账号中登录需要的字段
type GoogleProfile struct {
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// GoogleProvider Google 登录的两种方式：授权码回调与前端拿到的 ID Token
type GoogleProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*GoogleProfile, error)
	VerifyIDToken(ctx context.Context, idToken string) (*GoogleProfile, error)
}

var errGoogleEmailUnverified = errors.New("google email is not verified")

type GoogleOAuth struct {
	Config   *oauth2.Config
	verifier googleAuthIDTokenVerifier.Verifier
}

func NewGoogleOAuth(cfg config.GoogleOAuthConfig) *GoogleOAuth {
	return &GoogleOAuth{
		Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				oauth2api.UserinfoEmailScope,
				oauth2api.UserinfoProfileScope,
			},
			Endpoint: google.Endpoint,
		},
	}
}

func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.Config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	token, err := g.Config.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(g.Config.TokenSource(ctx, token)))
	if err != nil {
		return nil, err
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	verified := info.VerifiedEmail != nil && *info.VerifiedEmail
	if !verified {
		return nil, errGoogleEmailUnverified
	}

	return &GoogleProfile{Email: info.Email, EmailVerified: verified, Name: info.Name, Picture: info.Picture}, nil
}

func (g *GoogleOAuth) VerifyIDToken(ctx context.Context, idToken string) (*GoogleProfile, error) {
	if err := g.verifier.VerifyIDToken(idToken, []string{g.Config.ClientID}); err != nil {
		return nil, err
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, err
	}
	if !claimSet.EmailVerified {
		return nil, errGoogleEmailUnverified
	}
	return &GoogleProfile{Email: claimSet.Email, EmailVerified: true, Name: claimSet.Name, Picture: claimSet.Picture}, nil
}
