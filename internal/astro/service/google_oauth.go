package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	apperr "github.com/AnthoniusHendriyanto/askastro-service/internal/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// OAuthProfile is the identity returned by the sign-in provider.
type OAuthProfile struct {
	Email         string
	Name          string
	EmailVerified bool
}

// GoogleProvider implements OAuthProvider with Google's OAuth 2.0 endpoints.
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: GoogleUserInfoURL,
	}
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*OAuthProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.Response != nil && rerr.Response.StatusCode < 500 {
			return nil, apperr.E("oauth.exchange", apperr.ErrUnauthorized, err)
		}
		return nil, apperr.Upstream("oauth.exchange", 0, err)
	}

	resp, err := p.config.Client(ctx, token).Get(p.userInfoURL)
	if err != nil {
		return nil, apperr.Upstream("oauth.userinfo", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Upstream("oauth.userinfo", resp.StatusCode, fmt.Errorf("google API returned status %d", resp.StatusCode))
	}

	var data struct {
		Email         string `json:"email"`
		Name          string `json:"name"`
		VerifiedEmail bool   `json:"verified_email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, apperr.Upstream("oauth.userinfo", resp.StatusCode, fmt.Errorf("failed to decode Google user response: %w", err))
	}

	return &OAuthProfile{Email: data.Email, Name: data.Name, EmailVerified: data.VerifiedEmail}, nil
}
