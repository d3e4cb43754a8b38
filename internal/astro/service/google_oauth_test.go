package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	apperr "github.com/AnthoniusHendriyanto/askastro-service/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestGoogleProvider(t *testing.T, token, userinfo http.HandlerFunc) *GoogleProvider {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", token)
	mux.HandleFunc("/userinfo", userinfo)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURL:  "https://askastro.test/api/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   srv.URL + "/auth",
				TokenURL:  srv.URL + "/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		userInfoURL: srv.URL + "/userinfo",
	}
}

func okToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"access_token":"access-1","token_type":"Bearer","expires_in":3600}`))
}

func TestGoogleProvider_Exchange(t *testing.T) {
	p := newTestGoogleProvider(t,
		func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "code-1", r.PostForm.Get("code"))
			assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
			okToken(w, r)
		},
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"email":"star@example.com","name":"Star","verified_email":true}`))
		})

	profile, err := p.Exchange(context.Background(), "code-1")
	require.NoError(t, err)
	assert.Equal(t, "star@example.com", profile.Email)
	assert.Equal(t, "Star", profile.Name)
	assert.True(t, profile.EmailVerified)
}

func TestGoogleProvider_Exchange_RejectedCode(t *testing.T) {
	p := newTestGoogleProvider(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("userinfo must not be called")
		})

	_, err := p.Exchange(context.Background(), "stale")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestGoogleProvider_Exchange_UserInfoFailure(t *testing.T) {
	p := newTestGoogleProvider(t, okToken, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := p.Exchange(context.Background(), "code-1")
	assert.ErrorIs(t, err, apperr.ErrUpstreamUnavailable)
	assert.Equal(t, http.StatusInternalServerError, apperr.UpstreamStatus(err))
}

func TestGoogleProvider_AuthCodeURL(t *testing.T) {
	p := NewGoogleProvider("client-id", "secret", "https://askastro.test/callback")

	u, err := url.Parse(p.AuthCodeURL("state-1"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "select_account", q.Get("prompt"))
	assert.Contains(t, q.Get("scope"), "email")
}
