package captcha_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AnthoniusHendriyanto/askastro-service/internal/captcha"
	apperr "github.com/AnthoniusHendriyanto/askastro-service/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "secret-key", r.PostForm.Get("secret"))

		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("response") == "good-token" {
			assert.Equal(t, "1.2.3.4", r.PostForm.Get("remoteip"))
			_, _ = w.Write([]byte(`{"success":true}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer srv.Close()

	v := captcha.NewVerifier("secret-key", captcha.WithVerifyURL(srv.URL))

	ok, err := v.Verify(context.Background(), "good-token", "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Verify(context.Background(), "bad-token", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	v := captcha.NewVerifier("secret-key", captcha.WithVerifyURL(srv.URL))
	_, err := v.Verify(context.Background(), "token", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrUpstreamUnavailable))
}
