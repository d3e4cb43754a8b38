// Package captcha verifies Google reCAPTCHA tokens.
package captcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperr "github.com/AnthoniusHendriyanto/askastro-service/internal/errors"
)

const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

type Verifier struct {
	secret    string
	verifyURL string
	http      *http.Client
}

type Option func(*Verifier)

func WithVerifyURL(u string) Option {
	return func(v *Verifier) { v.verifyURL = u }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(v *Verifier) { v.http = hc }
}

func NewVerifier(secret string, opts ...Option) *Verifier {
	v := &Verifier{
		secret:    secret,
		verifyURL: DefaultVerifyURL,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify reports whether token passed verification. remoteIP is optional.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, apperr.Upstream("captcha.verify", 0, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.http.Do(req)
	if err != nil {
		return false, apperr.Upstream("captcha.verify", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, apperr.Upstream("captcha.verify", resp.StatusCode, nil)
	}

	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, apperr.Upstream("captcha.verify", resp.StatusCode, err)
	}
	return out.Success, nil
}
