package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the production LogiScore backend.
const DefaultBaseURL = "https://logiscorebe.onrender.com"

const maxResponseBody = 1 << 20

// Client talks to the LogiScore backend. It is stateless apart from its
// configuration and safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes a Client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client, e.g. to inject a test
// transport or custom TLS configuration.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout sets the per-request timeout on the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// NewClient creates a Client for the given base URL. An empty baseURL selects
// [DefaultBaseURL].
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL this client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	op := method + " " + path

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode %s request: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return newError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("api: decode %s response: %w", path, err)
		}
	}
	return nil
}

// SendSigninCode requests a one-time sign-in code be emailed to an existing
// account.
func (c *Client) SendSigninCode(ctx context.Context, email string) (*CodeResponse, error) {
	var out CodeResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/send-signin-code", "", sendSigninCodeRequest{Email: email}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendSignupCode requests a one-time sign-up code for a new account.
func (c *Client) SendSignupCode(ctx context.Context, email string, userType UserType, companyName string) (*CodeResponse, error) {
	var out CodeResponse
	in := sendSignupCodeRequest{Email: email, UserType: userType, CompanyName: companyName}
	if err := c.do(ctx, http.MethodPost, "/api/auth/send-signup-code", "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifySigninCode exchanges an emailed sign-in code for a session.
func (c *Client) VerifySigninCode(ctx context.Context, email, code string) (*AuthResponse, error) {
	var out AuthResponse
	in := verifySigninRequest{Email: email, Code: code}
	if err := c.do(ctx, http.MethodPost, "/api/auth/verify-signin-code", "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifySignupCode exchanges an emailed sign-up code for a session, creating
// the account in the same call.
func (c *Client) VerifySignupCode(ctx context.Context, req VerifySignupRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/verify-signup-code", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signin authenticates with the legacy password endpoint.
func (c *Client) Signin(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	in := signinRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/users/signin", "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup creates an account with the legacy password endpoint.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/users/signup", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentUser fetches the account record for the bearer token.
func (c *Client) CurrentUser(ctx context.Context, token string) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/api/users/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges a near-expired token for a fresh one.
func (c *Client) Refresh(ctx context.Context, token string) (string, error) {
	var out refreshResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", token, nil, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", &Error{StatusCode: http.StatusBadGateway, Message: "The server is having trouble right now. Please try again later.", Detail: "refresh response missing access_token"}
	}
	return out.AccessToken, nil
}

// GitHubCallback exchanges a GitHub OAuth code for a session.
func (c *Client) GitHubCallback(ctx context.Context, code string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/users/github/callback", "", githubCallbackRequest{Code: code}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
