// Package identity talks to the hosted Supabase auth (GoTrue) API. Users
// live there; this service never stores credentials.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jonesrussell/postcraft/infrastructure/circuitbreaker"
	infraerrors "github.com/jonesrussell/postcraft/infrastructure/errors"
	"github.com/jonesrussell/postcraft/infrastructure/logger"
	"github.com/jonesrussell/postcraft/internal/models"
)

var (
	// ErrNotConfigured is returned by every call when the project URL or
	// anon key is missing or still a placeholder.
	ErrNotConfigured = errors.New("identity provider not configured")
	// ErrInvalidCredentials is a 400/401 from the token endpoint.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized means the access token was rejected.
	ErrUnauthorized = errors.New("access token rejected")
)

const (
	authPath        = "/auth/v1"
	placeholderMark = "YOUR_"
	maxBody         = 1 << 20
)

// Config holds the Supabase project settings.
type Config struct {
	URL     string `env:"SUPABASE_URL"      yaml:"url"`
	AnonKey string `env:"SUPABASE_ANON_KEY" yaml:"anon_key"`
	// RedirectTo is sent with password reset emails.
	RedirectTo string `env:"SUPABASE_RESET_REDIRECT" yaml:"reset_redirect"`
}

// Configured reports whether URL and AnonKey look real.
func (c Config) Configured() bool {
	return isSet(c.URL) && isSet(c.AnonKey)
}

func isSet(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.HasPrefix(strings.ToUpper(v), placeholderMark)
}

// Session is a signed-in user's tokens.
type Session struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int         `json:"expires_in"`
	User         models.User `json:"user"`
}

// SignUpResult carries the new user. Session is nil when the project
// requires email confirmation.
type SignUpResult struct {
	User    models.User `json:"user"`
	Session *Session    `json:"session,omitempty"`
}

// Client is safe for concurrent use.
type Client struct {
	cfg     Config
	base    string
	http    *http.Client
	breaker *circuitbreaker.Breaker
	log     logger.Logger
}

// NewClient never fails. An unconfigured client answers ErrNotConfigured.
// breaker may be nil.
func NewClient(cfg Config, httpClient *http.Client, breaker *circuitbreaker.Breaker, log logger.Logger) *Client {
	return &Client{
		cfg:     cfg,
		base:    strings.TrimRight(strings.TrimSpace(cfg.URL), "/") + authPath,
		http:    httpClient,
		breaker: breaker,
		log:     log,
	}
}

// Enabled is false in demo mode.
func (c *Client) Enabled() bool { return c.cfg.Configured() }

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*SignUpResult, error) {
	var raw json.RawMessage
	if err := c.call(ctx, http.MethodPost, "/signup", "", credentials{Email: email, Password: password}, &raw); err != nil {
		return nil, err
	}

	// Auto-confirm projects answer with a session, otherwise the body is the user.
	if gjson.GetBytes(raw, "access_token").Exists() {
		var s Session
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode signup session: %w", err)
		}
		return &SignUpResult{User: s.User, Session: &s}, nil
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode signup user: %w", err)
	}
	if u.ID == "" {
		return nil, errors.New("signup response carried no user")
	}
	return &SignUpResult{User: u}, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	err := c.call(ctx, http.MethodPost, "/token?grant_type=password", "", credentials{Email: email, Password: password}, &s)
	if err != nil {
		var httpErr *infraerrors.HTTPError
		if errors.As(err, &httpErr) && (httpErr.StatusCode == http.StatusBadRequest || httpErr.Unauthorized()) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, httpErr.Message)
		}
		return nil, err
	}
	return &s, nil
}

// SignOut revokes the session behind accessToken.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.userCall(ctx, http.MethodPost, "/logout", accessToken, nil)
}

// CurrentUser resolves accessToken to its user.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	var u models.User
	if err := c.userCall(ctx, http.MethodGet, "/user", accessToken, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ResetPassword sends a recovery email. GoTrue answers 200 whether or not
// the address exists.
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	path := "/recover"
	if c.cfg.RedirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(c.cfg.RedirectTo)
	}
	return c.call(ctx, http.MethodPost, path, "", map[string]string{"email": email}, nil)
}

func (c *Client) userCall(ctx context.Context, method, path, accessToken string, out any) error {
	err := c.call(ctx, method, path, accessToken, nil, out)
	if infraerrors.StatusCode(err) == http.StatusUnauthorized || infraerrors.StatusCode(err) == http.StatusForbidden {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return err
}

func (c *Client) call(ctx context.Context, method, path, bearer string, in, out any) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}
	if c.breaker == nil {
		return c.do(ctx, method, path, bearer, in, out)
	}
	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.do(ctx, method, path, bearer, in, out)
	})
}

func (c *Client) do(ctx context.Context, method, path, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	if bearer == "" {
		bearer = c.cfg.AnonKey
	}
	req.Header.Set("apikey", c.cfg.AnonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("identity %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err = infraerrors.ParseHTTPError(resp); err != nil {
		c.log.Debug("Identity provider rejected request",
			logger.String("path", path),
			logger.Int("status", resp.StatusCode),
		)
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil
	}
	if err = json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// IsUpstreamFailure is the breaker's failure predicate: transport errors and
// 5xx count, client errors such as a bad password do not.
func IsUpstreamFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	code := infraerrors.StatusCode(err)
	return code == 0 || code >= http.StatusInternalServerError
}
