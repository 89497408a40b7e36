package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
)

// Config points the client at the identity provider's OAuth endpoints.
type Config struct {
	TokenURL     string
	UserInfoURL  string
	SignOutURL   string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Timeout      time.Duration
}

// Token is the provider's response to an authorization-code exchange.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// UserInfo carries the provider attributes needed to provision a local user.
type UserInfo struct {
	Sub               string `json:"sub"`
	GivenName         string `json:"given_name"`
	FamilyName        string `json:"family_name"`
	Email             string `json:"email"`
	Username          string `json:"username"`
	PreferredUsername string `json:"preferred_username"`
}

// ResolveUsername picks the provider's username attribute, falling back to
// the subject identifier when the provider omits one.
func (u *UserInfo) ResolveUsername() string {
	switch {
	case u == nil:
		return ""
	case u.Username != "":
		return u.Username
	case u.PreferredUsername != "":
		return u.PreferredUsername
	default:
		return u.Sub
	}
}

// Client talks to the external identity provider. The exchange itself is a
// thin pass-through; failures map onto the domain error taxonomy.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// ExchangeCode swaps an authorization code for provider tokens.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("code", code)
	form.Set("redirect_uri", c.cfg.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.cfg.ClientSecret != "" {
		req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	}

	var token Token
	if err := c.do(req, &token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, domain.NewError(domain.ErrCodeUnauthorized, "invalid authorization code")
	}
	return &token, nil
}

// UserInfo fetches the provider attributes for the given access token.
func (c *Client) UserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var info UserInfo
	if err := c.do(req, &info); err != nil {
		return nil, err
	}
	if info.Sub == "" {
		return nil, domain.NewError(domain.ErrCodeUnauthorized, "failed to retrieve user information")
	}
	return &info, nil
}

// SignOut revokes the access token at the provider.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.SignOutURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "identity provider unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "identity provider response read failed", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest:
		c.logger.Warn("identity provider rejected request",
			zap.Int("status", resp.StatusCode), zap.String("url", req.URL.Path))
		return domain.NewError(domain.ErrCodeUnauthorized, "identity provider rejected the request")
	case resp.StatusCode >= 300:
		return domain.NewError(domain.ErrCodeInternal,
			fmt.Sprintf("identity provider returned status %d", resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "identity provider response malformed", err)
	}
	return nil
}
