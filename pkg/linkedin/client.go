// Package linkedin talks to LinkedIn's OAuth and member APIs.
package linkedin

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
	"time"

	"golang.org/x/oauth2"
)

const (
	// AuthURL LinkedIn 授权页面
	AuthURL = "https://www.linkedin.com/oauth/v2/authorization"
	// TokenURL 授权码/刷新令牌交换端点
	TokenURL = "https://www.linkedin.com/oauth/v2/accessToken"
	// APIBase 成员 API 基础地址
	APIBase = "https://api.linkedin.com/v2"

	// DefaultExpiresIn LinkedIn 未返回 expires_in 时使用的默认值（秒）
	DefaultExpiresIn = 3600

	restliProtocolVersion = "2.0.0"
	maxErrorBody          = 4096
)

// DefaultScopes are requested on every authorization.
var DefaultScopes = []string{"openid", "profile", "email", "w_member_social"}

// ErrInvalidResponse is returned when a success response lacks a required field.
var ErrInvalidResponse = errors.New("linkedin: response missing required field")

// UpstreamError is returned for any non-success HTTP status from LinkedIn.
// Body is for server-side logs only.
type UpstreamError struct {
	Op     string
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("linkedin %s failed [%d]: %s", e.Op, e.Status, e.Body)
}

// Tokens is the token triple issued by LinkedIn.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Profile is the member identity from the OIDC userinfo endpoint.
type Profile struct {
	ExternalID string
	Name       string
	Email      string
	Avatar     string
}

// Config configures a Client. Empty URLs fall back to LinkedIn production endpoints.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	AuthURL      string
	TokenURL     string
	APIBase      string
	HTTPClient   *http.Client
}

// Client is the LinkedIn identity provider client. Calls are single-shot.
type Client struct {
	oauth   *oauth2.Config
	apiBase string
	http    *http.Client
}

// NewClient creates a LinkedIn client.
func NewClient(cfg Config) *Client {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   orDefault(cfg.AuthURL, AuthURL),
				TokenURL:  orDefault(cfg.TokenURL, TokenURL),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		apiBase: strings.TrimSuffix(orDefault(cfg.APIBase, APIBase), "/"),
		http:    httpClient,
	}
}

// AuthCodeURL builds the authorization redirect for the given CSRF state.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// ExchangeCode trades an authorization code for tokens.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Tokens, error) {
	tok, err := c.oauth.Exchange(c.oauthContext(ctx), code)
	if err != nil {
		return nil, tokenError("token exchange", err)
	}
	return toTokens(tok)
}

// Refresh trades a refresh token for a new token triple.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("linkedin token refresh: %w", ErrInvalidResponse)
	}

	src := c.oauth.TokenSource(c.oauthContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, tokenError("token refresh", err)
	}
	return toTokens(tok)
}

type userInfoResponse struct {
	Sub        string `json:"sub"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email"`
	Picture    string `json:"picture"`
}

// FetchProfile loads the member's profile with an access token.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/userinfo", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	body, err := c.do(req, "userinfo")
	if err != nil {
		return nil, err
	}

	var info userInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("linkedin userinfo: decode response: %w", err)
	}
	if info.Sub == "" {
		return nil, fmt.Errorf("linkedin userinfo: sub: %w", ErrInvalidResponse)
	}

	name := info.Name
	if name == "" {
		name = strings.TrimSpace(info.GivenName + " " + info.FamilyName)
	}

	return &Profile{
		ExternalID: info.Sub,
		Name:       name,
		Email:      info.Email,
		Avatar:     info.Picture,
	}, nil
}

type ugcPost struct {
	Author          string         `json:"author"`
	LifecycleState  string         `json:"lifecycleState"`
	SpecificContent map[string]any `json:"specificContent"`
	Visibility      map[string]any `json:"visibility"`
}

// Publish creates a public text post on behalf of the member and returns its URN.
func (c *Client) Publish(ctx context.Context, accessToken, externalID, content string) (string, error) {
	payload, err := json.Marshal(ugcPost{
		Author:         "urn:li:person:" + externalID,
		LifecycleState: "PUBLISHED",
		SpecificContent: map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]string{"text": content},
				"shareMediaCategory": "NONE",
			},
		},
		Visibility: map[string]any{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/ugcPosts", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", restliProtocolVersion)

	resp, body, err := c.doWithResponse(req, "publish post")
	if err != nil {
		return "", err
	}

	var out struct {
		ID string `json:"id"`
	}
	var decodeErr error
	if len(body) > 0 {
		decodeErr = json.Unmarshal(body, &out)
	}
	if out.ID == "" {
		out.ID = resp.Header.Get("X-RestLi-Id")
	}
	if out.ID == "" {
		if decodeErr != nil {
			return "", fmt.Errorf("linkedin publish post: decode response: %v: %w", decodeErr, ErrInvalidResponse)
		}
		return "", fmt.Errorf("linkedin publish post: id: %w", ErrInvalidResponse)
	}
	return out.ID, nil
}

// DeletePost removes a post by URN.
func (c *Client) DeletePost(ctx context.Context, accessToken, postURN string) error {
	endpoint := c.apiBase + "/ugcPosts/" + url.QueryEscape(postURN)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("X-Restli-Protocol-Version", restliProtocolVersion)

	_, err = c.do(req, "delete post")
	return err
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	_, body, err := c.doWithResponse(req, op)
	return body, err
}

func (c *Client) doWithResponse(req *http.Request, op string) (*http.Response, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("linkedin %s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("linkedin %s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, &UpstreamError{Op: op, Status: resp.StatusCode, Body: truncate(body)}
	}
	return resp, body, nil
}

func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.http)
}

func toTokens(tok *oauth2.Token) (*Tokens, error) {
	if tok == nil || tok.AccessToken == "" {
		return nil, fmt.Errorf("linkedin token: access_token: %w", ErrInvalidResponse)
	}

	expiresIn := int64(DefaultExpiresIn)
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		if v > 0 {
			expiresIn = int64(v)
		}
	case json.Number:
		if n, err := v.Int64(); err == nil && n > 0 {
			expiresIn = n
		}
	}

	return &Tokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

func tokenError(op string, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		status := 0
		if re.Response != nil {
			status = re.Response.StatusCode
		}
		return &UpstreamError{Op: op, Status: status, Body: truncate(re.Body)}
	}
	// oauth2 不导出该错误，只能按消息识别
	if strings.Contains(err.Error(), "missing access_token") {
		return fmt.Errorf("linkedin %s: access_token: %w", op, ErrInvalidResponse)
	}
	return fmt.Errorf("linkedin %s: %w", op, err)
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody])
	}
	return string(body)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
