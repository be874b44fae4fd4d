// Package discord wraps the two provider calls this system makes:
// exchanging an authorization code at the token endpoint and fetching
// the authenticated identity. Both are single-request operations; the
// shared HTTP client carries the retry and timeout policy.
package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/guilddash/guilddash/internal/autherrors"
	"github.com/guilddash/guilddash/internal/config"
)

const (
	DefaultAPIBaseURL = "https://discord.com/api"

	authorizePath = "/oauth2/authorize"
	tokenPath     = "/oauth2/token"
	identityPath  = "/users/@me"

	cdnBaseURL = "https://cdn.discordapp.com"
)

// Scope sets for the two authorization variants.
var (
	userScopes = []string{"identify", "email", "guilds"}
	botScopes  = []string{"bot", "applications.commands"}
)

// Guild is the guild object Discord attaches to a bot-install token
// response.
type Guild struct {
	ID   string
	Name string
	Icon string
}

// Token is the provider token obtained from a code exchange.
type Token struct {
	AccessToken string
	Guild       *Guild // Present only on bot-install exchanges
}

// Identity is the provider's view of the authenticated user.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

// AvatarURL resolves the avatar hash to a CDN URL; empty when the user
// has no avatar set.
func (i *Identity) AvatarURL() string {
	if i.Avatar == "" {
		return ""
	}
	return fmt.Sprintf("%s/avatars/%s/%s.png", cdnBaseURL, i.ID, i.Avatar)
}

// API is the provider surface the flow controllers depend on.
type API interface {
	Exchange(ctx context.Context, code, redirectURI string) (*Token, error)
	Identity(ctx context.Context, accessToken string) (*Identity, error)
	UserAuthURL(redirectURI, state string) string
	BotAuthURL(redirectURI, permissions, guildID string) string
}

// Client is the HTTP implementation of API.
type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client
}

var _ API = (*Client)(nil)

type ClientOption func(*Client)

// WithHTTPClient replaces the default retrying client (used by tests to
// get single-shot behavior).
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func NewClient(cfg config.DiscordConfig, options ...ClientOption) *Client {
	c := &Client{
		clientID:     cfg.GetDiscordClientID(),
		clientSecret: cfg.GetDiscordClientSecret(),
		baseURL:      cfg.GetDiscordAPIBaseURL(),
		httpClient:   newRetryingClient(),
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// newRetryingClient builds the outbound HTTP client: two retries with
// jittered backoff and a 10s overall timeout per attempt chain.
func newRetryingClient() *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 250 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = nil

	httpClient := rc.StandardClient()
	httpClient.Timeout = 10 * time.Second
	return httpClient
}

func (c *Client) oauthConfig(redirectURI string, scopes []string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.baseURL + authorizePath,
			TokenURL:  c.baseURL + tokenPath,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// Exchange swaps an authorization code for a provider token. Codes are
// single-use; callers must not resubmit one after a failure.
func (c *Client) Exchange(ctx context.Context, code, redirectURI string) (*Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	oauthToken, err := c.oauthConfig(redirectURI, nil).Exchange(ctx, code)
	if err != nil {
		return nil, &autherrors.ExchangeError{Description: exchangeFailureDescription(err)}
	}

	providerToken := &Token{AccessToken: oauthToken.AccessToken}
	if raw, ok := oauthToken.Extra("guild").(map[string]any); ok {
		providerToken.Guild = &Guild{
			ID:   stringField(raw, "id"),
			Name: stringField(raw, "name"),
			Icon: stringField(raw, "icon"),
		}
	}

	return providerToken, nil
}

// Identity fetches the provider's current-user record with the bearer
// token from a successful exchange.
func (c *Client) Identity(ctx context.Context, accessToken string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+identityPath, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[discord.Identity] build request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "[discord.Identity] request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &autherrors.IdentityError{StatusCode: resp.StatusCode}
	}

	identity := &Identity{}
	if err := json.NewDecoder(resp.Body).Decode(identity); err != nil {
		return nil, errors.Wrap(err, "[discord.Identity] decode response")
	}

	return identity, nil
}

func exchangeFailureDescription(err error) string {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if retrieveErr.ErrorDescription != "" {
			return retrieveErr.ErrorDescription
		}
		if retrieveErr.ErrorCode != "" {
			return retrieveErr.ErrorCode
		}
		if retrieveErr.Response != nil {
			return retrieveErr.Response.Status
		}
	}
	return err.Error()
}

func stringField(raw map[string]any, key string) string {
	value, _ := raw[key].(string)
	return value
}
