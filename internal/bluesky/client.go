// Package bluesky adapts the Bluesky (atproto) XRPC API as an MCP
// tool server.
package bluesky

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config holds Bluesky account configuration.
type Config struct {
	Host       string `yaml:"host" env:"BLUESKY_HOST"`
	Identifier string `yaml:"identifier" env:"BLUESKY_IDENTIFIER"`
	Password   string `yaml:"password" env:"BLUESKY_APP_PASSWORD"`
}

// Session holds the tokens returned by createSession.
type Session struct {
	DID        string `json:"did"`
	Handle     string `json:"handle"`
	AccessJWT  string `json:"accessJwt"`
	RefreshJWT string `json:"refreshJwt"`
}

// Client is an authenticated XRPC client. The session is created once
// at startup and re-established transparently when the access token
// nears expiry.
type Client struct {
	host       string
	identifier string
	password   string
	http       *http.Client

	mu      sync.Mutex
	session *Session
	expiry  time.Time
}

// NewClient creates an unauthenticated client; call Login before use.
func NewClient(cfg Config) *Client {
	host := cfg.Host
	if host == "" {
		host = "https://bsky.social"
	}
	return &Client{
		host:       host,
		identifier: cfg.Identifier,
		password:   cfg.Password,
		http:       &http.Client{Timeout: 15 * time.Second},
	}
}

// Login establishes a session. Called once at startup; a failure here
// is fatal for the process.
func (c *Client) Login(ctx context.Context) error {
	payload := map[string]string{
		"identifier": c.identifier,
		"password":   c.password,
	}

	var session Session
	if err := c.rawCall(ctx, "POST", "com.atproto.server.createSession", "", payload, &session); err != nil {
		return fmt.Errorf("bluesky login: %w", err)
	}

	c.mu.Lock()
	c.session = &session
	c.expiry = tokenExpiry(session.AccessJWT)
	c.mu.Unlock()
	return nil
}

// Handle returns the authenticated account handle.
func (c *Client) Handle() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.Handle
}

// tokenExpiry reads the exp claim without verifying the signature; we
// only need it to know when to re-login, the server still verifies.
// A zero return disables expiry-driven re-login, so an unparseable
// token is worth a warning.
func tokenExpiry(token string) time.Time {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		slog.Warn("cannot read access token expiry, session refresh disabled", "error", err)
		return time.Time{}
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// ensureSession re-logs in when the access token is about to expire.
func (c *Client) ensureSession(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	session := c.session
	expiry := c.expiry
	c.mu.Unlock()

	if session == nil {
		return nil, fmt.Errorf("not logged in")
	}
	if !expiry.IsZero() && time.Until(expiry) < time.Minute {
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
		c.mu.Lock()
		session = c.session
		c.mu.Unlock()
	}
	return session, nil
}

// PostRef identifies a created post.
type PostRef struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

// CreatePost publishes a text post to the account's feed.
func (c *Client) CreatePost(ctx context.Context, text string) (*PostRef, error) {
	session, err := c.ensureSession(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"repo":       session.DID,
		"collection": "app.bsky.feed.post",
		"record": map[string]any{
			"$type":     "app.bsky.feed.post",
			"text":      text,
			"createdAt": time.Now().UTC().Format(time.RFC3339),
		},
	}

	var ref PostRef
	if err := c.rawCall(ctx, "POST", "com.atproto.repo.createRecord", session.AccessJWT, payload, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// Profile is a subset of app.bsky.actor.getProfile.
type Profile struct {
	DID            string `json:"did"`
	Handle         string `json:"handle"`
	DisplayName    string `json:"displayName,omitempty"`
	Description    string `json:"description,omitempty"`
	FollowersCount int    `json:"followersCount"`
	FollowsCount   int    `json:"followsCount"`
	PostsCount     int    `json:"postsCount"`
}

// GetProfile fetches an actor's profile by handle or DID.
func (c *Client) GetProfile(ctx context.Context, actor string) (*Profile, error) {
	session, err := c.ensureSession(ctx)
	if err != nil {
		return nil, err
	}

	var profile Profile
	query := "?actor=" + url.QueryEscape(actor)
	if err := c.rawCall(ctx, "GET", "app.bsky.actor.getProfile"+query, session.AccessJWT, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// FoundPost is one search hit.
type FoundPost struct {
	URI    string `json:"uri"`
	Author struct {
		Handle string `json:"handle"`
	} `json:"author"`
	Record struct {
		Text string `json:"text"`
	} `json:"record"`
}

// SearchPosts searches public posts.
func (c *Client) SearchPosts(ctx context.Context, q string, limit int) ([]FoundPost, error) {
	session, err := c.ensureSession(ctx)
	if err != nil {
		return nil, err
	}

	var result struct {
		Posts []FoundPost `json:"posts"`
	}
	query := fmt.Sprintf("?q=%s&limit=%d", url.QueryEscape(q), limit)
	if err := c.rawCall(ctx, "GET", "app.bsky.feed.searchPosts"+query, session.AccessJWT, nil, &result); err != nil {
		return nil, err
	}
	return result.Posts, nil
}

// rawCall performs one XRPC request against the host.
func (c *Client) rawCall(ctx context.Context, method, nsid, token string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.host+"/xrpc/"+nsid, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("xrpc %s: %w", nsid, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var xrpcErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		respBody, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(respBody, &xrpcErr) == nil && xrpcErr.Error != "" {
			return fmt.Errorf("xrpc error (%d): %s: %s", resp.StatusCode, xrpcErr.Error, xrpcErr.Message)
		}
		return fmt.Errorf("xrpc error (%d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode xrpc result: %w", err)
		}
	}
	return nil
}
