package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/sony/gobreaker"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Remote defines the six cities API surface the synchronization actions use.
// It is implemented by *Client and can be faked in tests.
type Remote interface {
	FetchOffers(ctx context.Context) ([]Offer, error)
	FetchOffer(ctx context.Context, offerID string) (Offer, error)
	FetchNearby(ctx context.Context, offerID string) ([]Offer, error)
	FetchComments(ctx context.Context, offerID string) ([]Review, error)
	PostComment(ctx context.Context, offerID string, post CommentPost) ([]Review, error)
	CheckAuth(ctx context.Context) (UserData, error)
	Login(ctx context.Context, auth AuthData) (UserData, error)
	Logout(ctx context.Context) error
	FetchFavorites(ctx context.Context) ([]Offer, error)
	SetFavorite(ctx context.Context, offerID string, favorite bool) (Offer, error)
}

// Ensure Client implements Remote at compile time.
var _ Remote = (*Client)(nil)

// TokenSource supplies the session token attached to every request.
type TokenSource interface {
	Token() string
}

// Route paths relative to the API base URL.
const (
	RouteOffers   = "offers"
	RouteNearby   = "nearby"
	RouteComments = "comments"
	RouteLogin    = "login"
	RouteFavorite = "favorite"
)

const (
	// DefaultBaseURL is the public six cities API.
	DefaultBaseURL = "https://14.design.htmlacademy.pro/six-cities"
	// TokenHeader carries the session token.
	TokenHeader = "X-Token"
	// RequestIDHeader tags each request so it can be matched in server logs.
	RequestIDHeader = "X-Request-Id"

	defaultUserAgent = "stayer/0.1"
	requestTimeout   = 5 * time.Second
)

// Client talks to the six cities HTTP API. Each call is a single attempt.
// After repeated transport or 5xx failures the circuit breaker opens, and
// until its cooldown ends calls fail with ErrUnavailable without sending an
// HTTP request.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	tokens    TokenSource
	breaker   *gobreaker.CircuitBreaker
}

// NewClient builds a Client for baseURL. tokens may be nil for anonymous use;
// a non-positive timeout uses the default of five seconds.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = requestTimeout
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
		tokens:    tokens,
		breaker:   newBreaker(base.Host),
	}, nil
}

// FetchOffers retrieves every offer across all cities.
func (c *Client) FetchOffers(ctx context.Context) ([]Offer, error) {
	var payload []Offer
	if err := c.do(ctx, http.MethodGet, nil, &payload, RouteOffers); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchOffer retrieves the full details of one offer.
func (c *Client) FetchOffer(ctx context.Context, offerID string) (Offer, error) {
	if err := requireID(offerID); err != nil {
		return Offer{}, err
	}
	var payload Offer
	if err := c.do(ctx, http.MethodGet, nil, &payload, RouteOffers, offerID); err != nil {
		return Offer{}, err
	}
	return payload, nil
}

// FetchNearby retrieves offers close to offerID.
func (c *Client) FetchNearby(ctx context.Context, offerID string) ([]Offer, error) {
	if err := requireID(offerID); err != nil {
		return nil, err
	}
	var payload []Offer
	if err := c.do(ctx, http.MethodGet, nil, &payload, RouteOffers, offerID, RouteNearby); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchComments retrieves the reviews of offerID.
func (c *Client) FetchComments(ctx context.Context, offerID string) ([]Review, error) {
	if err := requireID(offerID); err != nil {
		return nil, err
	}
	var payload []Review
	if err := c.do(ctx, http.MethodGet, nil, &payload, RouteComments, offerID); err != nil {
		return nil, err
	}
	return payload, nil
}

// PostComment submits a review and returns the updated review list.
func (c *Client) PostComment(ctx context.Context, offerID string, post CommentPost) ([]Review, error) {
	if err := requireID(offerID); err != nil {
		return nil, err
	}
	var payload []Review
	if err := c.do(ctx, http.MethodPost, post, &payload, RouteComments, offerID); err != nil {
		return nil, err
	}
	return payload, nil
}

// CheckAuth probes the session. A 401 comes back as a *StatusError for which
// IsUnauthorized reports true.
func (c *Client) CheckAuth(ctx context.Context) (UserData, error) {
	var payload UserData
	if err := c.do(ctx, http.MethodGet, nil, &payload, RouteLogin); err != nil {
		return UserData{}, err
	}
	return payload, nil
}

// Login exchanges credentials for a user and token.
func (c *Client) Login(ctx context.Context, auth AuthData) (UserData, error) {
	var payload UserData
	if err := c.do(ctx, http.MethodPost, auth, &payload, RouteLogin); err != nil {
		return UserData{}, err
	}
	return payload, nil
}

// Logout ends the session on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, nil, nil, RouteLogin)
}

// FetchFavorites retrieves the current user's favorite offers.
func (c *Client) FetchFavorites(ctx context.Context) ([]Offer, error) {
	var payload []Offer
	if err := c.do(ctx, http.MethodGet, nil, &payload, RouteFavorite); err != nil {
		return nil, err
	}
	return payload, nil
}

// SetFavorite marks or unmarks offerID as favorite and returns the updated
// offer.
func (c *Client) SetFavorite(ctx context.Context, offerID string, favorite bool) (Offer, error) {
	if err := requireID(offerID); err != nil {
		return Offer{}, err
	}
	flag := "0"
	if favorite {
		flag = "1"
	}
	var payload Offer
	if err := c.do(ctx, http.MethodPost, nil, &payload, RouteFavorite, offerID, flag); err != nil {
		return Offer{}, err
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, method string, body, dest any, segments ...string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	reqURL := c.baseURL.JoinPath(escaped...)

	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.roundTrip(ctx, method, reqURL, body, dest)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method string, reqURL *url.URL, body, dest any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set(TokenHeader, token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return &StatusError{Method: method, Path: reqURL.Path, StatusCode: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		// An empty body on a 2xx is not an error; dest keeps its zero value.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func requireID(offerID string) error {
	if strings.TrimSpace(offerID) == "" {
		return fmt.Errorf("offer id required")
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
