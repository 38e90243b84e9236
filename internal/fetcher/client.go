package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Profile is the normalized shape of a public account across platforms.
type Profile struct {
	Platform    string
	Username    string
	DisplayName string
	Followers   int64
	Following   int32
	Posts       int32
	// Likes is only meaningful when HasLikes is set; Instagram's
	// profile endpoint exposes no account-level likes counter.
	Likes       int64
	HasLikes    bool
	Verified    bool
	Bio         string
	AvatarURL   string
	FetchedAt   time.Time
}

// ProfileFetcher fetches one public profile by username.
type ProfileFetcher interface {
	Platform() string
	FetchProfile(ctx context.Context, username string) (*Profile, error)
}

// ErrorKind classifies an upstream failure so callers can decide
// whether to retry, skip, or abort a batch.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindRateLimited  ErrorKind = "rate_limited"
	KindAuthError    ErrorKind = "auth_error"
	KindServerError  ErrorKind = "server_error"
	KindNetworkError ErrorKind = "network_error"
)

type APIError struct {
	Platform   string
	Message    string
	Kind       ErrorKind
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Platform, e.Message, e.Kind)
}

type Client struct {
	httpClient http.Client
	apiKey     string
}

func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		httpClient: http.Client{
			Timeout: timeout,
		},
		apiKey: apiKey,
	}
}
