package fetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShorthand(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1200", 1200},
		{"1.2M", 1200000},
		{"5K", 5000},
		{"5k", 5000},
		{"2.5B", 2500000000},
		{"1,234", 1234},
		{"", 0},
	}

	for _, tc := range cases {
		got, err := parseShorthand(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}

	_, err := parseShorthand("lots")
	assert.Error(t, err)
}

func TestFlexCountUnmarshal(t *testing.T) {
	var payload struct {
		A flexCount `json:"a"`
		B flexCount `json:"b"`
		C flexCount `json:"c"`
	}

	err := json.Unmarshal([]byte(`{"a": 42, "b": "1.5M", "c": 3.7}`), &payload)
	require.NoError(t, err)
	assert.Equal(t, flexCount(42), payload.A)
	assert.Equal(t, flexCount(1500000), payload.B)
	assert.Equal(t, flexCount(4), payload.C)
}

func newTikTokTestClient(serverURL string) *TikTokClient {
	tc := NewTikTokClient(NewClient("test-key", 5*time.Second))
	tc.baseURL = serverURL
	return tc
}

func TestTikTokFetchProfile(t *testing.T) {
	var gotKey, gotHost string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-RapidAPI-Key")
		gotHost = r.Header.Get("X-RapidAPI-Host")
		assert.Equal(t, "acmebrand", r.URL.Query().Get("uniqueId"))

		w.Write([]byte(`{
			"userInfo": {
				"user": {"uniqueId": "acmebrand", "nickname": "Acme", "verified": true, "signature": "hi"},
				"stats": {"followerCount": "1.2M", "followingCount": 150, "heartCount": "34.5M", "videoCount": 420}
			}
		}`))
	}))
	defer server.Close()

	profile, err := newTikTokTestClient(server.URL).FetchProfile(context.Background(), "acmebrand")
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, tikTokHost, gotHost)
	assert.Equal(t, "acmebrand", profile.Username)
	assert.Equal(t, "Acme", profile.DisplayName)
	assert.Equal(t, int64(1200000), profile.Followers)
	assert.Equal(t, int32(150), profile.Following)
	assert.Equal(t, int32(420), profile.Posts)
	assert.Equal(t, int64(34500000), profile.Likes)
	assert.True(t, profile.HasLikes)
	assert.True(t, profile.Verified)
}

func TestTikTokStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		kind   ErrorKind
	}{
		{http.StatusNotFound, KindNotFound},
		{http.StatusTooManyRequests, KindRateLimited},
		{http.StatusUnauthorized, KindAuthError},
		{http.StatusForbidden, KindAuthError},
		{http.StatusInternalServerError, KindServerError},
		{http.StatusBadGateway, KindServerError},
	}

	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		_, err := newTikTokTestClient(server.URL).FetchProfile(context.Background(), "whoever")
		server.Close()

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr, "status %d", tc.status)
		assert.Equal(t, tc.kind, apiErr.Kind, "status %d", tc.status)
		assert.Equal(t, tc.status, apiErr.StatusCode)
	}
}

func TestTikTokEmptyPayloadIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"userInfo": {"user": {}, "stats": {}}}`))
	}))
	defer server.Close()

	_, err := newTikTokTestClient(server.URL).FetchProfile(context.Background(), "ghost")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindNotFound, apiErr.Kind)
}

func TestTikTokNetworkError(t *testing.T) {
	tc := newTikTokTestClient("http://127.0.0.1:1")

	_, err := tc.FetchProfile(context.Background(), "acmebrand")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindNetworkError, apiErr.Kind)
}

func TestInstagramFetchProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "acmebrand", r.URL.Query().Get("username_or_id_or_url"))
		w.Write([]byte(`{
			"data": {
				"username": "acmebrand", "full_name": "Acme", "is_verified": false,
				"follower_count": 98000, "following_count": "1.1K", "media_count": 210
			}
		}`))
	}))
	defer server.Close()

	ic := NewInstagramClient(NewClient("test-key", 5*time.Second))
	ic.baseURL = server.URL

	profile, err := ic.FetchProfile(context.Background(), "acmebrand")
	require.NoError(t, err)

	assert.Equal(t, "instagram", profile.Platform)
	assert.Equal(t, int64(98000), profile.Followers)
	assert.Equal(t, int32(1100), profile.Following)
	assert.Equal(t, int32(210), profile.Posts)
	assert.False(t, profile.HasLikes, "instagram exposes no account-level likes counter")
}
