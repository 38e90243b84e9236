package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const instagramHost = "instagram-scraper-api2.p.rapidapi.com"

// InstagramClient fetches public profile stats through the RapidAPI
// instagram-scraper-api2 gateway.
type InstagramClient struct {
	client  *Client
	baseURL string
}

func NewInstagramClient(c *Client) *InstagramClient {
	return &InstagramClient{
		client:  c,
		baseURL: "https://" + instagramHost,
	}
}

func (i *InstagramClient) Platform() string {
	return "instagram"
}

func (i *InstagramClient) FetchProfile(ctx context.Context, username string) (*Profile, error) {

	reqURL := fmt.Sprintf("%s/v1/info?username_or_id_or_url=%s", i.baseURL, url.QueryEscape(username))

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}
	setRapidAPIHeaders(req, instagramHost, i.client.apiKey)

	resp, err := i.client.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Platform: "instagram", Message: err.Error(), Kind: KindNetworkError}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			Platform:   "instagram",
			Message:    fmt.Sprintf("bad status %d", resp.StatusCode),
			Kind:       classifyStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Platform: "instagram", Message: err.Error(), Kind: KindNetworkError}
	}

	var payload instagramUserInfo
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &APIError{Platform: "instagram", Message: "unexpected response shape: " + err.Error(), Kind: KindServerError}
	}

	if payload.Data.Username == "" {
		return nil, &APIError{Platform: "instagram", Message: "profile not found", Kind: KindNotFound, StatusCode: resp.StatusCode}
	}

	return &Profile{
		Platform:    "instagram",
		Username:    payload.Data.Username,
		DisplayName: payload.Data.FullName,
		Followers:   int64(payload.Data.FollowerCount),
		Following:   int32(payload.Data.FollowingCount),
		Posts:       int32(payload.Data.MediaCount),
		Verified:    payload.Data.IsVerified,
		Bio:         payload.Data.Biography,
		AvatarURL:   payload.Data.ProfilePicURL,
		FetchedAt:   time.Now(),
	}, nil
}

type instagramUserInfo struct {
	Data struct {
		Username       string    `json:"username"`
		FullName       string    `json:"full_name"`
		Biography      string    `json:"biography"`
		ProfilePicURL  string    `json:"profile_pic_url"`
		IsVerified     bool      `json:"is_verified"`
		FollowerCount  flexCount `json:"follower_count"`
		FollowingCount flexCount `json:"following_count"`
		MediaCount     flexCount `json:"media_count"`
	} `json:"data"`
}
