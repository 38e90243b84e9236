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

const tikTokHost = "tiktok-api23.p.rapidapi.com"

// TikTokClient fetches public profile stats through the RapidAPI
// tiktok-api23 gateway.
type TikTokClient struct {
	client  *Client
	baseURL string
}

func NewTikTokClient(c *Client) *TikTokClient {
	return &TikTokClient{
		client:  c,
		baseURL: "https://" + tikTokHost,
	}
}

func (t *TikTokClient) Platform() string {
	return "tiktok"
}

func (t *TikTokClient) FetchProfile(ctx context.Context, username string) (*Profile, error) {

	reqURL := fmt.Sprintf("%s/api/user/info?uniqueId=%s", t.baseURL, url.QueryEscape(username))

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}
	setRapidAPIHeaders(req, tikTokHost, t.client.apiKey)

	resp, err := t.client.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Platform: "tiktok", Message: err.Error(), Kind: KindNetworkError}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			Platform:   "tiktok",
			Message:    fmt.Sprintf("bad status %d", resp.StatusCode),
			Kind:       classifyStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Platform: "tiktok", Message: err.Error(), Kind: KindNetworkError}
	}

	var payload tiktokUserInfo
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &APIError{Platform: "tiktok", Message: "unexpected response shape: " + err.Error(), Kind: KindServerError}
	}

	if payload.UserInfo.User.UniqueID == "" {
		return nil, &APIError{Platform: "tiktok", Message: "profile not found", Kind: KindNotFound, StatusCode: resp.StatusCode}
	}

	return &Profile{
		Platform:    "tiktok",
		Username:    payload.UserInfo.User.UniqueID,
		DisplayName: payload.UserInfo.User.Nickname,
		Followers:   int64(payload.UserInfo.Stats.FollowerCount),
		Following:   int32(payload.UserInfo.Stats.FollowingCount),
		Posts:       int32(payload.UserInfo.Stats.VideoCount),
		Likes:       int64(payload.UserInfo.Stats.HeartCount),
		HasLikes:    true,
		Verified:    payload.UserInfo.User.Verified,
		Bio:         payload.UserInfo.User.Signature,
		AvatarURL:   payload.UserInfo.User.AvatarLarger,
		FetchedAt:   time.Now(),
	}, nil
}

func setRapidAPIHeaders(req *http.Request, host, apiKey string) {
	req.Header.Set("X-RapidAPI-Key", apiKey)
	req.Header.Set("X-RapidAPI-Host", host)
	req.Header.Set("Accept", "application/json")
}

type tiktokUserInfo struct {
	UserInfo struct {
		User struct {
			UniqueID     string `json:"uniqueId"`
			Nickname     string `json:"nickname"`
			Signature    string `json:"signature"`
			Verified     bool   `json:"verified"`
			AvatarLarger string `json:"avatarLarger"`
		} `json:"user"`

		Stats struct {
			FollowerCount  flexCount `json:"followerCount"`
			FollowingCount flexCount `json:"followingCount"`
			HeartCount     flexCount `json:"heartCount"`
			VideoCount     flexCount `json:"videoCount"`
		} `json:"stats"`
	} `json:"userInfo"`
}
