// Package giantbomb Giant Bomb 游戏接口客户端
package giantbomb

import (
	"context"
	"encoding/json"
	"fmt"

	"mediashelf/app/config"
	"mediashelf/app/provider"

	"golang.org/x/time/rate"
	"resty.dev/v3"
)

const name = "giantbomb"

// Giant Bomb 业务状态码
const (
	statusOK            = 1
	statusNotFound      = 101
	statusRateLimitHits = 107
)

type Image struct {
	IconURL     string `json:"icon_url"`
	MediumURL   string `json:"medium_url"`
	ScreenURL   string `json:"screen_url"`
	SmallURL    string `json:"small_url"`
	SuperURL    string `json:"super_url"`
	ThumbURL    string `json:"thumb_url"`
	OriginalURL string `json:"original_url"`
}

// Best 优先原图，其次 super/medium
func (i *Image) Best() string {
	if i == nil {
		return ""
	}
	for _, u := range []string{i.OriginalURL, i.SuperURL, i.MediumURL, i.SmallURL} {
		if u != "" {
			return u
		}
	}
	return ""
}

type Platform struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

type Named struct {
	Name string `json:"name"`
}

// SearchResult 搜索结果条目
type SearchResult struct {
	GUID                string `json:"guid"`
	Name                string `json:"name"`
	OriginalReleaseDate string `json:"original_release_date"`
	APIDetailURL        string `json:"api_detail_url"`
	Deck                string `json:"deck"`
	Image               *Image `json:"image"`
}

// Game 游戏详情
type Game struct {
	GUID                string     `json:"guid"`
	Name                string     `json:"name"`
	Deck                string     `json:"deck"`
	Description         string     `json:"description"`
	OriginalReleaseDate string     `json:"original_release_date"`
	Image               *Image     `json:"image"`
	Platforms           []Platform `json:"platforms"`
	Developers          []Named    `json:"developers"`
	Publishers          []Named    `json:"publishers"`
	Genres              []Named    `json:"genres"`
	OriginalGameRating  []Named    `json:"original_game_rating"`
}

// envelope 所有接口共用的外层结构，results 在出错时是空数组
type envelope struct {
	Error      string          `json:"error"`
	StatusCode int             `json:"status_code"`
	Results    json.RawMessage `json:"results"`
}

// Client Giant Bomb 客户端
type Client struct {
	client  *resty.Client
	limiter *rate.Limiter
}

// New 创建客户端，按每小时请求数限流
func New(cfg config.GiantBombConfig, userAgent string) *Client {
	client := provider.NewClient(cfg.BaseURL, provider.Seconds(cfg.TimeoutSeconds), userAgent)
	client.SetQueryParams(map[string]string{
		"api_key": cfg.APIKey,
		"format":  "json",
	})

	return &Client{
		client:  client,
		limiter: provider.PerHour(cfg.RequestsPerHour),
	}
}

// SearchGames 按标题搜索游戏
func (c *Client) SearchGames(ctx context.Context, title string) ([]SearchResult, error) {
	var results []SearchResult
	found, err := c.get(ctx, "/search/", map[string]string{
		"query":      title,
		"resources":  "game",
		"field_list": "guid,name,original_release_date,api_detail_url,deck,image",
		"limit":      "10",
	}, &results)
	if err != nil || !found {
		return nil, err
	}
	return results, nil
}

// GameDetails 按 guid 获取详情，不存在时返回 (nil, nil)
func (c *Client) GameDetails(ctx context.Context, guid string) (*Game, error) {
	var game Game
	found, err := c.get(ctx, fmt.Sprintf("/game/%s/", guid), nil, &game)
	if err != nil || !found {
		return nil, err
	}
	return &game, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, out any) (bool, error) {
	if err := provider.Wait(ctx, c.limiter); err != nil {
		return false, err
	}

	var result envelope
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&result).
		Get(path)
	if err != nil {
		return false, fmt.Errorf("请求 %s 失败: %w", path, err)
	}

	found, err := provider.Check(name, resp)
	if err != nil || !found {
		return false, err
	}

	switch result.StatusCode {
	case statusOK:
	case statusNotFound:
		return false, nil
	case statusRateLimitHits:
		return false, fmt.Errorf("%s: %w", name, provider.ErrRateLimited)
	default:
		return false, fmt.Errorf("%s 返回错误 %d: %s", name, result.StatusCode, result.Error)
	}

	if len(result.Results) == 0 || string(result.Results) == "null" || string(result.Results) == "[]" {
		return false, nil
	}
	if err := json.Unmarshal(result.Results, out); err != nil {
		return false, fmt.Errorf("解析 %s 响应失败: %w", path, err)
	}
	return true, nil
}
