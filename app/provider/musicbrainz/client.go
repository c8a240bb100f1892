// Package musicbrainz MusicBrainz 与 Cover Art Archive 客户端
package musicbrainz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mediashelf/app/config"
	"mediashelf/app/provider"

	"golang.org/x/time/rate"
	"resty.dev/v3"
)

const name = "musicbrainz"

type ArtistCredit struct {
	Name       string `json:"name"`
	JoinPhrase string `json:"joinphrase"`
}

type LabelInfo struct {
	CatalogNumber string `json:"catalog-number"`
	Label         *struct {
		Name string `json:"name"`
	} `json:"label"`
}

type Medium struct {
	Format     string `json:"format"`
	TrackCount int    `json:"track-count"`
}

type Genre struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Release 发行版本
type Release struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Date         string         `json:"date"`
	Country      string         `json:"country"`
	Barcode      string         `json:"barcode"`
	Score        int            `json:"score"`
	ArtistCredit []ArtistCredit `json:"artist-credit"`
	LabelInfo    []LabelInfo    `json:"label-info"`
	Media        []Medium       `json:"media"`
	Genres       []Genre        `json:"genres"`
}

// Artist 拼接署名
func (r *Release) Artist() string {
	var b strings.Builder
	for _, credit := range r.ArtistCredit {
		b.WriteString(credit.Name)
		b.WriteString(credit.JoinPhrase)
	}
	return strings.TrimSpace(b.String())
}

type searchResponse struct {
	Count    int       `json:"count"`
	Releases []Release `json:"releases"`
}

// Client MusicBrainz 客户端，服务端要求每秒不超过 1 次请求并带 User-Agent
type Client struct {
	client      *resty.Client
	limiter     *rate.Limiter
	coverArtURL string
}

// New 创建客户端
func New(cfg config.MusicBrainzConfig) *Client {
	client := provider.NewClient(cfg.BaseURL, provider.Seconds(cfg.TimeoutSeconds), cfg.UserAgent)
	client.SetQueryParam("fmt", "json")

	return &Client{
		client:      client,
		limiter:     rate.NewLimiter(rate.Every(time.Second), 1),
		coverArtURL: strings.TrimRight(cfg.CoverArtURL, "/"),
	}
}

// SearchByBarcode 按条码搜索发行版本
func (c *Client) SearchByBarcode(ctx context.Context, barcode string) ([]Release, error) {
	return c.search(ctx, "barcode:"+strings.TrimSpace(barcode))
}

// SearchByTitle 按专辑名搜索发行版本
func (c *Client) SearchByTitle(ctx context.Context, title string) ([]Release, error) {
	title = strings.ReplaceAll(title, `"`, "")
	return c.search(ctx, fmt.Sprintf(`release:"%s"`, title))
}

func (c *Client) search(ctx context.Context, query string) ([]Release, error) {
	if err := provider.Wait(ctx, c.limiter); err != nil {
		return nil, err
	}

	var result searchResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query": query,
			"limit": "10",
		}).
		SetResult(&result).
		Get("/release/")
	if err != nil {
		return nil, fmt.Errorf("搜索 %s 失败: %w", query, err)
	}

	found, err := provider.Check(name, resp)
	if err != nil || !found {
		return nil, err
	}
	return result.Releases, nil
}

// Release 获取发行版本详情，不存在时返回 (nil, nil)
func (c *Client) Release(ctx context.Context, id string) (*Release, error) {
	if err := provider.Wait(ctx, c.limiter); err != nil {
		return nil, err
	}

	var result Release
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("inc", "artist-credits+labels+genres+media").
		SetResult(&result).
		Get("/release/" + id)
	if err != nil {
		return nil, fmt.Errorf("获取发行版本 %s 失败: %w", id, err)
	}

	found, err := provider.Check(name, resp)
	if err != nil || !found {
		return nil, err
	}
	return &result, nil
}

// CoverURL Cover Art Archive 正面封面地址
func (c *Client) CoverURL(releaseID string) string {
	if releaseID == "" {
		return ""
	}
	return fmt.Sprintf("%s/release/%s/front", c.coverArtURL, releaseID)
}
