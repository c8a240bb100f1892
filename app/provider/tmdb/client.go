// Package tmdb The Movie Database 接口客户端
package tmdb

import (
	"context"
	"fmt"
	"strings"

	"mediashelf/app/config"
	"mediashelf/app/provider"

	"resty.dev/v3"
)

const name = "tmdb"

// SearchResult 搜索结果条目
type SearchResult struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	ReleaseDate   string  `json:"release_date"`
	PosterPath    string  `json:"poster_path"`
	VoteAverage   float64 `json:"vote_average"`
}

type searchResponse struct {
	Page         int            `json:"page"`
	TotalResults int            `json:"total_results"`
	Results      []SearchResult `json:"results"`
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Company struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Movie 影片详情
type Movie struct {
	ID                  int64     `json:"id"`
	Title               string    `json:"title"`
	Overview            string    `json:"overview"`
	ReleaseDate         string    `json:"release_date"`
	Runtime             int       `json:"runtime"`
	VoteAverage         float64   `json:"vote_average"`
	PosterPath          string    `json:"poster_path"`
	Genres              []Genre   `json:"genres"`
	ProductionCompanies []Company `json:"production_companies"`
	IMDbID              string    `json:"imdb_id"`
}

// Client TMDB 客户端
type Client struct {
	client       *resty.Client
	imageBaseURL string
}

// New 创建客户端，api_key 以查询参数方式携带
func New(cfg config.TMDBConfig, userAgent string) *Client {
	client := provider.NewClient(cfg.BaseURL, provider.Seconds(cfg.TimeoutSeconds), userAgent)
	client.SetQueryParam("api_key", cfg.APIKey)
	if cfg.Language != "" {
		client.SetQueryParam("language", cfg.Language)
	}

	return &Client{
		client:       client,
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
	}
}

// SearchMovie 按标题搜索影片
func (c *Client) SearchMovie(ctx context.Context, title string) ([]SearchResult, error) {
	var result searchResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":         title,
			"include_adult": "false",
		}).
		SetResult(&result).
		Get("/search/movie")
	if err != nil {
		return nil, fmt.Errorf("搜索影片 %q 失败: %w", title, err)
	}

	found, err := provider.Check(name, resp)
	if err != nil || !found {
		return nil, err
	}
	return result.Results, nil
}

// MovieDetails 获取影片详情，不存在时返回 (nil, nil)
func (c *Client) MovieDetails(ctx context.Context, id int64) (*Movie, error) {
	var result Movie
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&result).
		Get(fmt.Sprintf("/movie/%d", id))
	if err != nil {
		return nil, fmt.Errorf("获取影片详情 %d 失败: %w", id, err)
	}

	found, err := provider.Check(name, resp)
	if err != nil || !found {
		return nil, err
	}
	return &result, nil
}

// PosterURL 拼接海报完整地址
func (c *Client) PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + "/" + strings.TrimLeft(path, "/")
}
