// Package upcitemdb UPCitemdb 条码查询客户端
package upcitemdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mediashelf/app/config"
	"mediashelf/app/provider"

	"github.com/patrickmn/go-cache"
	"resty.dev/v3"
)

const name = "upcitemdb"

// Item 条码查询结果条目
type Item struct {
	EAN         string   `json:"ean"`
	UPC         string   `json:"upc"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	Model       string   `json:"model"`
	Category    string   `json:"category"`
	ISBN        string   `json:"isbn"`
	Images      []string `json:"images"`
}

// Response 条码查询响应
type Response struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Total   int    `json:"total"`
	Items   []Item `json:"items"`
}

// First 返回第一个条目，没有条目时返回 nil
func (r *Response) First() *Item {
	if r == nil || len(r.Items) == 0 {
		return nil
	}
	return &r.Items[0]
}

// Client UPCitemdb 客户端，结果（包括"无条目"）在进程内缓存
type Client struct {
	client  *resty.Client
	cache   *cache.Cache
	lookups string
}

// New 创建客户端；未配置 api_key 时使用免费 trial 接口
func New(cfg config.UPCItemDBConfig, userAgent string) *Client {
	client := provider.NewClient(cfg.BaseURL, provider.Seconds(cfg.TimeoutSeconds), userAgent)

	lookups := "/trial/lookup"
	if cfg.APIKey != "" {
		lookups = "/v1/lookup"
		client.SetHeader("user_key", cfg.APIKey)
		client.SetHeader("key_type", cfg.KeyType)
	}

	ttl := time.Duration(cfg.CacheMinutes) * time.Minute
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}

	return &Client{
		client:  client,
		cache:   cache.New(ttl, 10*time.Minute),
		lookups: lookups,
	}
}

// ByCode 按 UPC/EAN 查询；条码不存在时返回 (nil, nil)
func (c *Client) ByCode(ctx context.Context, code string) (*Response, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}

	if cached, ok := c.cache.Get(code); ok {
		return cached.(*Response), nil
	}

	var result Response
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("upc", code).
		SetResult(&result).
		Get(c.lookups)
	if err != nil {
		return nil, fmt.Errorf("查询条码 %s 失败: %w", code, err)
	}

	found, err := provider.Check(name, resp)
	if err != nil {
		return nil, err
	}

	var response *Response
	if found && len(result.Items) > 0 {
		response = &result
	}
	c.cache.SetDefault(code, response)
	return response, nil
}
