// Package openlibrary Open Library 图书接口客户端
package openlibrary

import (
	"context"
	"fmt"
	"strings"

	"mediashelf/app/config"
	"mediashelf/app/provider"

	"resty.dev/v3"
)

const name = "openlibrary"

type Named struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Cover struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

// Best 按 large > medium > small 取封面
func (c *Cover) Best() string {
	if c == nil {
		return ""
	}
	for _, u := range []string{c.Large, c.Medium, c.Small} {
		if u != "" {
			return u
		}
	}
	return ""
}

type Identifiers struct {
	ISBN10      []string `json:"isbn_10"`
	ISBN13      []string `json:"isbn_13"`
	LCCN        []string `json:"lccn"`
	OCLC        []string `json:"oclc"`
	OpenLibrary []string `json:"openlibrary"`
}

// Book jscmd=data 格式的图书数据
type Book struct {
	Key           string      `json:"key"`
	Title         string      `json:"title"`
	Subtitle      string      `json:"subtitle"`
	Authors       []Named     `json:"authors"`
	Publishers    []Named     `json:"publishers"`
	PublishDate   string      `json:"publish_date"`
	NumberOfPages int         `json:"number_of_pages"`
	Subjects      []Named     `json:"subjects"`
	Identifiers   Identifiers `json:"identifiers"`
	Cover         *Cover      `json:"cover"`
}

// Client Open Library 客户端
type Client struct {
	client    *resty.Client
	coversURL string
}

// New 创建客户端
func New(cfg config.OpenLibraryConfig, userAgent string) *Client {
	return &Client{
		client:    provider.NewClient(cfg.BaseURL, provider.Seconds(cfg.TimeoutSeconds), userAgent),
		coversURL: strings.TrimRight(cfg.CoversURL, "/"),
	}
}

// ByISBN 按 ISBN 查询
func (c *Client) ByISBN(ctx context.Context, isbn string) (*Book, error) {
	return c.byBibKey(ctx, "ISBN", isbn)
}

// ByLCCN 按美国国会图书馆控制号查询
func (c *Client) ByLCCN(ctx context.Context, lccn string) (*Book, error) {
	return c.byBibKey(ctx, "LCCN", lccn)
}

// ByOCLC 按 OCLC 号查询
func (c *Client) ByOCLC(ctx context.Context, oclc string) (*Book, error) {
	return c.byBibKey(ctx, "OCLC", oclc)
}

// ByOLID 按 Open Library ID 查询
func (c *Client) ByOLID(ctx context.Context, olid string) (*Book, error) {
	return c.byBibKey(ctx, "OLID", olid)
}

// CoverURLForISBN 按 ISBN 拼接封面服务地址
func (c *Client) CoverURLForISBN(isbn string) string {
	isbn = NormalizeISBN(isbn)
	if isbn == "" || c.coversURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/b/isbn/%s-L.jpg", c.coversURL, isbn)
}

// byBibKey 请求 /api/books，查无结果时返回 (nil, nil)
func (c *Client) byBibKey(ctx context.Context, kind, value string) (*Book, error) {
	value = strings.TrimSpace(value)
	if kind == "ISBN" {
		value = NormalizeISBN(value)
	}
	if value == "" {
		return nil, nil
	}

	bibKey := kind + ":" + value
	var result map[string]Book
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"bibkeys": bibKey,
			"format":  "json",
			"jscmd":   "data",
		}).
		SetResult(&result).
		Get("/api/books")
	if err != nil {
		return nil, fmt.Errorf("查询图书 %s 失败: %w", bibKey, err)
	}

	found, err := provider.Check(name, resp)
	if err != nil || !found {
		return nil, err
	}

	book, ok := result[bibKey]
	if !ok {
		return nil, nil
	}
	return &book, nil
}

// NormalizeISBN 去掉连字符与空白
func NormalizeISBN(isbn string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, strings.TrimSpace(isbn))
}
