// Package lookup 按媒体类型把条码/ISBN 转换为外部元数据记录
package lookup

import (
	"context"
	"errors"
	"slices"
	"strings"

	"mediashelf/app/model"
	"mediashelf/app/provider/giantbomb"
	"mediashelf/app/provider/musicbrainz"
	"mediashelf/app/provider/openlibrary"
	"mediashelf/app/provider/tmdb"
	"mediashelf/app/provider/upcitemdb"
)

// ErrUnsupported 策略不支持该编码类型
var ErrUnsupported = errors.New("不支持的媒体类型与编码组合")

// Strategy 单一媒体类型的查找策略
//
// Lookup 在没有数据时返回 (nil, nil)；传输或服务端错误原样返回，不在策略内吞掉。
type Strategy interface {
	MediaType() model.MediaType
	CanHandle(mt model.MediaType, it model.IdentifierType) bool
	Lookup(ctx context.Context, it model.IdentifierType, value string) (Result, error)
}

// BarcodeProvider 条码查询服务
type BarcodeProvider interface {
	ByCode(ctx context.Context, code string) (*upcitemdb.Response, error)
}

// BookProvider 图书元数据服务
type BookProvider interface {
	ByISBN(ctx context.Context, isbn string) (*openlibrary.Book, error)
	ByLCCN(ctx context.Context, lccn string) (*openlibrary.Book, error)
	ByOCLC(ctx context.Context, oclc string) (*openlibrary.Book, error)
	ByOLID(ctx context.Context, olid string) (*openlibrary.Book, error)
	CoverURLForISBN(isbn string) string
}

// MovieProvider 影片元数据服务
type MovieProvider interface {
	SearchMovie(ctx context.Context, title string) ([]tmdb.SearchResult, error)
	MovieDetails(ctx context.Context, id int64) (*tmdb.Movie, error)
	PosterURL(path string) string
}

// GameProvider 游戏元数据服务
type GameProvider interface {
	SearchGames(ctx context.Context, title string) ([]giantbomb.SearchResult, error)
	GameDetails(ctx context.Context, guid string) (*giantbomb.Game, error)
}

// MusicProvider 音乐元数据服务
type MusicProvider interface {
	SearchByBarcode(ctx context.Context, barcode string) ([]musicbrainz.Release, error)
	SearchByTitle(ctx context.Context, title string) ([]musicbrainz.Release, error)
	Release(ctx context.Context, id string) (*musicbrainz.Release, error)
	CoverURL(releaseID string) string
}

// support 策略声明的媒体类型与编码类型集合
type support struct {
	media       model.MediaType
	identifiers []model.IdentifierType
}

func (s support) MediaType() model.MediaType {
	return s.media
}

func (s support) CanHandle(mt model.MediaType, it model.IdentifierType) bool {
	return mt == s.media && slices.Contains(s.identifiers, it)
}

var barcodeIdentifiers = []model.IdentifierType{model.IdentifierUPC, model.IdentifierEAN}

// firstTitle 取条码查询第一个条目；条目缺失或标题为空时返回 nil
func firstTitle(resp *upcitemdb.Response) *upcitemdb.Item {
	item := resp.First()
	if item == nil || strings.TrimSpace(item.Title) == "" {
		return nil
	}
	return item
}

func names[T any](items []T, name func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if n := strings.TrimSpace(name(item)); n != "" {
			out = append(out, n)
		}
	}
	return out
}
