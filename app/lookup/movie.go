package lookup

import (
	"context"
	"fmt"
	"strings"

	"mediashelf/app/logger"
	"mediashelf/app/model"
	"mediashelf/app/normalize"
	"mediashelf/app/provider/tmdb"
)

// MovieStrategy 影片查找：条码 → 商品标题 → 清洗 → 搜索 → 首个结果的详情
type MovieStrategy struct {
	support
	movies   MovieProvider
	barcodes BarcodeProvider
	log      *logger.Logger
}

// NewMovieStrategy 创建影片策略
func NewMovieStrategy(movies MovieProvider, barcodes BarcodeProvider, log *logger.Logger) *MovieStrategy {
	return &MovieStrategy{
		support:  support{media: model.MediaTypeMovie, identifiers: barcodeIdentifiers},
		movies:   movies,
		barcodes: barcodes,
		log:      log,
	}
}

func (s *MovieStrategy) Lookup(ctx context.Context, it model.IdentifierType, value string) (Result, error) {
	if !s.CanHandle(model.MediaTypeMovie, it) {
		return nil, fmt.Errorf("%w: movie/%s", ErrUnsupported, it)
	}

	resp, err := s.barcodes.ByCode(ctx, value)
	if err != nil {
		return nil, err
	}
	item := firstTitle(resp)
	if item == nil {
		s.log.Debugf("条码 %s 没有可用的商品标题", value)
		return nil, nil
	}

	query := normalize.ForMovie(item.Title)
	if query.Title == "" {
		return nil, nil
	}
	s.log.Debugf("影片标题 %q 清洗为 %q", item.Title, query)

	hits, err := s.movies.SearchMovie(ctx, query.Title)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		s.log.Debugf("影片 %q 没有搜索结果", query.Title)
		return nil, nil
	}

	hit := hits[0]
	details, err := s.movies.MovieDetails(ctx, hit.ID)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, nil
	}
	return s.toResult(details, hit, query.Format), nil
}

func (s *MovieStrategy) toResult(details *tmdb.Movie, hit tmdb.SearchResult, format string) *MovieResult {
	result := &MovieResult{
		TMDBID:      details.ID,
		Title:       details.Title,
		ReleaseDate: details.ReleaseDate,
		Genres:      names(details.Genres, func(g tmdb.Genre) string { return g.Name }),
		Studios:     names(details.ProductionCompanies, func(c tmdb.Company) string { return c.Name }),
		Rating:      FormatRating(details.VoteAverage),
		Runtime:     details.Runtime,
		Plot:        details.Overview,
		Format:      format,
	}

	poster := details.PosterPath
	if strings.TrimSpace(poster) == "" {
		poster = hit.PosterPath
	}
	result.ImageURL = s.movies.PosterURL(poster)
	return result
}

// FormatRating 评分大于 0 时格式化为 "7.5/10"
func FormatRating(vote float64) string {
	if vote <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1f/10", vote)
}
