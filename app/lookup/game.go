package lookup

import (
	"context"
	"fmt"
	"strings"

	"mediashelf/app/logger"
	"mediashelf/app/matcher"
	"mediashelf/app/model"
	"mediashelf/app/normalize"
	"mediashelf/app/provider/giantbomb"
)

// GameStrategy 游戏查找：条码 → 商品标题 → 清洗并提取版本/平台/介质 → 搜索 → 打分挑选 → 详情
type GameStrategy struct {
	support
	games    GameProvider
	barcodes BarcodeProvider
	log      *logger.Logger
}

// NewGameStrategy 创建游戏策略
func NewGameStrategy(games GameProvider, barcodes BarcodeProvider, log *logger.Logger) *GameStrategy {
	return &GameStrategy{
		support:  support{media: model.MediaTypeGame, identifiers: barcodeIdentifiers},
		games:    games,
		barcodes: barcodes,
		log:      log,
	}
}

func (s *GameStrategy) Lookup(ctx context.Context, it model.IdentifierType, value string) (Result, error) {
	if !s.CanHandle(model.MediaTypeGame, it) {
		return nil, fmt.Errorf("%w: game/%s", ErrUnsupported, it)
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

	query := normalize.ForGame(item.Title, item.Category, item.Brand, item.Model)
	if query.Title == "" {
		return nil, nil
	}
	s.log.Debugf("游戏标题 %q 清洗为 %q", item.Title, query)

	hits, err := s.games.SearchGames(ctx, query.Title)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		s.log.Debugf("游戏 %q 没有搜索结果", query.Title)
		return nil, nil
	}

	candidates := make([]matcher.Candidate, 0, len(hits))
	for _, hit := range hits {
		candidates = append(candidates, matcher.Candidate{
			ID:              hit.GUID,
			Name:            hit.Name,
			ReleaseDateHint: hit.OriginalReleaseDate,
			DetailReference: hit.GUID,
		})
	}
	best, score, _ := matcher.Best(candidates, query.Title)
	s.log.Debugf("游戏 %q 选中 %q (%s)，得分 %.2f", query.Title, best.Name, best.DetailReference, score)

	details, err := s.games.GameDetails(ctx, best.DetailReference)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, nil
	}
	return toGameResult(details, query), nil
}

func toGameResult(details *giantbomb.Game, query normalize.Query) *GameResult {
	named := func(n giantbomb.Named) string { return n.Name }

	platforms := make([]normalize.PlatformName, 0, len(details.Platforms))
	for _, p := range details.Platforms {
		platforms = append(platforms, normalize.PlatformName{Name: p.Name, Abbreviation: p.Abbreviation})
	}

	platform := query.Platform
	if platform == "" && len(platforms) > 0 {
		platform = platforms[0].Name
	}

	format := query.Format
	if format == "" {
		format = normalize.FormatFromPlatform(platform, platforms)
	}

	description := strings.TrimSpace(details.Description)
	if description == "" {
		description = strings.TrimSpace(details.Deck)
	}

	return &GameResult{
		GUID:        details.GUID,
		Title:       normalize.GameTitle{Title: query.Title, Edition: query.Edition}.DisplayTitle(),
		Platform:    platform,
		Format:      format,
		Rating:      pickRating(details.OriginalGameRating),
		Description: description,
		ReleaseDate: details.OriginalReleaseDate,
		Genres:      names(details.Genres, named),
		Developers:  names(details.Developers, named),
		Publishers:  names(details.Publishers, named),
		ImageURL:    details.Image.Best(),
	}
}

// pickRating 优先 ESRB 评级，否则取第一个
func pickRating(ratings []giantbomb.Named) string {
	for _, r := range ratings {
		if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(r.Name)), "ESRB") {
			return r.Name
		}
	}
	if len(ratings) > 0 {
		return ratings[0].Name
	}
	return ""
}
