package lookup

import (
	"context"
	"fmt"

	"mediashelf/app/logger"
	"mediashelf/app/matcher"
	"mediashelf/app/model"
	"mediashelf/app/normalize"
	"mediashelf/app/provider/musicbrainz"
)

// MusicStrategy 专辑查找：先按条码直接搜索发行版本，没有结果时退回商品标题搜索
type MusicStrategy struct {
	support
	music    MusicProvider
	barcodes BarcodeProvider
	log      *logger.Logger
}

// NewMusicStrategy 创建音乐策略
func NewMusicStrategy(music MusicProvider, barcodes BarcodeProvider, log *logger.Logger) *MusicStrategy {
	return &MusicStrategy{
		support:  support{media: model.MediaTypeMusic, identifiers: barcodeIdentifiers},
		music:    music,
		barcodes: barcodes,
		log:      log,
	}
}

func (s *MusicStrategy) Lookup(ctx context.Context, it model.IdentifierType, value string) (Result, error) {
	if !s.CanHandle(model.MediaTypeMusic, it) {
		return nil, fmt.Errorf("%w: music/%s", ErrUnsupported, it)
	}

	releases, err := s.music.SearchByBarcode(ctx, value)
	if err != nil {
		return nil, err
	}
	if len(releases) > 0 {
		s.log.Debugf("条码 %s 直接命中发行版本 %s", value, releases[0].ID)
		return s.details(ctx, releases[0].ID, "")
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

	query := normalize.ForMusic(item.Title)
	if query.Title == "" {
		return nil, nil
	}
	s.log.Debugf("专辑标题 %q 清洗为 %q", item.Title, query)

	hits, err := s.music.SearchByTitle(ctx, query.Title)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		s.log.Debugf("专辑 %q 没有搜索结果", query.Title)
		return nil, nil
	}

	candidates := make([]matcher.Candidate, 0, len(hits))
	for _, hit := range hits {
		candidates = append(candidates, matcher.Candidate{
			ID:              hit.ID,
			Name:            hit.Title,
			ReleaseDateHint: hit.Date,
			DetailReference: hit.ID,
		})
	}
	best, score, _ := matcher.Best(candidates, query.Title)
	s.log.Debugf("专辑 %q 选中 %q (%s)，得分 %.2f", query.Title, best.Name, best.DetailReference, score)

	return s.details(ctx, best.DetailReference, query.Format)
}

func (s *MusicStrategy) details(ctx context.Context, releaseID, format string) (Result, error) {
	release, err := s.music.Release(ctx, releaseID)
	if err != nil {
		return nil, err
	}
	if release == nil {
		return nil, nil
	}
	return s.toResult(release, format), nil
}

func (s *MusicStrategy) toResult(release *musicbrainz.Release, format string) *MusicResult {
	result := &MusicResult{
		ReleaseID:   release.ID,
		Title:       release.Title,
		Artist:      release.Artist(),
		ReleaseDate: release.Date,
		Genres:      names(release.Genres, func(g musicbrainz.Genre) string { return g.Name }),
		Format:      format,
		ImageURL:    s.music.CoverURL(release.ID),
	}

	for _, info := range release.LabelInfo {
		if info.Label != nil && info.Label.Name != "" {
			result.Label = info.Label.Name
			break
		}
	}
	for _, medium := range release.Media {
		result.TrackCount += medium.TrackCount
		if result.Format == "" && medium.Format != "" {
			result.Format = medium.Format
		}
	}
	return result
}
