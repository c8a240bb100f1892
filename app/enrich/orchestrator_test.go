package enrich

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"mediashelf/app/logger"
	"mediashelf/app/lookup"
	"mediashelf/app/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStrategy struct {
	media  model.MediaType
	result lookup.Result
	err    error
	calls  []string
}

func (s *stubStrategy) MediaType() model.MediaType { return s.media }

func (s *stubStrategy) CanHandle(mt model.MediaType, it model.IdentifierType) bool {
	return mt == s.media
}

func (s *stubStrategy) Lookup(_ context.Context, it model.IdentifierType, value string) (lookup.Result, error) {
	s.calls = append(s.calls, fmt.Sprintf("%s:%s", it, value))
	return s.result, s.err
}

type stubSource struct {
	strategy lookup.Strategy
	requests []string
}

func (s *stubSource) Get(mt model.MediaType, it model.IdentifierType) (lookup.Strategy, bool) {
	s.requests = append(s.requests, fmt.Sprintf("%s/%s", mt, it))
	if s.strategy == nil || !s.strategy.CanHandle(mt, it) {
		return nil, false
	}
	return s.strategy, true
}

type stubImages struct {
	failing map[string]error
	saved   []string
}

func (s *stubImages) SaveFromURL(_ context.Context, url string, mt model.MediaType, id string) (*model.ImageMetadata, error) {
	if err := s.failing[url]; err != nil {
		return nil, err
	}
	s.saved = append(s.saved, url)
	return &model.ImageMetadata{Path: fmt.Sprintf("%s/%s.jpg", mt, id), SourceURL: url, ContentType: "image/jpeg"}, nil
}

func newOrchestrator(strategy lookup.Strategy, images *stubImages) (*Orchestrator, *stubSource) {
	source := &stubSource{strategy: strategy}
	return NewOrchestrator(source, images, logger.NewNop()), source
}

func TestEnrichUsesExistingImageURLFirst(t *testing.T) {
	strategy := &stubStrategy{media: model.MediaTypeMovie}
	images := &stubImages{}
	o, source := newOrchestrator(strategy, images)

	movie := &model.Movie{ID: "m1", Barcode: "012345678905", ImageURL: "https://img.example/existing.jpg"}
	outcome := o.Enrich(context.Background(), movie)

	require.True(t, outcome.Success)
	assert.Equal(t, "https://img.example/existing.jpg", outcome.ImageURL)
	assert.Equal(t, "movie/m1.jpg", outcome.SavedImage.Path)
	assert.Empty(t, strategy.calls)
	assert.Empty(t, source.requests)
}

func TestEnrichFallsBackToLookupWhenExistingURLFails(t *testing.T) {
	strategy := &stubStrategy{
		media:  model.MediaTypeGame,
		result: &lookup.GameResult{Title: "Halo Infinite", ImageURL: "https://img.example/halo.jpg"},
	}
	images := &stubImages{failing: map[string]error{"https://broken.example/x.jpg": errors.New("404")}}
	o, _ := newOrchestrator(strategy, images)

	game := &model.Game{ID: "g1", Barcode: "887256301891", ImageURL: "https://broken.example/x.jpg"}
	outcome := o.Enrich(context.Background(), game)

	require.True(t, outcome.Success)
	assert.Equal(t, "https://img.example/halo.jpg", outcome.ImageURL)
	assert.Equal(t, []string{"upc:887256301891"}, strategy.calls)
	assert.Equal(t, []string{"https://img.example/halo.jpg"}, images.saved)
}

func TestEnrichPermanentFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("missing identity", func(t *testing.T) {
		o, _ := newOrchestrator(&stubStrategy{media: model.MediaTypeBook}, &stubImages{})
		outcome := o.Enrich(ctx, &model.Book{ISBN: "9780261103573"})
		assert.False(t, outcome.Success)
		assert.True(t, outcome.PermanentFailure)
		assert.Equal(t, ReasonMissingIdentity, outcome.ErrorMessage)
	})

	t.Run("blank identifier", func(t *testing.T) {
		o, source := newOrchestrator(&stubStrategy{media: model.MediaTypeMusic}, &stubImages{})
		outcome := o.Enrich(ctx, &model.Music{ID: "a1", Barcode: "   "})
		assert.True(t, outcome.PermanentFailure)
		assert.Equal(t, ReasonMissingIdentifier, outcome.ErrorMessage)
		assert.Empty(t, source.requests)
	})

	t.Run("unsupported combination", func(t *testing.T) {
		o, _ := newOrchestrator(nil, &stubImages{})
		outcome := o.Enrich(ctx, &model.Movie{ID: "m1", Barcode: "012345678905"})
		assert.True(t, outcome.PermanentFailure)
		assert.Equal(t, "unsupported combination: movie/upc", outcome.ErrorMessage)
	})

	t.Run("strategy rejects identifier", func(t *testing.T) {
		strategy := &stubStrategy{media: model.MediaTypeBook, err: fmt.Errorf("%w: book/isbn", lookup.ErrUnsupported)}
		o, _ := newOrchestrator(strategy, &stubImages{})
		outcome := o.Enrich(ctx, &model.Book{ID: "b1", ISBN: "9780261103573"})
		assert.True(t, outcome.PermanentFailure)
		assert.Contains(t, outcome.ErrorMessage, "book/isbn")
	})
}

func TestEnrichTransientFailures(t *testing.T) {
	ctx := context.Background()
	book := &model.Book{ID: "b1", ISBN: "9780261103573"}

	t.Run("lookup error", func(t *testing.T) {
		strategy := &stubStrategy{media: model.MediaTypeBook, err: errors.New("connection reset")}
		o, _ := newOrchestrator(strategy, &stubImages{})
		outcome := o.Enrich(ctx, book)
		assert.False(t, outcome.Success)
		assert.False(t, outcome.PermanentFailure)
		assert.Equal(t, "lookup failed: connection reset", outcome.ErrorMessage)
	})

	t.Run("no data", func(t *testing.T) {
		o, _ := newOrchestrator(&stubStrategy{media: model.MediaTypeBook}, &stubImages{})
		outcome := o.Enrich(ctx, book)
		assert.False(t, outcome.PermanentFailure)
		assert.Equal(t, ReasonNoLookupResult, outcome.ErrorMessage)
	})

	t.Run("result without image", func(t *testing.T) {
		strategy := &stubStrategy{media: model.MediaTypeBook, result: &lookup.BookResult{Title: "The Hobbit"}}
		o, _ := newOrchestrator(strategy, &stubImages{})
		outcome := o.Enrich(ctx, book)
		assert.False(t, outcome.PermanentFailure)
		assert.Equal(t, ReasonNoImageURL, outcome.ErrorMessage)
	})

	t.Run("download failure", func(t *testing.T) {
		url := "https://covers.example/b.jpg"
		strategy := &stubStrategy{media: model.MediaTypeBook, result: &lookup.BookResult{ImageURL: url}}
		images := &stubImages{failing: map[string]error{url: errors.New("unexpected status 503")}}
		o, _ := newOrchestrator(strategy, images)
		outcome := o.Enrich(ctx, book)
		assert.False(t, outcome.PermanentFailure)
		assert.Equal(t, url, outcome.ImageURL)
		assert.Equal(t, "image download failed: unexpected status 503", outcome.ErrorMessage)
	})
}

func TestEnrichClassifiesBarcodes(t *testing.T) {
	strategy := &stubStrategy{media: model.MediaTypeMusic}
	o, source := newOrchestrator(strategy, &stubImages{})

	o.Enrich(context.Background(), &model.Music{ID: "1", Barcode: "0077774644921"})
	o.Enrich(context.Background(), &model.Music{ID: "2", Barcode: "077774644921"})

	assert.Equal(t, []string{"music/ean", "music/upc"}, source.requests)
}

func TestClassifyIdentifier(t *testing.T) {
	assert.Equal(t, model.IdentifierISBN, ClassifyIdentifier(model.IdentifierKindISBN, "0261103571"))
	assert.Equal(t, model.IdentifierISBN, ClassifyIdentifier(model.IdentifierKindISBN, "9780261103573"))
	assert.Equal(t, model.IdentifierEAN, ClassifyIdentifier(model.IdentifierKindBarcode, "4006381333931"))
	assert.Equal(t, model.IdentifierUPC, ClassifyIdentifier(model.IdentifierKindBarcode, "012345678905"))
	assert.Equal(t, model.IdentifierUPC, ClassifyIdentifier(model.IdentifierKindBarcode, "40063813339A1"))
}

func TestOutcomeAttempt(t *testing.T) {
	at := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)

	ok := success("https://x", &model.ImageMetadata{Path: "book/1.jpg"}).Attempt(at)
	require.NotNil(t, ok.AttemptedAt)
	assert.Equal(t, at, *ok.AttemptedAt)
	assert.Nil(t, ok.FailureReason)
	assert.False(t, ok.PermanentFailure)

	failed := permanent(ReasonMissingIdentifier).Attempt(at)
	require.NotNil(t, failed.FailureReason)
	assert.Equal(t, ReasonMissingIdentifier, *failed.FailureReason)
	assert.True(t, failed.PermanentFailure)

	retry := transient("", ReasonNoImageURL).Attempt(at)
	assert.False(t, retry.PermanentFailure)
	assert.Equal(t, ReasonNoImageURL, *retry.FailureReason)
}
