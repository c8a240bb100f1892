package store

import (
	"context"
	"testing"
	"time"

	"mediashelf/app/database"
	"mediashelf/app/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *CatalogStore {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return New(db)
}

var base = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return base.Add(time.Duration(minutes) * time.Minute)
}

func ptr[T any](v T) *T { return &v }

func TestCreateAssignsID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := &model.Book{Title: "The Hobbit", ISBN: "9780261103344"}
	require.NoError(t, s.Create(ctx, book))
	assert.Len(t, book.ID, 36)

	got, err := s.Get(ctx, model.MediaTypeBook, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Hobbit", got.DisplayTitle())
	assert.Equal(t, model.LookupKey{Value: "9780261103344", Kind: model.IdentifierKindISBN}, got.LookupKey())

	_, err = s.Get(ctx, model.MediaTypeBook, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindNeedingEnrichment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entities := []*model.Game{
		{ID: "g3", Title: "third", Barcode: "3", CreatedAt: at(3)},
		{ID: "g1", Title: "first", Barcode: "1", CreatedAt: at(1)},
		{ID: "covered", Title: "has cover", Barcode: "4", CreatedAt: at(0), CoverImage: model.ImageMetadata{Path: "game/covered.jpg"}},
		{ID: "tried", Title: "attempted", Barcode: "5", CreatedAt: at(0), Enrichment: model.EnrichmentAttempt{AttemptedAt: ptr(at(10)), FailureReason: ptr("no image URL returned")}},
		{ID: "g2", Title: "second", Barcode: "2", CreatedAt: at(2)},
	}
	for _, e := range entities {
		require.NoError(t, s.Create(ctx, e))
	}

	found, err := s.FindNeedingEnrichment(ctx, model.MediaTypeGame, 10)
	require.NoError(t, err)
	ids := make([]string, 0, len(found))
	for _, e := range found {
		ids = append(ids, e.EntityID())
		assert.Equal(t, model.MediaTypeGame, e.MediaType())
	}
	assert.Equal(t, []string{"g1", "g2", "g3"}, ids)

	found, err = s.FindNeedingEnrichment(ctx, model.MediaTypeGame, 2)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = s.FindNeedingEnrichment(ctx, model.MediaTypeGame, 0)
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = s.FindNeedingEnrichment(ctx, model.MediaTypeMovie, 10)
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = s.FindNeedingEnrichment(ctx, model.MediaType("comic"), 10)
	assert.Error(t, err)
}

func TestUpdateAttemptSuccessWritesCover(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	music := &model.Music{ID: "a1", Title: "Abbey Road", Barcode: "077774644921"}
	require.NoError(t, s.Create(ctx, music))

	image := &model.ImageMetadata{
		Path:        "music/a1.jpg",
		SourceURL:   "https://coverart.example/a1",
		ContentType: "image/jpeg",
		Width:       600,
		Height:      600,
		Size:        48213,
		SavedAt:     ptr(at(5)),
	}
	attempt := model.EnrichmentAttempt{AttemptedAt: ptr(at(5))}
	require.NoError(t, s.UpdateAttempt(ctx, model.MediaTypeMusic, "a1", attempt, image))

	got, err := s.Get(ctx, model.MediaTypeMusic, "a1")
	require.NoError(t, err)
	assert.Equal(t, "music/a1.jpg", got.Cover().Path)
	assert.Equal(t, 600, got.Cover().Width)
	assert.Equal(t, int64(48213), got.Cover().Size)
	assert.True(t, got.Attempt().Attempted())
	assert.False(t, got.Attempt().Failed())

	found, err := s.FindNeedingEnrichment(ctx, model.MediaTypeMusic, 10)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestUpdateAttemptFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &model.Movie{ID: "m1", Title: "Akira", Barcode: "013138000125"}))

	attempt := model.EnrichmentAttempt{
		AttemptedAt:      ptr(at(1)),
		FailureReason:    ptr("unsupported combination: movie/upc"),
		PermanentFailure: true,
	}
	require.NoError(t, s.UpdateAttempt(ctx, model.MediaTypeMovie, "m1", attempt, nil))

	got, err := s.Get(ctx, model.MediaTypeMovie, "m1")
	require.NoError(t, err)
	assert.True(t, got.Cover().IsZero())
	assert.Equal(t, "unsupported combination: movie/upc", got.Attempt().Reason())
	assert.True(t, got.Attempt().PermanentFailure)

	err = s.UpdateAttempt(ctx, model.MediaTypeMovie, "missing", attempt, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResetAttemptsAndStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	books := []*model.Book{
		{ID: "ok", Title: "covered", ISBN: "1", CreatedAt: at(1)},
		{ID: "transient", Title: "retry me", ISBN: "2", CreatedAt: at(2)},
		{ID: "permanent", Title: "give up", ISBN: "", CreatedAt: at(3)},
		{ID: "pending", Title: "not yet", ISBN: "4", CreatedAt: at(4)},
	}
	for _, b := range books {
		require.NoError(t, s.Create(ctx, b))
	}
	require.NoError(t, s.UpdateAttempt(ctx, model.MediaTypeBook, "ok",
		model.EnrichmentAttempt{AttemptedAt: ptr(at(10))}, &model.ImageMetadata{Path: "book/ok.jpg"}))
	require.NoError(t, s.UpdateAttempt(ctx, model.MediaTypeBook, "transient",
		model.EnrichmentAttempt{AttemptedAt: ptr(at(10)), FailureReason: ptr("lookup failed: timeout")}, nil))
	require.NoError(t, s.UpdateAttempt(ctx, model.MediaTypeBook, "permanent",
		model.EnrichmentAttempt{AttemptedAt: ptr(at(10)), FailureReason: ptr("entity lacks required lookup identifier"), PermanentFailure: true}, nil))

	stats, err := s.Stats(ctx, model.MediaTypeBook)
	require.NoError(t, err)
	assert.Equal(t, Stats{MediaType: model.MediaTypeBook, Total: 4, WithCover: 1, Attempted: 3, Failed: 2, Permanent: 1, Pending: 1}, stats)

	n, err := s.ResetAttempts(ctx, model.MediaTypeBook, ResetOptions{TransientOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	found, err := s.FindNeedingEnrichment(ctx, model.MediaTypeBook, 10)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "transient", found[0].EntityID())
	assert.Equal(t, "pending", found[1].EntityID())

	n, err = s.ResetAttempts(ctx, model.MediaTypeBook, ResetOptions{ID: "permanent"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.Get(ctx, model.MediaTypeBook, "permanent")
	require.NoError(t, err)
	assert.False(t, got.Attempt().Attempted())
	assert.False(t, got.Attempt().PermanentFailure)

	stats, err = s.Stats(ctx, model.MediaTypeBook)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Attempted)
	assert.Equal(t, int64(3), stats.Pending)
	assert.Equal(t, int64(1), stats.WithCover)
}
