package lookup

import (
	"context"
	"strings"

	"mediashelf/app/provider/giantbomb"
	"mediashelf/app/provider/musicbrainz"
	"mediashelf/app/provider/openlibrary"
	"mediashelf/app/provider/tmdb"
	"mediashelf/app/provider/upcitemdb"
)

type fakeBarcodes struct {
	items map[string][]upcitemdb.Item
	err   error
	calls []string
}

func (f *fakeBarcodes) ByCode(_ context.Context, code string) (*upcitemdb.Response, error) {
	f.calls = append(f.calls, code)
	if f.err != nil {
		return nil, f.err
	}
	items, ok := f.items[code]
	if !ok || len(items) == 0 {
		return nil, nil
	}
	return &upcitemdb.Response{Code: "OK", Total: len(items), Items: items}, nil
}

type fakeBooks struct {
	byKey map[string]*openlibrary.Book
	err   error
	calls []string
}

func (f *fakeBooks) find(kind, value string) (*openlibrary.Book, error) {
	f.calls = append(f.calls, kind+":"+value)
	if f.err != nil {
		return nil, f.err
	}
	return f.byKey[kind+":"+value], nil
}

func (f *fakeBooks) ByISBN(_ context.Context, v string) (*openlibrary.Book, error) {
	return f.find("ISBN", v)
}

func (f *fakeBooks) ByLCCN(_ context.Context, v string) (*openlibrary.Book, error) {
	return f.find("LCCN", v)
}

func (f *fakeBooks) ByOCLC(_ context.Context, v string) (*openlibrary.Book, error) {
	return f.find("OCLC", v)
}

func (f *fakeBooks) ByOLID(_ context.Context, v string) (*openlibrary.Book, error) {
	return f.find("OLID", v)
}

func (f *fakeBooks) CoverURLForISBN(isbn string) string {
	if isbn == "" {
		return ""
	}
	return "https://covers.example/" + isbn + ".jpg"
}

type fakeMovies struct {
	hits    map[string][]tmdb.SearchResult
	details map[int64]*tmdb.Movie
	err     error
	queries []string
}

func (f *fakeMovies) SearchMovie(_ context.Context, title string) ([]tmdb.SearchResult, error) {
	f.queries = append(f.queries, title)
	if f.err != nil {
		return nil, f.err
	}
	return f.hits[title], nil
}

func (f *fakeMovies) MovieDetails(_ context.Context, id int64) (*tmdb.Movie, error) {
	return f.details[id], nil
}

func (f *fakeMovies) PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return "https://image.example/w500" + path
}

type fakeGames struct {
	hits      map[string][]giantbomb.SearchResult
	details   map[string]*giantbomb.Game
	queries   []string
	requested []string
}

func (f *fakeGames) SearchGames(_ context.Context, title string) ([]giantbomb.SearchResult, error) {
	f.queries = append(f.queries, title)
	return f.hits[title], nil
}

func (f *fakeGames) GameDetails(_ context.Context, guid string) (*giantbomb.Game, error) {
	f.requested = append(f.requested, guid)
	return f.details[guid], nil
}

type fakeMusic struct {
	byBarcode map[string][]musicbrainz.Release
	byTitle   map[string][]musicbrainz.Release
	releases  map[string]*musicbrainz.Release
	queries   []string
}

func (f *fakeMusic) SearchByBarcode(_ context.Context, barcode string) ([]musicbrainz.Release, error) {
	return f.byBarcode[barcode], nil
}

func (f *fakeMusic) SearchByTitle(_ context.Context, title string) ([]musicbrainz.Release, error) {
	f.queries = append(f.queries, title)
	return f.byTitle[title], nil
}

func (f *fakeMusic) Release(_ context.Context, id string) (*musicbrainz.Release, error) {
	return f.releases[id], nil
}

func (f *fakeMusic) CoverURL(id string) string {
	return "https://coverart.example/release/" + strings.ToLower(id) + "/front"
}
