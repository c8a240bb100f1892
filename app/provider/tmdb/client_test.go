package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"mediashelf/app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTMDB(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tmdb-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "en-US", r.URL.Query().Get("language"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search/movie":
			assert.Equal(t, "The Matrix", r.URL.Query().Get("query"))
			w.Write([]byte(`{"page":1,"total_results":2,"results":[{"id":603,"title":"The Matrix","poster_path":"/f89U3ADr1oiB1s9GkdPOEpXUk5H.jpg"},{"id":604,"title":"The Matrix Reloaded"}]}`))
		case "/movie/603":
			w.Write([]byte(`{"id":603,"title":"The Matrix","runtime":136,"vote_average":8.2,"genres":[{"id":28,"name":"Action"}],"production_companies":[{"id":79,"name":"Village Roadshow Pictures"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false,"status_code":34}`))
		}
	}))
	defer server.Close()

	client := New(config.TMDBConfig{
		BaseURL:      server.URL,
		APIKey:       "tmdb-key",
		ImageBaseURL: "https://image.tmdb.org/t/p/w500/",
		Language:     "en-US",
	}, "mediashelf-test")
	ctx := context.Background()

	hits, err := client.SearchMovie(ctx, "The Matrix")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, int64(603), hits[0].ID)

	movie, err := client.MovieDetails(ctx, 603)
	require.NoError(t, err)
	require.NotNil(t, movie)
	assert.Equal(t, 136, movie.Runtime)
	assert.Equal(t, "Village Roadshow Pictures", movie.ProductionCompanies[0].Name)

	movie, err = client.MovieDetails(ctx, 999999)
	assert.NoError(t, err)
	assert.Nil(t, movie)

	assert.Equal(t, "https://image.tmdb.org/t/p/w500/f89U3ADr1oiB1s9GkdPOEpXUk5H.jpg", client.PosterURL(hits[0].PosterPath))
	assert.Empty(t, client.PosterURL(""))
}
