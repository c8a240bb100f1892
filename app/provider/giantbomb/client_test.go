package giantbomb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"mediashelf/app/config"
	"mediashelf/app/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(config.GiantBombConfig{BaseURL: server.URL, APIKey: "gb-key"}, "mediashelf-test")
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

func TestSearchGames(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/search/", r.URL.Path)
		assert.Equal(t, "gb-key", q.Get("api_key"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "game", q.Get("resources"))
		if q.Get("query") == "Nothing" {
			writeJSON(w, `{"error":"OK","status_code":1,"results":[]}`)
			return
		}
		writeJSON(w, `{"error":"OK","status_code":1,"results":[
			{"guid":"3030-1","name":"Halo: The Master Chief Collection"},
			{"guid":"3030-2","name":"Halo Infinite","image":{"original_url":"https://img.example/halo.jpg"}}
		]}`)
	})

	results, err := client.SearchGames(context.Background(), "Halo Infinite")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "3030-2", results[1].GUID)
	assert.Equal(t, "https://img.example/halo.jpg", results[1].Image.Best())

	results, err = client.SearchGames(context.Background(), "Nothing")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGameDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/game/3030-2/":
			writeJSON(w, `{"error":"OK","status_code":1,"results":{
				"guid":"3030-2","name":"Halo Infinite","deck":"Master Chief returns.",
				"platforms":[{"name":"Xbox Series X|S","abbreviation":"XBSX"}],
				"original_game_rating":[{"name":"ESRB: T"}]
			}}`)
		case "/game/missing/":
			writeJSON(w, `{"error":"Object Not Found","status_code":101,"results":[]}`)
		case "/game/limited/":
			writeJSON(w, `{"error":"Rate limit exceeded","status_code":107,"results":[]}`)
		case "/game/throttled/":
			w.WriteHeader(http.StatusTooManyRequests)
		case "/game/bad-key/":
			writeJSON(w, `{"error":"Invalid API Key","status_code":100,"results":[]}`)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	game, err := client.GameDetails(ctx, "3030-2")
	require.NoError(t, err)
	require.NotNil(t, game)
	assert.Equal(t, "Halo Infinite", game.Name)
	assert.Equal(t, "XBSX", game.Platforms[0].Abbreviation)
	assert.Equal(t, "ESRB: T", game.OriginalGameRating[0].Name)

	game, err = client.GameDetails(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, game)

	game, err = client.GameDetails(ctx, "gone")
	assert.NoError(t, err)
	assert.Nil(t, game)

	_, err = client.GameDetails(ctx, "limited")
	assert.ErrorIs(t, err, provider.ErrRateLimited)

	_, err = client.GameDetails(ctx, "throttled")
	assert.ErrorIs(t, err, provider.ErrRateLimited)

	_, err = client.GameDetails(ctx, "bad-key")
	assert.ErrorContains(t, err, "Invalid API Key")
}
