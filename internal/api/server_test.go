package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodreel/backend/internal/api"
	"github.com/moodreel/backend/internal/catalog"
	"github.com/moodreel/backend/internal/config"
	"github.com/moodreel/backend/internal/engine"
	"github.com/moodreel/backend/internal/index"
)

const moviesCSV = `movieId,title,genres
1,Toy Story (1995),Adventure|Animation|Children|Comedy|Fantasy
2,Jumanji (1995),Adventure|Children|Fantasy
3,Grumpier Old Men (1995),Comedy|Romance
4,Waiting to Exhale (1995),Comedy|Drama|Romance
6,Heat (1995),Action|Crime|Thriller
`

func setupServer(t *testing.T) *api.Server {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	entry := logger.WithField("test", "api")

	cat, err := catalog.ParseCSV("inline", strings.NewReader(moviesCSV))
	require.NoError(t, err)
	idx, err := index.Build(cat)
	require.NoError(t, err)

	eng := engine.NewEngine(config.Load(), entry, idx)
	return api.NewServer(eng, entry)
}

func postRecommend(t *testing.T, server *api.Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, _ := http.NewRequest("POST", "/api/v1/recommend", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	return rr
}

func decodeRecommend(t *testing.T, rr *httptest.ResponseRecorder) api.RecommendResponse {
	t.Helper()
	var resp api.RecommendResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestHandleRecommend(t *testing.T) {
	server := setupServer(t)

	rr := postRecommend(t, server, `{"prompt": "romance comedy", "n": 2}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	resp := decodeRecommend(t, rr)
	assert.Equal(t, engine.StatusOK, resp.Status)
	assert.Empty(t, resp.Message)
	require.Equal(t, 2, resp.Count)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Grumpier Old Men (1995)", resp.Results[0].Title)
	assert.Equal(t, "Comedy|Romance", resp.Results[0].Genres)
	assert.GreaterOrEqual(t, resp.Results[0].Score, resp.Results[1].Score)
}

func TestHandleRecommend_DefaultN(t *testing.T) {
	server := setupServer(t)

	rr := postRecommend(t, server, `{"prompt": "something fun"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	// Default n is larger than the catalog, so every movie is ranked.
	assert.Equal(t, 5, decodeRecommend(t, rr).Count)
}

func TestHandleRecommend_MissingPrompt(t *testing.T) {
	server := setupServer(t)

	rr := postRecommend(t, server, `{"prompt": "   ", "n": 3}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	resp := decodeRecommend(t, rr)
	assert.Equal(t, engine.StatusMissingPrompt, resp.Status)
	assert.Equal(t, engine.StatusMissingPrompt.Message(), resp.Message)
	assert.Equal(t, 0, resp.Count)
	assert.NotNil(t, resp.Results)
	assert.Contains(t, rr.Body.String(), `"results":[]`)
}

func TestHandleRecommend_Filters(t *testing.T) {
	server := setupServer(t)

	rr := postRecommend(t, server, `{
		"prompt": "comedy",
		"genres": ["Comedy"],
		"seen": ["Toy Story (1995)"],
		"seen_text": "Waiting to Exhale (1995), "
	}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	resp := decodeRecommend(t, rr)
	assert.Equal(t, engine.StatusOK, resp.Status)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Grumpier Old Men (1995)", resp.Results[0].Title)
}

func TestHandleRecommend_NoResults(t *testing.T) {
	server := setupServer(t)

	rr := postRecommend(t, server, `{"prompt": "comedy", "genres": ["Horror"]}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	resp := decodeRecommend(t, rr)
	assert.Equal(t, engine.StatusNoResults, resp.Status)
	assert.Equal(t, engine.StatusNoResults.Message(), resp.Message)
	assert.Empty(t, resp.Results)
}

func TestHandleRecommend_BadRequests(t *testing.T) {
	server := setupServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"prompt": `},
		{"zero n", `{"prompt": "comedy", "n": 0}`},
		{"negative n", `{"prompt": "comedy", "n": -3}`},
		{"n above limit", `{"prompt": "comedy", "n": 51}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postRecommend(t, server, tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)

			var resp api.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHandleRecommend_MethodNotAllowed(t *testing.T) {
	server := setupServer(t)

	req, _ := http.NewRequest("GET", "/api/v1/recommend", nil)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandleGenres(t *testing.T) {
	server := setupServer(t)

	req, _ := http.NewRequest("GET", "/api/v1/genres", nil)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp api.GenresResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, []string{
		"Action", "Adventure", "Animation", "Children", "Comedy",
		"Crime", "Drama", "Fantasy", "Romance", "Thriller",
	}, resp.Genres)
}

func TestHandleStatus(t *testing.T) {
	server := setupServer(t)
	postRecommend(t, server, `{"prompt": "comedy"}`)

	req, _ := http.NewRequest("GET", "/api/v1/status", nil)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp api.StatusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "inline", resp.Source)
	assert.Equal(t, 5, resp.Movies)
	assert.Greater(t, resp.VocabularySize, 0)
	assert.Equal(t, int64(1), resp.QueriesServed)
	assert.NotEmpty(t, resp.Uptime)
}

func TestHandleStatus_MethodNotAllowed(t *testing.T) {
	server := setupServer(t)

	for _, method := range []string{"POST", "DELETE"} {
		req, _ := http.NewRequest(method, "/api/v1/status", nil)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code, method)
	}
}

func TestHandleRecommend_BlankPromptWithZeroN(t *testing.T) {
	server := setupServer(t)

	rr := postRecommend(t, server, `{"prompt": "   ", "n": 0}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, engine.StatusMissingPrompt, decodeRecommend(t, rr).Status)
}

func TestRequestID(t *testing.T) {
	server := setupServer(t)

	req, _ := http.NewRequest("GET", "/api/v1/genres", nil)
	req.Header.Set(api.RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(api.RequestIDHeader))

	req, _ = http.NewRequest("GET", "/api/v1/genres", nil)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Len(t, rr.Header().Get(api.RequestIDHeader), 36)
}

func TestMetricsEndpoint(t *testing.T) {
	server := setupServer(t)
	postRecommend(t, server, `{"prompt": "comedy"}`)

	req, _ := http.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "moodreel_api_requests_total")
}
