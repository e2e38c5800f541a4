package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"aicreat-gateway/internal/creative"
	"aicreat-gateway/internal/handlers"
	"aicreat-gateway/internal/middleware"
	"aicreat-gateway/internal/models"
	"aicreat-gateway/internal/poller"
	"aicreat-gateway/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend is a scripted generation backend that records what it received.
type backend struct {
	t      *testing.T
	server *httptest.Server

	mu     sync.Mutex
	tokens []string
	bodies map[string][]byte
}

func newBackend(t *testing.T, routes map[string]http.HandlerFunc) *backend {
	t.Helper()
	b := &backend{t: t, bodies: make(map[string][]byte)}
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		key := r.Method + " " + r.URL.Path
		b.mu.Lock()
		b.tokens = append(b.tokens, r.Header.Get("Authorization"))
		b.bodies[key] = body
		b.mu.Unlock()

		route, ok := routes[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Not Found"}`))
			return
		}
		route(w, r)
	}))
	t.Cleanup(b.server.Close)
	return b
}

func (b *backend) client() *creative.Client {
	return creative.NewClient(creative.Options{BaseURL: b.server.URL})
}

func (b *backend) body(key string) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[key]
}

func (b *backend) lastToken() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.tokens) == 0 {
		return ""
	}
	return b.tokens[len(b.tokens)-1]
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// authAs stands in for the JWT middleware.
func authAs(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.TokenKey, "token-"+userID)
		c.Next()
	}
}

func serve(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func init() {
	gin.SetMode(gin.TestMode)
}

const assetJSON = `{"id":"asset-1","originalAssetId":"orig-1","filename":"post.jpg","assetUrl":"/files/post.jpg","formatName":"Instagram Post","dimensions":{"width":1000,"height":1000},"isNsfw":false}`

func TestCatalog_ForwardsToken(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /api/v1/providers": respond(http.StatusOK, `{"providers":["gemini","openai"],"default_provider":"openai"}`),
	})
	h := handlers.NewCatalogHandler(b.client())
	r := gin.New()
	r.GET("/providers", authAs("user-1"), h.GetProviders)

	w := serve(r, http.MethodGet, "/providers", nil)

	require.Equal(t, http.StatusOK, w.Code)
	got := decode[creative.ProvidersResponse](t, w)
	assert.Equal(t, "openai", got.DefaultProvider)
	assert.Equal(t, "Bearer token-user-1", b.lastToken())
}

func TestCatalog_FormatsFallBack(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /api/v1/formats": respond(http.StatusInternalServerError, `{"detail":"boom"}`),
	})
	h := handlers.NewCatalogHandler(b.client())
	r := gin.New()
	r.GET("/formats", authAs("user-1"), h.GetFormats)

	w := serve(r, http.MethodGet, "/formats", nil)

	require.Equal(t, http.StatusOK, w.Code)
	got := decode[creative.FormatsResponse](t, w)
	assert.NotEmpty(t, got.Resizing)
}

func TestAssets_ApplyEditsNormalizes(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /api/v1/generated-assets/asset-1":            respond(http.StatusOK, assetJSON),
		"PUT /api/v1/generation/generated-assets/asset-1": respond(http.StatusOK, assetJSON),
	})
	h := handlers.NewAssetsHandler(b.client(), 600, zerolog.Nop())
	r := gin.New()
	r.PUT("/assets/:asset_id/edits", authAs("user-1"), h.ApplyEdits)

	w := serve(r, http.MethodPut, "/assets/asset-1/edits", map[string]any{
		"display_width": 500,
		"crop":          map[string]float64{"x": 50, "y": 50, "width": 400, "height": 400},
		"saturation":    -50,
		"text_overlays": []map[string]any{{"text": "Sale", "x": 250, "y": 125}},
		"logo_overlays": []map[string]any{{"x": 10, "y": 10, "width": 50, "height": 50, "source": "logo.png"}},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.ApplyEditsResponse](t, w)
	assert.InDelta(t, 0.1, resp.Edits.Crop.X, 1e-9)
	assert.InDelta(t, 0.8, resp.Edits.Crop.Width, 1e-9)
	assert.InDelta(t, -0.5, resp.Edits.Saturation, 1e-9)
	require.Len(t, resp.Edits.TextOverlays, 1)
	assert.InDelta(t, 0.5, resp.Edits.TextOverlays[0].Position.X, 1e-9)
	assert.InDelta(t, 0.25, resp.Edits.TextOverlays[0].Position.Y, 1e-9)
	assert.Equal(t, "Inter", resp.Edits.TextOverlays[0].Style.FontFamily)
	assert.Empty(t, resp.Edits.LogoOverlays)
	require.Len(t, resp.Notices, 1)
	assert.Contains(t, resp.Notices[0], "logo")

	var sent struct {
		Edits creative.EditRequest `json:"edits"`
	}
	require.NoError(t, json.Unmarshal(b.body("PUT /api/v1/generation/generated-assets/asset-1"), &sent))
	assert.Equal(t, resp.Edits.Crop, sent.Edits.Crop)
}

func TestAssets_ApplyEditsErrors(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /api/v1/generated-assets/asset-1":            respond(http.StatusOK, assetJSON),
		"PUT /api/v1/generation/generated-assets/asset-1": respond(http.StatusUnprocessableEntity, `{"detail":"crop too small"}`),
	})
	h := handlers.NewAssetsHandler(b.client(), 0, zerolog.Nop())
	r := gin.New()
	r.PUT("/assets/:asset_id/edits", authAs("user-1"), h.ApplyEdits)

	t.Run("backend rejects", func(t *testing.T) {
		w := serve(r, http.MethodPut, "/assets/asset-1/edits", map[string]any{"saturation": 20})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decode[models.ErrorResponse](t, w)
		assert.Equal(t, "crop too small", resp.Message)
	})

	t.Run("saturation out of range", func(t *testing.T) {
		w := serve(r, http.MethodPut, "/assets/asset-1/edits", map[string]any{"saturation": 150})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown asset", func(t *testing.T) {
		w := serve(r, http.MethodPut, "/assets/missing/edits", map[string]any{"saturation": 10})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDownloads_BatchPSDFallsBack(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"POST /api/v1/download/batch": respond(http.StatusOK, `{"downloadUrl":"/files/batch.zip"}`),
	})
	h := handlers.NewDownloadsHandler(b.client())
	r := gin.New()
	r.POST("/downloads/batch", authAs("user-1"), h.DownloadBatch)

	w := serve(r, http.MethodPost, "/downloads/batch", models.BatchDownloadRequest{
		AssetIDs: []string{"a", "b"},
		Format:   "PSD",
		Quality:  "Medium",
		Grouping: "Individual",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.DownloadResponse](t, w)
	assert.Equal(t, "/files/batch.zip", resp.DownloadURL)
	assert.Len(t, resp.Notices, 1)

	var sent creative.BatchDownloadRequest
	require.NoError(t, json.Unmarshal(b.body("POST /api/v1/download/batch"), &sent))
	assert.Equal(t, "jpeg", sent.Format)
	assert.Equal(t, "medium", sent.Quality)
	assert.Equal(t, "individual", sent.Grouping)
}

func TestDownloads_EmptySelection(t *testing.T) {
	b := newBackend(t, nil)
	h := handlers.NewDownloadsHandler(b.client())
	r := gin.New()
	r.POST("/downloads/batch", authAs("user-1"), h.DownloadBatch)

	w := serve(r, http.MethodPost, "/downloads/batch", models.BatchDownloadRequest{Format: "JPEG"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownloads_Single(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"POST /api/v1/download": respond(http.StatusOK, `{"download_url":"https://cdn.example.com/a.jpg"}`),
	})
	h := handlers.NewDownloadsHandler(b.client())
	r := gin.New()
	r.POST("/downloads", authAs("user-1"), h.Download)

	w := serve(r, http.MethodPost, "/downloads", models.DownloadRequest{AssetIDs: []string{"a"}})

	require.Equal(t, http.StatusOK, w.Code)
	var sent creative.DownloadRequest
	require.NoError(t, json.Unmarshal(b.body("POST /api/v1/download"), &sent))
	assert.Equal(t, "jpeg", sent.Format)
	assert.Equal(t, "high", sent.Quality)
}

func TestProjects(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"GET /api/v1/projects":           respond(http.StatusOK, `{"projects":[{"id":"p1","name":"Spring","status":"ready"}],"total":1}`),
		"DELETE /api/v1/projects/p1":     respond(http.StatusNoContent, ``),
		"GET /api/v1/projects/p1/status": respond(http.StatusOK, `{"project_id":"p1","status":"processing","progress":30}`),
		"DELETE /api/v1/projects/locked": respond(http.StatusServiceUnavailable, `{"detail":"try later"}`),
	})
	h := handlers.NewProjectsHandler(b.client())
	r := gin.New()
	r.Use(authAs("user-1"))
	r.GET("/projects", h.ListProjects)
	r.GET("/projects/:project_id/status", h.GetProjectStatus)
	r.DELETE("/projects/:project_id", h.DeleteProject)

	w := serve(r, http.MethodGet, "/projects?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[creative.ProjectList](t, w).Total)

	w = serve(r, http.MethodGet, "/projects?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodGet, "/projects/p1/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 30, decode[creative.ProjectStatus](t, w).Progress)

	w = serve(r, http.MethodDelete, "/projects/p1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(r, http.MethodDelete, "/projects/locked", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func newJobsRouter(t *testing.T, b *backend, history handlers.JobHistory) *gin.Engine {
	t.Helper()
	jobs := services.NewJobService(services.JobServiceOptions{
		Poll:   poller.Options{RunningDelay: time.Millisecond, ErrorDelay: time.Millisecond},
		Logger: zerolog.Nop(),
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = jobs.Shutdown(ctx)
	})

	h := handlers.NewJobsHandler(b.client(), jobs, history)
	r := gin.New()
	for _, user := range []string{"user-1", "user-2"} {
		g := r.Group("/" + user)
		g.Use(authAs(user))
		g.POST("/generate", h.Generate)
		g.GET("/jobs", h.ListJobs)
		g.GET("/jobs/:job_id", h.GetJob)
		g.DELETE("/jobs/:job_id", h.CancelJob)
	}
	return r
}

func TestJobs_GenerateAndFollow(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"POST /api/v1/generate":              respond(http.StatusOK, `{"job_id":"job-1","status":"pending","progress":0}`),
		"GET /api/v1/generate/job-1/status":  respond(http.StatusOK, `{"status":"completed","progress":100}`),
		"GET /api/v1/generate/job-1/results": respond(http.StatusOK, `{"instagram":[`+assetJSON+`]}`),
	})
	r := newJobsRouter(t, b, nil)

	w := serve(r, http.MethodPost, "/user-1/generate", models.GenerateRequest{
		ProjectID: "p1",
		FormatIDs: []string{"instagram-post"},
	})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	started := decode[models.GenerateResponse](t, w)
	assert.Equal(t, "job-1", started.JobID)
	assert.Equal(t, "/api/v1/jobs/job-1", started.StatusURL)

	require.Eventually(t, func() bool {
		w := serve(r, http.MethodGet, "/user-1/jobs/job-1", nil)
		var view models.JobView
		return w.Code == http.StatusOK && json.Unmarshal(w.Body.Bytes(), &view) == nil && view.State == "completed"
	}, 2*time.Second, 5*time.Millisecond)

	view := decode[models.JobView](t, serve(r, http.MethodGet, "/user-1/jobs/job-1", nil))
	assert.Equal(t, 1, view.AssetCount)
	assert.Equal(t, 100, view.Progress)

	w = serve(r, http.MethodGet, "/user-2/jobs/job-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJobs_GenerateValidation(t *testing.T) {
	b := newBackend(t, nil)
	r := newJobsRouter(t, b, nil)

	w := serve(r, http.MethodPost, "/user-1/generate", map[string]any{"project_id": "p1"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJobs_GenerateBackendDown(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"POST /api/v1/generate": respond(http.StatusServiceUnavailable, `{"detail":"queue full"}`),
	})
	r := newJobsRouter(t, b, nil)

	w := serve(r, http.MethodPost, "/user-1/generate", models.GenerateRequest{ProjectID: "p1", FormatIDs: []string{"x"}})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "queue full", decode[models.ErrorResponse](t, w).Message)
}

func TestJobs_Cancel(t *testing.T) {
	b := newBackend(t, map[string]http.HandlerFunc{
		"POST /api/v1/generate":             respond(http.StatusOK, `{"job_id":"job-2","status":"pending"}`),
		"GET /api/v1/generate/job-2/status": respond(http.StatusOK, `{"status":"running","progress":10}`),
	})
	r := newJobsRouter(t, b, nil)

	w := serve(r, http.MethodPost, "/user-1/generate", models.GenerateRequest{ProjectID: "p1", FormatIDs: []string{"x"}})
	require.Equal(t, http.StatusAccepted, w.Code)

	w = serve(r, http.MethodDelete, "/user-2/jobs/job-2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, http.MethodDelete, "/user-1/jobs/job-2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "canceled", decode[models.JobView](t, w).State)
}

func TestJobs_ListWithoutHistory(t *testing.T) {
	r := newJobsRouter(t, newBackend(t, nil), nil)

	w := serve(r, http.MethodGet, "/user-1/jobs", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return assert.AnError }

	r := gin.New()
	r.GET("/healthy", handlers.NewHealthHandler(nil).Health)
	r.GET("/degraded", handlers.NewHealthHandler(map[string]handlers.Check{"redis": ok, "database": down}).Health)

	w := serve(r, http.MethodGet, "/healthy", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[models.HealthResponse](t, w).Status)

	w = serve(r, http.MethodGet, "/degraded", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decode[models.HealthResponse](t, w)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "ok", resp.Checks["redis"])
}
