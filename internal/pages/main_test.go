package pages

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/hello-site/internal/render"
)

type stubRenderer struct {
	body  []byte
	err   error
	names []string
}

func (s *stubRenderer) Render(name string, _ any) ([]byte, error) {
	s.names = append(s.names, name)
	return s.body, s.err
}

func setupTestEngine(t *testing.T, renderer Renderer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	require.NoError(t, NewMain(renderer, zaptest.NewLogger(t)).Attach(engine))
	return engine
}

func TestNewMainDefinesSingleRoute(t *testing.T) {
	c := NewMain(&stubRenderer{}, nil)

	assert.Equal(t, MainCollection, c.Name())
	routes := c.Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, http.MethodGet, routes[0].Method)
	assert.Equal(t, "/", routes[0].Path)
}

func TestIndexRendersTemplate(t *testing.T) {
	stub := &stubRenderer{body: []byte("<h1>hi</h1>")}
	engine := setupTestEngine(t, stub)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<h1>hi</h1>", rec.Body.String())
	assert.Equal(t, []string{IndexTemplate}, stub.names)
}

func TestIndexWithRealRenderer(t *testing.T) {
	fsys := fstest.MapFS{IndexTemplate: {Data: []byte("<p>from fs</p>")}}
	engine := setupTestEngine(t, render.New(fsys))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<p>from fs</p>", rec.Body.String())
}

func TestIndexRenderFailureReturns500(t *testing.T) {
	engine := setupTestEngine(t, render.New(fstest.MapFS{}))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "index.html")
}

func TestIndexRenderFailureRecordsError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	var recorded error
	engine.Use(func(c *gin.Context) {
		c.Next()
		if last := c.Errors.Last(); last != nil {
			recorded = last.Err
		}
	})
	require.NoError(t, NewMain(render.New(fstest.MapFS{}), zaptest.NewLogger(t)).Attach(engine))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var renderErr *render.TemplateRenderError
	require.True(t, errors.As(recorded, &renderErr))
	assert.ErrorIs(t, recorded, render.ErrTemplateNotFound)
}

func TestIndexMethodAndPathHandling(t *testing.T) {
	engine := setupTestEngine(t, &stubRenderer{body: []byte("ok")})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
