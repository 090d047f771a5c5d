package render

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderExecutesTemplate(t *testing.T) {
	fsys := fstest.MapFS{
		"index.html": {Data: []byte(`<h1>{{ .Title }}</h1>`)},
	}

	out, err := New(fsys).Render("index.html", map[string]string{"Title": "Hello"})
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hello</h1>", string(out))
}

func TestRenderEscapesData(t *testing.T) {
	fsys := fstest.MapFS{
		"index.html": {Data: []byte(`<p>{{ . }}</p>`)},
	}

	out, err := New(fsys).Render("index.html", "<script>")
	require.NoError(t, err)
	assert.Equal(t, "<p>&lt;script&gt;</p>", string(out))
}

func TestRenderMissingTemplate(t *testing.T) {
	_, err := New(fstest.MapFS{}).Render("index.html", nil)
	require.Error(t, err)

	var renderErr *TemplateRenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "index.html", renderErr.Name)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestRenderDirectoryIsNotATemplate(t *testing.T) {
	fsys := fstest.MapFS{
		"pages/about.html": {Data: []byte("about")},
	}

	_, err := New(fsys).Render("pages", nil)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestRenderNilFilesystem(t *testing.T) {
	_, err := New(nil).Render("index.html", nil)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestRenderParseError(t *testing.T) {
	fsys := fstest.MapFS{
		"index.html": {Data: []byte(`{{ if }}`)},
	}

	_, err := New(fsys).Render("index.html", nil)
	var renderErr *TemplateRenderError
	require.ErrorAs(t, err, &renderErr)
	assert.False(t, errors.Is(err, ErrTemplateNotFound))
}

func TestRenderExecuteError(t *testing.T) {
	fsys := fstest.MapFS{
		"index.html": {Data: []byte(`{{ .Missing.Field }}`)},
	}

	out, err := New(fsys).Render("index.html", struct{}{})
	assert.Nil(t, out)
	var renderErr *TemplateRenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Contains(t, renderErr.Error(), `"index.html"`)
}

func TestRenderCachesParsedTemplates(t *testing.T) {
	fsys := fstest.MapFS{
		"index.html": {Data: []byte("v1")},
	}
	r := New(fsys)

	out, err := r.Render("index.html", nil)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(out))

	fsys["index.html"] = &fstest.MapFile{Data: []byte("v2")}
	out, err = r.Render("index.html", nil)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(out))
}

func TestRenderReloadReparses(t *testing.T) {
	fsys := fstest.MapFS{
		"index.html": {Data: []byte("v1")},
	}
	r := New(fsys, WithReload(true))

	_, err := r.Render("index.html", nil)
	require.NoError(t, err)

	fsys["index.html"] = &fstest.MapFile{Data: []byte("v2")}
	out, err := r.Render("index.html", nil)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(out))
}
