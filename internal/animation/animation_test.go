package animation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/simplemath/internal/animation"
	"github.com/petasbytes/simplemath/internal/fsops"
)

const sketch = "function setup(){createCanvas(400,400);}\nfunction draw(){}"

func TestRenderHTML_InlinesCodeAndSize(t *testing.T) {
	html, err := animation.RenderHTML(animation.Spec{Code: sketch, Title: "<b>圆</b>", Width: 640})
	require.NoError(t, err)

	assert.Contains(t, html, sketch, "code is inlined unescaped")
	assert.Contains(t, html, "const DEFAULT_WIDTH = 640;")
	assert.Contains(t, html, "const DEFAULT_HEIGHT = 400;")
	assert.Contains(t, html, "<title>&lt;b&gt;圆&lt;/b&gt;</title>")
	for _, id := range []string{"playPauseBtn", "resetBtn", "recordBtn", "downloadBtn"} {
		assert.Contains(t, html, `id="`+id+`"`)
	}
}

func TestRegistry_AddGetList(t *testing.T) {
	r := animation.NewRegistry()
	_, _, err := r.Add(animation.Spec{Code: "  "})
	assert.ErrorIs(t, err, animation.ErrCodeRequired)

	a, html, err := r.Add(animation.Spec{Code: sketch, Title: "t"})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, animation.DefaultWidth, a.Width)
	assert.Equal(t, animation.DefaultHeight, a.Height)

	got, ok := r.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, sketch, got.Code)
	page, ok := r.HTML(a.ID)
	require.True(t, ok)
	assert.Equal(t, html, page)
	assert.Equal(t, 1, r.Len())
	assert.Len(t, r.List(), 1)

	_, ok = r.Get("missing")
	assert.False(t, ok)

	r.Remove(a.ID)
	_, ok = r.HTML(a.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestLocalCreator_WritesPageAndReloads(t *testing.T) {
	sb, err := fsops.New(t.TempDir())
	require.NoError(t, err)
	c := &animation.LocalCreator{Registry: animation.NewRegistry(), Sandbox: sb}

	a, err := c.Create(context.Background(), animation.Spec{Code: sketch})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(a.URL, "file://"), a.URL)

	b, err := os.ReadFile(filepath.Join(sb.Root(), a.ID+".html"))
	require.NoError(t, err)
	assert.Contains(t, string(b), sketch)

	// A fresh registry still finds the page on disk
	fresh := &animation.LocalCreator{Registry: animation.NewRegistry(), Sandbox: sb}
	page, err := fresh.Page(a.ID)
	require.NoError(t, err)
	assert.Contains(t, page, sketch)

	_, err = fresh.Page("../etc/passwd")
	assert.ErrorIs(t, err, animation.ErrNotFound)

	ids, err := fresh.Saved()
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, ids)
}

func TestLocalCreator_WriteFailureLeavesNothingRegistered(t *testing.T) {
	root := filepath.Join(t.TempDir(), "pages")
	sb, err := fsops.New(root)
	require.NoError(t, err)
	// Replace the sandbox directory with a plain file so page writes fail.
	require.NoError(t, os.RemoveAll(root))
	require.NoError(t, os.WriteFile(root, []byte("x"), 0o644))

	c := &animation.LocalCreator{Registry: animation.NewRegistry(), Sandbox: sb}
	_, err = c.Create(context.Background(), animation.Spec{Code: sketch})
	require.Error(t, err)
	assert.Equal(t, 0, c.Registry.Len())
	assert.Empty(t, c.Registry.List())
}

func TestLocalCreator_ServerURL(t *testing.T) {
	c := &animation.LocalCreator{Registry: animation.NewRegistry(), BaseURL: "http://localhost:3001/"}
	a, err := c.Create(context.Background(), animation.Spec{Code: sketch})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3001/animation/"+a.ID, a.URL)
	stored, _ := c.Registry.Get(a.ID)
	assert.Equal(t, a.URL, stored.URL)
}

func TestHTTPCreator(t *testing.T) {
	var got animation.Spec
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/p5/create", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"success":true,"id":"abc","url":"http://x/animation/abc"}`))
	}))
	defer srv.Close()

	c := &animation.HTTPCreator{BaseURL: srv.URL}
	a, err := c.Create(context.Background(), animation.Spec{Code: sketch, Title: "AI生成的数学动画"})
	require.NoError(t, err)
	assert.Equal(t, "abc", a.ID)
	assert.Equal(t, "http://x/animation/abc", a.URL)
	assert.Equal(t, 400, got.Width)
	assert.Equal(t, "AI生成的数学动画", got.Title)
}

func TestHTTPCreator_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"error":"Code is required and must be a string"}`))
	}))
	defer srv.Close()

	c := &animation.HTTPCreator{BaseURL: srv.URL}
	_, err := c.Create(context.Background(), animation.Spec{Code: sketch})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Code is required")
}

func TestExamples(t *testing.T) {
	assert.Equal(t, []string{"basic", "fractal", "sine"}, animation.ExampleNames())
	assert.Contains(t, animation.Example("fractal"), "function branch")
	assert.Equal(t, animation.Example("basic"), animation.Example("unknown"))
}
