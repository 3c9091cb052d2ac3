package animation

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/petasbytes/simplemath/internal/fsops"
)

// LocalCreator renders animations in process. Pages are kept in the registry
// and, when a sandbox is set, written to <id>.html under it.
type LocalCreator struct {
	Registry *Registry
	Sandbox  *fsops.Sandbox
	// BaseURL of a server exposing /animation/{id}. When empty the URL points
	// at the written file instead.
	BaseURL string
}

func (c *LocalCreator) Create(_ context.Context, spec Spec) (Animation, error) {
	a, html, err := c.Registry.Add(spec)
	if err != nil {
		return Animation{}, err
	}
	if c.Sandbox != nil {
		if err := c.Sandbox.WriteFile(a.ID+".html", html); err != nil {
			c.Registry.Remove(a.ID)
			return Animation{}, fmt.Errorf("write animation page: %w", err)
		}
	}
	a.URL = c.urlFor(a.ID)
	c.Registry.SetURL(a.ID, a.URL)
	log.WithFields(log.Fields{"animation": a.ID, "url": a.URL}).Debug("animation created")
	return a, nil
}

func (c *LocalCreator) urlFor(id string) string {
	switch {
	case c.BaseURL != "":
		return strings.TrimSuffix(c.BaseURL, "/") + "/animation/" + id
	case c.Sandbox != nil:
		u := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(c.Sandbox.Root(), id+".html"))}
		return u.String()
	default:
		return ""
	}
}

// Page returns the rendered page of id from memory, falling back to the sandbox.
func (c *LocalCreator) Page(id string) (string, error) {
	if html, ok := c.Registry.HTML(id); ok {
		return html, nil
	}
	if c.Sandbox == nil {
		return "", ErrNotFound
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrNotFound
	}
	html, err := c.Sandbox.ReadFile(id + ".html")
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	return html, err
}

// Saved returns the ids of pages written to the sandbox.
func (c *LocalCreator) Saved() ([]string, error) {
	if c.Sandbox == nil {
		return nil, nil
	}
	names, err := c.Sandbox.ListFiles("")
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, n := range names {
		if id, ok := strings.CutSuffix(n, ".html"); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
