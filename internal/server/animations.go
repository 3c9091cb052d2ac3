package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/petasbytes/simplemath/internal/animation"
	"github.com/petasbytes/simplemath/internal/metrics"
)

type createAnimationRequest struct {
	Code   *string `json:"code"`
	Title  string  `json:"title"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

func (s *Server) jsonCreateAnimation(w http.ResponseWriter, req *http.Request) {
	var body createAnimationRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Code == nil || *body.Code == "" {
		failureResponse(w, http.StatusBadRequest, "Code is required and must be a string")
		return
	}

	a, err := s.animations.Create(req.Context(), animation.Spec{
		Code:   *body.Code,
		Title:  body.Title,
		Width:  body.Width,
		Height: body.Height,
	})
	metrics.ObserveAnimation(err)
	if errors.Is(err, animation.ErrCodeRequired) {
		failureResponse(w, http.StatusBadRequest, "Code is required and must be a string")
		return
	}
	if err != nil {
		log.WithError(err).Error("error creating animation")
		failureResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(http.StatusOK, w, map[string]any{
		"success": true,
		"url":     a.URL,
		"id":      a.ID,
	})
}

func (s *Server) jsonGetAnimation(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	a, ok := s.animations.Registry.Get(id)
	if !ok {
		failureResponse(w, http.StatusNotFound, "Animation not found")
		return
	}
	respondWithJSON(http.StatusOK, w, map[string]any{
		"success":   true,
		"code":      a.Code,
		"title":     a.Title,
		"width":     a.Width,
		"height":    a.Height,
		"createdAt": a.CreatedAt,
	})
}

const notFoundPage = `<!DOCTYPE html>
<html>
<head><title>Animation Not Found</title></head>
<body>
  <h1>Animation Not Found</h1>
  <p>The requested animation could not be found.</p>
</body>
</html>
`

const errorPage = `<!DOCTYPE html>
<html>
<head><title>Server Error</title></head>
<body>
  <h1>Server Error</h1>
  <p>An error occurred while loading the animation.</p>
</body>
</html>
`

func (s *Server) htmlAnimation(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	html, err := s.animations.Page(id)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	switch {
	case errors.Is(err, animation.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(notFoundPage))
	case err != nil:
		log.WithError(err).WithField("animation", id).Error("error serving animation")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(errorPage))
	default:
		_, _ = w.Write([]byte(html))
	}
}
