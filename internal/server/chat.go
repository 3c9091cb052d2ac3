package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/petasbytes/simplemath/internal/orchestrator"
)

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) jsonChat(w http.ResponseWriter, req *http.Request) {
	if s.orchestrator == nil {
		failureResponse(w, http.StatusServiceUnavailable, "chat is not enabled")
		return
	}
	var body chatRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		failureResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := s.orchestrator.SendMessage(req.Context(), body.Message)
	var rerr *orchestrator.RoundError
	switch {
	case errors.Is(err, orchestrator.ErrEmptyInput):
		failureResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, orchestrator.ErrBusy):
		failureResponse(w, http.StatusConflict, err.Error())
	case errors.As(err, &rerr):
		respondWithJSON(http.StatusBadGateway, w, map[string]any{
			"success": false,
			"error":   rerr.Error(),
			"round":   rerr.Round,
			"run":     rerr.Run,
		})
	case err != nil:
		failureResponse(w, http.StatusInternalServerError, err.Error())
	default:
		respondWithJSON(http.StatusOK, w, map[string]any{
			"success": true,
			"result":  res,
		})
	}
}

func (s *Server) jsonStatus(w http.ResponseWriter, _ *http.Request) {
	if s.orchestrator == nil {
		failureResponse(w, http.StatusServiceUnavailable, "chat is not enabled")
		return
	}
	out := map[string]any{
		"status":  s.orchestrator.Status(),
		"lastRun": s.orchestrator.LastRun(),
		"error":   nil,
	}
	if err := s.orchestrator.LastError(); err != nil {
		out["error"] = err.Error()
	}
	respondWithJSON(http.StatusOK, w, out)
}

func (s *Server) jsonHealth(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(http.StatusOK, w, map[string]any{
		"status":     "ok",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"animations": s.animations.Registry.Len(),
		"configured": s.settings.Current().IsConfigured(),
	})
}
