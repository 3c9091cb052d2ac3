package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/petasbytes/simplemath/internal/provider"
	"github.com/petasbytes/simplemath/internal/settings"
)

const proxyUserAgent = "SimpleMath/1.0"

// completionsProxy forwards chat completion requests to the configured
// endpoint. A caller bearer token wins; otherwise the configured key is used.
// Requests without a model get the configured one.
type completionsProxy struct {
	settings settings.Source
	proxy    *httputil.ReverseProxy
}

type upstreamKey struct{}

func newCompletionsProxy(src settings.Source, transport http.RoundTripper) *completionsProxy {
	p := &completionsProxy{settings: src}
	p.proxy = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			target := pr.In.Context().Value(upstreamKey{}).(*url.URL)
			pr.Out.URL.Scheme = target.Scheme
			pr.Out.URL.Host = target.Host
			pr.Out.URL.Path = target.Path
			pr.Out.URL.RawPath = ""
			pr.Out.Host = target.Host
			pr.Out.Header.Set("Content-Type", "application/json")
			pr.Out.Header.Set("User-Agent", proxyUserAgent)
		},
		Transport: transport,
		ModifyResponse: func(resp *http.Response) error {
			log.WithFields(log.Fields{
				"status": resp.StatusCode,
				"url":    resp.Request.URL.String(),
			}).Info("chat completions proxied")
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, req *http.Request, err error) {
			log.WithError(err).Error("chat completions proxy error")
			respondWithJSON(http.StatusInternalServerError, w, map[string]any{
				"error": map[string]string{
					"message": "Internal server error while calling the completion API",
					"type":    "api_error",
				},
			})
		},
	}
	return p
}

func (p *completionsProxy) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s := p.settings.Current()

	auth := req.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		if !settings.ValidateAPIKey(s.APIKey) {
			respondWithJSON(http.StatusUnauthorized, w, map[string]any{
				"error": map[string]string{
					"message": "Missing or invalid Authorization header and no API key configured",
					"type":    "invalid_request_error",
				},
			})
			return
		}
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	target, err := url.Parse(provider.NormalizeBaseURL(s.BaseURL) + "/chat/completions")
	if err != nil {
		failureResponse(w, http.StatusInternalServerError, "invalid upstream base url")
		return
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		failureResponse(w, http.StatusBadRequest, "could not read request body")
		return
	}
	model := gjson.GetBytes(body, "model").String()
	if model == "" && s.Model != "" {
		if patched, err := sjson.SetBytes(body, "model", s.Model); err == nil {
			body, model = patched, s.Model
		}
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.ContentLength = int64(len(body))
	log.WithFields(log.Fields{"model": model, "upstream": target.String()}).Debug("proxying chat completions")

	ctx := context.WithValue(req.Context(), upstreamKey{}, target)
	p.proxy.ServeHTTP(w, req.WithContext(ctx))
}
