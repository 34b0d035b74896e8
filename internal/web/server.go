// Package web serves the interactive translation demo over fasthttp.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/rutooro/translation-manager/internal/cache"
	"github.com/rutooro/translation-manager/internal/domain"
	"github.com/rutooro/translation-manager/internal/metrics"
)

// Default configuration
const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB
)

// Translator translates a batch of texts in one direction.
type Translator interface {
	Translate(ctx context.Context, dir domain.Direction, texts []string) ([]string, error)
}

// TranslateRequest is the body of POST /api/translate.
type TranslateRequest struct {
	Text      string `json:"text"`
	Direction string `json:"direction"`
}

// TranslateResponse is the successful reply of POST /api/translate.
type TranslateResponse struct {
	Translation string `json:"translation"`
	Direction   string `json:"direction"`
	Cached      bool   `json:"cached"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Options configures a Server.
type Options struct {
	RequestTimeout time.Duration
	// Cache is optional; nil disables caching.
	Cache  cache.Cache
	Logger *zap.Logger
}

// Server is the demo HTTP server.
type Server struct {
	translator Translator
	cache      cache.Cache
	log        *zap.Logger
	timeout    time.Duration
	metrics    fasthttp.RequestHandler
	srv        *fasthttp.Server
}

// New creates a Server backed by t.
func New(t Translator, opts Options) *Server {
	s := &Server{
		translator: t,
		cache:      opts.Cache,
		log:        opts.Logger,
		timeout:    opts.RequestTimeout,
		metrics:    metrics.Handler(),
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.timeout <= 0 {
		s.timeout = DefaultRequestTimeout
	}
	s.srv = &fasthttp.Server{
		Handler:            s.Handler,
		Name:               "ttj-demo",
		ReadTimeout:        s.timeout,
		WriteTimeout:       s.timeout,
		MaxRequestBodySize: DefaultMaxRequestSize,
		TCPKeepalive:       true,
	}
	return s
}

// ListenAndServe serves on addr until Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	s.log.Info("Server listening", zap.String("address", addr))
	return s.srv.ListenAndServe(addr)
}

// Serve serves connections from ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	return s.srv.Serve(ln)
}

// Shutdown stops accepting connections and waits for open ones to finish.
func (s *Server) Shutdown() error {
	return s.srv.Shutdown()
}

// Handler is the main request router.
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	path := string(ctx.Path())

	switch path {
	case "/":
		s.handleIndex(ctx)
	case "/healthz":
		s.handleHealth(ctx)
	case "/metrics":
		s.metrics(ctx)
	case "/api/translate":
		s.handleTranslate(ctx)
	default:
		path = "other"
		writeJSONError(ctx, fasthttp.StatusNotFound, "not found")
	}

	duration := time.Since(start)
	metrics.RecordHTTPRequest(string(ctx.Method()), path, ctx.Response.StatusCode(), duration)
	s.log.Debug("Request processed",
		zap.ByteString("method", ctx.Method()),
		zap.ByteString("path", ctx.Path()),
		zap.Int("status", ctx.Response.StatusCode()),
		zap.Duration("duration", duration),
	)
}

func (s *Server) handleIndex(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() && !ctx.IsHead() {
		writeJSONError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ctx.SetContentType("text/html; charset=utf-8")
	if err := renderIndex(ctx); err != nil {
		s.log.Error("Failed to render index", zap.Error(err))
		ctx.Error("internal error", fasthttp.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleTranslate(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeJSONError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req TranslateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeJSONError(ctx, fasthttp.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeJSONError(ctx, fasthttp.StatusBadRequest, "text is required")
		return
	}
	if req.Direction == "" {
		req.Direction = string(domain.EnglishToRutooro)
	}
	dir, err := domain.ParseDirection(req.Direction)
	if err != nil {
		writeJSONError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	c, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	translation, cached, err := s.translate(c, dir, text)
	if err != nil {
		status := fasthttp.StatusBadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			status = fasthttp.StatusGatewayTimeout
		}
		s.log.Error("Translation failed", zap.String("direction", string(dir)), zap.Error(err))
		writeJSONError(ctx, status, "translation failed")
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, TranslateResponse{
		Translation: translation,
		Direction:   string(dir),
		Cached:      cached,
	})
}

// translate consults the cache before calling the translator. Cache
// failures are logged and otherwise ignored.
func (s *Server) translate(ctx context.Context, dir domain.Direction, text string) (string, bool, error) {
	if s.cache != nil {
		hit, ok, err := s.cache.Get(ctx, dir, text)
		if err != nil {
			s.log.Warn("Cache lookup failed", zap.Error(err))
		}
		metrics.RecordCacheLookup(ok)
		if ok {
			metrics.RecordTranslation(string(dir), metrics.StatusCache)
			return hit, true, nil
		}
	}

	start := time.Now()
	out, err := s.translator.Translate(ctx, dir, []string{text})
	metrics.RecordTranslationDuration(string(dir), time.Since(start))
	if err == nil && len(out) != 1 {
		err = errors.New("translator returned no result")
	}
	if err != nil {
		metrics.RecordTranslation(string(dir), metrics.StatusError)
		return "", false, err
	}
	metrics.RecordTranslation(string(dir), metrics.StatusOK)

	if s.cache != nil {
		if err := s.cache.Set(ctx, dir, text, out[0]); err != nil {
			s.log.Warn("Cache store failed", zap.Error(err))
		}
	}
	return out[0], false, nil
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		ctx.Error("internal error", fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

func writeJSONError(ctx *fasthttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, ErrorResponse{Error: msg})
}
