package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	mdpreview "github.com/alnah/go-mdpreview"
	"github.com/alnah/go-mdpreview/internal/config"
	"github.com/alnah/go-mdpreview/internal/hints"
)

// Server defaults applied when neither flags, env nor config set a value.
const (
	defaultAddr            = ":8080"
	defaultRequestTimeout  = 10 * time.Second
	defaultShutdownTimeout = 5 * time.Second
	readHeaderTimeout      = 5 * time.Second
)

// maxJSONOverhead bounds the request body beyond the markdown itself.
// JSON escaping can grow each input byte to six (\u00XX).
const (
	jsonEscapeFactor = 6
	maxJSONOverhead  = 4 << 10
)

// serverSettings holds the resolved serve configuration.
type serverSettings struct {
	addr            string
	styleCSS        string
	requestTimeout  time.Duration
	shutdownTimeout time.Duration
}

// previewRequest is the body of POST /api/preview.
type previewRequest struct {
	Markdown string `json:"markdown"`
}

// previewResponse is the success body of POST /api/preview.
type previewResponse struct {
	HTML string `json:"html"`
}

// errorResponse is the body of every API error.
type errorResponse struct {
	Error string `json:"error"`
}

// runServe starts the preview HTTP server and blocks until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	mergePreviewFlags(&flags.preview, cfg)
	mergeServeFlags(flags, cfg)

	logger := newLogger(env.Stderr, flags.common.verbose)
	previewer, err := newPreviewer(cfg, logger)
	if err != nil {
		return err
	}

	settings := resolveServerSettings(cfg)
	if settings.styleCSS, err = resolveStyleCSS(cfg.Output.Style); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", settings.addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("listening on %s: %w%s", settings.addr, err, hints.ForAddressInUse(settings.addr))
		}
		return fmt.Errorf("listening on %s: %w", settings.addr, err)
	}

	srv := &http.Server{
		Handler:           newRouter(previewer, logger, settings),
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	if !flags.common.quiet {
		logger.Info("serving previews", "addr", ln.Addr().String(), "version", Version)
	}

	return serve(ctx, srv, ln, settings.shutdownTimeout)
}

// serve runs srv on ln until ctx is canceled or the server fails, then shuts
// it down, waiting up to shutdownTimeout for in-flight requests.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// mergeServeFlags merges server flags into config. CLI values override config values.
func mergeServeFlags(f *serveFlags, cfg *config.Config) {
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.style != "" {
		cfg.Output.Style = f.style
	}
	if f.requestTimeout != 0 {
		cfg.Server.RequestTimeout = f.requestTimeout
	}
	if f.shutdownTimeout != 0 {
		cfg.Server.ShutdownTimeout = f.shutdownTimeout
	}
}

// resolveServerSettings fills unset server values with defaults.
func resolveServerSettings(cfg *config.Config) serverSettings {
	s := serverSettings{
		addr:            cfg.Server.Addr,
		requestTimeout:  cfg.Server.RequestTimeout,
		shutdownTimeout: cfg.Server.ShutdownTimeout,
	}
	if s.addr == "" {
		s.addr = defaultAddr
	}
	if s.requestTimeout == 0 {
		s.requestTimeout = defaultRequestTimeout
	}
	if s.shutdownTimeout == 0 {
		s.shutdownTimeout = defaultShutdownTimeout
	}
	return s
}

// newRouter wires the API routes and middleware.
func newRouter(r Renderer, logger *slog.Logger, settings serverSettings) chi.Router {
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(requestLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.Timeout(settings.requestTimeout))

	mux.Get("/healthz", handleHealth)
	mux.Get("/api/theme.css", serveCSS(mdpreview.ThemeCSS()))
	mux.Get("/api/style.css", serveCSS(settings.styleCSS))
	mux.Post("/api/preview", handlePreview(r, logger))

	return mux
}

// requestLogger logs one structured line per request.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.LogAttrs(r.Context(), slog.LevelInfo, "request",
					slog.String("id", middleware.GetReqID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Int("status", ww.Status()),
					slog.Int("bytes", ww.BytesWritten()),
					slog.Duration("duration", time.Since(start)),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// serveCSS serves a fixed stylesheet.
func serveCSS(css string) http.HandlerFunc {
	body := []byte(css)
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(body)
	}
}

// handlePreview renders the markdown of a JSON request.
// 400 for a malformed body, 413 for oversized input, 422 when rendering fails.
func handlePreview(r Renderer, logger *slog.Logger) http.HandlerFunc {
	bodyLimit := int64(r.MaxInputSize())*jsonEscapeFactor + maxJSONOverhead

	return func(w http.ResponseWriter, req *http.Request) {
		req.Body = http.MaxBytesReader(w, req.Body, bodyLimit)

		var in previewRequest
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		html, err := r.Preview(req.Context(), in.Markdown)
		switch {
		case err != nil && req.Context().Err() != nil:
			// Timeout answers 504 on deadline; a gone client needs no answer.
			logger.Debug("preview abandoned", "id", middleware.GetReqID(req.Context()), "err", req.Context().Err())
		case errors.Is(err, mdpreview.ErrInputTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		case err != nil:
			logger.Warn("preview failed", "id", middleware.GetReqID(req.Context()), "err", err)
			writeError(w, http.StatusUnprocessableEntity, mdpreview.ErrPreviewFailed.Error())
		default:
			writeJSON(w, http.StatusOK, previewResponse{HTML: html})
		}
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
