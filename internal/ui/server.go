// Package ui provides the browser-based page builder for Pagecraft.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/pagecraft/internal/loader"
	"github.com/leapstack-labs/pagecraft/internal/publish"
	"github.com/leapstack-labs/pagecraft/internal/ui/notifier"
	"github.com/leapstack-labs/pagecraft/internal/ui/router"
	"github.com/leapstack-labs/pagecraft/internal/workspace"
)

const debounce = 100 * time.Millisecond

// Server is the main UI server.
type Server struct {
	manager      *workspace.Manager
	renderer     publish.Renderer
	sessionStore *sessions.CookieStore
	port         int
	watch        bool
	dev          bool
	pagesDir     string
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Manager       *workspace.Manager
	Renderer      publish.Renderer
	Port          int
	Watch         bool
	Dev           bool
	PagesDir      string
	SessionSecret string
	Logger        *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		manager:      cfg.Manager,
		renderer:     cfg.Renderer,
		sessionStore: sessionStore,
		port:         cfg.Port,
		watch:        cfg.Watch && cfg.PagesDir != "",
		dev:          cfg.Dev,
		pagesDir:     cfg.PagesDir,
		logger:       logger,
		notifier:     notifier.New(),
	}
}

// Handler builds the router without starting a listener.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Recoverer,
		middleware.Compress(5),
	)
	if s.dev {
		r.Use(middleware.Logger)
	}

	if err := router.SetupRoutes(r, router.Deps{
		Manager:      s.manager,
		Renderer:     s.renderer,
		SessionStore: s.sessionStore,
		Notifier:     s.notifier,
		Logger:       s.logger,
	}, s.dev); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting page builder", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down page builder...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the notifier behind the page index stream.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchFiles feeds edits made to page files outside the builder into the
// open workspaces and refreshes the page index.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.pagesDir); err != nil {
		s.logger.Error("failed to watch pages directory", "dir", s.pagesDir, "error", err)
		// keep serving without live reloads
		<-ctx.Done()
		return nil
	}

	var (
		mu     sync.Mutex
		timers = make(map[string]*time.Timer)
	)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !loader.IsPageFile(event.Name) {
				continue
			}

			path, op := event.Name, event.Op
			mu.Lock()
			if t, ok := timers[path]; ok {
				t.Stop()
			}
			timers[path] = time.AfterFunc(debounce, func() {
				mu.Lock()
				delete(timers, path)
				mu.Unlock()
				s.fileChanged(ctx, path, op)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

func (s *Server) fileChanged(ctx context.Context, path string, op fsnotify.Op) {
	s.logger.Debug("page file changed", "file", path, "op", op.String())
	if op&(fsnotify.Write|fsnotify.Create) != 0 {
		if err := s.manager.FileChanged(ctx, path); err != nil {
			s.logger.Warn("failed to reload page file", "file", path, "error", err)
		}
	}
	s.notifier.Broadcast()
}
